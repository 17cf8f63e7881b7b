package checkout

import (
	"regexp"
	"strings"

	"potosi-be/internal/order"
	"potosi-be/internal/user"
)

// FormState is the checkout form as the buyer filled it in.
type FormState struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zipCode"`
	Country       string `json:"country"`
	PaymentMethod string `json:"paymentMethod"`
}

type ValidationResult struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
}

type Lang string

const (
	LangES Lang = "es"
	LangEN Lang = "en"
)

// LangFromHeader picks the message language from an Accept-Language value.
// Spanish unless English is preferred.
func LangFromHeader(acceptLanguage string) Lang {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		tag = strings.ToLower(tag)
		switch {
		case strings.HasPrefix(tag, "es"):
			return LangES
		case strings.HasPrefix(tag, "en"):
			return LangEN
		}
	}
	return LangES
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type fieldRule struct {
	field    string
	value    func(FormState) string
	valid    func(string) bool
	messages map[Lang]string
}

func notBlank(v string) bool { return strings.TrimSpace(v) != "" }

// formRules is checked top to bottom on every submit.
var formRules = []fieldRule{
	{"name", func(f FormState) string { return f.Name }, notBlank,
		map[Lang]string{LangES: "El nombre es obligatorio", LangEN: "Name is required"}},
	{"email", func(f FormState) string { return f.Email }, emailPattern.MatchString,
		map[Lang]string{LangES: "Ingresa un correo electrónico válido", LangEN: "Enter a valid email address"}},
	{"address", func(f FormState) string { return f.Address }, notBlank,
		map[Lang]string{LangES: "La dirección es obligatoria", LangEN: "Address is required"}},
	{"city", func(f FormState) string { return f.City }, notBlank,
		map[Lang]string{LangES: "La ciudad es obligatoria", LangEN: "City is required"}},
	{"state", func(f FormState) string { return f.State }, notBlank,
		map[Lang]string{LangES: "El estado es obligatorio", LangEN: "State is required"}},
	{"zipCode", func(f FormState) string { return f.ZipCode }, notBlank,
		map[Lang]string{LangES: "El código postal es obligatorio", LangEN: "ZIP code is required"}},
	{"country", func(f FormState) string { return f.Country }, notBlank,
		map[Lang]string{LangES: "El país es obligatorio", LangEN: "Country is required"}},
	{"paymentMethod", func(f FormState) string { return f.PaymentMethod },
		func(v string) bool { return order.PaymentMethod(v).IsValid() },
		map[Lang]string{LangES: "Selecciona un método de pago válido", LangEN: "Select a valid payment method"}},
}

// Validate runs every rule with Spanish messages.
func Validate(f FormState) ValidationResult {
	return ValidateLang(f, LangES)
}

func ValidateLang(f FormState, lang Lang) ValidationResult {
	errs := make(map[string]string)
	for _, rule := range formRules {
		if !rule.valid(rule.value(f)) {
			errs[rule.field] = message(rule.messages, lang)
		}
	}
	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

func message(m map[Lang]string, lang Lang) string {
	if msg, ok := m[lang]; ok {
		return msg
	}
	return m[LangES]
}

// ShippingAddress flattens the address fields into the single string stored
// on the order.
func (f FormState) ShippingAddress() string {
	parts := []string{
		strings.TrimSpace(f.Address),
		strings.TrimSpace(f.City),
		strings.TrimSpace(strings.TrimSpace(f.State) + " " + strings.TrimSpace(f.ZipCode)),
		strings.TrimSpace(f.Country),
	}
	return strings.Join(parts, ", ")
}

// Prefill builds the initial form from a stored profile. Card is preselected.
func Prefill(p *user.CheckoutProfile) FormState {
	f := FormState{PaymentMethod: string(order.PaymentMethodCard)}
	if p == nil {
		return f
	}
	f.Name = p.FullName
	f.Email = p.Email
	f.Address = p.Address
	f.City = p.City
	f.State = p.State
	f.ZipCode = p.ZipCode
	f.Country = p.Country
	return f
}

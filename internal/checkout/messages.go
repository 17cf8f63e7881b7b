package checkout

var messages = struct {
	reviewFields  map[Lang]string
	cartEmpty     map[Lang]string
	orderFailed   map[Lang]string
	paymentFailed map[Lang]string
}{
	reviewFields: map[Lang]string{
		LangES: "Revisa los campos marcados",
		LangEN: "Please review the highlighted fields",
	},
	cartEmpty: map[Lang]string{
		LangES: "Tu carrito está vacío",
		LangEN: "Your cart is empty",
	},
	orderFailed: map[Lang]string{
		LangES: "No pudimos procesar tu pedido. Inténtalo de nuevo.",
		LangEN: "We couldn't process your order. Please try again.",
	},
	paymentFailed: map[Lang]string{
		LangES: "Hubo un problema al iniciar el pago. Inténtalo de nuevo.",
		LangEN: "There was a problem starting your payment. Please try again.",
	},
}

package user

import (
	"context"
	"database/sql"
	"errors"

	"potosi-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetCheckoutProfile(ctx context.Context, userID string) (*CheckoutProfile, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetCheckoutProfile(ctx context.Context, userID string) (*CheckoutProfile, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetCheckoutProfile"),
		zap.String("user_id", userID),
	)

	var (
		p                                        = CheckoutProfile{UserID: userID}
		name, address, city, state, zip, country sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT full_name, email, address, city, state, zip_code, country
		FROM users WHERE id = $1
	`, userID).Scan(&name, &p.Email, &address, &city, &state, &zip, &country)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error("failed to scan user", zap.Error(err))
		return nil, err
	}

	p.FullName = name.String
	p.Address = address.String
	p.City = city.String
	p.State = state.String
	p.ZipCode = zip.String
	p.Country = country.String

	return &p, nil
}

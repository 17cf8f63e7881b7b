package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"potosi-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Listing, error)
	List(ctx context.Context, filter Filter) ([]*Listing, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const listingColumns = `
	l.id, l.business_id, l.name, l.description, l.category, l.type, l.city,
	l.price, l.shipping_fee, l.image_url, l.status, l.created_at, l.updated_at`

// likeEscaper makes search input match literally; backslash is the
// default LIKE escape character in Postgres.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type scanner interface {
	Scan(dest ...any) error
}

func scanListing(s scanner) (*Listing, error) {
	var l Listing
	err := s.Scan(
		&l.ID, &l.BusinessID, &l.Name, &l.Description, &l.Category, &l.Type, &l.City,
		&l.Price, &l.ShippingFee, &l.ImageURL, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Listing, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetByID"),
		zap.String("listing_id", id),
	)

	// ids are UUIDs; a malformed one would fail the query with 22P02
	if _, err := uuid.Parse(id); err != nil || len(id) != 36 {
		log.Info("malformed listing id")
		return nil, ErrListingNotFound
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT`+listingColumns+` FROM business_listings l WHERE l.id = $1`, id)

	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("listing not found")
		return nil, ErrListingNotFound
	}
	if err != nil {
		log.Error("failed to scan listing", zap.Error(err))
		return nil, err
	}

	return l, nil
}

func (r *repository) List(ctx context.Context, filter Filter) ([]*Listing, error) {
	query := `SELECT` + listingColumns + ` FROM business_listings l WHERE l.status = 'active'`

	args := []any{}
	argIndex := 1

	if filter.Search != nil && *filter.Search != "" {
		query += fmt.Sprintf(" AND (l.name ILIKE $%d OR l.description ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+likeEscaper.Replace(*filter.Search)+"%")
		argIndex++
	}

	if filter.Category != nil && *filter.Category != "" {
		query += fmt.Sprintf(" AND l.category = $%d", argIndex)
		args = append(args, *filter.Category)
		argIndex++
	}

	if filter.Type != nil && *filter.Type != "" {
		query += fmt.Sprintf(" AND l.type = $%d", argIndex)
		args = append(args, string(*filter.Type))
		argIndex++
	}

	if filter.City != nil && *filter.City != "" {
		query += fmt.Sprintf(" AND l.city = $%d", argIndex)
		args = append(args, *filter.City)
		argIndex++
	}

	// int64 so a huge page cannot wrap into a negative OFFSET
	offset := (int64(filter.Page) - 1) * int64(filter.Limit)
	query += fmt.Sprintf(" ORDER BY l.created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, offset)

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
	)
	log.Debug("executing list listings query", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query listings", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	listings := make([]*Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			log.Error("failed to scan listing row", zap.Error(err))
			return nil, err
		}
		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration error", zap.Error(err))
		return nil, err
	}

	return listings, nil
}

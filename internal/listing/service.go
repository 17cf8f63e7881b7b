package listing

import (
	"context"
	"time"

	"potosi-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Get(ctx context.Context, id string) (*Listing, error)
	Search(ctx context.Context, filter Filter) ([]*Listing, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, id string) (*Listing, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Search(ctx context.Context, filter Filter) ([]*Listing, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Search"),
	)

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	} else if filter.Limit > 100 {
		filter.Limit = 100
	}

	start := time.Now()
	listings, err := s.repo.List(ctx, filter)
	if err != nil {
		log.Error("failed to search listings", zap.Error(err))
		return nil, err
	}

	log.Info("search listings success",
		zap.Int("count", len(listings)),
		zap.Int32("page", filter.Page),
		zap.Int32("limit", filter.Limit),
		zap.Duration("duration", time.Since(start)),
	)

	return listings, nil
}

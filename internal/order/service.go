package order

import (
	"context"
	"errors"

	"potosi-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	GetOrder(ctx context.Context, orderID string, requester Requester) (*Order, error)
	MarkPaid(ctx context.Context, orderID string) (*Order, error)
	MarkCanceled(ctx context.Context, orderID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// GetOrder returns the order only to the user or cart session that placed it.
func (s *service) GetOrder(ctx context.Context, orderID string, requester Requester) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !o.OwnedBy(requester) {
		logger.FromCtx(ctx).Warn("order access denied", zap.String("order_id", orderID))
		return nil, ErrUnauthorized
	}

	return o, nil
}

func (s *service) MarkPaid(ctx context.Context, orderID string) (*Order, error) {
	log := logger.FromCtx(ctx).With(zap.String("order_id", orderID))

	o, err := s.repo.MarkPaid(ctx, orderID)
	if errors.Is(err, ErrOrderNotPending) {
		log.Info("order already finalized, skipping")
		return nil, err
	}
	if err != nil {
		log.Error("failed to mark order paid", zap.Error(err))
		return nil, err
	}

	log.Info("order marked as paid")
	return o, nil
}

func (s *service) MarkCanceled(ctx context.Context, orderID string) error {
	log := logger.FromCtx(ctx).With(zap.String("order_id", orderID))

	err := s.repo.MarkCanceled(ctx, orderID)
	if errors.Is(err, ErrOrderNotPending) {
		log.Info("order already finalized, skipping")
		return err
	}
	if err != nil {
		log.Error("failed to cancel order", zap.Error(err))
		return err
	}

	log.Info("order canceled")
	return nil
}

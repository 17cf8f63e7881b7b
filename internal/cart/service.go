package cart

import (
	"context"
	"errors"
	"fmt"

	"potosi-be/internal/listing"
	"potosi-be/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ListingReader is the part of the listing repository the cart needs.
type ListingReader interface {
	GetByID(ctx context.Context, id string) (*listing.Listing, error)
}

// Service defines cart operations for a cart session.
type Service interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	Add(ctx context.Context, sessionID, listingID string, quantity int) (*Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*Cart, error)
	Remove(ctx context.Context, sessionID, itemID string) (*Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	store    Store
	listings ListingReader
	sfg      singleflight.Group
}

func NewService(store Store, listings ListingReader) Service {
	return &service{store: store, listings: listings}
}

// Get returns the session's cart, or an empty one if none was stored yet.
func (s *service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}

	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		c, err := s.store.Get(ctx, sessionID)
		if errors.Is(err, ErrCartNotFound) {
			return New(sessionID), nil
		}
		if err != nil {
			logger.FromCtx(ctx).Error("cart store get failed", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrFailedLoadCart, err)
		}
		return c, nil
	})
	if err != nil {
		return nil, err
	}

	// singleflight shares the pointer between callers
	shared := v.(*Cart)
	c := *shared
	c.Items = append([]Item(nil), shared.Items...)
	return &c, nil
}

// Add snapshots the listing's current name, price and shipping fee into the cart.
func (s *service) Add(ctx context.Context, sessionID, listingID string, quantity int) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Add"),
		zap.String("listing_id", listingID),
		zap.Int("quantity", quantity),
	)

	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	l, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !l.IsPurchasable() {
		log.Warn("listing not purchasable", zap.String("status", string(l.Status)))
		return nil, listing.ErrListingUnavailable
	}

	item := Item{
		ID:        l.ID,
		Name:      l.Name,
		UnitPrice: l.Price,
		Quantity:  quantity,
		Type:      ItemType(l.Type),
	}
	if l.ShippingFee.Valid {
		fee := l.ShippingFee.Decimal
		item.ShippingFee = &fee
	}

	c, err := s.update(ctx, sessionID, func(c *Cart) error {
		c.AddItem(item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("item added to cart", zap.Int("lines", len(c.Items)))
	return c, nil
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*Cart, error) {
	return s.update(ctx, sessionID, func(c *Cart) error {
		if _, ok := c.Find(itemID); !ok {
			return ErrCartItemNotFound
		}
		c.UpdateQuantity(itemID, quantity)
		return nil
	})
}

func (s *service) Remove(ctx context.Context, sessionID, itemID string) (*Cart, error) {
	return s.update(ctx, sessionID, func(c *Cart) error {
		if _, ok := c.Find(itemID); !ok {
			return ErrCartItemNotFound
		}
		c.RemoveItem(itemID)
		return nil
	})
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrMissingSessionID
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		logger.FromCtx(ctx).Error("cart store delete failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrFailedClearCart, err)
	}
	return nil
}

// update goes straight to the store so each writer sees the latest cart;
// the singleflight snapshot in Get is for reads only.
func (s *service) update(ctx context.Context, sessionID string, fn func(*Cart) error) (*Cart, error) {
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}
	c, err := s.store.Update(ctx, sessionID, fn)
	if errors.Is(err, ErrCartItemNotFound) {
		return nil, err
	}
	if err != nil {
		logger.FromCtx(ctx).Error("cart store update failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrFailedSaveCart, err)
	}
	return c, nil
}

package httpapi

import (
	"context"

	"potosi-be/internal/cart"
	"potosi-be/internal/checkout"
	"potosi-be/internal/listing"
	"potosi-be/internal/order"
	"potosi-be/internal/payment"

	"github.com/stretchr/testify/mock"
)

type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) Get(ctx context.Context, id string) (*listing.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingService) Search(ctx context.Context, filter listing.Filter) ([]*listing.Listing, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*listing.Listing), args.Error(1)
}

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) cart(args mock.Arguments) (*cart.Cart, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartService) Get(ctx context.Context, sessionID string) (*cart.Cart, error) {
	return m.cart(m.Called(ctx, sessionID))
}

func (m *MockCartService) Add(ctx context.Context, sessionID, listingID string, quantity int) (*cart.Cart, error) {
	return m.cart(m.Called(ctx, sessionID, listingID, quantity))
}

func (m *MockCartService) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*cart.Cart, error) {
	return m.cart(m.Called(ctx, sessionID, itemID, quantity))
}

func (m *MockCartService) Remove(ctx context.Context, sessionID, itemID string) (*cart.Cart, error) {
	return m.cart(m.Called(ctx, sessionID, itemID))
}

func (m *MockCartService) Clear(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Submit(ctx context.Context, in checkout.SubmitInput) (*checkout.Attempt, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Attempt), args.Error(1)
}

func (m *MockCheckoutService) Prefill(ctx context.Context, userID *string) checkout.FormState {
	return m.Called(ctx, userID).Get(0).(checkout.FormState)
}

func (m *MockCheckoutService) Confirmation(ctx context.Context, sessionID string) (*checkout.Confirmation, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Confirmation), args.Error(1)
}

type MockSessionCreator struct {
	mock.Mock
}

func (m *MockSessionCreator) CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Session), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID string, requester order.Requester) (*order.Order, error) {
	args := m.Called(ctx, orderID, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) MarkPaid(ctx context.Context, orderID string) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) MarkCanceled(ctx context.Context, orderID string) error {
	return m.Called(ctx, orderID).Error(0)
}

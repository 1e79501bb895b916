package services

import (
	"context"

	"github.com/shashiranjanraj/unistore/app/models"
)

// Domain events fired on the event bus.
const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
	EventCartMutated        = "cart.mutated"
)

// OrderPlaced is the payload of EventOrderPlaced.
type OrderPlaced struct {
	Order models.Order
}

// OrderStatusChanged is the payload of EventOrderStatusChanged. From holds
// the status pair before the change.
type OrderStatusChanged struct {
	Order models.Order
	From  models.StatusChange
	By    string
}

// CartMutated is the payload of EventCartMutated.
type CartMutated struct {
	User string
	Op   string
	Cart models.Cart
}

// Publisher is the part of *event.Bus the services use.
type Publisher interface {
	FireAsync(ctx context.Context, name string, payload any)
}

type discard struct{}

func (discard) FireAsync(context.Context, string, any) {}

func publisherOrDiscard(p Publisher) Publisher {
	if p == nil {
		return discard{}
	}
	return p
}

// Package workflow decides whether an order may move from one status pair
// to another.
//
// Two policies exist. Permissive accepts every write, matching how the
// storefront has always behaved. Strict enforces a transition table for
// both the fulfilment and the payment status. The policy in force is
// chosen with ORDER_STATUS_POLICY.
package workflow

import (
	"github.com/shashiranjanraj/unistore/app/models"
	"github.com/shashiranjanraj/unistore/pkg/apperr"
)

// Policy validates a requested status write. A target equal to the
// current value is never rejected.
type Policy interface {
	Name() string
	CheckOrder(from, to models.OrderStatus) error
	CheckPayment(from, to models.PaymentStatus) error
}

// ForName returns the strict policy for "strict" and the permissive one
// for anything else.
func ForName(name string) Policy {
	if name == "strict" {
		return Strict{}
	}
	return Permissive{}
}

// Permissive allows any status pair to follow any other.
type Permissive struct{}

func (Permissive) Name() string                                 { return "permissive" }
func (Permissive) CheckOrder(_, _ models.OrderStatus) error     { return nil }
func (Permissive) CheckPayment(_, _ models.PaymentStatus) error { return nil }

// Strict allows only the edges in orderEdges and paymentEdges.
type Strict struct{}

var orderEdges = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:    {models.OrderConfirmed, models.OrderCancelled},
	models.OrderConfirmed:  {models.OrderProcessing, models.OrderCancelled},
	models.OrderProcessing: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:    {models.OrderDelivered},
}

var paymentEdges = map[models.PaymentStatus][]models.PaymentStatus{
	models.PaymentPending: {models.PaymentPaid, models.PaymentFailed},
	models.PaymentFailed:  {models.PaymentPending, models.PaymentPaid},
	models.PaymentPaid:    {models.PaymentRefunded},
}

func (Strict) Name() string { return "strict" }

func (Strict) CheckOrder(from, to models.OrderStatus) error {
	if from == to {
		return nil
	}
	for _, next := range orderEdges[from] {
		if next == to {
			return nil
		}
	}
	return apperr.Conflict("order status cannot change from %s to %s", from, to)
}

func (Strict) CheckPayment(from, to models.PaymentStatus) error {
	if from == to {
		return nil
	}
	for _, next := range paymentEdges[from] {
		if next == to {
			return nil
		}
	}
	return apperr.Conflict("payment status cannot change from %s to %s", from, to)
}

// Cancellable reports whether the owner of an order may still cancel it.
func Cancellable(s models.OrderStatus) bool {
	return s == models.OrderPending || s == models.OrderConfirmed
}

// Package listeners reacts to domain events: it counts them, logs them and
// pushes order updates to websocket subscribers.
package listeners

import (
	"context"
	"fmt"
	"time"

	"github.com/shashiranjanraj/unistore/app/models"
	"github.com/shashiranjanraj/unistore/app/services"
	"github.com/shashiranjanraj/unistore/pkg/event"
	"github.com/shashiranjanraj/unistore/pkg/logger"
	"github.com/shashiranjanraj/unistore/pkg/metrics"
)

// TopicAdmin receives every new order and status change.
const TopicAdmin = "admin"

// UserTopic receives status changes of one user's orders.
func UserTopic(userID string) string { return "user:" + userID }

// Publisher is the part of *ws.Hub the listeners use.
type Publisher interface {
	Publish(topic, typ string, data any) error
}

// OrderSummary is the websocket form of an order.
type OrderSummary struct {
	ID            string               `json:"id"`
	OrderNumber   string               `json:"orderNumber"`
	User          string               `json:"user"`
	OrderStatus   models.OrderStatus   `json:"orderStatus"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	TotalAmount   float64              `json:"totalAmount"`
	Items         int                  `json:"items"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

func summarize(o models.Order) OrderSummary {
	return OrderSummary{
		ID:            o.ID.Hex(),
		OrderNumber:   o.OrderNumber,
		User:          o.User,
		OrderStatus:   o.OrderStatus,
		PaymentStatus: o.PaymentStatus,
		PaymentMethod: o.PaymentMethod,
		TotalAmount:   o.TotalAmount,
		Items:         o.ItemCount(),
		UpdatedAt:     o.UpdatedAt,
	}
}

// Register wires the listeners onto bus. hub may be nil.
func Register(bus *event.Bus, hub Publisher) {
	bus.Listen(services.EventOrderPlaced, orderPlaced(hub))
	bus.Listen(services.EventOrderStatusChanged, statusChanged(hub))
	bus.Listen(services.EventCartMutated, cartMutated)
}

func orderPlaced(hub Publisher) event.Handler {
	return func(ctx context.Context, payload any) error {
		e, ok := payload.(services.OrderPlaced)
		if !ok {
			return fmt.Errorf("listeners: %s: unexpected payload %T", services.EventOrderPlaced, payload)
		}
		o := e.Order

		metrics.OrdersPlaced.WithLabelValues(string(o.PaymentMethod)).Inc()
		logger.WithCtx(ctx).Info("order placed",
			"order_number", o.OrderNumber,
			"items", len(o.Items),
			"total", o.TotalAmount,
			"payment_method", o.PaymentMethod,
		)

		if hub == nil {
			return nil
		}
		return hub.Publish(TopicAdmin, services.EventOrderPlaced, summarize(o))
	}
}

func statusChanged(hub Publisher) event.Handler {
	return func(ctx context.Context, payload any) error {
		e, ok := payload.(services.OrderStatusChanged)
		if !ok {
			return fmt.Errorf("listeners: %s: unexpected payload %T", services.EventOrderStatusChanged, payload)
		}
		o := e.Order

		if e.From.OrderStatus != o.OrderStatus {
			metrics.OrderStatusChanges.WithLabelValues("order", string(o.OrderStatus)).Inc()
		}
		if e.From.PaymentStatus != o.PaymentStatus {
			metrics.OrderStatusChanges.WithLabelValues("payment", string(o.PaymentStatus)).Inc()
		}
		logger.WithCtx(ctx).Info("order status changed",
			"order_number", o.OrderNumber,
			"owner_id", o.User,
			"changed_by", e.By,
			"from", fmt.Sprintf("%s/%s", e.From.OrderStatus, e.From.PaymentStatus),
			"to", fmt.Sprintf("%s/%s", o.OrderStatus, o.PaymentStatus),
		)

		if hub == nil {
			return nil
		}
		summary := summarize(o)
		if err := hub.Publish(UserTopic(o.User), services.EventOrderStatusChanged, summary); err != nil {
			return err
		}
		return hub.Publish(TopicAdmin, services.EventOrderStatusChanged, summary)
	}
}

func cartMutated(ctx context.Context, payload any) error {
	e, ok := payload.(services.CartMutated)
	if !ok {
		return fmt.Errorf("listeners: %s: unexpected payload %T", services.EventCartMutated, payload)
	}
	logger.WithCtx(ctx).Info("cart mutated", "op", e.Op, "items", len(e.Cart.Items), "total", e.Cart.Total)
	return nil
}

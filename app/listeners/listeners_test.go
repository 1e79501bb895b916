package listeners_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/unistore/app/listeners"
	"github.com/shashiranjanraj/unistore/app/models"
	"github.com/shashiranjanraj/unistore/app/services"
	"github.com/shashiranjanraj/unistore/pkg/event"
	"github.com/shashiranjanraj/unistore/pkg/logger"
)

type published struct {
	topic, typ string
	data       any
}

type fakeHub struct {
	mu   sync.Mutex
	sent []published
}

func (h *fakeHub) Publish(topic, typ string, data any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sent = append(h.sent, published{topic, typ, data})
	return nil
}

func TestOrderPlacedGoesToAdminFeed(t *testing.T) {
	hub := &fakeHub{}
	bus := event.New(nil)
	listeners.Register(bus, hub)

	o := models.Order{
		ID:            primitive.NewObjectID(),
		OrderNumber:   "UNI-20260101-ABCDEF12",
		User:          "u1",
		PaymentMethod: models.PaymentCOD,
		Items:         []models.OrderItem{{Quantity: 2}, {Quantity: 1}},
	}
	require.NoError(t, bus.Fire(context.Background(), services.EventOrderPlaced, services.OrderPlaced{Order: o}))

	require.Len(t, hub.sent, 1)
	assert.Equal(t, listeners.TopicAdmin, hub.sent[0].topic)
	assert.Equal(t, services.EventOrderPlaced, hub.sent[0].typ)
	summary := hub.sent[0].data.(listeners.OrderSummary)
	assert.Equal(t, 3, summary.Items)
	assert.Equal(t, o.ID.Hex(), summary.ID)
}

func TestStatusChangeGoesToOwnerAndAdmins(t *testing.T) {
	hub := &fakeHub{}
	bus := event.New(nil)
	listeners.Register(bus, hub)

	payload := services.OrderStatusChanged{
		Order: models.Order{User: "u7", OrderStatus: models.OrderShipped, PaymentStatus: models.PaymentPaid},
		From:  models.StatusChange{OrderStatus: models.OrderPending, PaymentStatus: models.PaymentPending},
		By:    "admin-1",
	}
	require.NoError(t, bus.Fire(context.Background(), services.EventOrderStatusChanged, payload))

	require.Len(t, hub.sent, 2)
	assert.Equal(t, "user:u7", hub.sent[0].topic)
	assert.Equal(t, listeners.TopicAdmin, hub.sent[1].topic)
}

func TestWrongPayloadIsAnError(t *testing.T) {
	bus := event.New(nil)
	listeners.Register(bus, nil)

	assert.Error(t, bus.Fire(context.Background(), services.EventOrderPlaced, "nope"))
	assert.NoError(t, bus.Fire(context.Background(), services.EventCartMutated, services.CartMutated{User: "u1"}))
}

func TestRequestLoggerCarriesTheUserOnce(t *testing.T) {
	var buf bytes.Buffer
	ctx := logger.InjectLogger(context.Background(), logger.New(&buf, "local").With("user_id", "u1"))
	bus := event.New(nil)
	listeners.Register(bus, nil)

	order := models.Order{OrderNumber: "UNI-20260101-ABCDEF12", User: "u1", PaymentMethod: models.PaymentCOD}
	require.NoError(t, bus.Fire(ctx, services.EventOrderPlaced, services.OrderPlaced{Order: order}))
	require.NoError(t, bus.Fire(ctx, services.EventCartMutated, services.CartMutated{User: "u1", Op: "add"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Equal(t, 1, strings.Count(line, "user_id="), line)
	}
}

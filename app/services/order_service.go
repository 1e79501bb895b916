package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/unistore/app/models"
	"github.com/shashiranjanraj/unistore/app/pricing"
	"github.com/shashiranjanraj/unistore/app/repositories"
	"github.com/shashiranjanraj/unistore/app/workflow"
	"github.com/shashiranjanraj/unistore/pkg/apperr"
	"github.com/shashiranjanraj/unistore/pkg/logger"
	"github.com/shashiranjanraj/unistore/pkg/validate"
)

const (
	orderNumberPrefix   = "UNI"
	maxCheckoutTokenLen = 128
	orderNumberAttempts = 3
)

type PlaceOrderInput struct {
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   models.PaymentMethod   `json:"paymentMethod"   validate:"required"`
	Notes           string                 `json:"notes"           validate:"max=500"`
}

// OrderOptions configures checkout.
type OrderOptions struct {
	PaymentMethods []string
	ClearCart      bool
	Policy         workflow.Policy
}

// OrderService places orders and serves them to their owners.
type OrderService struct {
	orders   repositories.OrderRepository
	carts    repositories.CartRepository
	products repositories.ProductRepository
	events   Publisher
	status   *statusWriter
	methods  map[models.PaymentMethod]bool
	clear    bool
	now      func() time.Time
}

func NewOrderService(
	orders repositories.OrderRepository,
	carts repositories.CartRepository,
	products repositories.ProductRepository,
	events Publisher,
	opts OrderOptions,
) *OrderService {
	methods := map[models.PaymentMethod]bool{}
	for _, m := range opts.PaymentMethods {
		if pm := models.PaymentMethod(strings.ToLower(strings.TrimSpace(m))); pm.Valid() {
			methods[pm] = true
		}
	}
	s := &OrderService{
		orders:   orders,
		carts:    carts,
		products: products,
		events:   publisherOrDiscard(events),
		methods:  methods,
		clear:    opts.ClearCart,
		now:      func() time.Time { return time.Now().UTC() },
	}
	s.status = newStatusWriter(orders, opts.Policy, s.events, func() time.Time { return s.now() })
	return s
}

// NewOrderNumber formats UNI-YYYYMMDD-XXXXXXXX.
func NewOrderNumber(at time.Time) string {
	hex := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return orderNumberPrefix + "-" + at.Format("20060102") + "-" + hex[:8]
}

// Place turns the user's cart into an order. When token is set and an
// order was already placed with it, that order is returned and created is
// false.
func (s *OrderService) Place(ctx context.Context, user string, in PlaceOrderInput, token string) (order models.Order, created bool, err error) {
	token = strings.TrimSpace(token)
	if len(token) > maxCheckoutTokenLen {
		return order, false, apperr.Validation("Idempotency-Key must be at most %d characters", maxCheckoutTokenLen)
	}
	if token != "" {
		prev, err := s.orders.FindByCheckoutToken(ctx, user, token)
		if err == nil {
			return prev, false, nil
		}
		if !apperr.Is(err, apperr.KindNotFound) {
			return order, false, err
		}
	}

	if !s.methods[in.PaymentMethod] {
		return order, false, apperr.ValidationFields(map[string]string{
			"paymentMethod": "The selected paymentMethod is not accepted.",
		})
	}

	in.ShippingAddress = trimAddress(in.ShippingAddress)
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return order, false, apperr.ValidationFields(errs)
	}

	cart, err := s.carts.FindByUser(ctx, user)
	if apperr.Is(err, apperr.KindNotFound) || (err == nil && cart.IsEmpty()) {
		return order, false, apperr.Validation("your cart is empty")
	}
	if err != nil {
		return order, false, err
	}

	items, err := s.snapshot(ctx, cart)
	if err != nil {
		return order, false, err
	}

	now := s.now()
	totals := pricing.Calculate(cart.Lines())
	order = models.Order{
		User:            user,
		Items:           items,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   models.PaymentPending,
		OrderStatus:     models.OrderPending,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		ShippingFee:     totals.Shipping,
		TotalAmount:     totals.Total,
		Notes:           strings.TrimSpace(in.Notes),
		CheckoutToken:   token,
		History: []models.StatusChange{{
			OrderStatus:   models.OrderPending,
			PaymentStatus: models.PaymentPending,
			ChangedBy:     user,
			Note:          "order placed",
			At:            now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.insert(ctx, &order); err != nil {
		if token != "" && apperr.Is(err, apperr.KindConflict) {
			if prev, ferr := s.orders.FindByCheckoutToken(ctx, user, token); ferr == nil {
				return prev, false, nil
			}
		}
		return models.Order{}, false, err
	}

	log := logger.WithCtx(ctx)
	if s.clear {
		if err := s.carts.Delete(ctx, user); err != nil {
			log.Warn("cart not cleared after checkout", "order_number", order.OrderNumber, "error", err)
		}
	}

	s.events.FireAsync(ctx, EventOrderPlaced, OrderPlaced{Order: order})
	return order, true, nil
}

// insert retries on an order number collision. A collision on the
// checkout token is returned to the caller.
func (s *OrderService) insert(ctx context.Context, o *models.Order) error {
	var err error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		o.OrderNumber = NewOrderNumber(o.CreatedAt)
		err = s.orders.Create(ctx, o)
		if err == nil || !apperr.Is(err, apperr.KindConflict) {
			return err
		}
		if o.CheckoutToken != "" {
			if _, ferr := s.orders.FindByCheckoutToken(ctx, o.User, o.CheckoutToken); ferr == nil {
				return err
			}
		}
	}
	return err
}

// snapshot copies each cart line by value. Name and image come from the
// catalog as it is now; price and variants come from the cart line.
func (s *OrderService) snapshot(ctx context.Context, cart models.Cart) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		p, err := s.products.FindByID(ctx, line.Product)
		if err != nil && !apperr.Is(err, apperr.KindNotFound) {
			return nil, err
		}
		if err != nil || !p.IsActive {
			return nil, apperr.Validation("%s is no longer available, remove it from your cart", line.Name)
		}
		items = append(items, models.OrderItem{
			Product:  line.Product,
			Name:     p.Name,
			Price:    line.Price,
			Quantity: line.Quantity,
			Image:    p.FirstImage(),
			Variants: append([]models.SelectedVariant(nil), line.SelectedVariants...),
		})
	}
	return items, nil
}

func trimAddress(a models.ShippingAddress) models.ShippingAddress {
	a.FullName = strings.TrimSpace(a.FullName)
	a.Phone = strings.TrimSpace(a.Phone)
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.ZipCode = strings.TrimSpace(a.ZipCode)
	a.Landmark = strings.TrimSpace(a.Landmark)
	return a
}

// List returns the user's orders, newest first.
func (s *OrderService) List(ctx context.Context, user string, page, limit int) ([]models.Order, int64, error) {
	return s.orders.List(ctx, repositories.OrderFilter{User: user, Page: page, Limit: limit})
}

// Get returns one of the user's orders. Orders of other users are
// reported as not found.
func (s *OrderService) Get(ctx context.Context, user, id string) (models.Order, error) {
	oid, err := repositories.ParseID(id, "order")
	if err != nil {
		return models.Order{}, err
	}
	o, err := s.orders.FindByID(ctx, oid)
	if err != nil {
		return o, err
	}
	if o.User != user {
		return models.Order{}, apperr.NotFound("order not found")
	}
	return o, nil
}

// Cancel lets the owner cancel an order that has not been processed yet.
func (s *OrderService) Cancel(ctx context.Context, user, id string) (models.Order, error) {
	o, err := s.Get(ctx, user, id)
	if err != nil {
		return o, err
	}
	if o.OrderStatus == models.OrderCancelled {
		return o, nil
	}
	if !workflow.Cancellable(o.OrderStatus) {
		return models.Order{}, apperr.Conflict("order %s is already %s and can no longer be cancelled", o.OrderNumber, o.OrderStatus)
	}
	return s.status.apply(ctx, o, models.OrderCancelled, o.PaymentStatus, user, "cancelled by customer", nil)
}

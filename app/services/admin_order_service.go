package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tealeg/xlsx"

	"github.com/shashiranjanraj/unistore/app/models"
	"github.com/shashiranjanraj/unistore/app/repositories"
	"github.com/shashiranjanraj/unistore/app/workflow"
	"github.com/shashiranjanraj/unistore/pkg/apperr"
	"github.com/shashiranjanraj/unistore/pkg/logger"
)

// UpdateStatusInput is the admin status write. At least one of the two
// statuses must be present.
type UpdateStatusInput struct {
	OrderStatus   models.OrderStatus   `json:"orderStatus"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	AdminNotes    *string              `json:"adminNotes" validate:"omitempty,max=1000"`
}

// StatusView is the status pair of an order with its history.
type StatusView struct {
	OrderNumber   string                `json:"orderNumber"`
	OrderStatus   models.OrderStatus    `json:"orderStatus"`
	PaymentStatus models.PaymentStatus  `json:"paymentStatus"`
	History       []models.StatusChange `json:"history"`
}

// statusWriter is the single path through which order statuses change.
type statusWriter struct {
	orders repositories.OrderRepository
	policy workflow.Policy
	events Publisher
	now    func() time.Time
}

func newStatusWriter(orders repositories.OrderRepository, policy workflow.Policy, events Publisher, now func() time.Time) *statusWriter {
	if policy == nil {
		policy = workflow.Permissive{}
	}
	return &statusWriter{orders: orders, policy: policy, events: publisherOrDiscard(events), now: now}
}

func (w *statusWriter) apply(ctx context.Context, o models.Order, orderStatus models.OrderStatus, paymentStatus models.PaymentStatus, by, note string, adminNotes *string) (models.Order, error) {
	if err := w.policy.CheckOrder(o.OrderStatus, orderStatus); err != nil {
		return models.Order{}, err
	}
	if err := w.policy.CheckPayment(o.PaymentStatus, paymentStatus); err != nil {
		return models.Order{}, err
	}

	from := models.StatusChange{OrderStatus: o.OrderStatus, PaymentStatus: o.PaymentStatus}
	change := models.StatusChange{
		OrderStatus:   orderStatus,
		PaymentStatus: paymentStatus,
		ChangedBy:     by,
		Note:          note,
		At:            w.now(),
	}
	updated, err := w.orders.UpdateStatus(ctx, o.ID, from, change, adminNotes)
	if err != nil {
		return models.Order{}, err
	}

	w.events.FireAsync(ctx, EventOrderStatusChanged, OrderStatusChanged{Order: updated, From: from, By: by})
	return updated, nil
}

// AdminOrderService is the back-office view of orders.
type AdminOrderService struct {
	orders repositories.OrderRepository
	status *statusWriter
}

func NewAdminOrderService(orders repositories.OrderRepository, policy workflow.Policy, events Publisher) *AdminOrderService {
	return &AdminOrderService{
		orders: orders,
		status: newStatusWriter(orders, policy, events, func() time.Time { return time.Now().UTC() }),
	}
}

// Filter builds an order filter from query values, rejecting unknown
// statuses.
func (s *AdminOrderService) Filter(status, paymentStatus string, page, limit int) (repositories.OrderFilter, error) {
	f := repositories.OrderFilter{
		Status:        models.OrderStatus(strings.ToLower(status)),
		PaymentStatus: models.PaymentStatus(strings.ToLower(paymentStatus)),
		Page:          page,
		Limit:         limit,
	}
	fields := map[string]string{}
	if f.Status != "" && !f.Status.Valid() {
		fields["status"] = "The selected status is invalid."
	}
	if f.PaymentStatus != "" && !f.PaymentStatus.Valid() {
		fields["paymentStatus"] = "The selected paymentStatus is invalid."
	}
	if len(fields) > 0 {
		return f, apperr.ValidationFields(fields)
	}
	return f, nil
}

func (s *AdminOrderService) List(ctx context.Context, f repositories.OrderFilter) ([]models.Order, int64, error) {
	return s.orders.List(ctx, f)
}

func (s *AdminOrderService) Get(ctx context.Context, id string) (models.Order, error) {
	oid, err := repositories.ParseID(id, "order")
	if err != nil {
		return models.Order{}, err
	}
	return s.orders.FindByID(ctx, oid)
}

func (s *AdminOrderService) Status(ctx context.Context, id string) (StatusView, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return StatusView{}, err
	}
	return StatusView{
		OrderNumber:   o.OrderNumber,
		OrderStatus:   o.OrderStatus,
		PaymentStatus: o.PaymentStatus,
		History:       o.History,
	}, nil
}

// UpdateStatus writes a new status pair. Omitted statuses keep their
// current value. Whether a transition is allowed is up to the policy.
func (s *AdminOrderService) UpdateStatus(ctx context.Context, admin, id string, in UpdateStatusInput) (models.Order, error) {
	if in.OrderStatus == "" && in.PaymentStatus == "" {
		return models.Order{}, apperr.Validation("orderStatus or paymentStatus is required")
	}
	fields := map[string]string{}
	if in.OrderStatus != "" && !in.OrderStatus.Valid() {
		fields["orderStatus"] = "The selected orderStatus is invalid."
	}
	if in.PaymentStatus != "" && !in.PaymentStatus.Valid() {
		fields["paymentStatus"] = "The selected paymentStatus is invalid."
	}
	if len(fields) > 0 {
		return models.Order{}, apperr.ValidationFields(fields)
	}

	o, err := s.Get(ctx, id)
	if err != nil {
		return o, err
	}
	orderStatus, paymentStatus := o.OrderStatus, o.PaymentStatus
	if in.OrderStatus != "" {
		orderStatus = in.OrderStatus
	}
	if in.PaymentStatus != "" {
		paymentStatus = in.PaymentStatus
	}

	note := ""
	if in.AdminNotes != nil {
		trimmed := strings.TrimSpace(*in.AdminNotes)
		in.AdminNotes = &trimmed
		note = trimmed
	}

	updated, err := s.status.apply(ctx, o, orderStatus, paymentStatus, admin, note, in.AdminNotes)
	if err != nil {
		return models.Order{}, err
	}
	logger.WithCtx(ctx).Info("order status updated",
		"order_number", updated.OrderNumber,
		"from", fmt.Sprintf("%s/%s", o.OrderStatus, o.PaymentStatus),
		"to", fmt.Sprintf("%s/%s", updated.OrderStatus, updated.PaymentStatus),
		"policy", s.status.policy.Name(),
	)
	return updated, nil
}

func (s *AdminOrderService) Stats(ctx context.Context) (repositories.OrderStats, error) {
	return s.orders.Stats(ctx)
}

var exportHeader = []string{
	"Order Number", "Placed At", "Customer", "Phone", "City", "Items",
	"Payment Method", "Payment Status", "Order Status",
	"Subtotal", "Tax", "Shipping", "Total",
}

// Export writes the matching orders as an xlsx workbook to w.
func (s *AdminOrderService) Export(ctx context.Context, w io.Writer, f repositories.OrderFilter) error {
	orders, err := s.orders.All(ctx, f)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return fmt.Errorf("services: export orders: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range exportHeader {
		header.AddCell().SetString(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetString(o.OrderNumber)
		row.AddCell().SetString(o.CreatedAt.Format(time.RFC3339))
		row.AddCell().SetString(o.ShippingAddress.FullName)
		row.AddCell().SetString(o.ShippingAddress.Phone)
		row.AddCell().SetString(o.ShippingAddress.City)
		row.AddCell().SetInt(o.ItemCount())
		row.AddCell().SetString(string(o.PaymentMethod))
		row.AddCell().SetString(string(o.PaymentStatus))
		row.AddCell().SetString(string(o.OrderStatus))
		row.AddCell().SetFloat(o.Subtotal)
		row.AddCell().SetFloat(o.Tax)
		row.AddCell().SetFloat(o.ShippingFee)
		row.AddCell().SetFloat(o.TotalAmount)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("services: write orders workbook: %w", err)
	}
	return nil
}

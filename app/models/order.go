package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/unistore/app/pricing"
	"github.com/shashiranjanraj/unistore/pkg/collection"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every fulfilment state.
var OrderStatuses = []OrderStatus{
	OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// PaymentStatus is the payment state of an order, tracked independently of
// fulfilment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded}

func (s PaymentStatus) Valid() bool {
	for _, v := range PaymentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentCOD        PaymentMethod = "cod"
	PaymentUPI        PaymentMethod = "upi"
	PaymentCard       PaymentMethod = "card"
	PaymentNetBanking PaymentMethod = "netbanking"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCOD, PaymentUPI, PaymentCard, PaymentNetBanking:
		return true
	}
	return false
}

type ShippingAddress struct {
	FullName string `bson:"fullName"           json:"fullName" validate:"notblank,max=100"`
	Phone    string `bson:"phone"              json:"phone"    validate:"notblank,phone"`
	Street   string `bson:"street"             json:"street"   validate:"notblank,max=200"`
	City     string `bson:"city"               json:"city"     validate:"notblank,max=100"`
	State    string `bson:"state"              json:"state"    validate:"notblank,max=100"`
	ZipCode  string `bson:"zipCode"            json:"zipCode"  validate:"notblank,alphanum,min=4,max=10"`
	Landmark string `bson:"landmark,omitempty" json:"landmark,omitempty" validate:"omitempty,max=200"`
}

// OrderItem is a by-value snapshot of a cart line taken at checkout.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product"            json:"product"`
	Name     string             `bson:"name"               json:"name"`
	Price    float64            `bson:"price"              json:"price"`
	Quantity int                `bson:"quantity"           json:"quantity"`
	Image    string             `bson:"image,omitempty"    json:"image,omitempty"`
	Variants []SelectedVariant  `bson:"variants,omitempty" json:"variants,omitempty"`
}

func (i OrderItem) Line() pricing.Line {
	return pricing.Line{BasePrice: i.Price, Quantity: i.Quantity, VariantDeltas: variantDeltas(i.Variants)}
}

// StatusChange records one write to an order's status pair.
type StatusChange struct {
	OrderStatus   OrderStatus   `bson:"orderStatus"    json:"orderStatus"`
	PaymentStatus PaymentStatus `bson:"paymentStatus"  json:"paymentStatus"`
	ChangedBy     string        `bson:"changedBy"      json:"changedBy"`
	Note          string        `bson:"note,omitempty" json:"note,omitempty"`
	At            time.Time     `bson:"at"             json:"at"`
}

// Order is created once at checkout; afterwards only its status fields,
// admin notes and history change.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"           json:"id"`
	OrderNumber     string             `bson:"orderNumber"             json:"orderNumber"`
	User            string             `bson:"user"                    json:"user"`
	Items           []OrderItem        `bson:"items"                   json:"items"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress"         json:"shippingAddress"`
	PaymentMethod   PaymentMethod      `bson:"paymentMethod"           json:"paymentMethod"`
	PaymentStatus   PaymentStatus      `bson:"paymentStatus"           json:"paymentStatus"`
	OrderStatus     OrderStatus        `bson:"orderStatus"             json:"orderStatus"`
	Subtotal        float64            `bson:"subtotal"                json:"subtotal"`
	Tax             float64            `bson:"tax"                     json:"tax"`
	ShippingFee     float64            `bson:"shipping"                json:"shipping"`
	TotalAmount     float64            `bson:"totalAmount"             json:"totalAmount"`
	Notes           string             `bson:"notes,omitempty"         json:"notes,omitempty"`
	AdminNotes      string             `bson:"adminNotes,omitempty"    json:"adminNotes,omitempty"`
	CheckoutToken   string             `bson:"checkoutToken,omitempty" json:"-"`
	History         []StatusChange     `bson:"history"                 json:"history"`
	CreatedAt       time.Time          `bson:"createdAt"               json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"               json:"updatedAt"`
}

func (o Order) Lines() []pricing.Line {
	lines := make([]pricing.Line, len(o.Items))
	for i, item := range o.Items {
		lines[i] = item.Line()
	}
	return lines
}

// Totals returns the stored pricing of the order.
func (o Order) Totals() pricing.Totals {
	return pricing.Totals{Subtotal: o.Subtotal, Tax: o.Tax, Shipping: o.ShippingFee, Total: o.TotalAmount}
}

// ItemCount is the number of units ordered.
func (o Order) ItemCount() int {
	return collection.Sum(o.Items, func(i OrderItem) int { return i.Quantity })
}

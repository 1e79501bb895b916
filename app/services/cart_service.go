package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/unistore/app/models"
	"github.com/shashiranjanraj/unistore/app/pricing"
	"github.com/shashiranjanraj/unistore/app/repositories"
	"github.com/shashiranjanraj/unistore/pkg/apperr"
	"github.com/shashiranjanraj/unistore/pkg/logger"
	"github.com/shashiranjanraj/unistore/pkg/metrics"
)

// VariantChoice names one selected variant of a product.
type VariantChoice struct {
	Type  string `json:"type"  validate:"required,max=50"`
	Value string `json:"value" validate:"required,max=100"`
}

type AddItemInput struct {
	ProductID        string          `json:"productId"        validate:"required,objectid"`
	Quantity         int             `json:"quantity"         validate:"required,min=1,max=100"`
	SelectedVariants []VariantChoice `json:"selectedVariants" validate:"max=10,dive"`
}

type UpdateItemInput struct {
	Quantity int `json:"quantity"`
}

// CartView is a cart with its priced totals, as shown to the shopper.
type CartView struct {
	models.Cart
	Totals pricing.Totals `json:"totals"`
}

// CartService owns the cart aggregate. Every mutation reloads the cart,
// applies the change, recomputes the total and saves the whole document.
type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
	events   Publisher
	now      func() time.Time
}

func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository, events Publisher) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		events:   publisherOrDiscard(events),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func viewOf(c models.Cart) CartView {
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	return CartView{Cart: c, Totals: pricing.Calculate(c.Lines())}
}

// load returns the user's cart, or a new empty one.
func (s *CartService) load(ctx context.Context, user string) (models.Cart, error) {
	c, err := s.carts.FindByUser(ctx, user)
	if apperr.Is(err, apperr.KindNotFound) {
		return models.Cart{User: user, Items: []models.CartItem{}}, nil
	}
	return c, err
}

func (s *CartService) View(ctx context.Context, user string) (CartView, error) {
	c, err := s.load(ctx, user)
	if err != nil {
		return CartView{}, err
	}
	return viewOf(c), nil
}

// Add puts quantity of a product into the cart. A line with the same
// product and variant selection is incremented instead of duplicated.
func (s *CartService) Add(ctx context.Context, user string, in AddItemInput) (CartView, error) {
	product, err := s.activeProduct(ctx, in.ProductID)
	if err != nil {
		return CartView{}, err
	}
	selected, err := resolveVariants(product, in.SelectedVariants)
	if err != nil {
		return CartView{}, err
	}

	c, err := s.load(ctx, user)
	if err != nil {
		return CartView{}, err
	}

	if err := checkStock(c, product, selected, "", in.Quantity); err != nil {
		return CartView{}, err
	}

	idx := -1
	for i, item := range c.Items {
		if item.SameSelection(product.ID, selected) {
			idx = i
			break
		}
	}
	if idx >= 0 {
		c.Items[idx].Quantity += in.Quantity
	} else {
		c.Items = append(c.Items, models.CartItem{
			ID:               uuid.NewString(),
			Product:          product.ID,
			Name:             product.Name,
			Image:            product.FirstImage(),
			Quantity:         in.Quantity,
			Price:            product.Price,
			SelectedVariants: selected,
			AddedAt:          s.now(),
		})
	}
	return s.save(ctx, &c, "add")
}

// UpdateQuantity sets a line's quantity, clamped to [1, available stock].
// Quantities below 1 leave the cart unchanged.
func (s *CartService) UpdateQuantity(ctx context.Context, user, itemID string, quantity int) (CartView, error) {
	c, err := s.load(ctx, user)
	if err != nil {
		return CartView{}, err
	}
	idx := c.FindItem(itemID)
	if idx < 0 {
		return CartView{}, apperr.NotFound("cart item not found")
	}
	if quantity < 1 {
		return viewOf(c), nil
	}

	item := c.Items[idx]
	product, err := s.products.FindByID(ctx, item.Product)
	if err != nil {
		return CartView{}, err
	}
	if !product.IsActive {
		return CartView{}, apperr.NotFound("product is no longer available")
	}

	left := available(c, product, item.SelectedVariants, item.ID)
	if left < 1 {
		return CartView{}, apperr.InsufficientStock("%s is out of stock", product.Name)
	}
	if quantity > left {
		quantity = left
	}
	if quantity == item.Quantity {
		return viewOf(c), nil
	}
	c.Items[idx].Quantity = quantity
	return s.save(ctx, &c, "update")
}

// Remove deletes a line. Removing a line that is not there is not an error.
func (s *CartService) Remove(ctx context.Context, user, itemID string) (CartView, error) {
	c, err := s.load(ctx, user)
	if err != nil {
		return CartView{}, err
	}
	idx := c.FindItem(itemID)
	if idx < 0 {
		return viewOf(c), nil
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	return s.save(ctx, &c, "remove")
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, user string) error {
	if err := s.carts.Delete(ctx, user); err != nil {
		return err
	}
	metrics.CartMutations.WithLabelValues("clear").Inc()
	return nil
}

func (s *CartService) save(ctx context.Context, c *models.Cart, op string) (CartView, error) {
	c.Recalculate()
	if err := s.carts.Save(ctx, c); err != nil {
		return CartView{}, err
	}

	metrics.CartMutations.WithLabelValues(op).Inc()
	logger.WithCtx(ctx).Debug("cart updated", "op", op, "items", len(c.Items), "total", c.Total)
	s.events.FireAsync(ctx, EventCartMutated, CartMutated{User: c.User, Op: op, Cart: *c})
	return viewOf(*c), nil
}

func (s *CartService) activeProduct(ctx context.Context, id string) (models.Product, error) {
	oid, err := repositories.ParseID(id, "product")
	if err != nil {
		return models.Product{}, err
	}
	p, err := s.products.FindByID(ctx, oid)
	if err != nil {
		return p, err
	}
	if !p.IsActive {
		return models.Product{}, apperr.NotFound("product not found")
	}
	return p, nil
}

// resolveVariants looks up the price delta of each choice on the product.
func resolveVariants(p models.Product, choices []VariantChoice) ([]models.SelectedVariant, error) {
	if len(choices) == 0 {
		return nil, nil
	}
	out := make([]models.SelectedVariant, 0, len(choices))
	seen := map[string]bool{}
	for i, ch := range choices {
		field := fmt.Sprintf("selectedVariants[%d]", i)
		v, ok := p.FindVariant(ch.Type, ch.Value)
		if !ok {
			return nil, apperr.ValidationFields(map[string]string{
				field: fmt.Sprintf("%s %q is not available for this product.", ch.Type, ch.Value),
			})
		}
		if seen[v.Type] {
			return nil, apperr.ValidationFields(map[string]string{
				field: fmt.Sprintf("Only one %s may be selected.", v.Type),
			})
		}
		seen[v.Type] = true
		out = append(out, models.SelectedVariant{Type: v.Type, Value: v.Value, Price: v.Price})
	}
	return out, nil
}

// available is how many units the line skip may hold given what the
// other lines of the same product already take. It honours both the
// product quantity and the stock of every selected variant.
func available(c models.Cart, p models.Product, selected []models.SelectedVariant, skip string) int {
	others := 0
	for _, item := range c.Items {
		if item.Product == p.ID && item.ID != skip {
			others += item.Quantity
		}
	}
	limit := p.Quantity - others

	for _, sv := range selected {
		v, ok := p.FindVariant(sv.Type, sv.Value)
		if !ok || v.Stock == nil {
			continue
		}
		if n := *v.Stock - variantTaken(c, p.ID, sv, skip); n < limit {
			limit = n
		}
	}
	return limit
}

func variantTaken(c models.Cart, product primitive.ObjectID, sv models.SelectedVariant, skip string) int {
	n := 0
	for _, item := range c.Items {
		if item.Product != product || item.ID == skip {
			continue
		}
		for _, v := range item.SelectedVariants {
			if v.Type == sv.Type && v.Value == sv.Value {
				n += item.Quantity
				break
			}
		}
	}
	return n
}

// checkStock fails when adding quantity more units would exceed what is
// available.
func checkStock(c models.Cart, p models.Product, selected []models.SelectedVariant, skip string, quantity int) error {
	if left := available(c, p, selected, skip); quantity > left {
		if left < 0 {
			left = 0
		}
		return apperr.InsufficientStock("only %d more of %s can be added to your cart", left, p.Name)
	}
	return nil
}

// Package memory implements the repository interfaces in process memory.
// It backs DB_DRIVER=memory and the service tests, and enforces the same
// unique keys as the MongoDB indexes.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/unistore/app/models"
	"github.com/shashiranjanraj/unistore/app/repositories"
	"github.com/shashiranjanraj/unistore/pkg/apperr"
)

// ─── Products ─────────────────────────────────────────────────────────────────

type ProductRepository struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]models.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{items: map[primitive.ObjectID]models.Product{}}
}

func (r *ProductRepository) FindByID(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return models.Product{}, apperr.NotFound("product not found")
	}
	return cloneProduct(p), nil
}

func (r *ProductRepository) List(_ context.Context, f repositories.ProductFilter) ([]models.Product, int64, error) {
	r.mu.RLock()
	matched := []models.Product{}
	for _, p := range r.items {
		if productMatches(p, f) {
			matched = append(matched, cloneProduct(p))
		}
	}
	r.mu.RUnlock()

	sortProducts(matched, f.Sort)
	_, limit, skip := repositories.Paging(f.Page, f.Limit)
	return window(matched, skip, limit), int64(len(matched)), nil
}

func productMatches(p models.Product, f repositories.ProductFilter) bool {
	if !f.IncludeInactive && !p.IsActive {
		return false
	}
	if !f.Category.IsZero() && p.Category != f.Category {
		return false
	}
	if f.Featured != nil && p.IsFeatured != *f.Featured {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.Search != "" {
		return containsFold(p.Name, f.Search) || anyContainsFold(p.Tags, f.Search)
	}
	return true
}

func sortProducts(ps []models.Product, by string) {
	sort.SliceStable(ps, func(i, j int) bool {
		a, b := ps[i], ps[j]
		switch by {
		case repositories.SortPriceAsc:
			if a.Price != b.Price {
				return a.Price < b.Price
			}
		case repositories.SortPriceDesc:
			if a.Price != b.Price {
				return a.Price > b.Price
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID.Hex() > b.ID.Hex()
		}
		return a.ID.Hex() < b.ID.Hex()
	})
}

func (r *ProductRepository) Create(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	r.items[p.ID] = cloneProduct(*p)
	return nil
}

func (r *ProductRepository) Update(_ context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[p.ID]; !ok {
		return apperr.NotFound("product not found")
	}
	r.items[p.ID] = cloneProduct(*p)
	return nil
}

func (r *ProductRepository) SetActive(_ context.Context, id primitive.ObjectID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return apperr.NotFound("product not found")
	}
	p.IsActive = active
	p.UpdatedAt = time.Now().UTC()
	r.items[id] = p
	return nil
}

func cloneProduct(p models.Product) models.Product {
	p.Images = append([]string(nil), p.Images...)
	p.Tags = append([]string(nil), p.Tags...)
	p.Variants = append([]models.Variant(nil), p.Variants...)
	return p
}

// ─── Categories ───────────────────────────────────────────────────────────────

type CategoryRepository struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]models.Category
}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{items: map[primitive.ObjectID]models.Category{}}
}

func (r *CategoryRepository) FindByID(_ context.Context, id primitive.ObjectID) (models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]
	if !ok {
		return models.Category{}, apperr.NotFound("category not found")
	}
	return c, nil
}

func (r *CategoryRepository) List(_ context.Context, includeInactive bool) ([]models.Category, error) {
	r.mu.RLock()
	out := []models.Category{}
	for _, c := range r.items {
		if includeInactive || c.IsActive {
			out = append(out, c)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *CategoryRepository) Create(_ context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slugTaken(c.Slug, primitive.NilObjectID) {
		return apperr.Conflict("a category with slug %q already exists", c.Slug)
	}
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	r.items[c.ID] = *c
	return nil
}

func (r *CategoryRepository) Update(_ context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[c.ID]; !ok {
		return apperr.NotFound("category not found")
	}
	if r.slugTaken(c.Slug, c.ID) {
		return apperr.Conflict("a category with slug %q already exists", c.Slug)
	}
	r.items[c.ID] = *c
	return nil
}

func (r *CategoryRepository) SetActive(_ context.Context, id primitive.ObjectID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok {
		return apperr.NotFound("category not found")
	}
	c.IsActive = active
	c.UpdatedAt = time.Now().UTC()
	r.items[id] = c
	return nil
}

func (r *CategoryRepository) slugTaken(slug string, except primitive.ObjectID) bool {
	for id, c := range r.items {
		if c.Slug == slug && id != except {
			return true
		}
	}
	return false
}

// ─── Users ────────────────────────────────────────────────────────────────────

type UserRepository struct {
	mu    sync.RWMutex
	items map[string]models.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{items: map[string]models.User{}}
}

func (r *UserRepository) FindByID(_ context.Context, id string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]
	if !ok {
		return models.User{}, apperr.NotFound("user not found")
	}
	return cloneUser(u), nil
}

func (r *UserRepository) Upsert(_ context.Context, u models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	existing, ok := r.items[u.ID]
	if !ok {
		if !u.Role.Valid() {
			u.Role = models.RoleStudent
		}
		existing = models.User{
			ID:        u.ID,
			Role:      u.Role,
			Image:     u.Image,
			IsActive:  true,
			Wishlist:  []primitive.ObjectID{},
			CreatedAt: now,
		}
	}
	existing.Email = u.Email
	existing.Name = u.Name
	existing.UpdatedAt = now
	r.items[u.ID] = existing
	return cloneUser(existing), nil
}

func (r *UserRepository) Update(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[u.ID]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.UpdatedAt = time.Now().UTC()
	existing.Name, existing.Phone, existing.Image = u.Name, u.Phone, u.Image
	existing.Role, existing.IsActive = u.Role, u.IsActive
	existing.UpdatedAt = u.UpdatedAt
	r.items[u.ID] = existing
	return nil
}

func (r *UserRepository) List(_ context.Context, page, limit int) ([]models.User, int64, error) {
	r.mu.RLock()
	all := make([]models.User, 0, len(r.items))
	for _, u := range r.items {
		all = append(all, cloneUser(u))
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	_, limit, skip := repositories.Paging(page, limit)
	return window(all, skip, limit), int64(len(all)), nil
}

func (r *UserRepository) AddToWishlist(_ context.Context, id string, product primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	for _, p := range u.Wishlist {
		if p == product {
			return nil
		}
	}
	u.Wishlist = append(append([]primitive.ObjectID(nil), u.Wishlist...), product)
	u.UpdatedAt = time.Now().UTC()
	r.items[id] = u
	return nil
}

func (r *UserRepository) RemoveFromWishlist(_ context.Context, id string, product primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	kept := []primitive.ObjectID{}
	for _, p := range u.Wishlist {
		if p != product {
			kept = append(kept, p)
		}
	}
	u.Wishlist = kept
	u.UpdatedAt = time.Now().UTC()
	r.items[id] = u
	return nil
}

func cloneUser(u models.User) models.User {
	u.Wishlist = append([]primitive.ObjectID{}, u.Wishlist...)
	return u
}

// ─── Carts ────────────────────────────────────────────────────────────────────

type CartRepository struct {
	mu    sync.RWMutex
	items map[string]models.Cart
}

func NewCartRepository() *CartRepository {
	return &CartRepository{items: map[string]models.Cart{}}
}

func (r *CartRepository) FindByUser(_ context.Context, user string) (models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[user]
	if !ok {
		return models.Cart{}, apperr.NotFound("cart not found")
	}
	return cloneCart(c), nil
}

func (r *CartRepository) Save(_ context.Context, c *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.items[c.User]; ok {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
	}
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	c.UpdatedAt = now
	r.items[c.User] = cloneCart(*c)
	return nil
}

func (r *CartRepository) Delete(_ context.Context, user string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, user)
	return nil
}

func cloneCart(c models.Cart) models.Cart {
	items := make([]models.CartItem, len(c.Items))
	for i, item := range c.Items {
		item.SelectedVariants = append([]models.SelectedVariant(nil), item.SelectedVariants...)
		items[i] = item
	}
	c.Items = items
	return c
}

// ─── Orders ───────────────────────────────────────────────────────────────────

type OrderRepository struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]models.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{items: map[primitive.ObjectID]models.Order{}}
}

func (r *OrderRepository) Create(_ context.Context, o *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.OrderNumber == o.OrderNumber {
			return apperr.Conflict("order %s already exists", o.OrderNumber)
		}
		if o.CheckoutToken != "" && existing.User == o.User && existing.CheckoutToken == o.CheckoutToken {
			return apperr.Conflict("order %s already exists", o.OrderNumber)
		}
	}
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	r.items[o.ID] = cloneOrder(*o)
	return nil
}

func (r *OrderRepository) FindByID(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.items[id]
	if !ok {
		return models.Order{}, apperr.NotFound("order not found")
	}
	return cloneOrder(o), nil
}

func (r *OrderRepository) FindByCheckoutToken(_ context.Context, user, token string) (models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.items {
		if o.User == user && o.CheckoutToken == token {
			return cloneOrder(o), nil
		}
	}
	return models.Order{}, apperr.NotFound("order not found")
}

func (r *OrderRepository) List(ctx context.Context, f repositories.OrderFilter) ([]models.Order, int64, error) {
	all, _ := r.All(ctx, f)
	_, limit, skip := repositories.Paging(f.Page, f.Limit)
	return window(all, skip, limit), int64(len(all)), nil
}

func (r *OrderRepository) All(_ context.Context, f repositories.OrderFilter) ([]models.Order, error) {
	r.mu.RLock()
	out := []models.Order{}
	for _, o := range r.items {
		if f.User != "" && o.User != f.User {
			continue
		}
		if f.Status != "" && o.OrderStatus != f.Status {
			continue
		}
		if f.PaymentStatus != "" && o.PaymentStatus != f.PaymentStatus {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	return out, nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id primitive.ObjectID, from, change models.StatusChange, adminNotes *string) (models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.items[id]
	if !ok {
		return models.Order{}, apperr.NotFound("order not found")
	}
	if o.OrderStatus != from.OrderStatus || o.PaymentStatus != from.PaymentStatus {
		return models.Order{}, apperr.Conflict("order status changed concurrently, reload and retry")
	}

	o = cloneOrder(o)
	o.OrderStatus = change.OrderStatus
	o.PaymentStatus = change.PaymentStatus
	o.UpdatedAt = change.At
	if adminNotes != nil {
		o.AdminNotes = *adminNotes
	}
	o.History = append(o.History, change)
	r.items[id] = o
	return cloneOrder(o), nil
}

func (r *OrderRepository) Stats(_ context.Context) (repositories.OrderStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := repositories.NewOrderStats()
	for _, o := range r.items {
		stats.Orders++
		stats.ByStatus[string(o.OrderStatus)]++
		stats.ByPayment[string(o.PaymentStatus)]++
		if o.PaymentStatus == models.PaymentPaid {
			stats.Revenue += o.TotalAmount
		}
	}
	return stats, nil
}

func cloneOrder(o models.Order) models.Order {
	items := make([]models.OrderItem, len(o.Items))
	for i, item := range o.Items {
		item.Variants = append([]models.SelectedVariant(nil), item.Variants...)
		items[i] = item
	}
	o.Items = items
	o.History = append([]models.StatusChange{}, o.History...)
	return o
}

// ─── helpers ──────────────────────────────────────────────────────────────────

func window[T any](all []T, skip, limit int) []T {
	if skip >= len(all) {
		return []T{}
	}
	end := skip + limit
	if end > len(all) {
		end = len(all)
	}
	return all[skip:end]
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func anyContainsFold(list []string, sub string) bool {
	for _, s := range list {
		if containsFold(s, sub) {
			return true
		}
	}
	return false
}

var (
	_ repositories.ProductRepository  = (*ProductRepository)(nil)
	_ repositories.CategoryRepository = (*CategoryRepository)(nil)
	_ repositories.UserRepository     = (*UserRepository)(nil)
	_ repositories.CartRepository     = (*CartRepository)(nil)
	_ repositories.OrderRepository    = (*OrderRepository)(nil)
)

package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/unistore/app/models"
	"github.com/shashiranjanraj/unistore/app/repositories"
	"github.com/shashiranjanraj/unistore/pkg/apperr"
	"github.com/shashiranjanraj/unistore/pkg/cache"
	"github.com/shashiranjanraj/unistore/pkg/collection"
	"github.com/shashiranjanraj/unistore/pkg/logger"
)

// ProductCacheTTL bounds how stale a cached product detail may be.
const ProductCacheTTL = 5 * time.Minute

// ProductInput is the admin payload for creating or replacing a product.
type ProductInput struct {
	Name         string           `json:"name"         validate:"required,max=200"`
	Description  string           `json:"description"  validate:"max=5000"`
	Price        float64          `json:"price"        validate:"gte=0"`
	ComparePrice *float64         `json:"comparePrice" validate:"omitempty,gte=0"`
	Category     string           `json:"category"     validate:"required,objectid"`
	Images       []string         `json:"images"       validate:"max=10"`
	Tags         []string         `json:"tags"         validate:"max=20"`
	Variants     []models.Variant `json:"variants"     validate:"max=50,dive"`
	Quantity     int              `json:"quantity"     validate:"gte=0"`
	IsActive     *bool            `json:"isActive"`
	IsFeatured   bool             `json:"isFeatured"`
}

// CatalogService reads and administers products. Single-product reads are
// cached under product:<id>.
type CatalogService struct {
	products   repositories.ProductRepository
	categories repositories.CategoryRepository
	cache      cache.Store
	now        func() time.Time
}

func NewCatalogService(products repositories.ProductRepository, categories repositories.CategoryRepository, store cache.Store) *CatalogService {
	if store == nil {
		store = cache.Noop{}
	}
	return &CatalogService{
		products:   products,
		categories: categories,
		cache:      store,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func productKey(id primitive.ObjectID) string { return "product:" + id.Hex() }

// List returns a page of products.
func (s *CatalogService) List(ctx context.Context, f repositories.ProductFilter) ([]models.Product, int64, error) {
	f.Search = strings.TrimSpace(f.Search)
	return s.products.List(ctx, f)
}

// Get returns a product by id. Inactive products are only visible when
// includeInactive is set.
func (s *CatalogService) Get(ctx context.Context, id string, includeInactive bool) (models.Product, error) {
	oid, err := repositories.ParseID(id, "product")
	if err != nil {
		return models.Product{}, err
	}
	p, err := s.find(ctx, oid)
	if err != nil {
		return p, err
	}
	if !p.IsActive && !includeInactive {
		return models.Product{}, apperr.NotFound("product not found")
	}
	return p, nil
}

func (s *CatalogService) find(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var p models.Product
	if s.cache.Get(ctx, productKey(id), &p) {
		return p, nil
	}

	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return p, err
	}
	if err := s.cache.Set(ctx, productKey(id), p, ProductCacheTTL); err != nil {
		logger.WithCtx(ctx).Warn("product cache write failed", "product_id", id.Hex(), "error", err)
	}
	return p, nil
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	category, err := s.checkCategory(ctx, in.Category)
	if err != nil {
		return models.Product{}, err
	}

	now := s.now()
	p := models.Product{CreatedAt: now}
	in.apply(&p, category, now)
	if err := s.products.Create(ctx, &p); err != nil {
		return models.Product{}, err
	}
	logger.WithCtx(ctx).Info("product created", "product_id", p.ID.Hex(), "name", p.Name)
	return p, nil
}

// Update replaces the editable fields of a product.
func (s *CatalogService) Update(ctx context.Context, id string, in ProductInput) (models.Product, error) {
	oid, err := repositories.ParseID(id, "product")
	if err != nil {
		return models.Product{}, err
	}
	p, err := s.products.FindByID(ctx, oid)
	if err != nil {
		return p, err
	}
	category, err := s.checkCategory(ctx, in.Category)
	if err != nil {
		return models.Product{}, err
	}

	in.apply(&p, category, s.now())
	if err := s.products.Update(ctx, &p); err != nil {
		return models.Product{}, err
	}
	s.invalidate(ctx, oid)
	return p, nil
}

// Delete hides a product from the storefront. Products are never removed.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	oid, err := repositories.ParseID(id, "product")
	if err != nil {
		return err
	}
	if err := s.products.SetActive(ctx, oid, false); err != nil {
		return err
	}
	s.invalidate(ctx, oid)
	logger.WithCtx(ctx).Info("product deactivated", "product_id", id)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, id primitive.ObjectID) {
	if err := s.cache.Del(ctx, productKey(id)); err != nil {
		logger.WithCtx(ctx).Warn("product cache invalidation failed", "product_id", id.Hex(), "error", err)
	}
}

func (s *CatalogService) checkCategory(ctx context.Context, id string) (primitive.ObjectID, error) {
	fail := apperr.ValidationFields(map[string]string{"category": "The selected category does not exist."})

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return oid, fail
	}
	if _, err := s.categories.FindByID(ctx, oid); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return oid, fail
		}
		return oid, err
	}
	return oid, nil
}

func (in ProductInput) apply(p *models.Product, category primitive.ObjectID, now time.Time) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = strings.TrimSpace(in.Description)
	p.Price = in.Price
	p.ComparePrice = in.ComparePrice
	p.Category = category
	p.Images = nonNil(in.Images)
	p.Tags = normalizeTags(in.Tags)
	p.Variants = in.Variants
	if p.Variants == nil {
		p.Variants = []models.Variant{}
	}
	p.Quantity = in.Quantity
	p.IsActive = in.IsActive == nil || *in.IsActive
	p.IsFeatured = in.IsFeatured
	p.UpdatedAt = now
}

func normalizeTags(tags []string) []string {
	tags = collection.Map(tags, func(t string) string { return strings.ToLower(strings.TrimSpace(t)) })
	return collection.Unique(collection.Filter(tags, func(t string) bool { return t != "" }))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

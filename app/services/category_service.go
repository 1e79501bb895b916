package services

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/shashiranjanraj/unistore/app/models"
	"github.com/shashiranjanraj/unistore/app/repositories"
	"github.com/shashiranjanraj/unistore/pkg/apperr"
)

type CategoryInput struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Slug        string `json:"slug"        validate:"omitempty,alpha_dash,max=120"`
	Description string `json:"description" validate:"max=1000"`
	Image       string `json:"image"       validate:"omitempty,http_url"`
	IsActive    *bool  `json:"isActive"`
	SortOrder   int    `json:"sortOrder"   validate:"gte=0"`
}

type CategoryService struct {
	categories repositories.CategoryRepository
	now        func() time.Time
}

func NewCategoryService(categories repositories.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories, now: func() time.Time { return time.Now().UTC() }}
}

// List returns categories by sort order, then name.
func (s *CategoryService) List(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	return s.categories.List(ctx, includeInactive)
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (models.Category, error) {
	now := s.now()
	c := models.Category{CreatedAt: now}
	if err := in.apply(&c, now); err != nil {
		return c, err
	}
	if err := s.categories.Create(ctx, &c); err != nil {
		return models.Category{}, err
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, in CategoryInput) (models.Category, error) {
	oid, err := repositories.ParseID(id, "category")
	if err != nil {
		return models.Category{}, err
	}
	c, err := s.categories.FindByID(ctx, oid)
	if err != nil {
		return c, err
	}
	if err := in.apply(&c, s.now()); err != nil {
		return c, err
	}
	if err := s.categories.Update(ctx, &c); err != nil {
		return models.Category{}, err
	}
	return c, nil
}

// Delete deactivates a category; its products are left untouched.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	oid, err := repositories.ParseID(id, "category")
	if err != nil {
		return err
	}
	return s.categories.SetActive(ctx, oid, false)
}

func (in CategoryInput) apply(c *models.Category, now time.Time) error {
	c.Name = strings.TrimSpace(in.Name)
	c.Slug = Slugify(in.Slug)
	if c.Slug == "" {
		c.Slug = Slugify(in.Name)
	}
	if c.Slug == "" {
		return apperr.ValidationFields(map[string]string{"slug": "The slug could not be derived from the name."})
	}
	c.Description = strings.TrimSpace(in.Description)
	c.Image = strings.TrimSpace(in.Image)
	c.IsActive = in.IsActive == nil || *in.IsActive
	c.SortOrder = in.SortOrder
	c.UpdatedAt = now
	return nil
}

// Slugify lowercases s and joins its letter and digit runs with hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

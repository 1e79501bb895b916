package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/unistore/app/models"
	"github.com/shashiranjanraj/unistore/app/repositories"
	"github.com/shashiranjanraj/unistore/pkg/apperr"
	"github.com/shashiranjanraj/unistore/pkg/auth"
)

type ProfileInput struct {
	Name  string `json:"name"  validate:"required,max=100"`
	Phone string `json:"phone" validate:"omitempty,phone"`
	Image string `json:"image" validate:"omitempty,http_url"`
}

type AdminUserInput struct {
	Role     *string `json:"role"     validate:"omitempty,oneof=student admin"`
	IsActive *bool   `json:"isActive"`
}

// UserService manages accounts created from identity-provider sign-ins.
type UserService struct {
	users    repositories.UserRepository
	products repositories.ProductRepository
}

func NewUserService(users repositories.UserRepository, products repositories.ProductRepository) *UserService {
	return &UserService{users: users, products: products}
}

// Me records the sign-in described by claims and returns the account.
// Disabled accounts are refused.
func (s *UserService) Me(ctx context.Context, claims *auth.Claims) (models.User, error) {
	if claims == nil || claims.UserID() == "" {
		return models.User{}, apperr.Unauthenticated("missing bearer token")
	}
	u, err := s.users.Upsert(ctx, models.User{
		ID:    claims.UserID(),
		Email: strings.ToLower(strings.TrimSpace(claims.Email)),
		Name:  strings.TrimSpace(claims.Name),
		Role:  models.Role(claims.Role),
	})
	if err != nil {
		return u, err
	}
	if !u.IsActive {
		return models.User{}, apperr.Forbidden("your account has been disabled")
	}
	return u, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, in ProfileInput) (models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return u, err
	}
	u.Name = strings.TrimSpace(in.Name)
	u.Phone = strings.TrimSpace(in.Phone)
	u.Image = strings.TrimSpace(in.Image)
	if err := s.users.Update(ctx, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Wishlist returns the active products on the user's wishlist.
func (s *UserService) Wishlist(ctx context.Context, id string) ([]models.Product, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	products := []models.Product{}
	for _, pid := range u.Wishlist {
		p, err := s.products.FindByID(ctx, pid)
		if apperr.Is(err, apperr.KindNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if p.IsActive {
			products = append(products, p)
		}
	}
	return products, nil
}

func (s *UserService) AddToWishlist(ctx context.Context, id, productID string) error {
	pid, err := repositories.ParseID(productID, "product")
	if err != nil {
		return err
	}
	p, err := s.products.FindByID(ctx, pid)
	if err != nil {
		return err
	}
	if !p.IsActive {
		return apperr.NotFound("product not found")
	}
	return s.users.AddToWishlist(ctx, id, pid)
}

func (s *UserService) RemoveFromWishlist(ctx context.Context, id, productID string) error {
	pid, err := repositories.ParseID(productID, "product")
	if err != nil {
		return err
	}
	return s.users.RemoveFromWishlist(ctx, id, pid)
}

func (s *UserService) List(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	return s.users.List(ctx, page, limit)
}

// AdminUpdate changes a user's role or active flag. Admins cannot demote
// or disable themselves.
func (s *UserService) AdminUpdate(ctx context.Context, admin, id string, in AdminUserInput) (models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return u, err
	}
	if in.Role != nil {
		u.Role = models.Role(*in.Role)
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	if id == admin && (u.Role != models.RoleAdmin || !u.IsActive) {
		return models.User{}, apperr.Conflict("you cannot remove your own admin access")
	}
	if err := s.users.Update(ctx, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// RoleOf reports the stored role of a user for rbac.HasRole and
// rbac.Active. Disabled accounts have no role.
func (s *UserService) RoleOf(r *http.Request, userID string) (string, error) {
	u, err := s.users.FindByID(r.Context(), userID)
	if err != nil {
		return "", err
	}
	if !u.IsActive {
		return "", apperr.Forbidden("your account has been disabled")
	}
	return string(u.Role), nil
}

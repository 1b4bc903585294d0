package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/stempro/academy-api/internal/filedb"
	"github.com/stempro/academy-api/internal/models"
	appErrors "github.com/stempro/academy-api/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, skip, limit int) ([]models.User, int, error)
	Update(ctx context.Context, id string, partial filedb.Record) (*models.User, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// UserService provides account administration use cases.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// List returns users newest first. Admin only, enforced by the router.
func (s *UserService) List(ctx context.Context, skip, limit int) ([]models.UserPublic, *models.Pagination, error) {
	skip = normalizeSkip(skip)
	limit = normalizeLimit(limit, 100, 1000)

	users, total, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, nil, storeError(err, "failed to list users")
	}

	public := make([]models.UserPublic, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}
	return public, &models.Pagination{Skip: skip, Limit: limit, Count: total}, nil
}

// Get returns a single user. Non-admins may only read themselves.
func (s *UserService) Get(ctx context.Context, caller models.JWTClaims, id string) (*models.UserPublic, error) {
	if !caller.IsAdmin && caller.UserID != id {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not enough permissions")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to fetch user")
	}
	if user == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	public := user.Public()
	return &public, nil
}

// Update applies a partial profile update. Non-admins may only update
// themselves and may never touch the admin flag.
func (s *UserService) Update(ctx context.Context, caller models.JWTClaims, id string, req models.UserUpdateRequest) (*models.UserPublic, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update payload")
	}
	if !caller.IsAdmin && caller.UserID != id {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not enough permissions")
	}
	if !caller.IsAdmin && req.IsAdmin != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only admins can grant admin privileges")
	}

	partial := filedb.Record{}
	if req.Name != nil {
		partial["name"] = *req.Name
	}
	if req.Role != nil {
		partial["role"] = string(*req.Role)
	}
	if req.Country != nil {
		partial["country"] = *req.Country
	}
	if req.PostalCode != nil {
		partial["postal_code"] = *req.PostalCode
	}
	if req.Comments != nil {
		partial["comments"] = *req.Comments
	}
	if req.IsActive != nil {
		partial["is_active"] = *req.IsActive
	}
	if req.IsAdmin != nil {
		partial["is_admin"] = *req.IsAdmin
	}

	user, err := s.repo.Update(ctx, id, partial)
	if err != nil {
		return nil, storeError(err, "failed to update user")
	}
	if user == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	public := user.Public()
	return &public, nil
}

// Delete removes a user. Admins cannot delete their own account.
func (s *UserService) Delete(ctx context.Context, caller models.JWTClaims, id string) error {
	if caller.UserID == id {
		return appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "cannot delete your own account")
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storeError(err, "failed to delete user")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	return nil
}

// MakeAdmin grants admin privileges to a user.
func (s *UserService) MakeAdmin(ctx context.Context, id string) (*models.UserPublic, error) {
	user, err := s.repo.Update(ctx, id, filedb.Record{"is_admin": true})
	if err != nil {
		return nil, storeError(err, "failed to update user")
	}
	if user == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	public := user.Public()
	return &public, nil
}

// ToggleActive flips the active flag and returns the new state.
func (s *UserService) ToggleActive(ctx context.Context, id string) (bool, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, storeError(err, "failed to fetch user")
	}
	if user == nil {
		return false, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}

	next := !user.IsActive
	if _, err := s.repo.Update(ctx, id, filedb.Record{"is_active": next}); err != nil {
		return false, storeError(err, "failed to update user")
	}
	return next, nil
}

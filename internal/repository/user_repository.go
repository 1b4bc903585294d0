package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stempro/academy-api/internal/filedb"
	"github.com/stempro/academy-api/internal/models"
)

// ErrEmailTaken is returned when the case-insensitive email uniqueness
// invariant of the user collection would be violated.
var ErrEmailTaken = errors.New("email already registered")

// UserRepository provides store access for users and password reset codes.
type UserRepository struct {
	db *filedb.Store
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *filedb.Store) *UserRepository {
	return &UserRepository{db: db}
}

// Create persists a new user. The duplicate email check runs inside the
// collection lock together with the append, so a concurrent registration of
// the same address cannot slip past it.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	attrs, err := createAttrs(user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	needle := strings.ToLower(user.Email)
	rec, err := r.db.Collection(filedb.CollectionUsers).Create(ctx, attrs,
		filedb.WithPrecondition(func(existing []filedb.Record) error {
			for _, e := range existing {
				if strings.ToLower(e.String("email")) == needle {
					return ErrEmailTaken
				}
			}
			return nil
		}))
	if err != nil {
		return nil, err
	}

	var stored models.User
	if err := filedb.Decode(rec, &stored); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &stored, nil
}

// FindByEmail returns the user with the given address, matched
// case-insensitively, or nil.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	needle := strings.ToLower(email)
	rec, err := r.db.Collection(filedb.CollectionUsers).Find(ctx, func(rec filedb.Record) bool {
		return strings.ToLower(rec.String("email")) == needle
	})
	return decodeUser(rec, err)
}

// FindByID returns the user with the given identifier, or nil.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	rec, err := r.db.Collection(filedb.CollectionUsers).GetByID(ctx, id)
	return decodeUser(rec, err)
}

// List returns users newest first with the collection total.
func (r *UserRepository) List(ctx context.Context, skip, limit int) ([]models.User, int, error) {
	records, err := r.db.Collection(filedb.CollectionUsers).ListWhere(ctx, "users", nil)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	var users []models.User
	if err := filedb.DecodeAll(pageSlice(records, skip, limit), &users); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, len(records), nil
}

// Update shallow-merges partial attributes into the user record. A nil
// result means no user matched.
func (r *UserRepository) Update(ctx context.Context, id string, partial filedb.Record) (*models.User, error) {
	rec, err := r.db.Collection(filedb.CollectionUsers).Update(ctx, id, partial)
	return decodeUser(rec, err)
}

// Delete removes the user; the boolean reports whether a removal occurred.
func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.db.Collection(filedb.CollectionUsers).Delete(ctx, id)
}

// SaveResetCode stores a reset code under the lowercased email.
func (r *UserRepository) SaveResetCode(ctx context.Context, email string, code models.ResetCode) error {
	rec, err := filedb.Encode(code)
	if err != nil {
		return fmt.Errorf("save reset code: %w", err)
	}
	return r.db.Collection(filedb.CollectionResetCodes).SetKey(ctx, strings.ToLower(email), rec)
}

// FindResetCode returns the stored reset code for email, or nil.
func (r *UserRepository) FindResetCode(ctx context.Context, email string) (*models.ResetCode, error) {
	rec, err := r.db.Collection(filedb.CollectionResetCodes).GetKey(ctx, strings.ToLower(email))
	if err != nil || rec == nil {
		return nil, err
	}
	var code models.ResetCode
	if err := filedb.Decode(rec, &code); err != nil {
		return nil, fmt.Errorf("find reset code: %w", err)
	}
	return &code, nil
}

// DeleteResetCode removes the reset code for email once consumed.
func (r *UserRepository) DeleteResetCode(ctx context.Context, email string) error {
	_, err := r.db.Collection(filedb.CollectionResetCodes).DeleteKey(ctx, strings.ToLower(email))
	return err
}

func decodeUser(rec filedb.Record, err error) (*models.User, error) {
	if err != nil || rec == nil {
		return nil, err
	}
	var user models.User
	if err := filedb.Decode(rec, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

// Package store wraps the database with the user queries the auth
// workflows need. Everything works on single records, so per-record
// atomicity from the database is all the consistency we rely on.
package store

import (
	"context"
	"errors"
	"time"

	"iqra/quran-api/model"

	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// Create inserts a new user. Email uniqueness is enforced by the
// database index, not by a prior read, so two racing registrations
// can't both succeed.
func (s *Users) Create(ctx context.Context, u *model.User) error {
	err := s.db.WithContext(ctx).Create(u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

func (s *Users) FindByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User

	err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &u, nil
}

func (s *Users) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User

	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &u, nil
}

// FindByIDWithActiveReset returns the user only if a reset code is
// pending and its expiry is still in the future.
func (s *Users) FindByIDWithActiveReset(ctx context.Context, id string, now time.Time) (*model.User, error) {
	var u model.User

	err := s.db.WithContext(ctx).
		Where("id = ? AND reset_code_hash IS NOT NULL AND reset_code_expiry > ?", id, now).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &u, nil
}

func (s *Users) Update(ctx context.Context, u *model.User) error {
	// Save writes every column, so cleared (nil) code fields actually
	// end up NULL instead of being skipped like partial Updates would
	return s.db.WithContext(ctx).Save(u).Error
}

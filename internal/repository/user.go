package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/frescolabs/storefront-api/internal/kvstore"
	"github.com/frescolabs/storefront-api/internal/model"
)

const usersKey = "users"

// UserRepository is the authoritative, durable user directory. Email is the
// unique key and comparisons are exact-match. Lookups return nil when no such
// user exists.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	// Update replaces the record currently stored under email; the record
	// itself may carry a new email.
	Update(ctx context.Context, email string, user *model.User) error
	// Delete removes the record and reports whether it existed.
	Delete(ctx context.Context, email string) (bool, error)
}

type kvUserRepo struct{ kv kvstore.Store }

func NewUserRepository(kv kvstore.Store) UserRepository {
	return &kvUserRepo{kv: kv}
}

func (r *kvUserRepo) load(ctx context.Context) ([]model.User, error) {
	data, ok, err := r.kv.Get(ctx, usersKey)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var users []model.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (r *kvUserRepo) save(ctx context.Context, users []model.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := r.kv.Set(ctx, usersKey, data); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

func (r *kvUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return users[i].Clone(), nil
		}
	}
	return nil, nil
}

func (r *kvUserRepo) Create(ctx context.Context, user *model.User) error {
	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	users = append(users, *user.Clone())
	return r.save(ctx, users)
}

func (r *kvUserRepo) Update(ctx context.Context, email string, user *model.User) error {
	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].Email == email {
			users[i] = *user.Clone()
			return r.save(ctx, users)
		}
	}
	return fmt.Errorf("update user: no record for %s", email)
}

func (r *kvUserRepo) Delete(ctx context.Context, email string) (bool, error) {
	users, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	for i := range users {
		if users[i].Email == email {
			users = append(users[:i], users[i+1:]...)
			return true, r.save(ctx, users)
		}
	}
	return false, nil
}

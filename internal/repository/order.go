package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/frescolabs/storefront-api/internal/kvstore"
	"github.com/frescolabs/storefront-api/internal/model"
)

const ordersKey = "orderHistories"

// OrderRepository records finalized orders per user email, insertion order
// being chronological. Orders are immutable once appended.
type OrderRepository interface {
	ListByEmail(ctx context.Context, email string) ([]model.Order, error)
	Append(ctx context.Context, email string, order model.Order) error
	// PurgeByEmail drops a user's whole history, for account deletion.
	PurgeByEmail(ctx context.Context, email string) error
	// Rekey moves a history under a new email after a profile email change.
	Rekey(ctx context.Context, oldEmail, newEmail string) error
}

type kvOrderRepo struct{ kv kvstore.Store }

func NewOrderRepository(kv kvstore.Store) OrderRepository {
	return &kvOrderRepo{kv: kv}
}

func (r *kvOrderRepo) load(ctx context.Context) (map[string][]model.Order, error) {
	data, ok, err := r.kv.Get(ctx, ordersKey)
	if err != nil {
		return nil, fmt.Errorf("load order histories: %w", err)
	}
	histories := make(map[string][]model.Order)
	if !ok {
		return histories, nil
	}
	if err := json.Unmarshal(data, &histories); err != nil {
		return nil, fmt.Errorf("decode order histories: %w", err)
	}
	return histories, nil
}

func (r *kvOrderRepo) save(ctx context.Context, histories map[string][]model.Order) error {
	data, err := json.Marshal(histories)
	if err != nil {
		return fmt.Errorf("encode order histories: %w", err)
	}
	if err := r.kv.Set(ctx, ordersKey, data); err != nil {
		return fmt.Errorf("save order histories: %w", err)
	}
	return nil
}

func (r *kvOrderRepo) ListByEmail(ctx context.Context, email string) ([]model.Order, error) {
	histories, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return histories[email], nil
}

func (r *kvOrderRepo) Append(ctx context.Context, email string, order model.Order) error {
	histories, err := r.load(ctx)
	if err != nil {
		return err
	}
	histories[email] = append(histories[email], order)
	return r.save(ctx, histories)
}

func (r *kvOrderRepo) PurgeByEmail(ctx context.Context, email string) error {
	histories, err := r.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := histories[email]; !ok {
		return nil
	}
	delete(histories, email)
	return r.save(ctx, histories)
}

func (r *kvOrderRepo) Rekey(ctx context.Context, oldEmail, newEmail string) error {
	if oldEmail == newEmail {
		return nil
	}
	histories, err := r.load(ctx)
	if err != nil {
		return err
	}
	orders, ok := histories[oldEmail]
	if !ok {
		return nil
	}
	histories[newEmail] = append(histories[newEmail], orders...)
	delete(histories, oldEmail)
	return r.save(ctx, histories)
}

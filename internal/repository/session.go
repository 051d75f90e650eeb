package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/frescolabs/storefront-api/internal/kvstore"
	"github.com/frescolabs/storefront-api/internal/model"
)

// SessionRepository persists the per-session slots: cart, wishlist, current
// user, theme and last page. Every slot is written through immediately after
// each mutation so a session survives restarts.
type SessionRepository interface {
	Cart(ctx context.Context, sessionID string) ([]model.CartItem, error)
	SaveCart(ctx context.Context, sessionID string, items []model.CartItem) error

	Wishlist(ctx context.Context, sessionID string) ([]int64, error)
	SaveWishlist(ctx context.Context, sessionID string, productIDs []int64) error

	CurrentUser(ctx context.Context, sessionID string) (*model.User, error)
	SaveCurrentUser(ctx context.Context, sessionID string, user *model.User) error
	ClearCurrentUser(ctx context.Context, sessionID string) error

	Theme(ctx context.Context, sessionID string) (model.Theme, error)
	SaveTheme(ctx context.Context, sessionID string, theme model.Theme) error

	Page(ctx context.Context, sessionID string) (string, error)
	SavePage(ctx context.Context, sessionID string, page string) error
}

type kvSessionRepo struct{ kv kvstore.Store }

func NewSessionRepository(kv kvstore.Store) SessionRepository {
	return &kvSessionRepo{kv: kv}
}

func sessionKey(slot, sessionID string) string {
	return slot + ":" + sessionID
}

func getJSON[T any](ctx context.Context, kv kvstore.Store, key string, out *T) (bool, error) {
	data, ok, err := kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func setJSON(ctx context.Context, kv kvstore.Store, key string, val any) error {
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (r *kvSessionRepo) Cart(ctx context.Context, sessionID string) ([]model.CartItem, error) {
	var items []model.CartItem
	if _, err := getJSON(ctx, r.kv, sessionKey("cart", sessionID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *kvSessionRepo) SaveCart(ctx context.Context, sessionID string, items []model.CartItem) error {
	if items == nil {
		items = []model.CartItem{}
	}
	return setJSON(ctx, r.kv, sessionKey("cart", sessionID), items)
}

func (r *kvSessionRepo) Wishlist(ctx context.Context, sessionID string) ([]int64, error) {
	var ids []int64
	if _, err := getJSON(ctx, r.kv, sessionKey("wishlist", sessionID), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *kvSessionRepo) SaveWishlist(ctx context.Context, sessionID string, productIDs []int64) error {
	if productIDs == nil {
		productIDs = []int64{}
	}
	return setJSON(ctx, r.kv, sessionKey("wishlist", sessionID), productIDs)
}

func (r *kvSessionRepo) CurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	var user model.User
	ok, err := getJSON(ctx, r.kv, sessionKey("currentUser", sessionID), &user)
	if err != nil || !ok {
		return nil, err
	}
	return &user, nil
}

func (r *kvSessionRepo) SaveCurrentUser(ctx context.Context, sessionID string, user *model.User) error {
	return setJSON(ctx, r.kv, sessionKey("currentUser", sessionID), user)
}

func (r *kvSessionRepo) ClearCurrentUser(ctx context.Context, sessionID string) error {
	return r.kv.Delete(ctx, sessionKey("currentUser", sessionID))
}

func (r *kvSessionRepo) Theme(ctx context.Context, sessionID string) (model.Theme, error) {
	var theme model.Theme
	ok, err := getJSON(ctx, r.kv, sessionKey("theme", sessionID), &theme)
	if err != nil {
		return "", err
	}
	if !ok {
		return model.ThemeLight, nil
	}
	return theme, nil
}

func (r *kvSessionRepo) SaveTheme(ctx context.Context, sessionID string, theme model.Theme) error {
	return setJSON(ctx, r.kv, sessionKey("theme", sessionID), theme)
}

func (r *kvSessionRepo) Page(ctx context.Context, sessionID string) (string, error) {
	var page string
	ok, err := getJSON(ctx, r.kv, sessionKey("currentPage", sessionID), &page)
	if err != nil {
		return "", err
	}
	if !ok {
		return "home", nil
	}
	return page, nil
}

func (r *kvSessionRepo) SavePage(ctx context.Context, sessionID string, page string) error {
	return setJSON(ctx, r.kv, sessionKey("currentPage", sessionID), page)
}

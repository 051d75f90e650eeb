package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/frescolabs/storefront-api/internal/model"
	"github.com/frescolabs/storefront-api/internal/notify"
	"github.com/frescolabs/storefront-api/internal/repository"
)

var validPages = map[string]bool{
	"home": true, "catalog": true, "cart": true, "login": true,
	"register": true, "confirmation": true, "productDetail": true,
	"wishlist": true, "checkout": true, "account": true, "contact": true,
	"forgotPassword": true, "resetPassword": true, "verification": true,
}

// SessionService holds the per-session state: current user, cart, wishlist,
// theme and last page. Every mutation is written through to its durable slot
// before returning.
type SessionService struct {
	sessionRepo repository.SessionRepository
	catalogRepo repository.CatalogRepository
	orderRepo   repository.OrderRepository
	notifier    notify.Notifier
}

func NewSessionService(sessionRepo repository.SessionRepository, catalogRepo repository.CatalogRepository, orderRepo repository.OrderRepository, notifier notify.Notifier) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		catalogRepo: catalogRepo,
		orderRepo:   orderRepo,
		notifier:    notifier,
	}
}

func (s *SessionService) Cart(ctx context.Context, sessionID string) ([]model.CartItem, error) {
	return s.sessionRepo.Cart(ctx, sessionID)
}

// AddToCart appends the product with quantity 1, or increments the existing
// line: the cart holds at most one line per product id.
func (s *SessionService) AddToCart(ctx context.Context, sessionID string, productID int64) ([]model.CartItem, error) {
	product, err := s.catalogRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	items, err := s.sessionRepo.Cart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range items {
		if items[i].ID == productID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		items = append(items, model.CartItem{Product: *product, Quantity: 1})
	}
	if err := s.sessionRepo.SaveCart(ctx, sessionID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateQuantity sets the quantity of a cart line; a quantity of zero or less
// removes the line. An absent product id is a no-op.
func (s *SessionService) UpdateQuantity(ctx context.Context, sessionID string, productID int64, quantity int) ([]model.CartItem, error) {
	items, err := s.sessionRepo.Cart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		kept := items[:0]
		for _, it := range items {
			if it.ID != productID {
				kept = append(kept, it)
			}
		}
		items = kept
	} else {
		for i := range items {
			if items[i].ID == productID {
				items[i].Quantity = quantity
			}
		}
	}
	if err := s.sessionRepo.SaveCart(ctx, sessionID, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *SessionService) RemoveFromCart(ctx context.Context, sessionID string, productID int64) ([]model.CartItem, error) {
	return s.UpdateQuantity(ctx, sessionID, productID, 0)
}

func (s *SessionService) ClearCart(ctx context.Context, sessionID string) error {
	return s.sessionRepo.SaveCart(ctx, sessionID, nil)
}

func (s *SessionService) Wishlist(ctx context.Context, sessionID string) ([]int64, error) {
	return s.sessionRepo.Wishlist(ctx, sessionID)
}

// ToggleWishlist adds the product id when absent and removes it when present.
// Calling it twice restores the original wishlist.
func (s *SessionService) ToggleWishlist(ctx context.Context, sessionID string, productID int64) ([]int64, bool, error) {
	ids, err := s.sessionRepo.Wishlist(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}

	added := true
	kept := ids[:0]
	for _, id := range ids {
		if id == productID {
			added = false
			continue
		}
		kept = append(kept, id)
	}
	ids = kept
	if added {
		ids = append(ids, productID)
	}
	if err := s.sessionRepo.SaveWishlist(ctx, sessionID, ids); err != nil {
		return nil, false, err
	}
	return ids, added, nil
}

func (s *SessionService) CurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	return s.sessionRepo.CurrentUser(ctx, sessionID)
}

// SetCurrentUser binds a sanitized user to the session after login or a
// profile change.
func (s *SessionService) SetCurrentUser(ctx context.Context, sessionID string, user *model.User) error {
	return s.sessionRepo.SaveCurrentUser(ctx, sessionID, user.Sanitized())
}

// Logout clears the session state: user, cart and wishlist. Durable order
// history is retained.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.ClearCurrentUser(ctx, sessionID); err != nil {
		return err
	}
	if err := s.sessionRepo.SaveCart(ctx, sessionID, nil); err != nil {
		return err
	}
	return s.sessionRepo.SaveWishlist(ctx, sessionID, nil)
}

func (s *SessionService) Theme(ctx context.Context, sessionID string) (model.Theme, error) {
	return s.sessionRepo.Theme(ctx, sessionID)
}

func (s *SessionService) SetTheme(ctx context.Context, sessionID string, theme model.Theme) error {
	if theme != model.ThemeLight && theme != model.ThemeDark {
		return fmt.Errorf("%w: tema desconocido", ErrValidation)
	}
	return s.sessionRepo.SaveTheme(ctx, sessionID, theme)
}

func (s *SessionService) SetPage(ctx context.Context, sessionID, page string) error {
	if !validPages[page] {
		return fmt.Errorf("%w: página desconocida", ErrValidation)
	}
	return s.sessionRepo.SavePage(ctx, sessionID, page)
}

func (s *SessionService) Page(ctx context.Context, sessionID string) (string, error) {
	return s.sessionRepo.Page(ctx, sessionID)
}

// Checkout finalizes the cart into an order: requires a logged-in user and a
// non-empty cart, snapshots the items, appends to the user's history, clears
// the cart and emits the receipt mail intent. The address and payment method
// arrive pre-validated from the checkout form; only their shape is re-checked
// here because the full card data is already discarded at this point.
func (s *SessionService) Checkout(ctx context.Context, sessionID string, addr model.Address, pm model.PaymentMethod, notes string) (*model.Order, error) {
	user, err := s.sessionRepo.CurrentUser(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotLoggedIn
	}

	items, err := s.sessionRepo.Cart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	if pm.CardType != model.CardVisa && pm.CardType != model.CardMastercard {
		return nil, fmt.Errorf("%w: método de pago inválido", ErrValidation)
	}
	if len(pm.Last4) != 4 {
		return nil, fmt.Errorf("%w: método de pago inválido", ErrValidation)
	}
	if addr.Street == "" || addr.City == "" {
		return nil, fmt.Errorf("%w: dirección de envío incompleta", ErrValidation)
	}

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	order := model.Order{
		ID:              model.NewOrderID(),
		Items:           model.CloneItems(items),
		Total:           total,
		Notes:           notes,
		Date:            time.Now().Format("2006-01-02"),
		Status:          model.OrderStatusProcesando,
		ShippingAddress: addr,
		PaymentMethod:   pm,
	}

	if err := s.orderRepo.Append(ctx, user.Email, order); err != nil {
		return nil, fmt.Errorf("record order: %w", err)
	}
	if err := s.sessionRepo.SaveCart(ctx, sessionID, nil); err != nil {
		return nil, err
	}

	_ = s.notifier.Send(ctx, notify.Message{
		Kind: notify.KindOrderReceipt, Recipient: user.Email, Name: user.Name, Order: &order,
	})
	return &order, nil
}

// Orders lists the logged-in user's order history, oldest first.
func (s *SessionService) Orders(ctx context.Context, sessionID string) ([]model.Order, error) {
	user, err := s.sessionRepo.CurrentUser(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotLoggedIn
	}
	return s.orderRepo.ListByEmail(ctx, user.Email)
}

// EmailOrder re-sends the receipt for one of the user's past orders.
func (s *SessionService) EmailOrder(ctx context.Context, sessionID, orderID string) error {
	user, err := s.sessionRepo.CurrentUser(ctx, sessionID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotLoggedIn
	}

	orders, err := s.orderRepo.ListByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	for i := range orders {
		if orders[i].ID == orderID {
			_ = s.notifier.Send(ctx, notify.Message{
				Kind: notify.KindOrderReceipt, Recipient: user.Email, Name: user.Name, Order: &orders[i],
			})
			return nil
		}
	}
	return ErrOrderNotFound
}

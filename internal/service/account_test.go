package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/frescolabs/storefront-api/internal/kvstore"
	"github.com/frescolabs/storefront-api/internal/model"
	"github.com/frescolabs/storefront-api/internal/notify"
	"github.com/frescolabs/storefront-api/internal/repository"
)

func newAccountEnv(t *testing.T) (*AccountService, repository.UserRepository, repository.OrderRepository) {
	t.Helper()
	kv := kvstore.NewMemory()
	userRepo := repository.NewUserRepository(kv)
	orderRepo := repository.NewOrderRepository(kv)
	return NewAccountService(userRepo, orderRepo), userRepo, orderRepo
}

func seedUser(t *testing.T, userRepo repository.UserRepository, email, password string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, userRepo.Create(context.Background(), &model.User{
		Name:         "Ana Torres",
		Email:        email,
		Phone:        "+51 987654321",
		PasswordHash: string(hashed),
		Verified:     true,
	}))
}

func TestGetSanitizes(t *testing.T) {
	svc, userRepo, _ := newAccountEnv(t)
	ctx := context.Background()
	seedUser(t, userRepo, "ana@example.com", "secret123")

	user, err := svc.Get(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana Torres", user.Name)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Get(ctx, "nadie@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	svc, userRepo, orderRepo := newAccountEnv(t)
	ctx := context.Background()
	seedUser(t, userRepo, "ana@example.com", "secret123")

	updated, err := svc.UpdateProfile(ctx, "ana@example.com", "Ana T.", "ana@example.com", "+51 912345678", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Ana T.", updated.Name)
	assert.Equal(t, "+51 912345678", updated.Phone)

	// Password change requires the current password.
	_, err = svc.UpdateProfile(ctx, "ana@example.com", "Ana T.", "ana@example.com", "+51 912345678", "wrong", "nuevaclave1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.UpdateProfile(ctx, "ana@example.com", "Ana T.", "ana@example.com", "+51 912345678", "secret123", "nuevaclave1")
	require.NoError(t, err)
	stored, err := userRepo.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("nuevaclave1")))

	// Order history follows the account to its new email.
	require.NoError(t, orderRepo.Append(ctx, "ana@example.com", model.Order{ID: "FRESCO-AAAAAAA"}))
	moved, err := svc.UpdateProfile(ctx, "ana@example.com", "Ana T.", "ana.t@example.com", "+51 912345678", "", "")
	require.NoError(t, err)
	assert.Equal(t, "ana.t@example.com", moved.Email)

	orders, err := orderRepo.ListByEmail(ctx, "ana.t@example.com")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	old, err := orderRepo.ListByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Empty(t, old)
}

func TestUpdateProfileEmailInUse(t *testing.T) {
	svc, userRepo, _ := newAccountEnv(t)
	ctx := context.Background()
	seedUser(t, userRepo, "ana@example.com", "secret123")
	seedUser(t, userRepo, "jorge@example.com", "secret123")

	_, err := svc.UpdateProfile(ctx, "ana@example.com", "Ana", "jorge@example.com", "", "", "")
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestDeleteAccountPurgesHistory(t *testing.T) {
	svc, userRepo, orderRepo := newAccountEnv(t)
	ctx := context.Background()
	seedUser(t, userRepo, "ana@example.com", "secret123")
	require.NoError(t, orderRepo.Append(ctx, "ana@example.com", model.Order{ID: "FRESCO-AAAAAAA"}))

	deleted, err := svc.DeleteAccount(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, deleted)

	orders, err := orderRepo.ListByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Empty(t, orders)

	deleted, err = svc.DeleteAccount(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.False(t, deleted)

	// The old credentials no longer log in.
	authSvc := NewAuthService(userRepo, notify.NewRecorder(), "test-secret", time.Hour, "+51")
	_, _, err = authSvc.Login(ctx, "ana@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAddressLifecycle(t *testing.T) {
	svc, userRepo, _ := newAccountEnv(t)
	ctx := context.Background()
	seedUser(t, userRepo, "ana@example.com", "secret123")

	addr := model.Address{Street: "Av. Arequipa 123", City: "Lima", State: "Lima", PostalCode: "15046", Country: "Perú"}
	user, err := svc.AddAddress(ctx, "ana@example.com", addr)
	require.NoError(t, err)
	require.Len(t, user.Addresses, 1)
	assert.NotZero(t, user.Addresses[0].ID)

	// Second address gets a distinct id even within the same millisecond.
	user, err = svc.AddAddress(ctx, "ana@example.com", model.Address{Street: "Jr. Unión 456", City: "Lima"})
	require.NoError(t, err)
	require.Len(t, user.Addresses, 2)
	assert.NotEqual(t, user.Addresses[0].ID, user.Addresses[1].ID)

	changed := user.Addresses[0]
	changed.Street = "Av. Arequipa 999"
	user, err = svc.UpdateAddress(ctx, "ana@example.com", changed)
	require.NoError(t, err)
	assert.Equal(t, "Av. Arequipa 999", user.Addresses[0].Street)

	user, err = svc.DeleteAddress(ctx, "ana@example.com", changed.ID)
	require.NoError(t, err)
	require.Len(t, user.Addresses, 1)
	assert.Equal(t, "Jr. Unión 456", user.Addresses[0].Street)

	// Missing users are a silent no-op.
	user, err = svc.AddAddress(ctx, "nadie@example.com", addr)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestPaymentMethodLifecycle(t *testing.T) {
	svc, userRepo, _ := newAccountEnv(t)
	ctx := context.Background()
	seedUser(t, userRepo, "ana@example.com", "secret123")

	user, err := svc.AddPaymentMethod(ctx, "ana@example.com", CardInput{
		Number: "4111 1111 1111 1234", Expiry: "12/27", CVV: "123",
	})
	require.NoError(t, err)
	require.Len(t, user.PaymentMethods, 1)
	pm := user.PaymentMethods[0]
	assert.Equal(t, model.CardVisa, pm.CardType)
	assert.Equal(t, "1234", pm.Last4)
	assert.Equal(t, "12/27", pm.ExpiryDate)

	user, err = svc.DeletePaymentMethod(ctx, "ana@example.com", pm.ID)
	require.NoError(t, err)
	assert.Empty(t, user.PaymentMethods)
}

func TestValidateCard(t *testing.T) {
	tests := []struct {
		name    string
		in      CardInput
		want    model.CardType
		wantErr bool
	}{
		{"visa", CardInput{Number: "4111111111111111", Expiry: "01/26", CVV: "123"}, model.CardVisa, false},
		{"mastercard with spaces", CardInput{Number: "5500 0000 0000 0004", Expiry: "12/28", CVV: "1234"}, model.CardMastercard, false},
		{"too short", CardInput{Number: "411111111111", Expiry: "01/26", CVV: "123"}, "", true},
		{"non numeric", CardInput{Number: "4111x11111111111", Expiry: "01/26", CVV: "123"}, "", true},
		{"unsupported brand", CardInput{Number: "3711111111111111", Expiry: "01/26", CVV: "123"}, "", true},
		{"bad month", CardInput{Number: "4111111111111111", Expiry: "13/26", CVV: "123"}, "", true},
		{"bad expiry format", CardInput{Number: "4111111111111111", Expiry: "1/26", CVV: "123"}, "", true},
		{"bad cvv", CardInput{Number: "4111111111111111", Expiry: "01/26", CVV: "12"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm, err := ValidateCard(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, pm.CardType)
			assert.Len(t, pm.Last4, 4)
		})
	}
}

package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frescolabs/storefront-api/internal/kvstore"
	"github.com/frescolabs/storefront-api/internal/middleware"
	"github.com/frescolabs/storefront-api/internal/model"
	"github.com/frescolabs/storefront-api/internal/notify"
	"github.com/frescolabs/storefront-api/internal/repository"
	"github.com/frescolabs/storefront-api/internal/service"
)

func init() { gin.SetMode(gin.TestMode) }

const testJWTSecret = "test-secret"

type apiEnv struct {
	router   *gin.Engine
	recorder *notify.Recorder
}

// newAPIEnv wires the full API over the in-process store, mirroring the route
// table the server exposes.
func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()

	kv := kvstore.NewMemory()
	recorder := notify.NewRecorder()

	userRepo := repository.NewUserRepository(kv)
	catalogRepo := repository.NewCatalogRepository(kv, nil)
	orderRepo := repository.NewOrderRepository(kv)
	sessionRepo := repository.NewSessionRepository(kv)

	authSvc := service.NewAuthService(userRepo, recorder, testJWTSecret, time.Hour, "+51")
	accountSvc := service.NewAccountService(userRepo, orderRepo)
	catalogSvc := service.NewCatalogService(catalogRepo)
	sessionSvc := service.NewSessionService(sessionRepo, catalogRepo, orderRepo, recorder)

	authH := NewAuthHandler(authSvc, sessionSvc)
	accountH := NewAccountHandler(accountSvc, sessionSvc)
	catalogH := NewCatalogHandler(catalogSvc, accountSvc)
	sessionH := NewSessionHandler(sessionSvc)
	orderH := NewOrderHandler(sessionSvc)

	router := gin.New()
	v1 := router.Group("/api/v1", middleware.Session())
	{
		auth := v1.Group("/auth")
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)
		auth.POST("/logout", authH.Logout)
		auth.POST("/verify", authH.VerifyEmail)
		auth.POST("/resend-verification", authH.ResendVerification)
		auth.POST("/forgot-password", authH.ForgotPassword)
		auth.POST("/reset-password", authH.ResetPassword)

		products := v1.Group("/products")
		products.GET("", catalogH.List)
		products.GET("/:id", catalogH.GetByID)
		products.POST("/:id/reviews", middleware.Auth(testJWTSecret), catalogH.SubmitReview)

		cart := v1.Group("/cart")
		cart.GET("", sessionH.GetCart)
		cart.POST("/items", sessionH.AddCartItem)
		cart.PUT("/items/:id", sessionH.UpdateCartItem)
		cart.DELETE("/items/:id", sessionH.RemoveCartItem)
		cart.DELETE("", sessionH.ClearCart)

		wishlist := v1.Group("/wishlist")
		wishlist.GET("", sessionH.GetWishlist)
		wishlist.POST("/toggle", sessionH.ToggleWishlist)

		session := v1.Group("/session")
		session.PUT("/theme", sessionH.SetTheme)
		session.PUT("/page", sessionH.SetPage)

		v1.POST("/checkout", orderH.Checkout)
		v1.GET("/orders", orderH.ListOrders)
		v1.POST("/orders/:id/email", orderH.EmailOrder)

		account := v1.Group("/account", middleware.Auth(testJWTSecret))
		account.GET("", accountH.Get)
		account.PUT("", accountH.UpdateProfile)
		account.DELETE("", accountH.DeleteAccount)
		account.POST("/addresses", accountH.AddAddress)
		account.PUT("/addresses/:id", accountH.UpdateAddress)
		account.DELETE("/addresses/:id", accountH.DeleteAddress)
		account.POST("/payment-methods", accountH.AddPaymentMethod)
		account.DELETE("/payment-methods/:id", accountH.DeletePaymentMethod)
	}

	return &apiEnv{router: router, recorder: recorder}
}

func (e *apiEnv) do(t *testing.T, method, path, sessionID, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(middleware.SessionHeader, sessionID)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestStorefrontShoppingFlow(t *testing.T) {
	env := newAPIEnv(t)
	sid := uuid.NewString()

	// Register.
	rec := env.do(t, http.MethodPost, "/api/v1/auth/register", sid, "", gin.H{
		"name": "Ana Torres", "email": "ana@example.com",
		"password": "secret123", "phone": "987654321",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Login before verification is refused.
	rec = env.do(t, http.MethodPost, "/api/v1/auth/login", sid, "", gin.H{
		"email": "ana@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Verify with the mailed token.
	mail := env.recorder.LastOfKind(notify.KindVerification)
	require.NotNil(t, mail)
	rec = env.do(t, http.MethodPost, "/api/v1/auth/verify", sid, "", gin.H{
		"token": mail.Token, "email": "ana@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Login.
	rec = env.do(t, http.MethodPost, "/api/v1/auth/login", sid, "", gin.H{
		"email": "ana@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}](t, rec)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "+51 987654321", login.User.Phone)
	assert.Empty(t, login.User.PasswordHash)

	// Browse the catalog.
	rec = env.do(t, http.MethodGet, "/api/v1/products", sid, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	products := decode[[]model.Product](t, rec)
	assert.Len(t, products, 10)

	// Fill the cart.
	rec = env.do(t, http.MethodPost, "/api/v1/cart/items", sid, "", gin.H{"productId": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/v1/cart/items", sid, "", gin.H{"productId": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/v1/cart/items", sid, "", gin.H{"productId": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[struct {
		Items []model.CartItem `json:"items"`
	}](t, rec)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	// Checkout.
	rec = env.do(t, http.MethodPost, "/api/v1/checkout", sid, "", gin.H{
		"address": gin.H{
			"street": "Av. Arequipa 123", "city": "Lima", "state": "Lima",
			"postalCode": "15046", "country": "Perú",
		},
		"card": gin.H{"number": "4111111111111111", "expiry": "12/27", "cvv": "123"},
		"notes": "Tocar el timbre.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[model.Order](t, rec)
	assert.Regexp(t, model.OrderIDPattern, order.ID)
	assert.Equal(t, model.OrderStatusProcesando, order.Status)
	assert.Equal(t, "visa", string(order.PaymentMethod.CardType))
	assert.Equal(t, "1111", order.PaymentMethod.Last4)

	// The cart is now empty and the order shows up in the history.
	rec = env.do(t, http.MethodGet, "/api/v1/cart", sid, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decode[struct {
		Items []model.CartItem `json:"items"`
	}](t, rec)
	assert.Empty(t, cart.Items)

	rec = env.do(t, http.MethodGet, "/api/v1/orders", sid, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decode[struct {
		Orders []model.Order `json:"orders"`
		Total  int           `json:"total"`
	}](t, rec)
	require.Equal(t, 1, orders.Total)
	assert.Equal(t, order.ID, orders.Orders[0].ID)

	// Authenticated account read and review submission.
	rec = env.do(t, http.MethodGet, "/api/v1/account", sid, login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/v1/products/1/reviews", sid, login.Token, gin.H{
		"rating": 5, "comment": "Muy frescas.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reviewed := decode[model.Product](t, rec)
	assert.Equal(t, "Ana Torres", reviewed.Reviews[len(reviewed.Reviews)-1].Author)
}

func TestCheckoutRejectsBadCardAtTheBoundary(t *testing.T) {
	env := newAPIEnv(t)
	sid := uuid.NewString()

	rec := env.do(t, http.MethodPost, "/api/v1/checkout", sid, "", gin.H{
		"address": gin.H{
			"street": "Av. Arequipa 123", "city": "Lima",
			"postalCode": "15046", "country": "Perú",
		},
		"card": gin.H{"number": "3711111111111111", "expiry": "12/27", "cvv": "123"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Visa o Mastercard")
}

func TestCheckoutRequiresLogin(t *testing.T) {
	env := newAPIEnv(t)
	sid := uuid.NewString()

	env.do(t, http.MethodPost, "/api/v1/cart/items", sid, "", gin.H{"productId": 1})

	rec := env.do(t, http.MethodPost, "/api/v1/checkout", sid, "", gin.H{
		"address": gin.H{
			"street": "Av. Arequipa 123", "city": "Lima",
			"postalCode": "15046", "country": "Perú",
		},
		"card": gin.H{"number": "4111111111111111", "expiry": "12/27", "cvv": "123"},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAccountRoutesRequireToken(t *testing.T) {
	env := newAPIEnv(t)
	sid := uuid.NewString()

	rec := env.do(t, http.MethodGet, "/api/v1/account", sid, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	env := newAPIEnv(t)
	sid := uuid.NewString()

	body := gin.H{
		"name": "Ana", "email": "ana@example.com",
		"password": "secret123", "phone": "987654321",
	}
	rec := env.do(t, http.MethodPost, "/api/v1/auth/register", sid, "", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/auth/register", sid, "", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "ya está registrado")
}

package dto

import (
	"github.com/frescolabs/storefront-api/internal/model"
)

// --- Auth ---

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// --- Account ---

type UpdateProfileRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type AddressRequest struct {
	Street     string `json:"street" binding:"required"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode" binding:"required"`
	Country    string `json:"country" binding:"required"`
}

type CardRequest struct {
	Number string `json:"number" binding:"required"`
	Expiry string `json:"expiry" binding:"required"`
	CVV    string `json:"cvv" binding:"required"`
}

type UserResponse struct {
	User *model.User `json:"user"`
}

// --- Catalog ---

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
}

// --- Session ---

type AddCartItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
}

type UpdateCartItemRequest struct {
	// Quantity of zero (or less) removes the line, so no min binding here.
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Items []model.CartItem `json:"items"`
}

type WishlistRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
}

type WishlistResponse struct {
	ProductIDs []int64 `json:"productIds"`
	Added      bool    `json:"added"`
}

type ThemeRequest struct {
	Theme model.Theme `json:"theme" binding:"required"`
}

type PageRequest struct {
	Page string `json:"page" binding:"required"`
}

// --- Checkout / Orders ---

type CheckoutRequest struct {
	Address AddressRequest `json:"address" binding:"required"`
	Card    CardRequest    `json:"card" binding:"required"`
	Notes   string         `json:"notes"`
}

type OrderListResponse struct {
	Orders []model.Order `json:"orders"`
	Total  int           `json:"total"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

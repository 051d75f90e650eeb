package model

import (
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryFrutasVerduras Category = "Frutas y Verduras"
	CategoryLacteosHuevos  Category = "Lácteos y Huevos"
	CategoryCarnesPescados Category = "Carnes y Pescados"
	CategoryPanaderia      Category = "Panadería"
	CategoryDespensa       Category = "Despensa"
)

type Tag string

const (
	TagDestacado Tag = "destacado"
	TagOferta    Tag = "oferta"
	TagNuevo     Tag = "nuevo"
)

type CardType string

const (
	CardVisa       CardType = "visa"
	CardMastercard CardType = "mastercard"
)

type OrderStatus string

const (
	OrderStatusProcesando OrderStatus = "Procesando"
	OrderStatusEnviado    OrderStatus = "Enviado"
	OrderStatusEntregado  OrderStatus = "Entregado"
	OrderStatusCancelado  OrderStatus = "Cancelado"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type Address struct {
	ID         int64  `json:"id"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// PaymentMethod never carries the full card number or CVV; those are used
// transiently during validation and discarded.
type PaymentMethod struct {
	ID         int64    `json:"id"`
	CardType   CardType `json:"cardType"`
	Last4      string   `json:"last4"`
	ExpiryDate string   `json:"expiryDate"`
}

// User is the full directory record, keyed uniquely by email. The credential
// and pending tokens must never leave the directory; callers get the
// Sanitized form.
type User struct {
	Name              string          `json:"name"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone,omitempty"`
	PasswordHash      string          `json:"passwordHash,omitempty"`
	Verified          bool            `json:"verified"`
	VerificationToken string          `json:"verificationToken,omitempty"`
	ResetToken        string          `json:"resetToken,omitempty"`
	Addresses         []Address       `json:"addresses"`
	PaymentMethods    []PaymentMethod `json:"paymentMethods"`
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Addresses = append([]Address(nil), u.Addresses...)
	c.PaymentMethods = append([]PaymentMethod(nil), u.PaymentMethods...)
	return &c
}

// Sanitized returns a deep copy with the credential and any pending tokens
// stripped, safe to hand across the API boundary.
func (u *User) Sanitized() *User {
	c := u.Clone()
	if c == nil {
		return nil
	}
	c.PasswordHash = ""
	c.VerificationToken = ""
	c.ResetToken = ""
	return c
}

type Review struct {
	ID      int64  `json:"id"`
	Author  string `json:"author"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    Category        `json:"category"`
	Tags        []Tag           `json:"tags,omitempty"`
	Description string          `json:"description"`
	Rating      float64         `json:"rating"`
	Reviews     []Review        `json:"reviews"`
}

// Clone returns a deep copy of the product.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	c.Tags = append([]Tag(nil), p.Tags...)
	c.Reviews = append([]Review(nil), p.Reviews...)
	return &c
}

// CartItem is one product line in a cart. The product fields are flattened
// into the item so orders keep a frozen snapshot of what was bought.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// CloneItems deep-copies a cart so later cart mutations cannot reach into a
// stored order.
func CloneItems(items []CartItem) []CartItem {
	out := make([]CartItem, 0, len(items))
	for _, it := range items {
		c := it
		c.Product = *it.Product.Clone()
		out = append(out, c)
	}
	return out
}

type Order struct {
	ID              string          `json:"id"`
	Items           []CartItem      `json:"items"`
	Total           decimal.Decimal `json:"total"`
	Notes           string          `json:"notes,omitempty"`
	Date            string          `json:"date"`
	Status          OrderStatus     `json:"status"`
	ShippingAddress Address         `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
}

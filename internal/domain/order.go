package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCredit PaymentMethod = "credit"
	PaymentDebit  PaymentMethod = "debit"
)

// Valid reports whether the method is one the order service accepts.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCredit || m == PaymentDebit
}

type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

// Complete reports whether every field is non-empty.
func (a ShippingAddress) Complete() bool {
	return a.Street != "" && a.City != "" && a.State != "" && a.ZipCode != ""
}

type OrderItem struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

// OrderRequest is the outbound payload for the order-creation endpoint.
// Lines carry no prices; the server re-prices them and treats TotalPrice
// as advisory.
type OrderRequest struct {
	Items      []OrderItem
	Address    ShippingAddress
	Payment    PaymentMethod
	TotalPrice decimal.Decimal
	CustomerID string
	OrderDate  time.Time
}

// SubmittedOrder is the snapshot retained for the confirmation view after
// a successful submission: the cart as it was sent, plus the server id.
type SubmittedOrder struct {
	OrderID  string          `json:"orderId"`
	Items    []CartLine      `json:"orderItems"`
	Total    decimal.Decimal `json:"totalPrice"`
	Address  ShippingAddress `json:"shippingAddress"`
	Payment  PaymentMethod   `json:"paymentMethod"`
	PlacedAt time.Time       `json:"placedAt"`
}

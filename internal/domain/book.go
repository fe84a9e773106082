package domain

import "github.com/shopspring/decimal"

// Book is the subset of a catalog record the storefront reads.
type Book struct {
	ID       string          `json:"_id"`
	Title    string          `json:"title"`
	Author   string          `json:"author"`
	Genre    string          `json:"genre"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// User is the profile returned by the auth service on login.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	ProfileID string `json:"profileId"`
}

package model

// Contact holds the phone and email of a farmer or customer.
type Contact struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Farmer sells raw material to the business.
type Farmer struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	Contact  Contact        `json:"contact"`
	Location FarmerLocation `json:"location"`
}

// FarmerLocation is where a farmer is based.
type FarmerLocation struct {
	Address string `json:"address"`
	City    string `json:"city"`
}

// Customer buys processed products.
type Customer struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Contact Contact `json:"contact"`
	Address Address `json:"address"`
}

// Address is a customer shipping address.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

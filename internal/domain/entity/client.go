package entity

import "time"

// Client es un cliente del taller.
type Client struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string // NIT o cédula
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

package entity

import "time"

// Vehicle es un vehículo de un cliente del taller.
type Vehicle struct {
	ID        string
	CompanyID string
	ClientID  string
	Plate     string // placa, única por empresa
	Brand     string
	Model     string
	Year      int
	VIN       string
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

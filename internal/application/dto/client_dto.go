package dto

import "time"

// CreateClientRequest entrada para crear un cliente del taller.
type CreateClientRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	TaxID   string `json:"tax_id"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateClientRequest entrada para actualizar un cliente (campos opcionales).
type UpdateClientRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ClientListResponse lista paginada de clientes.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// CreateVehicleRequest entrada para registrar un vehículo de un cliente.
type CreateVehicleRequest struct {
	ClientID string `json:"client_id" validate:"required,uuid"`
	Plate    string `json:"plate" validate:"required,min=1,max=10"`
	Brand    string `json:"brand"`
	Model    string `json:"model"`
	Year     int    `json:"year"`
	VIN      string `json:"vin"`
	Color    string `json:"color"`
}

// VehicleResponse salida de un vehículo.
type VehicleResponse struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
	Plate    string `json:"plate"`
	Brand    string `json:"brand,omitempty"`
	Model    string `json:"model,omitempty"`
	Year     int    `json:"year,omitempty"`
	VIN      string `json:"vin,omitempty"`
	Color    string `json:"color,omitempty"`
}

// VehicleListResponse lista paginada de vehículos.
type VehicleListResponse struct {
	Items []VehicleResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

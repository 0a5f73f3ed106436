package entity

import "time"

// Estados de una orden de reparación.
const (
	OrderStatusOpen       = "OPEN"
	OrderStatusInProgress = "IN_PROGRESS"
	OrderStatusDone       = "DONE"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

// Order es una orden de reparación del taller. Documento padre dueño de sus
// líneas de asignación: las líneas de repuestos entran por el motor de
// consumo FIFO y salen por el motor de reversión; nunca se tocan directo.
type Order struct {
	ID        string
	CompanyID string
	ClientID  string
	VehicleID string
	Number    int64 // consecutivo por empresa
	Status    string
	Symptoms  string // falla reportada por el cliente
	Diagnosis string
	Mileage   int64
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
	Lines     []*AllocationLine
}

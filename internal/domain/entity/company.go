package entity

import "time"

// Company representa un taller (tenant del sistema).
type Company struct {
	ID        string
	Name      string
	NIT       string // NIT o identificación tributaria del taller
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

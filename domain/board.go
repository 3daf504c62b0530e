package domain

import "time"

// WorkBoard groups tasks under a single owning user. The owner is fixed at
// creation and is never serialized; clients only ever see boards they own.
type WorkBoard struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"-"`
	Tasks       []Task    `json:"tasks"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

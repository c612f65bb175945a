// Package hospital manages the top of the organizational hierarchy. Every
// department, employee and patient record hangs off a hospital, and access
// control partitions all clinical data by it.
package hospital

import (
	"time"

	"github.com/google/uuid"
)

type Hospital struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an admin panel account. The public site has no user concept;
// users exist only to gate the /api/admin surface.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"displayName"`
	TOTPSecret   *string   `json:"-"`
	TOTPEnabled  bool      `json:"totpEnabled"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

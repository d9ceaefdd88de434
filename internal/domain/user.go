package domain

import "time"

// UserRecord is the persisted identity document held in the content store.
// The store assigns the ID at creation time.
type UserRecord struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}

// Identity is the authenticated view of a caller, stripped of credentials.
// It is what flows into session claims and API responses.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AdminID is the fixed identifier of the environment-configured
// bootstrap admin, which is never persisted as a UserRecord.
const AdminID = "1"

// AdminName is the display name of the bootstrap admin identity.
const AdminName = "Admin"

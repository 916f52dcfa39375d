package domain

import "time"

// Surveyor is a registered directory member. PasswordHash never leaves the
// server.
type Surveyor struct {
	ID           int64     `json:"id"                    db:"id"`
	FirstName    string    `json:"firstName"             db:"first_name"`
	LastName     string    `json:"lastName"              db:"last_name"`
	CompanyName  *string   `json:"companyName,omitempty" db:"company_name"`
	Email        string    `json:"email"                 db:"email"`
	PasswordHash string    `json:"-"                     db:"password_hash"`
	Phone        *string   `json:"phone,omitempty"       db:"phone"`
	Address      string    `json:"address"               db:"address"`
	City         string    `json:"city"                  db:"city"`
	State        string    `json:"state"                 db:"state"`
	ZipCode      string    `json:"zipCode"               db:"zip_code"`
	CreatedAt    time.Time `json:"createdAt"             db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt"             db:"updated_at"`
}

// Identity is the authenticated caller extracted from a bearer token.
type Identity struct {
	UserID int64
	Email  string
}

// Profile is the full owner view of a surveyor.
type Profile struct {
	Surveyor
	Services []ServiceOffering `json:"services"`
	Counties []County          `json:"counties"`
}

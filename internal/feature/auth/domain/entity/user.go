// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// Role distinguishes the two sides of the marketplace.
type Role string

const (
	// RoleCompany is a buyer: posts briefings and pays for them.
	RoleCompany Role = "company"
	// RoleCreator is a seller: fulfils briefings.
	RoleCreator Role = "creator"
)

// Plan is the subscription tier of a user.
// It is carried for future gating and not consulted by the core logic.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// User represents a registered user in the system.
// It contains authentication credentials and metadata for user management.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Name is the display name shown on profiles and listings.
	Name string `gorm:"size:100;not null"`

	// Email is the user's email address used for authentication.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the hashed password for the user.
	// This should never store plaintext passwords.
	Password string `gorm:"size:255;not null"`

	// Role is either RoleCompany or RoleCreator.
	Role Role `gorm:"size:50;not null;default:'creator'"`

	// Plan is the subscription tier (PlanFree or PlanPro).
	Plan Plan `gorm:"size:50;not null;default:'free'"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}

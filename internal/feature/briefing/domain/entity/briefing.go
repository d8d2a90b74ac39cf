// Package entity defines the domain entities for the briefing feature.
package entity

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Status is the lifecycle state of a briefing.
// It is a closed enumeration: the Valuer/Scanner implementations reject any
// value outside the defined set, so an unknown status can neither be written
// to nor read from storage.
type Status string

const (
	// StatusPendingPayment is the initial state: the briefing exists but the
	// company has not completed the checkout yet.
	StatusPendingPayment Status = "pending_payment"
	// StatusActive is the terminal state for this lifecycle: payment was
	// approved and the job is underway.
	StatusActive Status = "active"
)

// Valid reports whether s is one of the defined lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPendingPayment, StatusActive:
		return true
	}
	return false
}

// Value implements driver.Valuer. Writing an unknown status is an error.
func (s Status) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown briefing status %q", string(s))
	}
	return string(s), nil
}

// Scan implements sql.Scanner. Reading an unknown status is an error:
// a row outside the defined set indicates corruption or a newer schema and
// must not be silently interpreted.
func (s *Status) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into briefing status", src)
	}
	st := Status(raw)
	if !st.Valid() {
		return fmt.Errorf("unknown briefing status %q", raw)
	}
	*s = st
	return nil
}

// Briefing represents a company's paid request for creator work.
// Its status only ever advances along pending_payment -> active; the owning
// company never changes after creation.
type Briefing struct {
	// ID is the unique identifier for the briefing. It doubles as the
	// correlation token ("external reference") at the payment provider
	// boundary.
	ID uint `gorm:"primaryKey"`

	// Title is the short description of the job.
	Title string `gorm:"size:200;not null"`

	// Budget is the amount offered for the job, in the platform's single
	// implicit currency. Never negative.
	Budget float64 `gorm:"not null"`

	// Status is the lifecycle state. See the Status type.
	Status Status `gorm:"size:50;not null;default:'pending_payment'"`

	// CompanyID references the owning company user. Immutable after creation.
	CompanyID uint `gorm:"not null;index"`

	// CreatorID references the assigned creator, when one has been assigned.
	CreatorID *uint

	// CreatedAt is the timestamp when the briefing was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the briefing was last updated.
	UpdatedAt time.Time
}

package models

import "time"

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// FederationStatus tracks whether a player holds a federation license.
type FederationStatus string

const (
	FederationRegistered   FederationStatus = "Registered"
	FederationPending      FederationStatus = "Pending"
	FederationUnregistered FederationStatus = "Unregistered"
)

type Player struct {
	ID               int              `json:"id"`
	UserID           *int             `json:"userId,omitempty"`
	Name             string           `json:"name"`
	Slug             string           `json:"slug"`
	Email            string           `json:"email"`
	Gender           Gender           `json:"gender"`
	FederationStatus FederationStatus `json:"federationStatus"`
	Position         *string          `json:"position,omitempty"`
	JerseyNumber     *int             `json:"jerseyNumber,omitempty"`
	PhotoKey         *string          `json:"-"`
	PhotoURL         *string          `json:"photoUrl,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`

	// Loaded separately, not mapped to a players column.
	Skills []PlayerSkill `json:"skills,omitempty"`
}

// PlayerSkill is a self-reported skill value, optionally verified by an admin.
type PlayerSkill struct {
	ID         int        `json:"id"`
	PlayerID   int        `json:"playerId"`
	Name       string     `json:"name"`
	Value      int        `json:"value"`
	Verified   bool       `json:"verified"`
	VerifiedBy *int       `json:"verifiedBy,omitempty"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty"`
}

// PlayerSummary is the minimal projection embedded in registration listings.
type PlayerSummary struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	PhotoURL     *string `json:"photoUrl,omitempty"`
	Gender       Gender  `json:"gender"`
	Position     *string `json:"position,omitempty"`
	JerseyNumber *int    `json:"jerseyNumber,omitempty"`
}

package models

import "time"

// RegistrationStatus matches the registration_status ENUM in the database.
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Registration links a player to a tournament they signed up for.
// At most one registration exists per (playerId, tournamentId) pair.
type Registration struct {
	ID            int                `json:"id"`
	PlayerID      int                `json:"playerId"`
	TournamentID  int                `json:"tournamentId"`
	Status        RegistrationStatus `json:"status"`
	PaymentStatus PaymentStatus      `json:"paymentStatus"`
	Notes         string             `json:"notes,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// RegistrationWithPlayer joins a registration with the minimal player
// projection shown in the admin listing.
type RegistrationWithPlayer struct {
	Registration
	Player PlayerSummary `json:"player"`
}

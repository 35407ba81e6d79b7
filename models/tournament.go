package models

import "time"

// TournamentStatus matches the tournament_status ENUM in the database.
type TournamentStatus string

const (
	StatusUpcoming  TournamentStatus = "Upcoming"
	StatusOngoing   TournamentStatus = "Ongoing"
	StatusCompleted TournamentStatus = "Completed"
	StatusCancelled TournamentStatus = "Cancelled"
)

// TournamentType distinguishes casual events from competitive ones that
// require registration approval (Control, CE).
type TournamentType string

const (
	TypeFun      TournamentType = "Fun"
	TypeControl  TournamentType = "Control"
	TypeCE       TournamentType = "CE"
	TypeTraining TournamentType = "Training"
	TypeMeeting  TournamentType = "Meeting"
)

type GenderRestriction string

const (
	RestrictionMixed  GenderRestriction = "Mixed"
	RestrictionOpen   GenderRestriction = "Open"
	RestrictionFemale GenderRestriction = "Female"
)

type Tournament struct {
	ID                int               `json:"id"`
	Title             string            `json:"title"`
	Location          *string           `json:"location,omitempty"`
	Start             time.Time         `json:"start"`
	End               time.Time         `json:"end"`
	Type              TournamentType    `json:"type"`
	GenderRestriction GenderRestriction `json:"genderRestriction"`
	MaxPlayers        int               `json:"maxPlayers"`
	// RegisteredPlayers mirrors the number of registrations for this
	// tournament. Only the registration service writes it.
	RegisteredPlayers int              `json:"registeredPlayers"`
	Status            TournamentStatus `json:"status"`
	CreatedAt         time.Time        `json:"createdAt"`
}

package services

import "github.com/Mayonesio/disckatus-tournaments-sub000/models"

// IsEligible decides whether a player of the given gender may register for a
// tournament with the given restriction and type. Club policy:
//
//   - Female tournaments exclude male players.
//   - Open tournaments exclude female players, unless the event is a casual
//     Fun one.
//   - Mixed tournaments have no gender gate.
func IsEligible(restriction models.GenderRestriction, tournamentType models.TournamentType, gender models.Gender) bool {
	if restriction == models.RestrictionFemale && gender == models.GenderMale {
		return false
	}
	if restriction == models.RestrictionOpen && gender == models.GenderFemale && tournamentType != models.TypeFun {
		return false
	}
	return true
}

// NeedsApproval reports whether registrations for the given tournament type
// start as pending and await admin approval. Control and CE events are
// competitive and gated.
func NeedsApproval(tournamentType models.TournamentType) bool {
	return tournamentType == models.TypeControl || tournamentType == models.TypeCE
}

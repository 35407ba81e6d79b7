package services

import (
	"testing"

	"github.com/Mayonesio/disckatus-tournaments-sub000/models"
)

func TestIsEligible(t *testing.T) {
	tests := []struct {
		name        string
		restriction models.GenderRestriction
		tType       models.TournamentType
		gender      models.Gender
		want        bool
	}{
		{"mixed allows male", models.RestrictionMixed, models.TypeControl, models.GenderMale, true},
		{"mixed allows female", models.RestrictionMixed, models.TypeControl, models.GenderFemale, true},
		{"mixed allows other", models.RestrictionMixed, models.TypeFun, models.GenderOther, true},
		{"female blocks male", models.RestrictionFemale, models.TypeFun, models.GenderMale, false},
		{"female blocks male in control", models.RestrictionFemale, models.TypeControl, models.GenderMale, false},
		{"female allows female", models.RestrictionFemale, models.TypeControl, models.GenderFemale, true},
		{"female allows other", models.RestrictionFemale, models.TypeControl, models.GenderOther, true},
		{"open allows male", models.RestrictionOpen, models.TypeControl, models.GenderMale, true},
		{"open blocks female in control", models.RestrictionOpen, models.TypeControl, models.GenderFemale, false},
		{"open blocks female in ce", models.RestrictionOpen, models.TypeCE, models.GenderFemale, false},
		{"open blocks female in training", models.RestrictionOpen, models.TypeTraining, models.GenderFemale, false},
		{"open allows female in fun", models.RestrictionOpen, models.TypeFun, models.GenderFemale, true},
		{"open allows other", models.RestrictionOpen, models.TypeControl, models.GenderOther, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := IsEligible(tc.restriction, tc.tType, tc.gender)
			if got != tc.want {
				t.Errorf("IsEligible(%s, %s, %s) = %v, want %v",
					tc.restriction, tc.tType, tc.gender, got, tc.want)
			}
		})
	}
}

func TestNeedsApproval(t *testing.T) {
	tests := []struct {
		tType models.TournamentType
		want  bool
	}{
		{models.TypeFun, false},
		{models.TypeControl, true},
		{models.TypeCE, true},
		{models.TypeTraining, false},
		{models.TypeMeeting, false},
	}

	for _, tc := range tests {
		if got := NeedsApproval(tc.tType); got != tc.want {
			t.Errorf("NeedsApproval(%s) = %v, want %v", tc.tType, got, tc.want)
		}
	}
}

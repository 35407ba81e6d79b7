package handlers

import (
	"errors"
	"net/http"

	"github.com/Mayonesio/disckatus-tournaments-sub000/models"
	"github.com/Mayonesio/disckatus-tournaments-sub000/services"
)

type RegistrationHandler struct {
	registrationService services.RegistrationService
}

func NewRegistrationHandler(rs services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: rs}
}

// Register signs the caller's player profile up for the tournament.
// POST /tournaments/{tournamentID}/register
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	identity, err := identityFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	reg, needsApproval, err := h.registrationService.Register(r.Context(), identity, tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"success":       true,
		"registration":  reg,
		"needsApproval": needsApproval,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Cancel removes the caller's registration.
// DELETE /tournaments/{tournamentID}/register
func (h *RegistrationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	identity, err := identityFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	if err := h.registrationService.Cancel(r.Context(), identity, tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Status reports whether the caller is registered for the tournament.
// GET /tournaments/{tournamentID}/register
func (h *RegistrationHandler) Status(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	identity, err := identityFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	isRegistered, reg, err := h.registrationService.QueryStatus(r.Context(), identity, tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"isRegistered": isRegistered,
		"registration": reg,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List returns all registrations for a tournament with player details.
// GET /tournaments/{tournamentID}/registrations
func (h *RegistrationHandler) List(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	regs, err := h.registrationService.ListForTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if regs == nil {
		regs = []models.RegistrationWithPlayer{}
	}

	if err := writeJSON(w, http.StatusOK, regs, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateStatus applies an admin status/paymentStatus update to a single
// registration of the tournament.
// PATCH /tournaments/{tournamentID}/registrations
func (h *RegistrationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	identity, err := identityFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input struct {
		RegistrationID int                        `json:"registrationId"`
		Status         *models.RegistrationStatus `json:"status,omitempty"`
		PaymentStatus  *models.PaymentStatus      `json:"paymentStatus,omitempty"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.RegistrationID <= 0 {
		badRequestResponse(w, r, errors.New("registrationId is required"))
		return
	}

	updated, err := h.registrationService.UpdateStatus(r.Context(), identity, tournamentID, input.RegistrationID, services.UpdateRegistrationInput{
		Status:        input.Status,
		PaymentStatus: input.PaymentStatus,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"success":      true,
		"registration": updated,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

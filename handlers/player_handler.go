package handlers

import (
	"errors"
	"net/http"

	"github.com/Mayonesio/disckatus-tournaments-sub000/models"
	"github.com/Mayonesio/disckatus-tournaments-sub000/repositories"
	"github.com/Mayonesio/disckatus-tournaments-sub000/services"
	"github.com/go-chi/chi/v5"
)

const maxPhotoBytes = 5 << 20 // 5MB

type PlayerHandler struct {
	playerService services.PlayerService
}

func NewPlayerHandler(ps services.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: ps}
}

func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input services.CreatePlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.Create(r.Context(), identity, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Get resolves the {playerRef} path segment as an id or a slug.
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "playerRef")
	if ref == "" {
		badRequestResponse(w, r, errors.New("missing player reference"))
		return
	}

	player, err := h.playerService.Resolve(r.Context(), ref)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListPlayersFilter{}

	if g := r.URL.Query().Get("gender"); g != "" {
		gender := models.Gender(g)
		filter.Gender = &gender
	}
	if f := r.URL.Query().Get("federationStatus"); f != "" {
		status := models.FederationStatus(f)
		filter.FederationStatus = &status
	}

	players, err := h.playerService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if players == nil {
		players = []models.Player{}
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	player, identity, ok := h.resolveWithIdentity(w, r)
	if !ok {
		return
	}

	var input services.UpdatePlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	updated, err := h.playerService.Update(r.Context(), identity, player.ID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": updated}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	player, identity, ok := h.resolveWithIdentity(w, r)
	if !ok {
		return
	}

	if err := h.playerService.Delete(r.Context(), identity, player.ID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PlayerHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	player, identity, ok := h.resolveWithIdentity(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		badRequestResponse(w, r, errors.New("invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		badRequestResponse(w, r, errors.New("photo file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	updated, err := h.playerService.UploadPhoto(r.Context(), identity, player.ID, contentType, header.Filename, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": updated}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) ReplaceSkills(w http.ResponseWriter, r *http.Request) {
	player, identity, ok := h.resolveWithIdentity(w, r)
	if !ok {
		return
	}

	var input struct {
		Skills []models.PlayerSkill `json:"skills"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	updated, err := h.playerService.ReplaceSkills(r.Context(), identity, player.ID, input.Skills)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": updated}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) resolveWithIdentity(w http.ResponseWriter, r *http.Request) (*models.Player, services.Identity, bool) {
	ref := chi.URLParam(r, "playerRef")
	if ref == "" {
		badRequestResponse(w, r, errors.New("missing player reference"))
		return nil, services.Identity{}, false
	}

	identity, err := identityFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return nil, services.Identity{}, false
	}

	player, err := h.playerService.Resolve(r.Context(), ref)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return nil, services.Identity{}, false
	}
	return player, identity, true
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Mayonesio/disckatus-tournaments-sub000/middleware"
	"github.com/Mayonesio/disckatus-tournaments-sub000/services"
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

func getIDFromURL(r *http.Request, param string) (int, error) {
	idStr := chi.URLParam(r, param)
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s parameter", param)
	}
	return id, nil
}

// identityFromRequest assembles the acting identity from the verified token
// claims. Fails when the request carries no valid session.
func identityFromRequest(r *http.Request) (services.Identity, error) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		return services.Identity{}, err
	}
	email, err := middleware.GetUserEmailFromContext(r.Context())
	if err != nil {
		return services.Identity{}, err
	}
	role, err := middleware.GetUserRoleFromContext(r.Context())
	if err != nil {
		return services.Identity{}, err
	}
	return services.Identity{UserID: userID, Email: email, Role: role}, nil
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	if err := writeJSON(w, status, jsonResponse{"error": message}, nil); err != nil {
		slog.Error("failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	errorResponse(w, r, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusNotFound, err.Error())
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

func forbiddenResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusForbidden, message)
}

// mapServiceErrorToHTTP converts service-layer errors into HTTP responses.
// Business-rule rejections carry their reason string so the client can react
// (disable the register button, show "tournament is full", etc).
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	// Not found
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrPlayerNotFound),
		errors.Is(err, services.ErrTournamentNotFound),
		errors.Is(err, services.ErrRegistrationNotFound):
		notFoundResponse(w, r, err)

	// Business rules and validation
	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrNoPlayerProfile),
		errors.Is(err, services.ErrNotEligible),
		errors.Is(err, services.ErrAlreadyRegistered),
		errors.Is(err, services.ErrNotRegistered),
		errors.Is(err, services.ErrTournamentFull),
		errors.Is(err, services.ErrTournamentFinished),
		errors.Is(err, services.ErrTournamentCancelled),
		errors.Is(err, services.ErrCannotCancelFinished),
		errors.Is(err, services.ErrRegistrationMismatch),
		errors.Is(err, services.ErrPlayerHasRegistrations),
		errors.Is(err, services.ErrTournamentHasRegistration),
		errors.Is(err, services.ErrTournamentTitleReq),
		errors.Is(err, services.ErrTournamentInvalidDateRange),
		errors.Is(err, services.ErrTournamentInvalidCapacity),
		errors.Is(err, services.ErrTournamentInvalidStatus),
		errors.Is(err, services.ErrTournamentInvalidTransit),
		errors.Is(err, services.ErrTournamentInvalidType),
		errors.Is(err, services.ErrTournamentInvalidGender):
		badRequestResponse(w, r, err)

	// Conflicts
	case errors.Is(err, services.ErrEmailConflict),
		errors.Is(err, services.ErrPlayerEmailInUse):
		conflictResponse(w, r, err.Error())

	// Authentication and authorization
	case errors.Is(err, services.ErrAuthInvalidCredentials):
		unauthorizedResponse(w, r, err.Error())
	case errors.Is(err, services.ErrForbiddenOperation):
		forbiddenResponse(w, r, err.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}

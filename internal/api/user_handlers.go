package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carebook/medical-directory-api/internal/user"
)

func getProfileHandler(users *user.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			writeInternal(w)
			return
		}

		u, err := users.Get(r.Context(), identity.UserID)
		if err != nil {
			handleUserError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, toUserResponse(u))
	}
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func updateProfileHandler(users *user.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			writeInternal(w)
			return
		}

		var req updateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON body")
			return
		}

		u, err := users.UpdateProfile(r.Context(), identity.UserID, req.Name, req.Phone)
		if err != nil {
			handleUserError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, toUserResponse(u))
	}
}

func listUsersHandler(users *user.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := pageParams(r)
		list, err := users.List(r.Context(), limit, offset)
		if err != nil {
			handleUserError(w, err, logger)
			return
		}

		out := make([]userResponse, len(list))
		for i := range list {
			out[i] = toUserResponse(&list[i])
		}
		writeData(w, http.StatusOK, out)
	}
}

func deleteUserHandler(users *user.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			writeInternal(w)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be a valid UUID")
			return
		}

		if err := users.Delete(r.Context(), identity.UserID, id); err != nil {
			handleUserError(w, err, logger)
			return
		}
		writeMessage(w, http.StatusOK, "user deleted")
	}
}

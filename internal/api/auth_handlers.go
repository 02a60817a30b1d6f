package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/carebook/medical-directory-api/internal/auth"
	"github.com/carebook/medical-directory-api/internal/user"
)

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Type     string `json:"type"` // patient (default) or doctor
}

func registerHandler(users *user.Service, secret string, ttl time.Duration, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON body")
			return
		}

		role := user.Role(req.Type)
		if role == user.RoleAdmin {
			// admin accounts are provisioned, never self-registered
			writeError(w, http.StatusBadRequest, "invalid account type")
			return
		}

		u, err := users.Register(r.Context(), user.RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Phone:    req.Phone,
			Role:     role,
		})
		if err != nil {
			handleUserError(w, err, logger)
			return
		}

		token, err := auth.IssueToken(u.ID.String(), u.Email, string(u.Role), secret, ttl)
		if err != nil {
			logger.Error().Err(err).Msg("issue token")
			writeInternal(w)
			return
		}

		writeData(w, http.StatusCreated, map[string]any{
			"user":  toUserResponse(u),
			"token": token,
		})
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func loginHandler(users *user.Service, secret string, ttl time.Duration, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON body")
			return
		}

		u, err := users.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			handleUserError(w, err, logger)
			return
		}

		token, err := auth.IssueToken(u.ID.String(), u.Email, string(u.Role), secret, ttl)
		if err != nil {
			logger.Error().Err(err).Msg("issue token")
			writeInternal(w)
			return
		}

		writeData(w, http.StatusOK, map[string]any{
			"user":  toUserResponse(u),
			"token": token,
		})
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func changePasswordHandler(users *user.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			writeInternal(w)
			return
		}

		var req changePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON body")
			return
		}

		if err := users.ChangePassword(r.Context(), identity.UserID, req.CurrentPassword, req.NewPassword); err != nil {
			handleUserError(w, err, logger)
			return
		}

		writeMessage(w, http.StatusOK, "password updated")
	}
}

func handleUserError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	switch {
	case errors.Is(err, user.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, user.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "email already registered")
	case errors.Is(err, user.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, user.ErrWrongPassword):
		writeError(w, http.StatusBadRequest, "current password does not match")
	case errors.Is(err, user.ErrSelfDelete):
		writeError(w, http.StatusBadRequest, "cannot delete own account")
	case errors.Is(err, user.ErrNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	default:
		logger.Error().Err(err).Msg("user operation")
		writeInternal(w)
	}
}

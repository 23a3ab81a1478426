package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"finbot/internal/domain"
)

type updateUserRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type gradeUpdateRequest struct {
	Grade int     `json:"grade"`
	Email *string `json:"email"`
}

// Me returns the authenticated user's profile.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, toUserDTO(user))
}

// UpdateMe applies a partial profile update to the authenticated user.
func (a *App) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			a.Logger.Error().Err(err).Msg("hash password failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to update user")
			return
		}
		user.HashedPassword = string(hash)
	}
	updated, err := a.Users.Update(r.Context(), user)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			a.error(w, http.StatusBadRequest, "bad_request", "Email already in use")
			return
		}
		a.Logger.Error().Err(err).Msg("update user failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update user")
		return
	}
	a.json(w, http.StatusOK, toUserDTO(updated))
}

// ListUsers returns user summaries with skip/limit pagination. No grade gate
// is applied, matching the reference behavior.
func (a *App) ListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireUser(w, r); !ok {
		return
	}
	skip, limit := pagination(r, 0, 100)
	users, err := a.Users.List(r.Context(), skip, limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list users failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list users")
		return
	}
	out := make([]userDTO, 0, len(users))
	for i := range users {
		out = append(out, toUserDTO(&users[i]))
	}
	a.json(w, http.StatusOK, out)
}

// UpdateGrade changes any user's grade and, optionally, email. An email held
// by a different account is a conflict. Any authenticated caller may do this;
// the reference enforces no role check.
func (a *App) UpdateGrade(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireUser(w, r); !ok {
		return
	}
	var req gradeUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	targetID := chi.URLParam(r, "id")
	target, err := a.Users.GetByID(r.Context(), targetID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "User not found")
			return
		}
		a.Logger.Error().Err(err).Msg("load user failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update grade")
		return
	}
	target.Grade = req.Grade
	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		email := strings.TrimSpace(*req.Email)
		existing, err := a.Users.GetByEmail(r.Context(), email)
		if err == nil && existing.ID != target.ID {
			a.error(w, http.StatusBadRequest, "bad_request", "Email already in use")
			return
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			a.Logger.Error().Err(err).Msg("check email failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to update grade")
			return
		}
		target.Email = email
	}
	updated, err := a.Users.Update(r.Context(), target)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			a.error(w, http.StatusBadRequest, "bad_request", "Email already in use")
			return
		}
		a.Logger.Error().Err(err).Msg("update grade failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update grade")
		return
	}
	a.json(w, http.StatusOK, toUserDTO(updated))
}

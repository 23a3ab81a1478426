package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"finbot/internal/chat"
	"finbot/internal/domain"
	"finbot/internal/expense"
	"finbot/internal/middleware"
)

// App is the handler container: it holds the services and repositories the
// HTTP surface dispatches into.
type App struct {
	Users    domain.UserRepository
	Chats    domain.ChatRepository
	Expenses *expense.Service
	Chat     *chat.Orchestrator
	JWTSecret string
	Logger    zerolog.Logger
}

// NewApp wires the handler container.
func NewApp(users domain.UserRepository, chats domain.ChatRepository, expenses *expense.Service, orch *chat.Orchestrator, jwtSecret string, logger zerolog.Logger) *App {
	return &App{
		Users:     users,
		Chats:     chats,
		Expenses:  expenses,
		Chat:      orch,
		JWTSecret: jwtSecret,
		Logger:    logger,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

// currentUser loads the authenticated account. A missing context id or a
// stale token subject both read as unauthorized.
func (a *App) currentUser(r *http.Request) (*domain.User, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return nil, domain.ErrNotFound
	}
	user, err := a.Users.GetByID(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (a *App) requireUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, err := a.currentUser(r)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		} else {
			a.Logger.Error().Err(err).Msg("load current user failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to load user")
		}
		return nil, false
	}
	return user, true
}

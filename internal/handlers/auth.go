package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/glitchgg/glitch/internal/metrics"
	"github.com/glitchgg/glitch/internal/middleware"
	"github.com/glitchgg/glitch/internal/repo"
	"github.com/glitchgg/glitch/internal/token"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users    *repo.UserRepo
	Secret   []byte
	TokenTTL time.Duration
	// Secure marks the session cookie Secure; set when serving HTTPS.
	Secure bool
}

// Routes mounts the auth endpoints. The me route carries its own JWT middleware;
// signup/login/logout are public.
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWT(h.Secret))
		r.Get("/me", h.Me)
	})
	return r
}

// ==========================
// Signup
// ==========================
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input struct {
		UserName string `json:"userName"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		metrics.IncSignups("invalid")
		JSONError(w, "All fields are required", http.StatusBadRequest)
		return
	}
	if input.UserName == "" || input.Email == "" || input.Password == "" {
		metrics.IncSignups("invalid")
		JSONError(w, "All fields are required", http.StatusBadRequest)
		return
	}

	// Pre-check by email for the friendly error; username collisions and
	// concurrent duplicates surface as ErrConflict from the insert below.
	_, err := h.Users.GetByEmail(r.Context(), input.Email)
	if err == nil {
		metrics.IncSignups("conflict")
		JSONError(w, "User already exists", http.StatusBadRequest)
		return
	}
	if !errors.Is(err, repo.ErrNotFound) {
		slog.Error("signup: email lookup failed", "error", err)
		metrics.IncSignups("error")
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("signup: hash password failed", "error", err)
		metrics.IncSignups("error")
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	user, err := h.Users.Create(r.Context(), input.UserName, input.Email, string(hash))
	if err != nil {
		if errors.Is(err, repo.ErrConflict) {
			metrics.IncSignups("conflict")
			JSONError(w, "User already exists", http.StatusBadRequest)
			return
		}
		slog.Error("signup: create user failed", "error", err)
		metrics.IncSignups("error")
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	metrics.IncSignups("created")
	JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User created successfully",
		"user":    user,
	})
}

// ==========================
// Login
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		UserName string `json:"userName"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		metrics.IncLogins("invalid")
		JSONError(w, "All fields are required", http.StatusBadRequest)
		return
	}
	if input.UserName == "" || input.Password == "" {
		metrics.IncLogins("invalid")
		JSONError(w, "All fields are required", http.StatusBadRequest)
		return
	}

	user, err := h.Users.GetByUsername(r.Context(), input.UserName)
	if errors.Is(err, repo.ErrNotFound) {
		metrics.IncLogins("not_found")
		JSONError(w, "User does not exist", http.StatusBadRequest)
		return
	}
	if err != nil {
		slog.Error("login: user lookup failed", "error", err)
		metrics.IncLogins("error")
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		metrics.IncLogins("bad_credentials")
		JSONError(w, "Invalid credentials", http.StatusBadRequest)
		return
	}

	followers, following, err := h.Users.FollowCounts(r.Context(), user.ID)
	if err != nil {
		slog.Error("login: follow counts failed", "error", err)
		metrics.IncLogins("error")
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	signed, err := token.Issue(user.ID, h.Secret, h.TokenTTL)
	if err != nil {
		slog.Error("login: issue token failed", "error", err)
		metrics.IncLogins("error")
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(h.TokenTTL / time.Second),
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteStrictMode,
	})

	metrics.IncLogins("success")
	JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    user.Profile(followers, following),
		"token":   signed,
	})
}

// ==========================
// Logout
// ==========================
// Logout only expires the cookie. Tokens are stateless, so one already handed
// out stays verifiable until its expiry; there is no server-side revocation.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteStrictMode,
	})

	JSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// ==========================
// Me (requires JWT middleware)
// ==========================
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.Users.GetByID(r.Context(), userID)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "User does not exist", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("me: user lookup failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	followers, following, err := h.Users.FollowCounts(r.Context(), user.ID)
	if err != nil {
		slog.Error("me: follow counts failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"user": user.Profile(followers, following),
	})
}

package handlers

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"nutrilog/internal/middleware"
	"nutrilog/internal/models"
	"nutrilog/internal/oauth"
	"nutrilog/internal/services"
)

type IdentityProvider interface {
	AuthCodeURL(state string) string
	Identify(ctx context.Context, code string) (*oauth.Identity, error)
}

type StateSigner interface {
	Issue() (string, error)
	Check(state string) error
}

type AuthHandler struct {
	accounts    *services.AccountService
	provider    IdentityProvider
	states      StateSigner
	frontendURL string
	log         *zap.Logger
}

// NewAuthHandler builds the handler. provider may be nil when Google login is not configured.
func NewAuthHandler(accounts *services.AccountService, provider IdentityProvider, states StateSigner, frontendURL string, log *zap.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, provider: provider, states: states, frontendURL: frontendURL, log: log}
}

// Register godoc
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body registerRequest true "Account details"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.accounts.CreateOrLinkUser(r.Context(), services.NewAccount{
		Name:               req.Name,
		Email:              req.Email,
		Password:           req.Password,
		ProfileImage:       req.ProfileImage,
		RegistrationSource: models.SourceCredential,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAuthResponse(res.Token, res.User))
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	res, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toAuthResponse(res.Token, res.User))
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing token", Code: "unauthorized"})
		return
	}
	u, err := h.accounts.Me(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ToProfileDTO(u))
}

// GoogleLogin redirects the browser to Google's consent screen.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "google login is not configured", Code: "not_found"})
		return
	}
	state, err := h.states.Issue()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	http.Redirect(w, r, h.provider.AuthCodeURL(state), http.StatusFound)
}

// GoogleCallback finishes the OAuth flow and hands the session token to the
// frontend as a query parameter.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "google login is not configured", Code: "not_found"})
		return
	}
	q := r.URL.Query()
	if err := h.states.Check(q.Get("state")); err != nil {
		h.redirectFrontend(w, r, "error", "invalid_state")
		return
	}
	if q.Get("error") != "" || q.Get("code") == "" {
		h.redirectFrontend(w, r, "error", "access_denied")
		return
	}
	ident, err := h.provider.Identify(r.Context(), q.Get("code"))
	if err != nil {
		h.log.Warn("google identify failed", zap.Error(err))
		h.redirectFrontend(w, r, "error", "oauth_failed")
		return
	}
	res, err := h.accounts.CreateOrLinkUser(r.Context(), services.NewAccount{
		Name:               ident.Name,
		Email:              ident.Email,
		ProfileImage:       ident.Picture,
		RegistrationSource: models.SourceGoogle,
	})
	if err != nil {
		h.log.Error("google account link failed", zap.Error(err))
		h.redirectFrontend(w, r, "error", "oauth_failed")
		return
	}
	h.redirectFrontend(w, r, "token", res.Token)
}

func (h *AuthHandler) redirectFrontend(w http.ResponseWriter, r *http.Request, key, value string) {
	target := h.frontendURL + "/auth/callback?" + url.Values{key: {value}}.Encode()
	http.Redirect(w, r, target, http.StatusFound)
}

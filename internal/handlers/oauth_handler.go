package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ahmetcoskunkizilkaya/tasklist/internal/config"
	"github.com/ahmetcoskunkizilkaya/tasklist/internal/dto"
	"github.com/ahmetcoskunkizilkaya/tasklist/internal/models"
	"github.com/ahmetcoskunkizilkaya/tasklist/internal/services"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
	oauthStateCookie  = "oauth_state"
	oauthStateTTL     = 10 * time.Minute
)

type googleUser struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// OAuthHandler runs the Google authorization code flow and answers with the
// same session token as password login.
type OAuthHandler struct {
	authService *services.AuthService
	oauth       *oauth2.Config
	userInfoURL string
	appBaseURL  string
}

// NewOAuthHandler returns a handler whose routes 404 when Google sign-in is
// not configured.
func NewOAuthHandler(authService *services.AuthService, cfg *config.Config) *OAuthHandler {
	h := &OAuthHandler{
		authService: authService,
		userInfoURL: googleUserInfoURL,
		appBaseURL:  cfg.AppBaseURL,
	}
	if cfg.GoogleEnabled() {
		h.oauth = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email"},
		}
	}
	return h
}

func (h *OAuthHandler) notConfigured(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
		Error: true, Message: "Google sign-in is not configured",
	})
}

func (h *OAuthHandler) GoogleStart(c *fiber.Ctx) error {
	if h.oauth == nil {
		return h.notConfigured(c)
	}

	state, err := randomState()
	if err != nil {
		return internalError(c, "oauth state generation failed", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/api/auth/google",
		Expires:  time.Now().Add(oauthStateTTL),
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Redirect(h.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline), fiber.StatusFound)
}

func (h *OAuthHandler) GoogleCallback(c *fiber.Ctx) error {
	if h.oauth == nil {
		return h.notConfigured(c)
	}

	state := c.Cookies(oauthStateCookie)
	if state == "" || c.Query("state") != state {
		return badRequest(c, "Invalid OAuth state")
	}
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Path:     "/api/auth/google",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
	})

	code := c.Query("code")
	if code == "" {
		return badRequest(c, "Missing authorization code")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	tok, err := h.oauth.Exchange(ctx, code)
	if err != nil {
		return badRequest(c, "Failed to exchange OAuth code")
	}

	info, err := h.fetchGoogleUser(ctx, tok)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if !info.EmailVerified {
		return badRequest(c, "Google account email is not verified")
	}

	resp, err := h.authService.OAuthLogin(models.OAuthProviderGoogle, info.Subject, info.Email)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			return badRequest(c, err.Error())
		case errors.Is(err, services.ErrDuplicateUser):
			return badRequest(c, "Email is already linked to another account")
		default:
			return internalError(c, "oauth login failed", err)
		}
	}

	if h.appBaseURL != "" {
		return c.Redirect(h.appBaseURL+"/#token="+url.QueryEscape(resp.Token), fiber.StatusFound)
	}
	return c.JSON(resp)
}

func (h *OAuthHandler) fetchGoogleUser(ctx context.Context, tok *oauth2.Token) (googleUser, error) {
	client := h.oauth.Client(ctx, tok)
	resp, err := client.Get(h.userInfoURL)
	if err != nil {
		return googleUser{}, errors.New("failed to fetch Google user info")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUser{}, fmt.Errorf("failed to fetch Google user info: status %d", resp.StatusCode)
	}

	var info googleUser
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUser{}, errors.New("failed to decode Google user info")
	}
	if info.Subject == "" {
		return googleUser{}, errors.New("google user info has no subject")
	}
	return info, nil
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

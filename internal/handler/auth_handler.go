package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/leaderboard-backend/internal/config"
	"github.com/shinyyama/leaderboard-backend/internal/logger"
	"golang.org/x/oauth2"
)

// TokenExchanger is satisfied by *oauth2.Config.
type TokenExchanger interface {
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
}

// NewOAuthConfig builds the provider client used by the callback route.
// Credentials travel in the request body, as the provider expects.
func NewOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.WhopClientID,
		ClientSecret: cfg.WhopClientSecret,
		RedirectURL:  cfg.WhopRedirectURI,
		Endpoint: oauth2.Endpoint{
			TokenURL:  cfg.OAuthTokenURL(),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

type AuthHandler struct {
	exchanger TokenExchanger
	timeout   time.Duration
}

func NewAuthHandler(exchanger TokenExchanger) *AuthHandler {
	return &AuthHandler{exchanger: exchanger, timeout: 10 * time.Second}
}

type TokenResponse struct {
	State        string `json:"state,omitempty"`
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	IDToken      string `json:"id_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

func extraString(tok *oauth2.Token, key string) string {
	v, _ := tok.Extra(key).(string)
	return v
}

// Callback exchanges the authorization code and relays the token.
func (h *AuthHandler) Callback(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "missing code"))
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	tok, err := h.exchanger.Exchange(ctx, code)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Error("oauth exchange failed")
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "auth failed"))
	}
	resp := TokenResponse{
		State:        c.QueryParam("state"),
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
		IDToken:      extraString(tok, "id_token"),
		Scope:        extraString(tok, "scope"),
	}
	if !tok.Expiry.IsZero() {
		resp.ExpiresIn = int64(time.Until(tok.Expiry).Round(time.Second).Seconds())
	}
	return c.JSON(http.StatusOK, resp)
}

func HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

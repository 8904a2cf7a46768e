package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shinyyama/leaderboard-backend/internal/apperr"
	"github.com/shinyyama/leaderboard-backend/internal/config"
	"github.com/shinyyama/leaderboard-backend/internal/metrics"
	"github.com/shinyyama/leaderboard-backend/internal/model"
	"github.com/shinyyama/leaderboard-backend/internal/service"
	"github.com/shinyyama/leaderboard-backend/internal/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type mockQueryService struct {
	ListTopFunc       func(ctx context.Context, tenantID string, limit int) ([]model.UserScore, error)
	ReadSettingsFunc  func(ctx context.Context, tenantID string) (*model.TenantSettings, error)
	WriteSettingsFunc func(ctx context.Context, tenantID string, patch model.SettingsPatch) (*model.TenantSettings, error)
}

func (m *mockQueryService) ListTop(ctx context.Context, tenantID string, limit int) ([]model.UserScore, error) {
	return m.ListTopFunc(ctx, tenantID, limit)
}

func (m *mockQueryService) ReadSettings(ctx context.Context, tenantID string) (*model.TenantSettings, error) {
	return m.ReadSettingsFunc(ctx, tenantID)
}

func (m *mockQueryService) WriteSettings(ctx context.Context, tenantID string, patch model.SettingsPatch) (*model.TenantSettings, error) {
	return m.WriteSettingsFunc(ctx, tenantID, patch)
}

type mockActivityService struct {
	ProcessFunc func(ctx context.Context, ev webhook.Event) (*service.ActivityResult, error)
}

func (m *mockActivityService) Process(ctx context.Context, ev webhook.Event) (*service.ActivityResult, error) {
	return m.ProcessFunc(ctx, ev)
}

type mockExchanger struct {
	ExchangeFunc func(ctx context.Context, code string) (*oauth2.Token, error)
}

func (m *mockExchanger) Exchange(ctx context.Context, code string, _ ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	return m.ExchangeFunc(ctx, code)
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRespondErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"invalid argument", apperr.ErrMissingTenant, http.StatusBadRequest, "bad_request", "company_id is required"},
		{"not found", apperr.ErrNotFound, http.StatusNotFound, "not_found", "record not found"},
		{"storage", apperr.Storage("list top", errors.New("disk full")), http.StatusInternalServerError, "internal_error", "fallback"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal_error", "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/", "")
			require.NoError(t, respondError(c, tt.err, "fallback"))
			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
		})
	}
}

func TestLeaderboardList(t *testing.T) {
	avatar := "https://avatar.vercel.sh/ann"
	var gotLimit int
	svc := &mockQueryService{
		ListTopFunc: func(_ context.Context, tenantID string, limit int) ([]model.UserScore, error) {
			gotLimit = limit
			if tenantID == "" {
				return nil, apperr.ErrMissingTenant
			}
			return []model.UserScore{
				{TenantID: tenantID, UserID: "u1", Username: "Ann", Avatar: &avatar, Points: 120},
				{TenantID: tenantID, UserID: "u2", Username: "Bob", Points: -1},
			}, nil
		},
	}
	h := NewLeaderboardHandler(svc)

	c, rec := newContext(http.MethodGet, "/api/leaderboard?company_id=acme&limit=5", "")
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, gotLimit)
	assert.JSONEq(t, `{"data":[
		{"company_id":"acme","user_id":"u1","username":"Ann","avatar":"https://avatar.vercel.sh/ann","points":120},
		{"company_id":"acme","user_id":"u2","username":"Bob","avatar":null,"points":-1}
	]}`, rec.Body.String())

	c, _ = newContext(http.MethodGet, "/api/leaderboard?company_id=acme&limit=abc", "")
	require.NoError(t, h.List(c))
	assert.Equal(t, 0, gotLimit)

	c, rec = newContext(http.MethodGet, "/api/leaderboard", "")
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeaderboardListEmpty(t *testing.T) {
	svc := &mockQueryService{
		ListTopFunc: func(context.Context, string, int) ([]model.UserScore, error) { return nil, nil },
	}
	c, rec := newContext(http.MethodGet, "/api/leaderboard?company_id=acme", "")
	require.NoError(t, NewLeaderboardHandler(svc).List(c))
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestSettingsUpdateTenantResolution(t *testing.T) {
	var gotTenant string
	var gotPatch model.SettingsPatch
	svc := &mockQueryService{
		WriteSettingsFunc: func(_ context.Context, tenantID string, patch model.SettingsPatch) (*model.TenantSettings, error) {
			gotTenant, gotPatch = tenantID, patch
			if tenantID == "" {
				return nil, apperr.ErrMissingTenant
			}
			return &model.TenantSettings{TenantID: tenantID, PointsPerMsg: 10, PointsPerJoin: 75}, nil
		},
	}
	h := NewSettingsHandler(svc)

	c, rec := newContext(http.MethodPost, "/api/settings?company_id=q", `{"company_id":"b","points_per_join":75}`)
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "q", gotTenant)
	assert.Nil(t, gotPatch.PointsPerMsg)
	require.NotNil(t, gotPatch.PointsPerJoin)
	assert.Equal(t, 75, *gotPatch.PointsPerJoin)
	assert.JSONEq(t, `{"data":{"company_id":"q","points_per_msg":10,"points_per_join":75}}`, rec.Body.String())

	c, _ = newContext(http.MethodPost, "/api/settings", `{"company_id":"b"}`)
	require.NoError(t, h.Update(c))
	assert.Equal(t, "b", gotTenant)

	c, rec = newContext(http.MethodPost, "/api/settings", `{"points_per_msg":3}`)
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newContext(http.MethodPost, "/api/settings?company_id=q", `{"points_per_msg":`)
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid json", decodeError(t, rec).Error.Message)
}

func TestSettingsGetStorageFailure(t *testing.T) {
	svc := &mockQueryService{
		ReadSettingsFunc: func(context.Context, string) (*model.TenantSettings, error) {
			return nil, apperr.Storage("ensure tenant", errors.New("db down"))
		},
	}
	c, rec := newContext(http.MethodGet, "/api/settings?company_id=acme", "")
	require.NoError(t, NewSettingsHandler(svc).Get(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "unable to fetch settings", decodeError(t, rec).Error.Message)
}

func TestWebhookActivityOutcomes(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		body        string
		process     func(ctx context.Context, ev webhook.Event) (*service.ActivityResult, error)
		wantStatus  int
		wantBody    string
		wantEvent   string
		wantOutcome string
	}{
		{
			name: "applied",
			body: `{"action":"payment.succeeded","company_id":"acme","user":{"id":"u1"}}`,
			process: func(_ context.Context, ev webhook.Event) (*service.ActivityResult, error) {
				return &service.ActivityResult{Action: "payment.succeeded", Score: &model.UserScore{Points: 10}}, nil
			},
			wantStatus:  http.StatusOK,
			wantBody:    `{"success":true,"action":"payment.succeeded"}`,
			wantEvent:   "payment.succeeded",
			wantOutcome: "applied",
		},
		{
			name: "ignored",
			body: `{"action":"unknown.event"}`,
			process: func(_ context.Context, ev webhook.Event) (*service.ActivityResult, error) {
				return &service.ActivityResult{Ignored: true}, nil
			},
			wantStatus:  http.StatusOK,
			wantBody:    `{"ignored":true}`,
			wantEvent:   "none",
			wantOutcome: "ignored",
		},
		{
			name:        "missing tenant",
			body:        `{"action":"payment.succeeded","user":{"id":"u1"}}`,
			wantStatus:  http.StatusBadRequest,
			wantEvent:   "payment.succeeded",
			wantOutcome: "rejected",
		},
		{
			name:        "malformed",
			body:        `{"action":`,
			wantStatus:  http.StatusBadRequest,
			wantEvent:   "none",
			wantOutcome: "rejected",
		},
		{
			name: "storage failure",
			body: `{"action":"membership.went_valid","company_id":"acme","user":{"id":"u1"}}`,
			process: func(context.Context, webhook.Event) (*service.ActivityResult, error) {
				return nil, apperr.Storage("apply delta", errors.New("locked"))
			},
			wantStatus:  http.StatusInternalServerError,
			wantEvent:   "membership.went_valid",
			wantOutcome: "failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New()
			svc := &mockActivityService{ProcessFunc: tt.process}
			target := tt.target
			if target == "" {
				target = "/api/webhook/activity"
			}
			c, rec := newContext(http.MethodPost, target, tt.body)
			require.NoError(t, NewWebhookHandler(svc, m).Activity(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
			assert.Equal(t, 1.0, testutil.ToFloat64(m.WebhookEvents().WithLabelValues(tt.wantEvent, tt.wantOutcome)))
		})
	}
}

func TestWebhookUnknownTypesShareOneSeries(t *testing.T) {
	m := metrics.New()
	svc := &mockActivityService{
		ProcessFunc: func(context.Context, webhook.Event) (*service.ActivityResult, error) {
			return &service.ActivityResult{Ignored: true}, nil
		},
	}
	h := NewWebhookHandler(svc, m)
	for i := 0; i < 50; i++ {
		c, rec := newContext(http.MethodPost, "/api/webhook/activity", fmt.Sprintf(`{"action":"junk.%d"}`, i))
		require.NoError(t, h.Activity(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 1, testutil.CollectAndCount(m.WebhookEvents()))
	assert.Equal(t, 50.0, testutil.ToFloat64(m.WebhookEvents().WithLabelValues("none", "ignored")))
}

func TestWebhookQueryTenantOverride(t *testing.T) {
	var got webhook.Event
	svc := &mockActivityService{
		ProcessFunc: func(_ context.Context, ev webhook.Event) (*service.ActivityResult, error) {
			got = ev
			return &service.ActivityResult{Action: "membership.went_valid", Score: &model.UserScore{}}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/api/webhook/activity?company_id=override",
		`{"action":"membership.went_valid","company_id":"acme","user":{"id":"u1"}}`)
	require.NoError(t, NewWebhookHandler(svc, nil).Activity(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "override", got.TenantID)
}

func TestAuthCallback(t *testing.T) {
	t.Run("missing code", func(t *testing.T) {
		h := NewAuthHandler(&mockExchanger{})
		c, rec := newContext(http.MethodGet, "/auth/callback", "")
		require.NoError(t, h.Callback(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "missing code", decodeError(t, rec).Error.Message)
	})

	t.Run("exchange failure", func(t *testing.T) {
		h := NewAuthHandler(&mockExchanger{
			ExchangeFunc: func(context.Context, string) (*oauth2.Token, error) {
				return nil, errors.New("invalid_grant")
			},
		})
		c, rec := newContext(http.MethodGet, "/auth/callback?code=bad", "")
		require.NoError(t, h.Callback(c))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "auth failed", decodeError(t, rec).Error.Message)
	})

	t.Run("success", func(t *testing.T) {
		var gotCode string
		h := NewAuthHandler(&mockExchanger{
			ExchangeFunc: func(_ context.Context, code string) (*oauth2.Token, error) {
				gotCode = code
				tok := &oauth2.Token{
					AccessToken:  "at",
					TokenType:    "Bearer",
					RefreshToken: "rt",
					Expiry:       time.Now().Add(time.Hour),
				}
				return tok.WithExtra(map[string]interface{}{"id_token": "idt", "scope": "read write"}), nil
			},
		})
		c, rec := newContext(http.MethodGet, "/auth/callback?code=good&state=xyz", "")
		require.NoError(t, h.Callback(c))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "good", gotCode)

		var resp TokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "xyz", resp.State)
		assert.Equal(t, "at", resp.AccessToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, "rt", resp.RefreshToken)
		assert.InDelta(t, 3600, resp.ExpiresIn, 5)
		assert.Equal(t, "idt", resp.IDToken)
		assert.Equal(t, "read write", resp.Scope)
	})
}

func TestOAuthConfigAgainstTokenServer(t *testing.T) {
	var form map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth/token", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		form = map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"tok","token_type":"bearer","refresh_token":"ref","expires_in":60,"id_token":"idt","scope":"read"}`)
	}))
	defer ts.Close()

	cfg := &config.Config{
		WhopAPIBaseURL:   ts.URL + "/",
		WhopClientID:     "cid",
		WhopClientSecret: "secret",
		WhopRedirectURI:  "https://app.example/auth/callback",
	}
	tok, err := NewOAuthConfig(cfg).Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "tok", tok.AccessToken)
	assert.Equal(t, "ref", tok.RefreshToken)
	assert.Equal(t, "idt", extraString(tok, "id_token"))
	assert.Equal(t, "read", extraString(tok, "scope"))

	assert.Equal(t, "authorization_code", form["grant_type"])
	assert.Equal(t, "the-code", form["code"])
	assert.Equal(t, "cid", form["client_id"])
	assert.Equal(t, "secret", form["client_secret"])
	assert.Equal(t, "https://app.example/auth/callback", form["redirect_uri"])
}

func TestHealth(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/health", "")
	require.NoError(t, HandleHealth(c))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

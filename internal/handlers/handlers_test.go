package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"nutrilog/internal/db/memory"
	"nutrilog/internal/models"
	"nutrilog/internal/oauth"
	"nutrilog/internal/services"
)

type fakeProvider struct {
	identity *oauth.Identity
	err      error
}

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.test/auth?state=" + url.QueryEscape(state)
}

func (p *fakeProvider) Identify(context.Context, string) (*oauth.Identity, error) {
	return p.identity, p.err
}

type fakeStates struct{ bad bool }

func (s fakeStates) Issue() (string, error) { return "state-1", nil }

func (s fakeStates) Check(state string) error {
	if s.bad || state != "state-1" {
		return errors.New("bad state")
	}
	return nil
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "h:" + p, nil }
func (plainHasher) Verify(p, h string) bool       { return h == "h:"+p }

type idSigner struct{}

func (idSigner) Sign(sub, _, _ string) (string, error) { return "tok-" + sub, nil }

func newAuthHandler(store *memory.Store, p IdentityProvider, states StateSigner) *AuthHandler {
	accounts := services.NewAccountService(store, plainHasher{}, idSigner{})
	return NewAuthHandler(accounts, p, states, "http://frontend.test", zap.NewNop())
}

func TestGoogleLoginRedirects(t *testing.T) {
	h := newAuthHandler(memory.New(), &fakeProvider{}, fakeStates{})
	rec := httptest.NewRecorder()
	h.GoogleLogin(rec, httptest.NewRequest(http.MethodGet, "/api/auth/oauth2/google", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "https://accounts.test/auth?state=state-1", rec.Header().Get("Location"))
}

func TestGoogleCallbackLinksExistingAccount(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	existing := &models.User{Email: "ana@x.io", RegistrationSource: models.SourceCredential}
	require.NoError(t, store.Create(ctx, existing))

	h := newAuthHandler(store, &fakeProvider{identity: &oauth.Identity{Email: "Ana@x.io", Name: "Ana"}}, fakeStates{})
	rec := httptest.NewRecorder()
	h.GoogleCallback(rec, httptest.NewRequest(http.MethodGet, "/cb?state=state-1&code=abc", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "http://frontend.test/auth/callback?token=tok-"+existing.ID, rec.Header().Get("Location"))
	all, err := store.FindAllByID(ctx, []string{existing.ID})
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestGoogleCallbackCreatesAccount(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	h := newAuthHandler(store, &fakeProvider{identity: &oauth.Identity{Email: "new@x.io", Name: "New", Picture: "http://img"}}, fakeStates{})
	rec := httptest.NewRecorder()
	h.GoogleCallback(rec, httptest.NewRequest(http.MethodGet, "/cb?state=state-1&code=abc", nil))
	require.Equal(t, http.StatusFound, rec.Code)

	u, err := store.FindByEmail(ctx, "new@x.io")
	require.NoError(t, err)
	require.Equal(t, models.SourceGoogle, u.RegistrationSource)
	require.Equal(t, "http://img", u.ProfileImage)
	require.Contains(t, rec.Header().Get("Location"), "token=tok-"+u.ID)
}

func TestGoogleCallbackFailures(t *testing.T) {
	cases := []struct {
		name     string
		provider *fakeProvider
		states   fakeStates
		query    string
		want     string
	}{
		{"bad state", &fakeProvider{}, fakeStates{bad: true}, "state=state-1&code=abc", "error=invalid_state"},
		{"denied", &fakeProvider{}, fakeStates{}, "state=state-1&error=access_denied", "error=access_denied"},
		{"identify fails", &fakeProvider{err: errors.New("boom")}, fakeStates{}, "state=state-1&code=abc", "error=oauth_failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newAuthHandler(memory.New(), tc.provider, tc.states)
			rec := httptest.NewRecorder()
			h.GoogleCallback(rec, httptest.NewRequest(http.MethodGet, "/cb?"+tc.query, nil))
			require.Equal(t, http.StatusFound, rec.Code)
			require.Equal(t, "http://frontend.test/auth/callback?"+tc.want, rec.Header().Get("Location"))
		})
	}
}

func TestWriteErrorMapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
		msg    string
	}{
		{&services.Error{Kind: services.KindNotFound, Msg: "User not found"}, http.StatusNotFound, "not_found", "User not found"},
		{&services.Error{Kind: services.KindConflict, Msg: "taken"}, http.StatusConflict, "conflict", "taken"},
		{&services.Error{Kind: services.KindBadRequest, Msg: "bad"}, http.StatusBadRequest, "bad_request", "bad"},
		{&services.Error{Kind: services.KindUnauthorized, Msg: "no"}, http.StatusUnauthorized, "unauthorized", "no"},
		{errors.New("db exploded"), http.StatusInternalServerError, "internal", "internal error"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			core, logs := observer.New(zapcore.ErrorLevel)
			rec := httptest.NewRecorder()
			writeError(rec, zap.New(core), tc.err)
			require.Equal(t, tc.status, rec.Code)

			var body errorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			require.Equal(t, tc.code, body.Code)
			require.Equal(t, tc.msg, body.Error)
			if tc.status == http.StatusInternalServerError {
				require.Equal(t, 1, logs.Len())
			} else {
				require.Zero(t, logs.Len())
			}
		})
	}
}

func TestDecodeAndValidate(t *testing.T) {
	cases := []struct {
		name string
		body string
		ok   bool
		msg  string
	}{
		{"valid", `{"glasses":2,"date":"2026-03-01"}`, true, ""},
		{"malformed", `{`, false, "invalid body"},
		{"zero glasses", `{"glasses":0,"date":"2026-03-01"}`, false, "glasses must be at least 1"},
		{"bad date", `{"glasses":1,"date":"01/03/2026"}`, false, "date must be YYYY-MM-DD"},
		{"missing date", `{"glasses":1}`, false, "date is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req waterLogRequest
			rec := httptest.NewRecorder()
			ok := decodeAndValidate(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body)), &req)
			require.Equal(t, tc.ok, ok)
			if !tc.ok {
				require.Equal(t, http.StatusBadRequest, rec.Code)
				require.Contains(t, rec.Body.String(), tc.msg)
			}
		})
	}
}

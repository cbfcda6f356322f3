package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nutrilog/internal/crypto"
	"nutrilog/internal/db/memory"
	"nutrilog/internal/events"
	"nutrilog/internal/handlers"
	mw "nutrilog/internal/middleware"
	"nutrilog/internal/services"
	"nutrilog/internal/token"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := zap.NewNop()
	store := memory.New()
	signer := token.NewSigner([]byte("test-secret"), time.Hour)
	states, err := crypto.NewStateSigner([]byte(strings.Repeat("s", 32)), time.Minute)
	require.NoError(t, err)

	accounts := services.NewAccountService(store, crypto.BcryptHasher{Cost: 4}, signer)
	users := services.NewUserService(store, events.Noop{}, log)
	nutrition := services.NewNutritionService(store, store, store)

	srv := httptest.NewServer(New(Deps{
		Logger:         log,
		Registry:       prometheus.NewRegistry(),
		AllowedOrigins: []string{"*"},
		Auth:           mw.NewAuthMiddleware(signer),
		AuthHandler:    handlers.NewAuthHandler(accounts, nil, states, "http://frontend.test", log),
		UserHandler:    handlers.NewUserHandler(users, log),
		Nutrition:      handlers.NewNutritionHandler(nutrition, log),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, tok string, body any) (int, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, srv.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func register(t *testing.T, srv *httptest.Server, email string) (id, tok string) {
	t.Helper()
	status, body := call(t, srv, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "User " + email, "email": email, "password": "pw-" + email,
	})
	require.Equal(t, http.StatusCreated, status, body)
	return body["id"].(string), body["token"].(string)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)
	status, body := call(t, srv, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["ok"])

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	require.Contains(t, string(raw), `http_requests_total{method="GET",path="/health",status_code="200"} 1`)
}

func TestRegisterLoginMe(t *testing.T) {
	srv := newTestServer(t)
	id, _ := register(t, srv, "ana@x.io")

	status, body := call(t, srv, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "ANA@x.io", "password": "again",
	})
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "conflict", body["code"])

	status, body = call(t, srv, http.MethodPost, "/api/auth/register", "", map[string]any{"email": "not-an-email", "password": "x"})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "email must be a valid email", body["error"])

	status, _ = call(t, srv, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ana@x.io", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, status)
	status, _ = call(t, srv, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "nobody@x.io", "password": "x"})
	require.Equal(t, http.StatusNotFound, status)

	status, body = call(t, srv, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ana@x.io", "password": "pw-ana@x.io"})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, id, body["id"])
	require.Equal(t, false, body["profile_completed"])
	require.Equal(t, []any{}, body["following_users"])
	tok := body["token"].(string)

	status, body = call(t, srv, http.MethodGet, "/api/auth/me", tok, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ana@x.io", body["email"])

	status, _ = call(t, srv, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestGoogleLoginDisabled(t *testing.T) {
	srv := newTestServer(t)
	status, body := call(t, srv, http.MethodGet, "/api/auth/oauth2/google", "", nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "not_found", body["code"])
}

func TestNutritionFlow(t *testing.T) {
	srv := newTestServer(t)
	id, tok := register(t, srv, "ana@x.io")

	status, body := call(t, srv, http.MethodPut, "/api/nutrition/profile/"+id, tok, map[string]any{
		"age": 0, "weight": 70, "height": 175, "health_goal": "weight_loss", "diet_preference": "none",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, body["error"], "age")

	status, body = call(t, srv, http.MethodPut, "/api/nutrition/profile/"+id, tok, map[string]any{
		"age": 30, "weight": 70, "height": 175, "health_goal": "weight_loss", "diet_preference": "none",
	})
	require.Equal(t, http.StatusOK, status, body)
	require.Equal(t, float64(1319), body["daily_calorie_goal"])
	require.Equal(t, float64(10), body["daily_water_goal"])
	require.Equal(t, true, body["profile_completed"])

	status, body = call(t, srv, http.MethodPost, "/api/nutrition/food/"+id, tok, map[string]any{
		"meal_type": "lunch", "food_name": "feast", "calories": 1500, "date": "2026-03-02",
	})
	require.Equal(t, http.StatusOK, status, body)
	require.Equal(t, "Food logged successfully", body["message"])
	require.Equal(t, "This meal exceeds your daily calorie goal!", body["warning"])

	status, _ = call(t, srv, http.MethodPost, "/api/nutrition/food/"+id, tok, map[string]any{
		"meal_type": "lunch", "food_name": "x", "calories": 0, "date": "2026-03-02",
	})
	require.Equal(t, http.StatusBadRequest, status)
	status, _ = call(t, srv, http.MethodPost, "/api/nutrition/food/missing", tok, map[string]any{
		"meal_type": "lunch", "food_name": "x", "calories": 10, "date": "2026-03-02",
	})
	require.Equal(t, http.StatusNotFound, status)

	status, body = call(t, srv, http.MethodPost, "/api/nutrition/water/"+id, tok, map[string]any{"glasses": 11, "date": "2026-03-02"})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Water logged successfully", body["message"])
	require.Equal(t, "Great job! You've exceeded your daily water goal!", body["goal_message"])

	status, body = call(t, srv, http.MethodGet, "/api/nutrition/progress/daily/"+id+"?date=2026-03-02", tok, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, float64(1500), body["calories_consumed"])
	require.Equal(t, float64(1319-1500), body["calories_remaining"])
	require.Equal(t, "Over goal", body["calorie_status"])
	require.Equal(t, "Goal met", body["water_status"])

	status, _ = call(t, srv, http.MethodGet, "/api/nutrition/progress/daily/"+id, tok, nil)
	require.Equal(t, http.StatusBadRequest, status)

	status, body = call(t, srv, http.MethodGet, "/api/nutrition/progress/weekly/"+id+"?startDate=2026-03-01", tok, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["daily_calories"], 7)
	require.Equal(t, float64(6), body["days_calorie_goal_met"])
	require.Equal(t, float64(1), body["days_water_goal_met"])
	require.Equal(t, "You met your calorie goal for 6 days and water goal for 1 days this week!", body["summary"])
}

func TestFollowFlow(t *testing.T) {
	srv := newTestServer(t)
	a, tokA := register(t, srv, "a@x.io")
	b, _ := register(t, srv, "b@x.io")

	status, body := call(t, srv, http.MethodPost, "/api/user/"+b+"/follow?followerId="+a, tokA, nil)
	require.Equal(t, http.StatusOK, status, body)
	require.Equal(t, "Successfully followed user", body["message"])
	user := body["user"].(map[string]any)
	require.Equal(t, []any{a}, user["followed_users"])

	status, body = call(t, srv, http.MethodPost, "/api/user/"+b+"/follow", tokA, nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Already following this user", body["error"])

	status, body = call(t, srv, http.MethodGet, "/api/user/"+a, tokA, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, []any{b}, body["following_users"])

	status, body = call(t, srv, http.MethodPost, "/api/user/"+b+"/unfollow?followerId="+a, tokA, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, []any{}, body["user"].(map[string]any)["followed_users"])

	status, _ = call(t, srv, http.MethodPost, "/api/user/missing/follow?followerId="+a, tokA, nil)
	require.Equal(t, http.StatusNotFound, status)
}

func TestUserProfileEndpoints(t *testing.T) {
	srv := newTestServer(t)
	a, tok := register(t, srv, "a@x.io")
	b, _ := register(t, srv, "b@x.io")

	status, body := call(t, srv, http.MethodPut, "/api/user/profile/"+a, tok, map[string]any{
		"bio": "runner", "skills": []string{"go", "sql"}, "location": "Porto",
	})
	require.Equal(t, http.StatusOK, status, body)
	require.Equal(t, "runner", body["bio"])
	require.Equal(t, []any{"go", "sql"}, body["skills"])

	status, _ = call(t, srv, http.MethodPut, "/api/user/profile/"+a, tok, map[string]any{"bio": strings.Repeat("x", 501)})
	require.Equal(t, http.StatusBadRequest, status)

	status, body = call(t, srv, http.MethodGet, "/api/user/profile/"+a, tok, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Porto", body["location"])

	status, _ = call(t, srv, http.MethodPut, "/api/user/"+a, tok, map[string]any{"email": "b@x.io"})
	require.Equal(t, http.StatusConflict, status)

	status, body = call(t, srv, http.MethodPut, "/api/user/"+a, tok, map[string]any{"name": "Ana", "email": "ana@x.io"})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ana@x.io", body["email"])

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/user/batch?ids="+a+","+b+",missing", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var batch []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&batch))
	require.Len(t, batch, 2)
}

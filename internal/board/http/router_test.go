package http

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/boardsync/backend/internal/board/domain"
	"github.com/boardsync/backend/internal/board/repository"
	"github.com/boardsync/backend/internal/board/service"
	"github.com/boardsync/backend/internal/common/clock"
	"github.com/boardsync/backend/internal/common/config"
	"github.com/boardsync/backend/internal/common/jwtverify"
	"github.com/boardsync/backend/internal/common/logger"
)

type mockRepo struct {
	listByOwnerFunc func(ctx context.Context, owner string) ([]domain.Board, error)
	createFunc      func(ctx context.Context, name, owner string, createdAt time.Time) (int64, error)
	deleteFunc      func(ctx context.Context, id int64, owner string) error
}

func (m *mockRepo) ListByOwner(ctx context.Context, owner string) ([]domain.Board, error) {
	return m.listByOwnerFunc(ctx, owner)
}

func (m *mockRepo) Create(ctx context.Context, name, owner string, createdAt time.Time) (int64, error) {
	return m.createFunc(ctx, name, owner, createdAt)
}

func (m *mockRepo) Delete(ctx context.Context, id int64, owner string) error {
	return m.deleteFunc(ctx, id, owner)
}

type routerEnv struct {
	handler http.Handler
	repo    *mockRepo
	privKey *rsa.PrivateKey
}

func setupRouter(t *testing.T) *routerEnv {
	t.Helper()

	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&privKey.PublicKey)
	if err != nil {
		t.Fatalf("failed to marshal public key: %v", err)
	}
	verifier, err := jwtverify.New(base64.StdEncoding.EncodeToString(der), "account")
	if err != nil {
		t.Fatalf("failed to build verifier: %v", err)
	}

	repo := &mockRepo{}
	log, _ := logger.New("", "test", "error")
	svc := service.NewBoardService(repo, clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)), log)

	cfg := config.BoardConfig{RequestTimeout: 5 * time.Second}
	handler := jwtverify.Middleware(verifier, log)(NewHandler(svc, cfg, log))

	return &routerEnv{handler: handler, repo: repo, privKey: privKey}
}

func (env *routerEnv) request(t *testing.T, method, path, username string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if username != "" {
		claims := jwt.MapClaims{
			"aud":                "account",
			"exp":                time.Now().Add(time.Hour).Unix(),
			"preferred_username": username,
			"email":              username + "@example.com",
			"email_verified":     true,
			"name":               username,
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(env.privKey)
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode body %q: %v", rec.Body.String(), err)
	}
}

func TestRouter_MissingAuthorization(t *testing.T) {
	env := setupRouter(t)

	rec := env.request(t, http.MethodGet, "/api/whiteboards", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body map[string]any
	decodeBody(t, rec, &body)
	if body["message"] != "Missing Authorization header" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestRouter_InvalidToken(t *testing.T) {
	env := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/whiteboards", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body map[string]any
	decodeBody(t, rec, &body)
	if body["message"] != "Invalid token" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestRouter_User(t *testing.T) {
	env := setupRouter(t)

	rec := env.request(t, http.MethodGet, "/api/user", "alice")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body userResponse
	decodeBody(t, rec, &body)
	if body.PreferredUsername != "alice" {
		t.Errorf("expected preferred_username alice, got %s", body.PreferredUsername)
	}
	if body.Email != "alice@example.com" {
		t.Errorf("expected email alice@example.com, got %s", body.Email)
	}
	if !body.EmailVerified {
		t.Error("expected email_verified true")
	}
}

func TestRouter_List(t *testing.T) {
	env := setupRouter(t)

	env.repo.listByOwnerFunc = func(ctx context.Context, owner string) ([]domain.Board, error) {
		if owner != "alice" {
			t.Errorf("expected owner alice, got %s", owner)
		}
		return []domain.Board{{ID: 1, Name: "sketch", Owner: "alice"}}, nil
	}

	rec := env.request(t, http.MethodGet, "/api/whiteboards", "alice")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body []domain.Board
	decodeBody(t, rec, &body)
	if len(body) != 1 || body[0].Name != "sketch" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestRouter_ListEmpty(t *testing.T) {
	env := setupRouter(t)

	env.repo.listByOwnerFunc = func(ctx context.Context, owner string) ([]domain.Board, error) {
		return nil, nil
	}

	rec := env.request(t, http.MethodGet, "/api/whiteboards", "alice")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	// An owner without boards gets an empty array, never null.
	if rec.Body.String() != "[]\n" {
		t.Errorf("expected empty array body, got %q", rec.Body.String())
	}
}

func TestRouter_Create(t *testing.T) {
	env := setupRouter(t)

	env.repo.createFunc = func(ctx context.Context, name, owner string, createdAt time.Time) (int64, error) {
		if name != "retro" || owner != "alice" {
			t.Errorf("unexpected create args name=%s owner=%s", name, owner)
		}
		return 42, nil
	}

	rec := env.request(t, http.MethodPost, "/api/whiteboards/retro", "alice")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body createBoardResponse
	decodeBody(t, rec, &body)
	if body.ID != 42 {
		t.Errorf("expected id 42, got %d", body.ID)
	}
}

func TestRouter_CreateEmptyName(t *testing.T) {
	env := setupRouter(t)

	rec := env.request(t, http.MethodPost, "/api/whiteboards/", "alice")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]any
	decodeBody(t, rec, &body)
	if body["message"] != "Name cannot be empty" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestRouter_CreateMethodNotAllowed(t *testing.T) {
	env := setupRouter(t)

	rec := env.request(t, http.MethodGet, "/api/whiteboards/retro", "alice")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestRouter_Delete(t *testing.T) {
	env := setupRouter(t)

	env.repo.deleteFunc = func(ctx context.Context, id int64, owner string) error {
		if id != 7 || owner != "alice" {
			t.Errorf("unexpected delete args id=%d owner=%s", id, owner)
		}
		return nil
	}

	rec := env.request(t, http.MethodPost, "/api/whiteboards/7/delete", "alice")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_DeleteNotFound(t *testing.T) {
	env := setupRouter(t)

	env.repo.deleteFunc = func(ctx context.Context, id int64, owner string) error {
		return repository.ErrBoardNotFound
	}

	rec := env.request(t, http.MethodPost, "/api/whiteboards/7/delete", "alice")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_DeleteInvalidID(t *testing.T) {
	env := setupRouter(t)

	rec := env.request(t, http.MethodPost, "/api/whiteboards/abc/delete", "alice")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

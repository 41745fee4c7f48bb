package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/file-management/internal/api/http/handlers"
	"github.com/spec-kit/file-management/internal/auth"
	"github.com/spec-kit/file-management/internal/config"
	"github.com/spec-kit/file-management/internal/domain"
	"github.com/spec-kit/file-management/internal/events"
	"github.com/spec-kit/file-management/internal/observability"
	"github.com/spec-kit/file-management/internal/service"
)

// ============================================================================
// In-memory repositories
// ============================================================================

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func (m *memoryUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	m.users[strings.ToLower(user.UserName)] = user
	return nil
}

func (m *memoryUsers) GetByUserName(_ context.Context, userName string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[strings.ToLower(userName)]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

type memoryFiles struct {
	mu    sync.Mutex
	files []domain.File
}

func (m *memoryFiles) Create(_ context.Context, file *domain.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	file.ID = uuid.NewString()
	file.CreatedAt = time.Now().UTC()
	m.files = append(m.files, *file)
	return nil
}

func (m *memoryFiles) GetByID(_ context.Context, ownerID, id string) (*domain.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.files {
		if m.files[i].ID == id && m.files[i].OwnerID == ownerID {
			f := m.files[i]
			return &f, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryFiles) ListByOwner(_ context.Context, ownerID string) ([]domain.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.File
	for _, f := range m.files {
		if f.OwnerID == ownerID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memoryFiles) Delete(_ context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.files {
		if m.files[i].ID == id && m.files[i].OwnerID == ownerID {
			m.files = append(m.files[:i], m.files[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

// ============================================================================
// Helpers
// ============================================================================

type testServer struct {
	app     *fiber.App
	metrics *observability.Metrics
	verify  *auth.TokenVerifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.Config{
		App: config.AppConfig{Name: "file-management-api", Version: "test"},
		Auth: config.AuthConfig{
			Issuer:          "FileManagement",
			Audience:        "http://localhost:5000/",
			ValidForMinutes: 120,
			SigningMethod:   "HS256",
			JWTSecret:       "router-test-secret-0123456789abcdef",
			JTIStrategy:     "ulid",
			BcryptCost:      bcrypt.MinCost,
		},
	}
	logger := zap.NewNop()
	metrics := observability.NewMetrics("test")
	dispatcher := events.NewInMemoryDispatcher()
	service.NewAuditService(dispatcher, logger, metrics).RegisterHandlers()

	authService, err := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:     &memoryUsers{users: map[string]*domain.User{}},
		JTIGenerator: auth.NewULIDSource(),
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	require.NoError(t, err)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, nil, nil),
		Accounts:       handlers.NewAccountsHandler(authService),
		Auth:           handlers.NewAuthHandler(authService),
		Files:          handlers.NewFilesHandler(service.NewFileService(&memoryFiles{})),
		AuthMiddleware: auth.NewMiddleware(authService.Verifier(), logger),
		Metrics:        metrics,
	})
	return &testServer{app: app, metrics: metrics, verify: authService.Verifier()}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func (s *testServer) registerAndLogin(t *testing.T, email string) map[string]any {
	t.Helper()
	status, _ := s.do(t, fiber.MethodPost, "/api/accounts", "", map[string]any{
		"email": email, "password": "Secr3t!", "firstName": "Ada", "lastName": "Lovelace",
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, body := s.do(t, fiber.MethodPost, "/api/auth/login", "", map[string]any{
		"userName": email, "password": "Secr3t!",
	})
	require.Equal(t, fiber.StatusOK, status)
	return body
}

// ============================================================================
// Tests
// ============================================================================

func TestLogin_ReturnsTokenResponse(t *testing.T) {
	s := newTestServer(t)

	body := s.registerAndLogin(t, "ada@example.com")

	assert.NotEmpty(t, body["id"])
	assert.EqualValues(t, 7200, body["expires_in"])
	token, ok := body["auth_token"].(string)
	require.True(t, ok)

	identity, claims, err := s.verify.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Subject)
	assert.True(t, identity.HasClaim(auth.ClaimUserID, body["id"].(string)))
	assert.True(t, identity.HasClaim(auth.ClaimRole, auth.RoleAPIAccess))
}

func TestLogin_BadPassword_ReturnsLoginFailure(t *testing.T) {
	s := newTestServer(t)
	s.registerAndLogin(t, "ada@example.com")

	status, body := s.do(t, fiber.MethodPost, "/api/auth/login", "", map[string]any{
		"userName": "ada@example.com", "password": "nope",
	})

	assert.Equal(t, fiber.StatusBadRequest, status)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_FAILED", errBody["code"])
	assert.Contains(t, errBody["details"], "login_failure")
}

func TestRegister_WeakPassword_ReturnsIdentityErrors(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, fiber.MethodPost, "/api/accounts", "", map[string]any{
		"email": "bob@example.com", "password": "short",
	})

	assert.Equal(t, fiber.StatusBadRequest, status)
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Contains(t, details, "PasswordTooShort")
}

func TestFiles_RequireBearerToken(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, fiber.MethodGet, "/api/files", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body["error"].(map[string]any)["code"])

	status, _ = s.do(t, fiber.MethodGet, "/api/files", "not-a-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestFiles_CRUDScopedToCaller(t *testing.T) {
	s := newTestServer(t)
	ada := s.registerAndLogin(t, "ada@example.com")["auth_token"].(string)
	bob := s.registerAndLogin(t, "bob@example.com")["auth_token"].(string)

	status, body := s.do(t, fiber.MethodPost, "/api/files", ada, map[string]any{"name": "notes.txt", "sizeBytes": 12})
	require.Equal(t, fiber.StatusCreated, status)
	created := body["data"].(map[string]any)
	id := created["id"].(string)
	assert.Equal(t, "application/octet-stream", created["contentType"])

	status, body = s.do(t, fiber.MethodGet, "/api/files", ada, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, body = s.do(t, fiber.MethodGet, "/api/files", bob, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body["data"])

	status, _ = s.do(t, fiber.MethodGet, "/api/files/"+id, bob, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = s.do(t, fiber.MethodDelete, "/api/files/"+id, ada, nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, _ = s.do(t, fiber.MethodGet, "/api/files/"+id, ada, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestFiles_MalformedIDIsNotFound(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "ada@example.com")["auth_token"].(string)

	status, body := s.do(t, fiber.MethodGet, "/api/files/abc", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["error"].(map[string]any)["code"])

	status, _ = s.do(t, fiber.MethodDelete, "/api/files/abc", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestFiles_CreateValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "ada@example.com")["auth_token"].(string)

	status, body := s.do(t, fiber.MethodPost, "/api/files", token, map[string]any{"name": " ", "sizeBytes": -1})

	assert.Equal(t, fiber.StatusBadRequest, status)
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "sizeBytes")
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	s.registerAndLogin(t, "ada@example.com")

	status, body := s.do(t, fiber.MethodGet, "/health/live", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	status, body = s.do(t, fiber.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ready", body["status"])

	resp, err := s.app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "test_tokens_issued_total 1")
}

package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfm-dashboard/backend/internal/auth/repository"
	"github.com/pfm-dashboard/backend/internal/auth/service"
	"github.com/pfm-dashboard/backend/internal/auth/usecase"
	userDomain "github.com/pfm-dashboard/backend/internal/user/domain"
)

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*userDomain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uuid.UUID]*userDomain.User)}
}

func (r *memoryUserRepo) Create(_ context.Context, user *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Mirrors the SQL repositories, which stamp timestamps on insert.
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = user
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id uuid.UUID) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, userDomain.ErrUserNotFound
}

func (r *memoryUserRepo) GetByUsername(_ context.Context, username string) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, userDomain.ErrUserNotFound
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, userDomain.ErrUserNotFound
}

type handlerEnv struct {
	router *gin.Engine
	codec  *service.TokenCodec
	redis  *miniredis.Miniredis
}

// newHandlerEnv wires the real use case, codec and revocation store behind a
// router with the auth endpoints and one protected route.
func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.DiscardHandler)
	codec := service.NewTokenCodec([]byte("test-secret"), "pfm-dashboard", "pfm-client", 10*time.Minute)
	store := repository.NewRedisRevocationStore(client)

	authUseCase, err := usecase.NewAuthUseCase(newMemoryUserRepo(), codec, store, false, logger)
	require.NoError(t, err)

	handler := NewAuthHandler(authUseCase, CookieSettings{MaxAge: 600, Secure: false}, logger)

	router := gin.New()
	auth := router.Group("/api/v1/auth")
	auth.POST("/register", handler.Register)
	auth.POST("/login", handler.Login)
	auth.POST("/logout", handler.Logout)

	protected := router.Group("/api/v1")
	protected.Use(SessionMiddleware(authUseCase, logger))
	protected.GET("/me", func(c *gin.Context) {
		user := GetUser(c)
		require.NotNil(t, user)
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "tokenId": GetTokenID(c)})
	})

	return &handlerEnv{router: router, codec: codec, redis: mr}
}

func (e *handlerEnv) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "token" {
			return cookie
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

const registerBody = `{"username":"alice","email":"alice@example.com","password":"password123"}`

type sessionBody struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    struct {
		ID        uuid.UUID `json:"id"`
		Username  string    `json:"username"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	} `json:"user"`
}

func decodeSession(t *testing.T, w *httptest.ResponseRecorder) sessionBody {
	t.Helper()
	var body sessionBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRegisterEndpoint(t *testing.T) {
	env := newHandlerEnv(t)

	w := env.do(http.MethodPost, "/api/v1/auth/register", registerBody)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	assert.NotContains(t, w.Body.String(), "password")

	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 600, cookie.MaxAge)
	assert.Equal(t, "/", cookie.Path)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.NotEmpty(t, cookie.Value)

	// The cookie is HTTP-only, so the token must also come back in the body.
	body := decodeSession(t, w)
	assert.Equal(t, cookie.Value, body.Token)
	assert.NotEmpty(t, body.Token)
	assert.False(t, body.User.CreatedAt.IsZero())
	assert.False(t, body.User.UpdatedAt.IsZero())

	// The cookie works on protected routes straight away.
	me := env.do(http.MethodGet, "/api/v1/me", "", cookie)
	assert.Equal(t, http.StatusOK, me.Code)
}

func TestRegisterEndpointMalformedJSON(t *testing.T) {
	env := newHandlerEnv(t)

	w := env.do(http.MethodPost, "/api/v1/auth/register", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterEndpointValidation(t *testing.T) {
	env := newHandlerEnv(t)

	w := env.do(http.MethodPost, "/api/v1/auth/register", `{"username":"alice","email":"bad","password":"password123"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
}

func TestRegisterEndpointConflictMessages(t *testing.T) {
	env := newHandlerEnv(t)

	w := env.do(http.MethodPost, "/api/v1/auth/register", registerBody)
	require.Equal(t, http.StatusCreated, w.Code)

	// Duplicate username is reported before duplicate email.
	w = env.do(http.MethodPost, "/api/v1/auth/register", registerBody)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "username already exists")

	w = env.do(http.MethodPost, "/api/v1/auth/register", `{"username":"bob","email":"alice@example.com","password":"password123"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email already exists")
}

func TestLoginEndpoint(t *testing.T) {
	env := newHandlerEnv(t)
	env.do(http.MethodPost, "/api/v1/auth/register", registerBody)

	// By username.
	w := env.do(http.MethodPost, "/api/v1/auth/login", `{"username":"alice","password":"password123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)
	assert.Equal(t, cookie.Value, decodeSession(t, w).Token)

	// By email through the same field.
	w = env.do(http.MethodPost, "/api/v1/auth/login", `{"username":"alice@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	cookie = sessionCookie(t, w)
	assert.Equal(t, cookie.Value, decodeSession(t, w).Token)
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	env := newHandlerEnv(t)
	env.do(http.MethodPost, "/api/v1/auth/register", registerBody)

	wrongPassword := env.do(http.MethodPost, "/api/v1/auth/login", `{"username":"alice","password":"nope-nope"}`)
	unknownUser := env.do(http.MethodPost, "/api/v1/auth/login", `{"username":"mallory","password":"password123"}`)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	// Identical bodies: no account enumeration.
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestProtectedRouteWithoutCookie(t *testing.T) {
	env := newHandlerEnv(t)

	w := env.do(http.MethodGet, "/api/v1/me", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthorized")
}

func TestProtectedRouteWithGarbageToken(t *testing.T) {
	env := newHandlerEnv(t)

	w := env.do(http.MethodGet, "/api/v1/me", "", &http.Cookie{Name: "token", Value: "garbage"})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_token")
}

func TestProtectedRouteWithExpiredToken(t *testing.T) {
	env := newHandlerEnv(t)

	expiredCodec := service.NewTokenCodec([]byte("test-secret"), "pfm-dashboard", "pfm-client", -time.Minute)
	token, err := expiredCodec.Issue(uuid.Must(uuid.NewV7()))
	require.NoError(t, err)

	w := env.do(http.MethodGet, "/api/v1/me", "", &http.Cookie{Name: "token", Value: token})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLogoutWithoutCookie(t *testing.T) {
	env := newHandlerEnv(t)

	w := env.do(http.MethodPost, "/api/v1/auth/logout", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Token not provided")
}

func TestLogoutFlow(t *testing.T) {
	env := newHandlerEnv(t)

	registered := env.do(http.MethodPost, "/api/v1/auth/register", registerBody)
	cookie := sessionCookie(t, registered)

	w := env.do(http.MethodPost, "/api/v1/auth/logout", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Logged out successfully")

	cleared := sessionCookie(t, w)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	// Replaying the old token fails: the session is dead server-side.
	replay := env.do(http.MethodGet, "/api/v1/me", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, replay.Code)
}

func TestLogoutIsIdempotent(t *testing.T) {
	env := newHandlerEnv(t)

	registered := env.do(http.MethodPost, "/api/v1/auth/register", registerBody)
	cookie := sessionCookie(t, registered)

	first := env.do(http.MethodPost, "/api/v1/auth/logout", "", cookie)
	second := env.do(http.MethodPost, "/api/v1/auth/logout", "", cookie)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
}

func TestLogoutSucceedsWhenStoreDown(t *testing.T) {
	env := newHandlerEnv(t)

	registered := env.do(http.MethodPost, "/api/v1/auth/register", registerBody)
	cookie := sessionCookie(t, registered)

	env.redis.Close()

	// Revocation write fails but the client still ends its session.
	w := env.do(http.MethodPost, "/api/v1/auth/logout", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	cleared := sessionCookie(t, w)
	assert.Empty(t, cleared.Value)
}

func TestSecureCookieSettings(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.DiscardHandler)
	codec := service.NewTokenCodec([]byte("test-secret"), "pfm-dashboard", "pfm-client", 10*time.Minute)
	store := repository.NewRedisRevocationStore(client)
	authUseCase, err := usecase.NewAuthUseCase(newMemoryUserRepo(), codec, store, false, logger)
	require.NoError(t, err)

	handler := NewAuthHandler(authUseCase, CookieSettings{MaxAge: 600, Secure: true}, logger)
	router := gin.New()
	router.POST("/register", handler.Register)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(registerBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	cookie := sessionCookie(t, w)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
}

func TestIPRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.DiscardHandler)

	router := gin.New()
	router.Use(IPRateLimitMiddleware(1, 2, logger))
	router.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	statuses := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	assert.Equal(t, http.StatusOK, statuses[0])
	assert.Equal(t, http.StatusOK, statuses[1])
	assert.Equal(t, http.StatusTooManyRequests, statuses[2])
	assert.Equal(t, http.StatusTooManyRequests, statuses[3])
}

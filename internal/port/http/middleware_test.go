package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atelierlaine/reservation-service/internal/domain/entity"
	"github.com/atelierlaine/reservation-service/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

type noOpLogger struct{}

func (l *noOpLogger) Init()                                       {}
func (l *noOpLogger) Debug(args ...interface{})                   {}
func (l *noOpLogger) Debugf(template string, args ...interface{}) {}
func (l *noOpLogger) Info(args ...interface{})                    {}
func (l *noOpLogger) Infof(template string, args ...interface{})  {}
func (l *noOpLogger) Warn(args ...interface{})                    {}
func (l *noOpLogger) Warnf(template string, args ...interface{})  {}
func (l *noOpLogger) Error(args ...interface{})                   {}
func (l *noOpLogger) Errorf(template string, args ...interface{}) {}
func (l *noOpLogger) Fatal(args ...interface{})                   {}
func (l *noOpLogger) Fatalf(template string, args ...interface{}) {}
func (l *noOpLogger) With(args ...interface{}) logger.Logger      { return l }

func signedToken(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func principalEcho() (http.Handler, *entity.Principal) {
	var seen entity.Principal
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return handler, &seen
}

func TestAuthenticate_ValidToken(t *testing.T) {
	next, seen := principalEcho()
	mw := Authenticate(testSecret, &noOpLogger{})(next)

	token := signedToken(t, Claims{
		UserID: "user1",
		Name:   "Alice Martin",
		Email:  "alice@example.com",
		Role:   "customer",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user1", seen.UserID)
	assert.Equal(t, "alice@example.com", seen.Email)
	assert.Equal(t, entity.RoleCustomer, seen.Role)
	assert.True(t, seen.IsAuthenticated())
}

func TestAuthenticate_NoHeaderYieldsAnonymous(t *testing.T) {
	next, seen := principalEcho()
	mw := Authenticate(testSecret, &noOpLogger{})(next)

	req := httptest.NewRequest(http.MethodGet, "/api/creations", nil)
	rec := httptest.NewRecorder()

	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, seen.IsAuthenticated())
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	next, _ := principalEcho()
	mw := Authenticate(testSecret, &noOpLogger{})(next)

	token := signedToken(t, Claims{UserID: "user1"}, "other-secret")

	req := httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	next, _ := principalEcho()
	mw := Authenticate(testSecret, &noOpLogger{})(next)

	token := signedToken(t, Claims{
		UserID: "user1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	next, _ := principalEcho()
	mw := Authenticate(testSecret, &noOpLogger{})(next)

	req := httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()

	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	next, _ := principalEcho()
	mw := Authenticate(testSecret, &noOpLogger{})(RequireAdmin(next))

	customerToken := signedToken(t, Claims{UserID: "user1", Role: "customer"}, testSecret)
	req := httptest.NewRequest(http.MethodPost, "/api/creations", nil)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken := signedToken(t, Claims{UserID: "admin1", Role: "admin"}, testSecret)
	req = httptest.NewRequest(http.MethodPost, "/api/creations", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/creations", nil)
	rec = httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	next, _ := principalEcho()
	mw := RequireAuth(next)

	req := httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

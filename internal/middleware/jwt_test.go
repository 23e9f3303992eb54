package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"course-qa/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTokenRoundTrip(t *testing.T) {
	auth := NewAuthenticator("test-secret")
	userID := uuid.New()

	token, err := auth.GenerateToken(userID, models.AuthorTeacher)
	assert.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, models.AuthorTeacher, claims.Role)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewAuthenticator("secret-a").GenerateToken(uuid.New(), models.AuthorStudent)
	assert.NoError(t, err)

	_, err = NewAuthenticator("secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestApplyJWT(t *testing.T) {
	auth := NewAuthenticator("test-secret")
	userID := uuid.New()

	var gotID uuid.UUID
	var gotRole models.AuthorType
	handler := auth.ApplyJWT(func(w http.ResponseWriter, r *http.Request) {
		id, role, ok := GetRequesterFromContext(r.Context())
		assert.True(t, ok)
		gotID = id
		gotRole = role
		w.WriteHeader(http.StatusOK)
	}, "/comment")

	// No Authorization header
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/comment", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Malformed header
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/comment", nil)
	req.Header.Set("Authorization", "Basic abc123")
	handler(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid bearer token reaches the handler with the requester in context.
	token, err := auth.GenerateToken(userID, models.AuthorStudent)
	assert.NoError(t, err)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/comment", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, models.AuthorStudent, gotRole)
}

func TestApplyJWTSkipsUnprotectedRoutes(t *testing.T) {
	auth := NewAuthenticator("test-secret")
	handler := auth.ApplyJWT(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, "/health")

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

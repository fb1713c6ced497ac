package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGate_Validate(t *testing.T) {
	g := NewGate("s3cret")

	tests := []struct {
		header string
		want   bool
	}{
		{"Bearer s3cret", true},
		{"Bearer wrongpass", false},
		{"Bearer S3CRET", false},
		{"bearer s3cret", false},
		{"s3cret", false},
		{"Bearer  s3cret", false},
		{"Bearer s3cret ", false},
		{"Basic s3cret", false},
		{"Bearer ", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Validate(tt.header))
		})
	}
}

func TestGate_EmptySecretRejectsAll(t *testing.T) {
	g := NewGate("")
	assert.False(t, g.Validate("Bearer "))
	assert.False(t, g.CheckPassword(""))
}

func TestGate_CheckPassword(t *testing.T) {
	g := NewGate("s3cret")
	assert.True(t, g.CheckPassword("s3cret"))
	assert.False(t, g.CheckPassword("s3cre"))
	assert.False(t, g.CheckPassword("s3cret!"))
}

func TestGate_RequireAdmin(t *testing.T) {
	g := NewGate("s3cret")
	reached := false
	h := g.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/markers", nil)
	req.Header.Set("Authorization", "Bearer wrongpass")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/api/markers", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.True(t, reached)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

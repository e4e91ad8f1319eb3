package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmaloney/flatnote/internal/auth"
)

func TestRequireAuthNoCookie(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")

	handler := RequireAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/note", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "Unauthorized" {
		t.Errorf("error = %q, want %q", body["error"], "Unauthorized")
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")

	handler := RequireAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/note", nil)
	req.AddCookie(&http.Cookie{Name: authCookieName, Value: "garbage"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAuthValidToken(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	token, err := tokens.Generate(auth.Identity{UserID: "user-1", Username: "alice"})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var gotIdent auth.Identity
	handler := RequireAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := auth.FromContext(r.Context())
		if !ok {
			t.Fatal("expected identity in request context")
		}
		gotIdent = ident
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/note", nil)
	req.AddCookie(&http.Cookie{Name: authCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotIdent.UserID != "user-1" || gotIdent.Username != "alice" {
		t.Errorf("identity = %+v, want user-1/alice", gotIdent)
	}
}

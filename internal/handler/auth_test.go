package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmaloney/flatnote/internal/auth"
	"github.com/dmaloney/flatnote/internal/store/jsonfile"
)

func setupAuthHandler(t *testing.T) (*AuthHandler, *jsonfile.UserStore, *auth.TokenService) {
	t.Helper()
	users := jsonfile.NewUserStore(t.TempDir())
	tokens := auth.NewTokenService("test-secret")
	return NewAuthHandler(users, tokens, slog.Default()), users, tokens
}

func postJSON(t *testing.T, h http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestRegister(t *testing.T) {
	h, users, _ := setupAuthHandler(t)

	rec := postJSON(t, h.Register, "/auth/register", `{"username":"alice","password":"pw123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body)
	}

	body := decodeBody(t, rec)
	if body["username"] != "alice" {
		t.Errorf("username = %v, want alice", body["username"])
	}
	if body["id"] == nil || body["id"] == "" {
		t.Error("expected generated id in response")
	}
	if _, ok := body["password"]; ok {
		t.Error("password must never appear in the response")
	}

	// The stored record holds a hash, not the plaintext.
	stored, err := users.GetByUsername("alice")
	if err != nil {
		t.Fatalf("get stored user: %v", err)
	}
	if stored == nil {
		t.Fatal("expected stored user")
	}
	if stored.Password == "pw123" || stored.Password == "" {
		t.Errorf("stored password = %q, want bcrypt hash", stored.Password)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	h, _, _ := setupAuthHandler(t)

	for _, body := range []string{
		`{"username":"alice"}`,
		`{"password":"pw123"}`,
		`{}`,
	} {
		rec := postJSON(t, h.Register, "/auth/register", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
		if got := decodeBody(t, rec)["error"]; got != "Missing body parameter(s)" {
			t.Errorf("body %s: error = %v", body, got)
		}
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	h, _, _ := setupAuthHandler(t)

	if rec := postJSON(t, h.Register, "/auth/register", `{"username":"alice","password":"pw123"}`); rec.Code != http.StatusOK {
		t.Fatalf("first register: status = %d", rec.Code)
	}

	rec := postJSON(t, h.Register, "/auth/register", `{"username":"alice","password":"other"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "User already exists" {
		t.Errorf("error = %v, want User already exists", got)
	}
}

func TestLogin(t *testing.T) {
	h, users, tokens := setupAuthHandler(t)

	postJSON(t, h.Register, "/auth/register", `{"username":"alice","password":"pw123"}`)
	stored, _ := users.GetByUsername("alice")

	rec := postJSON(t, h.Login, "/auth/login", `{"username":"alice","password":"pw123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body)
	}

	tokenStr, _ := decodeBody(t, rec)["token"].(string)
	if tokenStr == "" {
		t.Fatal("expected token in response body")
	}
	ident, err := tokens.Validate(tokenStr)
	if err != nil {
		t.Fatalf("validate issued token: %v", err)
	}
	if ident.UserID != stored.ID || ident.Username != "alice" {
		t.Errorf("token identity = %+v, want stored id and username", ident)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != authCookieName || c.Value != tokenStr {
		t.Errorf("cookie = %s=%s, want %s=<token>", c.Name, c.Value, authCookieName)
	}
	if c.Path != "/" || !c.Secure || !c.HttpOnly || c.SameSite != http.SameSiteStrictMode {
		t.Errorf("cookie attributes = %+v, want Path=/ Secure HttpOnly SameSite=Strict", c)
	}
	if c.MaxAge != 86400 {
		t.Errorf("cookie MaxAge = %d, want 86400", c.MaxAge)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	h, _, _ := setupAuthHandler(t)

	rec := postJSON(t, h.Login, "/auth/login", `{"username":"nobody","password":"pw123"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "Can't find user" {
		t.Errorf("error = %v, want Can't find user", got)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h, _, _ := setupAuthHandler(t)

	postJSON(t, h.Register, "/auth/register", `{"username":"alice","password":"pw123"}`)

	rec := postJSON(t, h.Login, "/auth/login", `{"username":"alice","password":"wrong"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "Invalid password" {
		t.Errorf("error = %v, want Invalid password", got)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("failed login must not set a cookie")
	}
}

func TestLoginMissingFields(t *testing.T) {
	h, _, _ := setupAuthHandler(t)

	rec := postJSON(t, h.Login, "/auth/login", `{"username":"alice"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "Missing body parameter(s)" {
		t.Errorf("error = %v", got)
	}
}

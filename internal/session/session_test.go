package session

import (
	"errors"
	"net/http/httptest"
	"testing"
)

func TestStaticUsersResolve(t *testing.T) {
	users := NewStaticUsers()
	users.Add("tok-abc", User{ID: "u1", Name: "Ada", Landing: Landing{Module: "home", Action: "default"}})

	tests := []struct {
		name    string
		token   string
		wantID  string
		wantErr error
	}{
		{name: "empty token denied", token: "", wantErr: ErrUnauthorized},
		{name: "unknown token denied", token: "tok-xyz", wantErr: ErrUnauthorized},
		{name: "known token resolved", token: "tok-abc", wantID: "u1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u, err := users.Resolve(tc.token)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected err %v, got %v", tc.wantErr, err)
			}
			if u.ID != tc.wantID {
				t.Fatalf("user id = %q, want %q", u.ID, tc.wantID)
			}
		})
	}
}

func TestTokenExtraction(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if got := Token(req); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Cookie", CookieName+"=tok-cookie")
	if got := Token(req); got != "tok-cookie" {
		t.Fatalf("cookie token = %q", got)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer tok-bearer")
	if got := Token(req); got != "tok-bearer" {
		t.Fatalf("bearer token = %q", got)
	}

	// Cookie wins over header when both are present.
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Cookie", CookieName+"=tok-cookie")
	req.Header.Set("Authorization", "Bearer tok-bearer")
	if got := Token(req); got != "tok-cookie" {
		t.Fatalf("expected cookie precedence, got %q", got)
	}
}

func TestCurrentFallsBackToAnonymous(t *testing.T) {
	users := NewStaticUsers()
	users.Add("tok-abc", User{ID: "u1"})

	req := httptest.NewRequest("GET", "/", nil)
	if u := Current(req, users); u.Populated() {
		t.Fatalf("expected anonymous user without token, got %+v", u)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	if u := Current(req, users); u.Populated() {
		t.Fatalf("expected anonymous user for invalid token, got %+v", u)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer tok-abc")
	if u := Current(req, users); u.ID != "u1" {
		t.Fatalf("expected resolved user, got %+v", u)
	}
}

func TestLandingURL(t *testing.T) {
	u := User{ID: "u1", Landing: Landing{Module: "notes", Action: "default"}}
	if got := u.LandingURL(); got != "notes/default" {
		t.Fatalf("landing url = %q", got)
	}
	if got := (User{}).LandingURL(); got != "" {
		t.Fatalf("anonymous landing url = %q", got)
	}
}

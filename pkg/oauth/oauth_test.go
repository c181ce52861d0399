package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid", Config{"id", "secret", "http://localhost/token"}, false},
		{"no client ID", Config{"", "secret", "http://localhost/token"}, true},
		{"no secret", Config{"id", "", "http://localhost/token"}, true},
		{"no token url", Config{"id", "secret", " "}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTwitchConfig_DefaultsTokenURL(t *testing.T) {
	if got := TwitchConfig("id", "secret", "").TokenURL; got != TwitchTokenURL {
		t.Errorf("wrong token url: %s", got)
	}
	if got := TwitchConfig("id", "secret", "http://localhost/token").TokenURL; got != "http://localhost/token" {
		t.Errorf("override ignored: %s", got)
	}
}

func TestFlow_ClientCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.Form.Get("grant_type") != "client_credentials" {
			t.Errorf("wrong grant_type: %s", r.Form.Get("grant_type"))
		}
		if r.Form.Get("client_id") != "id" || r.Form.Get("client_secret") != "secret" {
			t.Errorf("client credentials should be sent as form params, got %v", r.Form)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "app-token", "token_type": "bearer", "expires_in": 5000000,
		})
	}))
	defer server.Close()

	token, err := NewFlow(TwitchConfig("id", "secret", server.URL)).ClientCredentials(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.AccessToken != "app-token" {
		t.Errorf("wrong token: %s", token.AccessToken)
	}
	if time.Until(token.Expiry) < 50*24*time.Hour {
		t.Errorf("expiry should follow expires_in, got %s", token.Expiry)
	}
	if bearer, err := token.BearerToken(); err != nil || bearer != "app-token" {
		t.Errorf("fresh token should be usable, got %q %v", bearer, err)
	}
}

func TestFlow_ClientCredentials_RejectedSecret(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"status":403,"message":"invalid client secret"}`))
	}))
	defer server.Close()

	_, err := NewFlow(TwitchConfig("id", "wrong", server.URL)).ClientCredentials(context.Background())
	if err == nil {
		t.Fatal("expected error for rejected secret")
	}
}

func TestFlow_ClientCredentials_InvalidConfig(t *testing.T) {
	_, err := NewFlow(Config{}).ClientCredentials(context.Background())
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestToken_BearerToken(t *testing.T) {
	tests := []struct {
		name    string
		token   *Token
		wantErr error
	}{
		{"nil", nil, ErrTokenNotFound},
		{"empty", &Token{}, ErrTokenNotFound},
		{"expired", &Token{AccessToken: "t", Expiry: time.Now().Add(-time.Hour)}, ErrTokenExpired},
		{"about to expire", &Token{AccessToken: "t", Expiry: time.Now().Add(10 * time.Second)}, ErrTokenExpired},
		{"valid", &Token{AccessToken: "t", Expiry: time.Now().Add(time.Hour)}, nil},
		{"no expiry", &Token{AccessToken: "t"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.token.BearerToken()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("BearerToken() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTokenStorage(t *testing.T) {
	dir := t.TempDir()

	storage := NewTokenStorage(dir)
	expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	token := &Token{AccessToken: "test", TokenType: "bearer", Expiry: expiry}

	if err := storage.Save("twitch", token); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "twitch_token.json")); err != nil {
		t.Fatalf("token file missing: %v", err)
	}

	loaded, err := storage.Load("twitch")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.AccessToken != "test" {
		t.Errorf("wrong token: %s", loaded.AccessToken)
	}
	if !loaded.Expiry.Equal(expiry) {
		t.Errorf("expiry not persisted: %s", loaded.Expiry)
	}
}

func TestTokenStorage_NotFound(t *testing.T) {
	_, err := NewTokenStorage(t.TempDir()).Load("nonexistent")
	if err != ErrTokenNotFound {
		t.Errorf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestTokenStorage_SanitizesProvider(t *testing.T) {
	dir := t.TempDir()
	storage := NewTokenStorage(dir)

	if got := storage.Path("../../evil"); got != filepath.Join(dir, "evil_token.json") {
		t.Errorf("provider should not escape the storage dir, got %s", got)
	}
}

func TestStoredCredential(t *testing.T) {
	dir := t.TempDir()
	storage := NewTokenStorage(dir)

	if _, err := storage.Credential("twitch").BearerToken(); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("missing token should be ErrTokenNotFound, got %v", err)
	}

	if err := storage.Save("twitch", &Token{AccessToken: "old", Expiry: time.Now().Add(-time.Minute)}); err != nil {
		t.Fatal(err)
	}
	if _, err := storage.Credential("twitch").BearerToken(); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expired token should be ErrTokenExpired, got %v", err)
	}

	if err := storage.Save("twitch", &Token{AccessToken: "fresh", Expiry: time.Now().Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}
	bearer, err := storage.Credential("twitch").BearerToken()
	if err != nil || bearer != "fresh" {
		t.Errorf("got %q %v", bearer, err)
	}
}

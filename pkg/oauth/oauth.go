// Package oauth obtains and stores app access tokens for clipfinder.
//
// Twitch app access tokens come from the client credentials grant. They carry
// no refresh token; an expired token is replaced by running the grant again.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")
)

// expirySkew treats tokens about to expire as expired, so a search never starts
// with a token that dies halfway through.
const expirySkew = time.Minute

// TwitchTokenURL is the Twitch OAuth token endpoint.
const TwitchTokenURL = "https://id.twitch.tv/oauth2/token" // #nosec G101 -- public endpoint, not a credential

type Config struct {
	ClientID     string
	ClientSecret string // #nosec G117 - app secret read from the environment, never persisted
	TokenURL     string
}

// TwitchConfig returns the client credentials config for a Twitch application.
// An empty tokenURL means TwitchTokenURL.
func TwitchConfig(clientID, clientSecret, tokenURL string) Config {
	if tokenURL == "" {
		tokenURL = TwitchTokenURL
	}
	return Config{ClientID: clientID, ClientSecret: clientSecret, TokenURL: tokenURL}
}

// Validate reports missing settings.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.ClientID) == "":
		return errors.New("client ID is required")
	case strings.TrimSpace(c.ClientSecret) == "":
		return errors.New("client secret is required")
	case strings.TrimSpace(c.TokenURL) == "":
		return errors.New("token URL is required")
	}
	return nil
}

type Token struct {
	AccessToken string    `json:"access_token"` // #nosec G117 - JSON field for OAuth token, not an exposed secret
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	Expiry      time.Time `json:"expiry,omitempty"`
}

// Expired reports whether the token is unusable at now. Tokens without an expiry never expire.
func (t *Token) Expired(now time.Time) bool {
	if t.Expiry.IsZero() {
		return false
	}
	return !now.Add(expirySkew).Before(t.Expiry)
}

// BearerToken returns the access token if it is present and not expired.
func (t *Token) BearerToken() (string, error) {
	if t == nil || t.AccessToken == "" {
		return "", ErrTokenNotFound
	}
	if t.Expired(time.Now()) {
		return "", ErrTokenExpired
	}
	return t.AccessToken, nil
}

type Flow struct {
	config     Config
	httpClient *http.Client
}

type FlowOption func(*Flow)

func WithHTTPClient(client *http.Client) FlowOption {
	return func(f *Flow) { f.httpClient = client }
}

func NewFlow(config Config, opts ...FlowOption) *Flow {
	f := &Flow{config: config, httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ClientCredentials requests an app access token.
func (f *Flow) ClientCredentials(ctx context.Context) (*Token, error) {
	if err := f.config.Validate(); err != nil {
		return nil, err
	}

	cc := clientcredentials.Config{
		ClientID:     f.config.ClientID,
		ClientSecret: f.config.ClientSecret,
		TokenURL:     f.config.TokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)

	tok, err := cc.Token(ctx)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return nil, fmt.Errorf("token request failed: status %d", retrieveErr.Response.StatusCode)
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	token := &Token{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		Expiry:      tok.Expiry,
	}
	if !tok.Expiry.IsZero() {
		token.ExpiresIn = int64(time.Until(tok.Expiry).Seconds())
	}
	return token, nil
}

type TokenStorage struct {
	dir string
}

func NewTokenStorage(dir string) *TokenStorage {
	return &TokenStorage{dir: dir}
}

// Path returns where the provider's token is kept.
func (s *TokenStorage) Path(provider string) string {
	return filepath.Join(s.dir, filepath.Base(provider)+"_token.json")
}

func (s *TokenStorage) Save(provider string, token *Token) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	return os.WriteFile(s.Path(provider), data, 0600)
}

func (s *TokenStorage) Load(provider string) (*Token, error) {
	data, err := os.ReadFile(s.Path(provider)) // #nosec G304 -- provider is sanitized
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token: %w", err)
	}

	return &token, nil
}

// StoredCredential reads a provider's token from storage the first time it is
// needed and checks its expiry on every call.
type StoredCredential struct {
	storage  *TokenStorage
	provider string

	once  sync.Once
	token *Token
	err   error
}

// Credential returns a StoredCredential for provider.
func (s *TokenStorage) Credential(provider string) *StoredCredential {
	return &StoredCredential{storage: s, provider: provider}
}

func (c *StoredCredential) BearerToken() (string, error) {
	c.once.Do(func() {
		c.token, c.err = c.storage.Load(c.provider)
	})
	if c.err != nil {
		return "", c.err
	}
	return c.token.BearerToken()
}

// Package identity talks to a GoTrue-compatible auth provider over HTTP.
// Users and sessions live entirely in the provider; this service only stores
// the provider-issued user id on destination records.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const httpTimeout = 10 * time.Second

// Sentinel errors callers match with errors.Is. Everything else coming out of
// the client is an upstream provider failure.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrTokenInvalid       = errors.New("token invalid")
)

// User is the provider-issued identity record.
type User struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	UserMetadata Metadata `json:"user_metadata"`
}

// Metadata holds optional profile fields attached at signup.
type Metadata struct {
	FullName string `json:"full_name,omitempty"`
}

// Session is a provider-issued token bundle.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// Credentials pairs a user with its session. Session is nil when the provider
// requires email confirmation before issuing tokens.
type Credentials struct {
	User    User     `json:"user"`
	Session *Session `json:"session"`
}

// Client is an HTTP client for the provider's auth API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient constructs a Client for the given auth base URL
// (e.g. https://<project>.supabase.co/auth/v1).
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// apiError carries the provider's HTTP status and message for mapping.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("identity provider returned status %d: %s", e.status, e.message)
}

// do performs a request against the provider and decodes the JSON response
// into dst (when non-nil). Non-2xx responses become *apiError.
func (c *Client) do(ctx context.Context, method, path, token string, body, dst any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request for %s: %w", path, err)
		}
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Msg              string `json:"msg"`
			Message          string `json:"message"`
			ErrorDescription string `json:"error_description"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		msg := e.Msg
		if msg == "" {
			msg = e.Message
		}
		if msg == "" {
			msg = e.ErrorDescription
		}
		return &apiError{status: resp.StatusCode, message: msg}
	}

	if dst == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response from %s: %w", path, err)
	}
	return nil
}

// signupResponse covers both provider shapes: the bare user object when email
// confirmation is pending, or a token grant with an embedded user.
type signupResponse struct {
	Session
	User *User `json:"user"`

	// Bare-user shape.
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	UserMetadata Metadata `json:"user_metadata"`
}

// SignUp registers a new user. Returns ErrEmailTaken when the email is
// already registered.
func (c *Client) SignUp(ctx context.Context, email, password, fullName string) (Credentials, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"full_name": fullName},
	}

	var resp signupResponse
	if err := c.do(ctx, http.MethodPost, "/signup", "", body, &resp); err != nil {
		var ae *apiError
		if errors.As(err, &ae) && strings.Contains(strings.ToLower(ae.message), "already registered") {
			return Credentials{}, ErrEmailTaken
		}
		return Credentials{}, fmt.Errorf("signup for %s: %w", email, err)
	}

	creds := Credentials{}
	if resp.User != nil {
		creds.User = *resp.User
	} else {
		creds.User = User{ID: resp.ID, Email: resp.Email, UserMetadata: resp.UserMetadata}
	}
	if resp.AccessToken != "" {
		s := resp.Session
		creds.Session = &s
	}
	return creds, nil
}

// SignIn exchanges an email/password pair for a session.
// Returns ErrInvalidCredentials or ErrEmailNotConfirmed on rejection.
func (c *Client) SignIn(ctx context.Context, email, password string) (Credentials, error) {
	body := map[string]string{"email": email, "password": password}

	var resp struct {
		Session
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &resp); err != nil {
		var ae *apiError
		if errors.As(err, &ae) && (ae.status == http.StatusBadRequest || ae.status == http.StatusUnauthorized) {
			if strings.Contains(strings.ToLower(ae.message), "not confirmed") {
				return Credentials{}, ErrEmailNotConfirmed
			}
			return Credentials{}, ErrInvalidCredentials
		}
		return Credentials{}, fmt.Errorf("signin for %s: %w", email, err)
	}

	s := resp.Session
	return Credentials{User: resp.User, Session: &s}, nil
}

// SignOut revokes the session behind the given access token.
func (c *Client) SignOut(ctx context.Context, token string) error {
	if err := c.do(ctx, http.MethodPost, "/logout", token, nil, nil); err != nil {
		return fmt.Errorf("signout: %w", err)
	}
	return nil
}

// UserFromToken resolves a bearer token to its user.
// Returns ErrTokenInvalid when the provider rejects the token.
func (c *Client) UserFromToken(ctx context.Context, token string) (User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/user", token, nil, &u); err != nil {
		var ae *apiError
		if errors.As(err, &ae) && (ae.status == http.StatusUnauthorized || ae.status == http.StatusForbidden) {
			return User{}, ErrTokenInvalid
		}
		return User{}, fmt.Errorf("resolving token: %w", err)
	}
	return u, nil
}

// SendPasswordReset asks the provider to email a reset link that redirects
// back to redirectTo after completion.
func (c *Client) SendPasswordReset(ctx context.Context, email, redirectTo string) error {
	path := "/recover"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	if err := c.do(ctx, http.MethodPost, path, "", map[string]string{"email": email}, nil); err != nil {
		return fmt.Errorf("password reset for %s: %w", email, err)
	}
	return nil
}

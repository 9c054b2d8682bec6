// internal/adapters/out/http/identity_toolkit_client.go
package httpout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	authdom "storefront/internal/domain/auth"
)

// DefaultIdentityToolkitURL is the Firebase Auth REST endpoint.
const DefaultIdentityToolkitURL = "https://identitytoolkit.googleapis.com/v1"

// IdentityToolkitClient covers the Firebase Auth operations that need a user
// password or the web API key (the Admin SDK cannot do them):
// - accounts:signInWithPassword
// - accounts:sendOobCode (PASSWORD_RESET)
type IdentityToolkitClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewIdentityToolkitClient(baseURL, apiKey string, client *http.Client) *IdentityToolkitClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultIdentityToolkitURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &IdentityToolkitClient{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(apiKey),
		client:  client,
	}
}

// SignInResult is the subset of the signInWithPassword response we use.
type SignInResult struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

func (c *IdentityToolkitClient) SignInWithPassword(ctx context.Context, email, password string) (SignInResult, error) {
	var out SignInResult
	err := c.post(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             strings.TrimSpace(email),
		"password":          password,
		"returnSecureToken": true,
	}, &out)
	if err != nil {
		return SignInResult{}, err
	}
	return out, nil
}

// SendPasswordResetEmail lets Firebase send its own reset mail.
func (c *IdentityToolkitClient) SendPasswordResetEmail(ctx context.Context, email string) error {
	return c.post(ctx, "accounts:sendOobCode", map[string]any{
		"requestType": "PASSWORD_RESET",
		"email":       strings.TrimSpace(email),
	}, nil)
}

type identityErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *IdentityToolkitClient) post(ctx context.Context, method string, payload any, out any) error {
	if c == nil {
		return errors.New("identity toolkit client is nil")
	}
	if c.apiKey == "" {
		return fmt.Errorf("identity toolkit: web api key is empty: %w", authdom.ErrUnavailable)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	u := c.baseURL + "/" + method + "?key=" + url.QueryEscape(c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("identity toolkit: %s: %w", method, err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var eb identityErrorBody
		_ = json.Unmarshal(body, &eb)
		return mapIdentityError(method, res.StatusCode, eb.Error.Message)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("identity toolkit: decode %s: %w", method, err)
	}
	return nil
}

// mapIdentityError maps REST error codes ("EMAIL_NOT_FOUND", "WEAK_PASSWORD : ...")
// onto auth gateway sentinels.
func mapIdentityError(method string, status int, message string) error {
	code := strings.TrimSpace(message)
	if i := strings.IndexAny(code, " :"); i > 0 {
		code = code[:i]
	}

	var sentinel error
	switch code {
	case "EMAIL_NOT_FOUND", "USER_NOT_FOUND":
		sentinel = authdom.ErrAccountNotFound
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL", "USER_DISABLED":
		sentinel = authdom.ErrInvalidCredentials
	case "EMAIL_EXISTS":
		sentinel = authdom.ErrEmailInUse
	case "WEAK_PASSWORD":
		sentinel = authdom.ErrWeakPassword
	}
	if sentinel != nil {
		return fmt.Errorf("identity toolkit: %s: %s: %w", method, code, sentinel)
	}
	return fmt.Errorf("identity toolkit: %s failed status=%d message=%s", method, status, strings.TrimSpace(message))
}

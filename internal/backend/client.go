// Package backend is the client of the hosted session and status API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reco/internal/book"
	"reco/internal/session"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
)

// APIError carries the error body returned by the backend.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusConflict:
		return ErrConflict
	default:
		return nil
	}
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

var _ session.Authenticator = (*Client)(nil)

func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInData struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in"`
	User        session.User `json:"user"`
}

// StatusRecord is one stored status of the signed-in user.
type StatusRecord struct {
	BookID    string      `json:"book_id"`
	Status    book.Status `json:"status"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (c *Client) SignUp(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/signup", "", credentials{Email: email, Password: password}, nil)
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	var data signInData
	if err := c.do(ctx, http.MethodPost, "/v1/auth/signin", "", credentials{Email: email, Password: password}, &data); err != nil {
		return nil, err
	}
	return &session.Session{
		AccessToken: data.AccessToken,
		ExpiresAt:   time.Now().Add(time.Duration(data.ExpiresIn) * time.Second),
		User:        data.User,
	}, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/signout", accessToken, nil, nil)
}

// UpsertStatus writes the status of one book for the token's user.
func (c *Client) UpsertStatus(ctx context.Context, accessToken, bookID string, status book.Status) error {
	body := map[string]string{"book_id": bookID, "status": string(status)}
	return c.do(ctx, http.MethodPut, "/v1/statuses", accessToken, body, nil)
}

// ListStatuses returns every stored status of the token's user keyed by book id.
func (c *Client) ListStatuses(ctx context.Context, accessToken string) (map[string]book.Status, error) {
	var records []StatusRecord
	if err := c.do(ctx, http.MethodGet, "/v1/statuses", accessToken, nil, &records); err != nil {
		return nil, err
	}
	out := make(map[string]book.Status, len(records))
	for _, r := range records {
		out[r.BookID] = r.Status
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{StatusCode: resp.StatusCode, Code: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decoding response: %w", err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decoding data: %w", err)
		}
	}
	return nil
}

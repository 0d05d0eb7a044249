package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/dashgate/internal/client/models"
	"github.com/dmitrijs2005/dashgate/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	RequestIDHeader = "X-Request-ID"

	tokenPath = "/v1/auth/token"

	// maxErrorBody bounds how much of an error response is read for its detail.
	maxErrorBody = 64 << 10
)

// Options configures an HTTPClient.
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	ClientID     string
	ClientSecret string
	Scopes       []string

	// Transport replaces http.DefaultTransport, mainly for tests.
	Transport http.RoundTripper
	Logger    logging.Logger
}

// HTTPClient talks to the remote authority over HTTP/JSON.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	oauth   *oauth2.Config
	log     logging.Logger
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(opts Options) (*HTTPClient, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", opts.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", opts.BaseURL)
	}

	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	baseURL := strings.TrimRight(u.String(), "/")

	return &HTTPClient{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: &requestIDTransport{base: base, log: log},
		},
		oauth: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			Scopes:       opts.Scopes,
			Endpoint: oauth2.Endpoint{
				TokenURL:  baseURL + tokenPath,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		log: log,
	}, nil
}

// requestIDTransport stamps every outgoing request with a request id and logs
// the exchange.
type requestIDTransport struct {
	base http.RoundTripper
	log  logging.Logger
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	id := req.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, id)
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.log.Debug(req.Context(), "request failed",
			"request_id", id, "method", req.Method, "path", req.URL.Path, "error", err)
		return nil, err
	}
	t.log.Debug(req.Context(), "request done",
		"request_id", id, "method", req.Method, "path", req.URL.Path,
		"status", resp.StatusCode, "elapsed", time.Since(start))
	return resp, nil
}

// Token exchanges credentials for an access token using the OAuth2 password grant.
func (c *HTTPClient) Token(ctx context.Context, username, password string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)

	tok, err := c.oauth.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			return "", newAPIError(re.Response.StatusCode, re.Body, true)
		}
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return tok.AccessToken, nil
}

func (c *HTTPClient) Register(ctx context.Context, token string, name, email, password string) (*models.User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var u models.User
	if err := c.do(ctx, http.MethodPost, "/v1/users/", token, body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/v1/users/me", token, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) IsLoggedIn(ctx context.Context, token string) (bool, error) {
	var out struct {
		LoggedIn *bool `json:"logged_in"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/users/is_logged_in", token, nil, &out); err != nil {
		return false, err
	}
	if out.LoggedIn == nil {
		return false, fmt.Errorf("%w: is_logged_in: missing logged_in field", ErrUnavailable)
	}
	return *out.LoggedIn, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, token string, id int64, upd models.UserUpdate) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPut, userPath(id), token, upd, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, userPath(id), token, nil, nil)
}

func (c *HTTPClient) LogoutEverywhere(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/v1/users/logout", token, nil, nil)
}

func (c *HTTPClient) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/v1/password-reset", "", body, nil)
}

func (c *HTTPClient) ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) error {
	body := map[string]string{"new_password": newPassword}
	path := "/v1/reset-password/" + url.PathEscape(resetToken)
	return c.do(ctx, http.MethodPost, path, "", body, nil)
}

func (c *HTTPClient) PendingUsers(ctx context.Context, token string) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/v1/admin/pending-users", token, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) ActivateUser(ctx context.Context, token string, id int64) (*models.User, error) {
	var u models.User
	path := "/v1/admin/activate-user/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodPost, path, token, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) UserIDs(ctx context.Context, token string) ([]int64, error) {
	var ids []int64
	if err := c.do(ctx, http.MethodGet, "/v1/admin/users", token, nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *HTTPClient) User(ctx context.Context, token string, id int64) (*models.User, error) {
	var u models.User
	path := "/v1/admin/users/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func userPath(id int64) string {
	return "/v1/users/" + strconv.FormatInt(id, 10)
}

// do sends one JSON request. in and out may be nil. Non-2xx answers become
// *APIError; everything else that goes wrong is ErrUnavailable.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := newAPIError(resp.StatusCode, raw, false)
		c.log.Debug(ctx, "remote rejected request",
			"method", method, "path", path, "status", resp.StatusCode, "detail", apiErr.Detail)
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %w", ErrUnavailable, method, path, err)
	}
	return nil
}

// Package apitest is an in-process stand-in for the remote authentication/user
// API. It reproduces the behavior the client depends on: accounts start
// pending, pending accounts cannot log in, bearer tokens are JWTs that carry a
// per-account version (logout-everywhere bumps it) and admin routes require
// the admin role.
package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/dashgate/internal/client/models"
	"github.com/dmitrijs2005/dashgate/internal/common"
	"github.com/dmitrijs2005/dashgate/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "admin-password"
)

type account struct {
	models.User
	hash         []byte
	tokenVersion int
}

type ctxKey string

const accountKey ctxKey = "account"

// Server holds the accounts and serves the API. It is safe for concurrent use.
type Server struct {
	mu          sync.Mutex
	accounts    map[int64]*account
	nextID      int64
	resetTokens map[string]string

	secret   []byte
	tokenTTL time.Duration
	log      logging.Logger

	requests atomic.Int64
	failMu   sync.Mutex
	failN    int
	failCode int

	router chi.Router
}

type Option func(*Server)

// WithLogger routes request logs to l.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithTokenTTL sets the lifetime of issued access tokens.
func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) { s.tokenTTL = d }
}

// New creates a server seeded with an active admin account.
func New(opts ...Option) *Server {
	s := &Server{
		accounts:    make(map[int64]*account),
		nextID:      1,
		resetTokens: make(map[string]string),
		secret:      common.GenerateRandByteArray(32),
		tokenTTL:    30 * time.Minute,
		log:         logging.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	s.AddUser("Admin", DefaultAdminEmail, DefaultAdminPassword, models.RoleAdmin, models.StatusActive)
	s.router = s.routes()
	return s
}

// NewTestServer starts s behind an httptest server closed at test cleanup.
func NewTestServer(t testing.TB, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	s := New(opts...)
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return s, srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.count)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/token", s.handleToken)
		r.Post("/password-reset", s.handleResetRequest)
		r.Post("/reset-password/{token}", s.handleResetConfirm)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", s.handleRegister)
			r.Group(func(r chi.Router) {
				r.Use(s.authenticate)
				r.Get("/me", s.handleMe)
				r.Get("/is_logged_in", s.handleIsLoggedIn)
				r.Post("/logout", s.handleLogout)
				r.Put("/{id}", s.handleUpdate)
				r.Delete("/{id}", s.handleDelete)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.authenticate, s.requireAdmin)
			r.Get("/pending-users", s.handlePending)
			r.Post("/activate-user/{id}", s.handleActivate)
			r.Get("/users", s.handleUserIDs)
			r.Get("/users/{id}", s.handleUser)
		})
	})
	return r
}

/*************
 * Test controls
 *************/

// AddUser seeds an account and returns its id.
func (s *Server) AddUser(name, email, password string, role models.Role, status models.Status) int64 {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.accounts[id] = &account{
		User: models.User{ID: id, Name: name, Email: email, Role: role, Status: status},
		hash: hash,
	}
	return id
}

// Lookup returns a copy of the account with the given id.
func (s *Server) Lookup(id int64) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return models.User{}, false
	}
	return a.User, true
}

// RevokeTokens invalidates every token issued to email so far.
func (s *Server) RevokeTokens(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.byEmail(email); a != nil {
		a.tokenVersion++
	}
}

// ResetToken returns the reset token that would have been emailed to email.
func (s *Server) ResetToken(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for tok, e := range s.resetTokens {
		if e == email {
			return tok, true
		}
	}
	return "", false
}

// Requests reports how many requests reached the server.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

// FailNext makes the next n requests fail with the given status.
func (s *Server) FailNext(n, status int) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.failN = n
	s.failCode = status
}

/*************
 * Middleware
 *************/

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		s.log.Debug(r.Context(), "apitest request",
			"method", r.Method, "path", r.URL.Path, "request_id", r.Header.Get("X-Request-ID"))

		s.failMu.Lock()
		fail := s.failN > 0
		code := s.failCode
		if fail {
			s.failN--
		}
		s.failMu.Unlock()

		if fail {
			writeDetail(w, code, "simulated failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		claims, err := parseToken(raw, s.secret)
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		s.mu.Lock()
		a := s.byEmail(claims.Subject)
		var snapshot account
		if a != nil {
			snapshot = *a
		}
		s.mu.Unlock()

		switch {
		case a == nil:
			writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		case snapshot.Status != models.StatusActive:
			writeDetail(w, http.StatusForbidden, "User is registered but not activated")
		case snapshot.tokenVersion != claims.TokenVersion:
			writeDetail(w, http.StatusUnauthorized, "Token has been invalidated")
		default:
			ctx := context.WithValue(r.Context(), accountKey, &snapshot)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if current(r).Role != models.RoleAdmin {
			writeDetail(w, http.StatusForbidden, "Not authorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func current(r *http.Request) *account {
	a, _ := r.Context().Value(accountKey).(*account)
	return a
}

/*************
 * Helpers
 *************/

// byEmail must be called with s.mu held.
func (s *Server) byEmail(email string) *account {
	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, email) {
			return a
		}
	}
	return nil
}

// sortedIDs must be called with s.mu held.
func (s *Server) sortedIDs() []int64 {
	ids := make([]int64, 0, len(s.accounts))
	for id := range s.accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

type fieldError struct {
	Loc []string `json:"loc"`
	Msg string   `json:"msg"`
}

func writeMissing(w http.ResponseWriter, fields ...string) {
	items := make([]fieldError, 0, len(fields))
	for _, f := range fields {
		items = append(items, fieldError{Loc: []string{"body", f}, Msg: "field required"})
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": items})
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

type userInDB struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Status       models.Status `json:"status"`
	Role         models.Role   `json:"role"`
	TokenVersion int           `json:"token_version"`
}

type userOut struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toUserInDB(a *account) userInDB {
	return userInDB{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		Status:       a.Status,
		Role:         a.Role,
		TokenVersion: a.tokenVersion,
	}
}

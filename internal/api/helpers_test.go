package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jbweber/homelab/northwind/internal/audit"
	"github.com/jbweber/homelab/northwind/internal/auth"
	"github.com/jbweber/homelab/northwind/internal/config"
	"github.com/jbweber/homelab/northwind/internal/domain"
	"github.com/jbweber/homelab/northwind/internal/repository"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type recordingSink struct {
	mu      sync.Mutex
	records []audit.Record
}

func (s *recordingSink) Emit(_ context.Context, rec audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *recordingSink) all() []audit.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]audit.Record(nil), s.records...)
}

// result mirrors the envelope with the data left raw
type result struct {
	IsSuccess     bool            `json:"isSuccess"`
	StatusCode    int             `json:"statusCode"`
	ErrorMessages []string        `json:"errorMessages"`
	Data          json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	repos  *repository.Northwind
	tokens *auth.TokenService
	sink   *recordingSink
	router http.Handler
}

func newTestServer(t *testing.T, repos *repository.Northwind, opts Options) *testServer {
	t.Helper()
	if repos == nil {
		repos = repository.NewMemoryNorthwind()
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = 4
	}
	tokens, err := auth.NewTokenService(config.AuthConfig{
		JWTSecret:     testSecret,
		Issuer:        "northwind-test",
		TokenLifetime: time.Hour,
	})
	require.NoError(t, err)

	sink := &recordingSink{}
	a := New(repos, tokens, sink, opts)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testServer{
		t:      t,
		repos:  repos,
		tokens: tokens,
		sink:   sink,
		router: a.Router(logger, nil),
	}
}

func (s *testServer) token(name, role string) string {
	s.t.Helper()
	tok, err := s.tokens.Issue(domain.User{ID: 1, UserName: name, Role: role})
	require.NoError(s.t, err)
	return tok.Value
}

func (s *testServer) admin() string    { return s.token("admin", domain.RoleAdmin) }
func (s *testServer) customer() string { return s.token("carol", domain.RoleCustomer) }

// do sends a request; body may be nil, a string of raw JSON or a value to encode
func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, result) {
	s.t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		rdr = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rdr)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var res result
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &res), "body: %s", w.Body.String())
	return w, res
}

// create posts body as admin and returns the new id
func (s *testServer) create(path string, body any) int64 {
	s.t.Helper()
	w, res := s.do(http.MethodPost, path, s.admin(), body)
	require.Equal(s.t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(s.t, json.Unmarshal(res.Data, &created))
	require.Positive(s.t, created.ID)
	return created.ID
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

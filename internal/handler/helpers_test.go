package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/voya/internal/domain"
	"github.com/pkordes/voya/internal/handler"
	"github.com/pkordes/voya/internal/metrics"
	"github.com/pkordes/voya/internal/service"
)

const (
	testUserID   int64 = 7
	testToken          = "good-token"
	xhrHeaderVal       = "XMLHttpRequest"
)

// mockAccountServicer is a test double for handler.AccountServicer.
// Authenticate accepts testToken unless authenticate is set.
type mockAccountServicer struct {
	requestVerification  func(ctx context.Context, email string) (string, error)
	verifyEmail          func(ctx context.Context, token string) (string, error)
	completeRegistration func(ctx context.Context, in service.RegistrationInput) (domain.Session, error)
	login                func(ctx context.Context, identifier, password string) (domain.Session, error)
	authenticate         func(ctx context.Context, token string) (domain.Principal, error)
	logout               func(ctx context.Context, p domain.Principal) error
}

func (m *mockAccountServicer) RequestVerification(ctx context.Context, email string) (string, error) {
	return m.requestVerification(ctx, email)
}
func (m *mockAccountServicer) VerifyEmail(ctx context.Context, token string) (string, error) {
	return m.verifyEmail(ctx, token)
}
func (m *mockAccountServicer) CompleteRegistration(ctx context.Context, in service.RegistrationInput) (domain.Session, error) {
	return m.completeRegistration(ctx, in)
}
func (m *mockAccountServicer) Login(ctx context.Context, identifier, password string) (domain.Session, error) {
	return m.login(ctx, identifier, password)
}
func (m *mockAccountServicer) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	if m.authenticate != nil {
		return m.authenticate(ctx, token)
	}
	if token != testToken {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	return domain.Principal{UserID: testUserID, Username: "ann", TokenID: "tid", ExpiresAt: time.Now().Add(time.Hour)}, nil
}
func (m *mockAccountServicer) Logout(ctx context.Context, p domain.Principal) error {
	return m.logout(ctx, p)
}

// compile-time check: mockAccountServicer must satisfy handler.AccountServicer.
var _ handler.AccountServicer = (*mockAccountServicer)(nil)

// services holds whichever mocks a test needs; nil fields stay nil.
type services struct {
	trips     handler.TripServicer
	stops     handler.StopServicer
	itinerary handler.ItineraryServicer
	export    handler.ExportServicer
	accounts  *mockAccountServicer
	opts      handler.Options
}

func (s services) handler() http.Handler {
	if s.accounts == nil {
		s.accounts = &mockAccountServicer{}
	}
	return handler.NewServer(s.trips, s.stops, s.itinerary, s.export, s.accounts, s.opts).Handler()
}

// jsonBody encodes v as a request body.
func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

// authed builds a request carrying a valid bearer token.
func authed(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+testToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// xhr marks req as an XMLHttpRequest.
func xhr(req *http.Request) *http.Request {
	req.Header.Set("X-Requested-With", xhrHeaderVal)
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

// jsonBodyRaw returns s unchanged as a request body.
func jsonBodyRaw(s string) io.Reader {
	return strings.NewReader(s)
}

func newMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(reg)
}

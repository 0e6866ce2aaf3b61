package authhandlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authservice "github.com/Black-And-White-Club/green-quest/app/modules/auth/application"
	authdomain "github.com/Black-And-White-Club/green-quest/app/modules/auth/domain"
	"github.com/Black-And-White-Club/green-quest/app/shared/httpresponse"
	"github.com/Black-And-White-Club/green-quest/app/shared/persistence"
	"github.com/Black-And-White-Club/green-quest/app/shared/results"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/time/rate"
)

func newTestRouter(svc *FakeService) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewAuthHandlers(svc, logger, noop.NewTracerProvider().Tracer("test"))
	r := chi.NewRouter()
	r.Route("/api/auth", Routes(h, BearerAuth(svc)))
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandleHTTPSignUp(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(*FakeService)
		wantStatus int
		wantError  string
	}{
		{
			name:       "created",
			body:       `{"nric":"S1234567A","username":"alice","password":"secret1","town":"Bedok"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "unknown field",
			body:       `{"nric":"S1234567A","email":"a@b.c"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
		{
			name: "validation failure",
			body: `{"nric":"bad","username":"alice","password":"secret1","town":"Bedok"}`,
			setup: func(f *FakeService) {
				f.SignUpFunc = func(ctx context.Context, req authdomain.SignUp) (results.OperationResult[authservice.Session, error], error) {
					return results.FailureResult[authservice.Session, error](authdomain.ErrInvalidNRIC), nil
				}
			},
			wantStatus: http.StatusBadRequest,
			wantError:  authdomain.ErrInvalidNRIC.Error(),
		},
		{
			name: "duplicate nric",
			body: `{"nric":"S1234567A","username":"alice","password":"secret1","town":"Bedok"}`,
			setup: func(f *FakeService) {
				f.SignUpFunc = func(ctx context.Context, req authdomain.SignUp) (results.OperationResult[authservice.Session, error], error) {
					return results.FailureResult[authservice.Session, error](authdomain.ErrNRICTaken), nil
				}
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "store timeout",
			body: `{"nric":"S1234567A","username":"alice","password":"secret1","town":"Bedok"}`,
			setup: func(f *FakeService) {
				f.SignUpFunc = func(ctx context.Context, req authdomain.SignUp) (results.OperationResult[authservice.Session, error], error) {
					return results.OperationResult[authservice.Session, error]{}, &persistence.TimeoutError{After: persistence.DefaultTimeout}
				}
			},
			wantStatus: http.StatusGatewayTimeout,
			wantError:  "timed out after 5000 ms",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &FakeService{}
			if tt.setup != nil {
				tt.setup(svc)
			}
			rec := do(t, newTestRouter(svc), http.MethodPost, "/api/auth/signup", tt.body, nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				var body httpresponse.ErrorBody
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.False(t, body.Success)
				assert.Equal(t, tt.wantError, body.Error)
			}
		})
	}
}

func TestHandleHTTPSignIn(t *testing.T) {
	svc := &FakeService{
		SignInFunc: func(ctx context.Context, req authdomain.SignIn) (results.OperationResult[authservice.Session, error], error) {
			if req.Password != "secret1" {
				return results.FailureResult[authservice.Session, error](authdomain.ErrBadCredentials), nil
			}
			return results.SuccessResult[authservice.Session, error](authservice.Session{Token: "signed", NRIC: req.NRIC}), nil
		},
	}
	r := newTestRouter(svc)

	rec := do(t, r, http.MethodPost, "/api/auth/signin", `{"nric":"S1234567A","password":"secret1"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var session authservice.Session
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&session))
	assert.Equal(t, "signed", session.Token)

	rec = do(t, r, http.MethodPost, "/api/auth/signin", `{"nric":"S1234567A","password":"nope"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleHTTPMe(t *testing.T) {
	userID := uuid.New()
	svc := &FakeService{
		ValidateTokenFunc: func(ctx context.Context, token string) (*authdomain.Claims, error) {
			if token != "good" {
				return nil, authservice.ErrInvalidToken
			}
			return &authdomain.Claims{UserID: userID, NRIC: "S1234567A"}, nil
		},
		MeFunc: func(ctx context.Context, id uuid.UUID) (results.OperationResult[authservice.Account, error], error) {
			return results.SuccessResult[authservice.Account, error](authservice.Account{UserID: id, NRIC: "S1234567A"}), nil
		},
	}
	r := newTestRouter(svc)

	tests := []struct {
		name       string
		header     map[string]string
		wantStatus int
	}{
		{"no header", nil, http.StatusUnauthorized},
		{"not bearer", map[string]string{"Authorization": "Basic abc"}, http.StatusUnauthorized},
		{"invalid token", map[string]string{"Authorization": "Bearer bad"}, http.StatusUnauthorized},
		{"valid token", map[string]string{"Authorization": "Bearer good"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, http.MethodGet, "/api/auth/me", "", tt.header)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				var acct authservice.Account
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&acct))
				assert.Equal(t, userID, acct.UserID)
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(0), 2)
	h := RateLimitMiddleware(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	var codes []int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCORSMiddleware(t *testing.T) {
	h := CORSMiddleware([]string{"https://app.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestUserFromContext(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)

	want := CurrentUser{ID: uuid.New(), NRIC: "S1234567A"}
	got, ok := UserFromContext(WithUser(context.Background(), want))
	require.True(t, ok)
	assert.Equal(t, want, got)
}

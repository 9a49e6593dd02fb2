package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	usererrors "github.com/swiftcart/swiftcart/internal/user/errors"
	"github.com/swiftcart/swiftcart/internal/user/service"
)

// mockUserService is a mock implementation of the UserService interface
type mockUserService struct {
	signup  *service.SignupResult
	tokens  *service.TokenResult
	profile *service.Profile
	err     error
}

func (m *mockUserService) Signup(_ context.Context, _ service.SignupDto) (*service.SignupResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.signup, nil
}

func (m *mockUserService) Login(_ context.Context, _ service.LoginDto) (*service.TokenResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.tokens, nil
}

func (m *mockUserService) Profile(_ context.Context, _ string) (*service.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}

// toJSON is a helper function to convert a struct to JSON string
func toJSON(t *testing.T, v interface{}) string {
	t.Helper()
	bytes, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal to JSON: %v", err)
	}
	return string(bytes)
}

func newTestHandler(svc service.UserService) *Handler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewHandler(svc, logger)
}

func TestUserAPI_Signup(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockUserService
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - user registered",
			mockService:  mockUserService{signup: &service.SignupResult{UserID: "uid-1", UserConfirmed: false}},
			body:         `{"email":"jdoe@example.com","password":"password123","name":"John Doe"}`,
			expectedCode: http.StatusCreated,
			expectedBody: toJSON(t, map[string]any{
				"success":       true,
				"message":       "User created successfully. Please check your email to verify your account.",
				"userId":        "uid-1",
				"userConfirmed": false,
			}),
		},
		{
			name:         "Error - missing fields",
			mockService:  mockUserService{},
			body:         `{"email":"jdoe@example.com"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, map[string]any{
				"success": false,
				"message": "Missing required fields: email, password, name",
			}),
		},
		{
			name:         "Error - user already exists",
			mockService:  mockUserService{err: usererrors.ErrUserAlreadyExists},
			body:         `{"email":"jdoe@example.com","password":"password123","name":"John Doe"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, map[string]any{
				"success": false,
				"message": "User already exists",
			}),
		},
		{
			name:         "Error - provider failure surfaces the cause",
			mockService:  mockUserService{err: fmt.Errorf("%w: realm is unavailable", usererrors.ErrIdPInteractionFailed)},
			body:         `{"email":"jdoe@example.com","password":"password123","name":"John Doe"}`,
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, map[string]any{
				"success": false,
				"error":   "identity provider interaction failed: realm is unavailable",
			}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestHandler(&tc.mockService)
			req := httptest.NewRequest(http.MethodPost, "/users/signup", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()

			// when
			api.signup(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func TestUserAPI_Login(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockUserService
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success - tokens issued",
			mockService: mockUserService{tokens: &service.TokenResult{
				AccessToken:  "access",
				IDToken:      "id",
				RefreshToken: "refresh",
				ExpiresIn:    300,
			}},
			body:         `{"email":"jdoe@example.com","password":"password123"}`,
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, map[string]any{
				"success":      true,
				"message":      "Login successful",
				"accessToken":  "access",
				"idToken":      "id",
				"refreshToken": "refresh",
				"expiresIn":    300,
			}),
		},
		{
			name:         "Error - bad credentials",
			mockService:  mockUserService{err: usererrors.ErrInvalidCredentials},
			body:         `{"email":"jdoe@example.com","password":"wrong"}`,
			expectedCode: http.StatusUnauthorized,
			expectedBody: toJSON(t, map[string]any{
				"success": false,
				"message": "Invalid email or password",
			}),
		},
		{
			name:         "Error - unverified email",
			mockService:  mockUserService{err: usererrors.ErrEmailNotVerified},
			body:         `{"email":"jdoe@example.com","password":"password123"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, map[string]any{
				"success": false,
				"message": "Please verify your email before logging in",
			}),
		},
		{
			name:         "Error - missing password",
			mockService:  mockUserService{},
			body:         `{"email":"jdoe@example.com"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, map[string]any{
				"success": false,
				"message": "Missing required fields: email, password",
			}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestHandler(&tc.mockService)
			req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()

			// when
			api.login(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func TestUserAPI_Me(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockUserService
		authHeader   string
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success - profile returned",
			mockService: mockUserService{profile: &service.Profile{
				Username:      "jdoe@example.com",
				Email:         "jdoe@example.com",
				Name:          "John Doe",
				EmailVerified: true,
			}},
			authHeader:   "Bearer access-token",
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, map[string]any{
				"success": true,
				"user": map[string]any{
					"username":      "jdoe@example.com",
					"email":         "jdoe@example.com",
					"name":          "John Doe",
					"emailVerified": true,
				},
			}),
		},
		{
			name:         "Error - missing header",
			mockService:  mockUserService{},
			authHeader:   "",
			expectedCode: http.StatusUnauthorized,
			expectedBody: toJSON(t, map[string]any{
				"success": false,
				"message": "Missing authorization header",
			}),
		},
		{
			name:         "Error - invalid token",
			mockService:  mockUserService{err: usererrors.ErrInvalidCredentials},
			authHeader:   "Bearer garbage",
			expectedCode: http.StatusUnauthorized,
			expectedBody: toJSON(t, map[string]any{
				"success": false,
				"message": "Invalid email or password",
			}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			api := newTestHandler(&tc.mockService)
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rr := httptest.NewRecorder()

			// when
			api.me(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

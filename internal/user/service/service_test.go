package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/Nerzal/gocloak/v13"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usererrors "github.com/swiftcart/swiftcart/internal/user/errors"
	"github.com/swiftcart/swiftcart/pkg/config"
)

// mockIdpClient is a mock implementation of the idpClient interface
type mockIdpClient struct {
	loginToken *gocloak.JWT
	loginErr   error

	createID   string
	createErr  error
	createdUsr gocloak.User

	setPwdErr    error
	deleteCalled bool

	otpToken *gocloak.JWT
	otpErr   error
	otpTotp  string

	userInfo    *gocloak.UserInfo
	userInfoErr error
}

func (m *mockIdpClient) LoginClient(context.Context, string, string, string, ...string) (*gocloak.JWT, error) {
	return m.loginToken, m.loginErr
}

func (m *mockIdpClient) CreateUser(_ context.Context, _, _ string, user gocloak.User) (string, error) {
	m.createdUsr = user
	return m.createID, m.createErr
}

func (m *mockIdpClient) SetPassword(context.Context, string, string, string, string, bool) error {
	return m.setPwdErr
}

func (m *mockIdpClient) DeleteUser(context.Context, string, string, string) error {
	m.deleteCalled = true
	return nil
}

func (m *mockIdpClient) LoginOtp(_ context.Context, _, _, _, _, _, totp string) (*gocloak.JWT, error) {
	m.otpTotp = totp
	return m.otpToken, m.otpErr
}

func (m *mockIdpClient) GetUserInfo(context.Context, string, string) (*gocloak.UserInfo, error) {
	return m.userInfo, m.userInfoErr
}

func testConfig() config.Keycloak {
	return config.Keycloak{
		BaseURL:      "http://localhost:8080",
		Realm:        "swiftcart",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}
}

func newTestService(mock *mockIdpClient) *Service {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewService(mock, testConfig(), logger)
}

func validSignup() SignupDto {
	return SignupDto{Email: "jdoe@example.com", Password: "password123", Name: "John Doe"}
}

func TestUserService_Signup(t *testing.T) {
	successToken := &gocloak.JWT{AccessToken: "token"}

	tests := []struct {
		name         string
		mock         *mockIdpClient
		expectedErr  error
		expectDelete bool
	}{
		{
			name: "success",
			mock: &mockIdpClient{loginToken: successToken, createID: "uid"},
		},
		{
			name:        "provider login error",
			mock:        &mockIdpClient{loginErr: errors.New("login fail")},
			expectedErr: usererrors.ErrIdPInteractionFailed,
		},
		{
			name: "user exists",
			mock: &mockIdpClient{
				loginToken: successToken,
				createErr:  &gocloak.APIError{Code: http.StatusConflict},
			},
			expectedErr: usererrors.ErrUserAlreadyExists,
		},
		{
			name: "invalid data",
			mock: &mockIdpClient{
				loginToken: successToken,
				createErr:  &gocloak.APIError{Code: http.StatusBadRequest},
			},
			expectedErr: usererrors.ErrInvalidUserData,
		},
		{
			name: "set password fails",
			mock: &mockIdpClient{
				loginToken: successToken,
				createID:   "uid",
				setPwdErr:  errors.New("boom"),
			},
			expectedErr:  usererrors.ErrIdPInteractionFailed,
			expectDelete: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := newTestService(tc.mock)

			// when
			result, err := svc.Signup(context.Background(), validSignup())

			// then
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "uid", result.UserID)
				assert.False(t, result.UserConfirmed, "email confirmation is pending after signup")
			}
			assert.Equal(t, tc.expectDelete, tc.mock.deleteCalled, "rollback expectation")
		})
	}
}

func TestUserService_Signup_StoresClientSignature(t *testing.T) {
	// given
	mock := &mockIdpClient{loginToken: &gocloak.JWT{AccessToken: "token"}, createID: "uid"}
	svc := newTestService(mock)

	// when
	_, err := svc.Signup(context.Background(), validSignup())

	// then the signature attribute matches the keyed hash
	require.NoError(t, err)
	require.NotNil(t, mock.createdUsr.Attributes)
	attrs := *mock.createdUsr.Attributes
	require.Len(t, attrs["secret_hash"], 1)
	assert.Equal(t, SecretHash("jdoe@example.com", "client-id", "client-secret"), attrs["secret_hash"][0])
	require.Len(t, attrs["name"], 1)
	assert.Equal(t, "John Doe", attrs["name"][0])
}

func TestUserService_Login(t *testing.T) {
	tests := []struct {
		name        string
		mock        *mockIdpClient
		expectedErr error
	}{
		{
			name: "success",
			mock: &mockIdpClient{otpToken: &gocloak.JWT{
				AccessToken:  "access",
				IDToken:      "id",
				RefreshToken: "refresh",
				ExpiresIn:    300,
			}},
		},
		{
			name:        "bad credentials",
			mock:        &mockIdpClient{otpErr: &gocloak.APIError{Code: http.StatusUnauthorized}},
			expectedErr: usererrors.ErrInvalidCredentials,
		},
		{
			name:        "unverified email",
			mock:        &mockIdpClient{otpErr: &gocloak.APIError{Code: http.StatusBadRequest}},
			expectedErr: usererrors.ErrEmailNotVerified,
		},
		{
			name:        "provider unreachable",
			mock:        &mockIdpClient{otpErr: errors.New("connection refused")},
			expectedErr: usererrors.ErrIdPInteractionFailed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := newTestService(tc.mock)

			// when
			tokens, err := svc.Login(context.Background(), LoginDto{Email: "jdoe@example.com", Password: "password123"})

			// then
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "access", tokens.AccessToken)
			assert.Equal(t, "id", tokens.IDToken)
			assert.Equal(t, "refresh", tokens.RefreshToken)
			assert.Equal(t, 300, tokens.ExpiresIn)
			// the client signature travels with the credentials
			assert.Equal(t, SecretHash("jdoe@example.com", "client-id", "client-secret"), tc.mock.otpTotp)
		})
	}
}

func TestUserService_Login_ProviderErrorKeepsCause(t *testing.T) {
	// given a provider failure no status mapping covers
	mock := &mockIdpClient{otpErr: errors.New("connection refused")}
	svc := newTestService(mock)

	// when
	_, err := svc.Login(context.Background(), LoginDto{Email: "jdoe@example.com", Password: "password123"})

	// then the provider's own message stays on the error chain
	assert.ErrorIs(t, err, usererrors.ErrIdPInteractionFailed)
	assert.ErrorContains(t, err, "connection refused")
}

func TestUserService_Signup_ProviderErrorKeepsCause(t *testing.T) {
	// given
	mock := &mockIdpClient{loginErr: errors.New("realm is unavailable")}
	svc := newTestService(mock)

	// when
	_, err := svc.Signup(context.Background(), validSignup())

	// then
	assert.ErrorIs(t, err, usererrors.ErrIdPInteractionFailed)
	assert.ErrorContains(t, err, "realm is unavailable")
}

func TestUserService_Login_IDTokenFallsBackToAccessToken(t *testing.T) {
	// given a realm that issues no ID token
	mock := &mockIdpClient{otpToken: &gocloak.JWT{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresIn:    300,
	}}
	svc := newTestService(mock)

	// when
	tokens, err := svc.Login(context.Background(), LoginDto{Email: "jdoe@example.com", Password: "password123"})

	// then
	require.NoError(t, err)
	assert.Equal(t, "access", tokens.IDToken)
}

func TestUserService_Profile(t *testing.T) {
	// given
	mock := &mockIdpClient{userInfo: &gocloak.UserInfo{
		PreferredUsername: gocloak.StringP("jdoe@example.com"),
		Email:             gocloak.StringP("jdoe@example.com"),
		Name:              gocloak.StringP("John Doe"),
		EmailVerified:     gocloak.BoolP(true),
	}}
	svc := newTestService(mock)

	// when
	profile, err := svc.Profile(context.Background(), "access-token")

	// then
	require.NoError(t, err)
	assert.Equal(t, "jdoe@example.com", profile.Username)
	assert.Equal(t, "John Doe", profile.Name)
	assert.True(t, profile.EmailVerified)
}

func TestUserService_Profile_InvalidToken(t *testing.T) {
	mock := &mockIdpClient{userInfoErr: &gocloak.APIError{Code: http.StatusUnauthorized}}
	svc := newTestService(mock)

	_, err := svc.Profile(context.Background(), "garbage")

	assert.ErrorIs(t, err, usererrors.ErrInvalidCredentials)
}

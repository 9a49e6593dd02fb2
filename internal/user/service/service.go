// Package service contains the identity operations backed by Keycloak.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Nerzal/gocloak/v13"

	usererrors "github.com/swiftcart/swiftcart/internal/user/errors"
	"github.com/swiftcart/swiftcart/pkg/config"
)

// idpClient is the part of the gocloak client the service uses.
// Narrowed for testability.
type idpClient interface {
	LoginClient(ctx context.Context, clientID, clientSecret, realm string, scopes ...string) (*gocloak.JWT, error)
	CreateUser(ctx context.Context, token, realm string, user gocloak.User) (string, error)
	SetPassword(ctx context.Context, token, userID, realm, password string, temporary bool) error
	DeleteUser(ctx context.Context, token, realm, userID string) error
	LoginOtp(ctx context.Context, clientID, clientSecret, realm, username, password, totp string) (*gocloak.JWT, error)
	GetUserInfo(ctx context.Context, accessToken, realm string) (*gocloak.UserInfo, error)
}

// SignupDto carries the payload for registering a user.
type SignupDto struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

// LoginDto carries the payload for authenticating a user.
type LoginDto struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupResult is the outcome of a registration.
type SignupResult struct {
	UserID        string
	UserConfirmed bool
}

// TokenResult carries the token set issued on login.
type TokenResult struct {
	AccessToken  string `json:"accessToken"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// Profile is the user view assembled from the provider's profile attributes.
type Profile struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	EmailVerified bool   `json:"emailVerified"`
}

// UserService defines the identity operations.
type UserService interface {
	Signup(ctx context.Context, dto SignupDto) (*SignupResult, error)
	Login(ctx context.Context, dto LoginDto) (*TokenResult, error)
	Profile(ctx context.Context, accessToken string) (*Profile, error)
}

// Service implements UserService against a Keycloak realm.
type Service struct {
	client       idpClient
	realm        string
	clientID     string
	clientSecret string
	log          *slog.Logger
}

// NewService creates a new identity Service.
func NewService(client idpClient, cfg config.Keycloak, logger *slog.Logger) *Service {
	return &Service{
		client:       client,
		realm:        cfg.Realm,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		log:          logger,
	}
}

var _ UserService = (*Service)(nil)

// Signup registers a user with the identity provider. The per-user
// client signature is stored as a user attribute so the realm can check
// it on login. The created user is removed again if setting the
// password fails.
func (s *Service) Signup(ctx context.Context, dto SignupDto) (*SignupResult, error) {
	token, err := s.client.LoginClient(ctx, s.clientID, s.clientSecret, s.realm)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to login to identity provider", "error", err)
		return nil, fmt.Errorf("%w: %v", usererrors.ErrIdPInteractionFailed, err)
	}

	attributes := map[string][]string{
		"name":        {dto.Name},
		"secret_hash": {SecretHash(dto.Email, s.clientID, s.clientSecret)},
	}
	user := gocloak.User{
		Username:   gocloak.StringP(dto.Email),
		Email:      gocloak.StringP(dto.Email),
		Enabled:    gocloak.BoolP(true),
		FirstName:  gocloak.StringP(dto.Name),
		Attributes: &attributes,
	}

	userID, err := s.client.CreateUser(ctx, token.AccessToken, s.realm, user)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to create user", "error", err)
		var apiErr *gocloak.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.Code {
			case http.StatusConflict:
				return nil, usererrors.ErrUserAlreadyExists
			case http.StatusBadRequest:
				return nil, usererrors.ErrInvalidUserData
			}
		}
		return nil, fmt.Errorf("%w: %v", usererrors.ErrIdPInteractionFailed, err)
	}

	if err := s.client.SetPassword(ctx, token.AccessToken, userID, s.realm, dto.Password, false); err != nil {
		s.log.ErrorContext(ctx, "failed to set password, rolling back user", "user_id", userID, "error", err)
		_ = s.client.DeleteUser(ctx, token.AccessToken, s.realm, userID)
		return nil, fmt.Errorf("%w: %v", usererrors.ErrIdPInteractionFailed, err)
	}

	s.log.InfoContext(ctx, "user registered", "user_id", userID)
	// Email verification is pending until the user confirms.
	return &SignupResult{UserID: userID, UserConfirmed: false}, nil
}

// Login authenticates a user. The client signature travels in the otp
// slot of the direct grant so the realm can validate it per user.
func (s *Service) Login(ctx context.Context, dto LoginDto) (*TokenResult, error) {
	secretHash := SecretHash(dto.Email, s.clientID, s.clientSecret)
	token, err := s.client.LoginOtp(ctx, s.clientID, s.clientSecret, s.realm, dto.Email, dto.Password, secretHash)
	if err != nil {
		s.log.WarnContext(ctx, "login failed", "error", err)
		var apiErr *gocloak.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.Code {
			case http.StatusUnauthorized:
				return nil, usererrors.ErrInvalidCredentials
			case http.StatusBadRequest:
				return nil, usererrors.ErrEmailNotVerified
			}
		}
		return nil, fmt.Errorf("%w: %v", usererrors.ErrIdPInteractionFailed, err)
	}
	// Realms without the openid scope issue no ID token.
	idToken := token.IDToken
	if idToken == "" {
		idToken = token.AccessToken
	}
	return &TokenResult{
		AccessToken:  token.AccessToken,
		IDToken:      idToken,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    token.ExpiresIn,
	}, nil
}

// Profile fetches the caller's profile attributes using their access token.
func (s *Service) Profile(ctx context.Context, accessToken string) (*Profile, error) {
	info, err := s.client.GetUserInfo(ctx, accessToken, s.realm)
	if err != nil {
		s.log.WarnContext(ctx, "failed to fetch user info", "error", err)
		var apiErr *gocloak.APIError
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized {
			return nil, usererrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", usererrors.ErrIdPInteractionFailed, err)
	}
	profile := &Profile{}
	if info.PreferredUsername != nil {
		profile.Username = *info.PreferredUsername
	}
	if info.Email != nil {
		profile.Email = *info.Email
	}
	if info.Name != nil {
		profile.Name = *info.Name
	}
	if info.EmailVerified != nil {
		profile.EmailVerified = *info.EmailVerified
	}
	return profile, nil
}

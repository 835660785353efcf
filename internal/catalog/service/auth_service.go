package service

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/matforge/catalog/internal/shared/cognito"
)

// AuthService delegates credential handling to the managed identity
// provider. No passwords or token signatures are handled locally.
type AuthService struct {
	idp    *cognito.Client
	logger *zap.Logger
}

func NewAuthService(idp *cognito.Client, logger *zap.Logger) *AuthService {
	return &AuthService{idp: idp, logger: logger}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type ConfirmRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthUser is the identity snapshot decoded from the ID token at login.
type AuthUser struct {
	Email string `json:"email"`
	Sub   string `json:"sub"`
}

type LoginResult struct {
	Tokens *cognito.Tokens `json:"tokens"`
	User   AuthUser        `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) error {
	if err := s.idp.SignUp(ctx, req.Email, req.Password); err != nil {
		return fmt.Errorf("registering user: %w", err)
	}
	s.logger.Info("user registered", zap.String("email", req.Email))
	return nil
}

func (s *AuthService) Confirm(ctx context.Context, req ConfirmRequest) error {
	if err := s.idp.ConfirmSignUp(ctx, req.Email, req.Code); err != nil {
		return fmt.Errorf("confirming registration: %w", err)
	}
	return nil
}

// Login exchanges credentials for tokens and decodes the ID token's claims
// for the user snapshot. The token is not verified here, it came straight
// from the provider over TLS.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	tokens, err := s.idp.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	user := AuthUser{Email: req.Email}
	if tokens.IDToken != "" {
		claims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(tokens.IDToken, claims); err != nil {
			s.logger.Warn("decoding id token claims", zap.Error(err))
		} else {
			if sub, ok := claims["sub"].(string); ok {
				user.Sub = sub
			}
			if email, ok := claims["email"].(string); ok && email != "" {
				user.Email = email
			}
		}
	}

	return &LoginResult{Tokens: tokens, User: user}, nil
}

// CurrentUser resolves an access token to its username with a provider
// round trip.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (string, error) {
	return s.idp.GetUser(ctx, accessToken)
}

// Logout revokes the token globally at the provider. Revocation failure is
// not fatal, the local session is removed either way.
func (s *AuthService) Logout(ctx context.Context, accessToken string) {
	if err := s.idp.SignOut(ctx, accessToken); err != nil {
		s.logger.Warn("revoking token", zap.Error(err))
	}
}

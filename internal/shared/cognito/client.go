package cognito

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// =============================================================================
// Client: managed identity provider client
// Registration, confirmation and login are forwarded to Cognito; the provider
// issues access/ID/refresh tokens. Token validation is a remote GetUser call,
// not local signature verification.
// =============================================================================

// ErrNotAuthorized marks an invalid or expired access token.
var ErrNotAuthorized = errors.New("cognito: not authorized")

// Tokens are the credentials issued by the provider on login.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int32  `json:"expires_in"`
}

// Config holds the provider settings read from the environment.
type Config struct {
	Region    string
	ClientID  string
	AccessKey string
	SecretKey string
	// Endpoint overrides the provider URL; used by tests.
	Endpoint string
}

// Client wraps the Cognito identity-provider API.
type Client struct {
	api      *cip.Client
	clientID string
}

// NewClient builds the provider client from static credentials.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	api := cip.NewFromConfig(awsCfg, func(o *cip.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &Client{api: api, clientID: cfg.ClientID}, nil
}

// SignUp registers a new user; the provider mails a confirmation code.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	_, err := c.api.SignUp(ctx, &cip.SignUpInput{
		ClientId: aws.String(c.clientID),
		Username: aws.String(email),
		Password: aws.String(password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
		},
	})
	if err != nil {
		return fmt.Errorf("sign up: %w", err)
	}
	return nil
}

// ConfirmSignUp completes registration with the emailed confirmation code.
func (c *Client) ConfirmSignUp(ctx context.Context, email, code string) error {
	_, err := c.api.ConfirmSignUp(ctx, &cip.ConfirmSignUpInput{
		ClientId:         aws.String(c.clientID),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(code),
	})
	if err != nil {
		return fmt.Errorf("confirm sign up: %w", err)
	}
	return nil
}

// Login performs password authentication and returns the issued tokens.
func (c *Client) Login(ctx context.Context, email, password string) (*Tokens, error) {
	out, err := c.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(c.clientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		var notAuth *types.NotAuthorizedException
		if errors.As(err, &notAuth) {
			return nil, ErrNotAuthorized
		}
		return nil, fmt.Errorf("initiate auth: %w", err)
	}
	if out.AuthenticationResult == nil {
		return nil, errors.New("no authentication result returned")
	}

	res := out.AuthenticationResult
	return &Tokens{
		AccessToken:  aws.ToString(res.AccessToken),
		IDToken:      aws.ToString(res.IdToken),
		RefreshToken: aws.ToString(res.RefreshToken),
		ExpiresIn:    res.ExpiresIn,
	}, nil
}

// GetUser validates an access token against the provider and returns the
// username. One remote round trip per call.
func (c *Client) GetUser(ctx context.Context, accessToken string) (string, error) {
	out, err := c.api.GetUser(ctx, &cip.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		var notAuth *types.NotAuthorizedException
		if errors.As(err, &notAuth) {
			return "", ErrNotAuthorized
		}
		return "", fmt.Errorf("get user: %w", err)
	}
	return aws.ToString(out.Username), nil
}

// SignOut revokes all of a user's tokens on the provider side.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	_, err := c.api.GlobalSignOut(ctx, &cip.GlobalSignOutInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		var notAuth *types.NotAuthorizedException
		if errors.As(err, &notAuth) {
			// Token already invalid; the session is gone either way.
			return nil
		}
		return fmt.Errorf("global sign out: %w", err)
	}
	return nil
}

package identity

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// OIDCConfig holds OpenID Connect adapter configuration
type OIDCConfig struct {
	IssuerURL        string       `json:"issuer_url" yaml:"issuer_url"`
	ClientID         string       `json:"client_id" yaml:"client_id"`
	SkipIssuerCheck  bool         `json:"skip_issuer_check,omitempty" yaml:"skip_issuer_check"`
	AttributeMapping AttributeMap `json:"attribute_mapping" yaml:"attribute_mapping"`
}

// Validate checks the OIDC configuration
func (c *OIDCConfig) Validate() error {
	if c.IssuerURL == "" {
		return fmt.Errorf("issuer_url is required")
	}
	if c.ClientID == "" {
		return fmt.Errorf("client_id is required")
	}
	return nil
}

// OIDCAdapter turns verified ID tokens into principal events. The app shell
// runs the interactive flow and hands the raw ID token to HandleToken; the
// adapter verifies it against the issuer's discovery document and emits the
// mapped Principal to subscribers.
type OIDCAdapter struct {
	*Notifier

	config   OIDCConfig
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
}

// NewOIDCAdapter discovers the OIDC provider and builds a token verifier
func NewOIDCAdapter(ctx context.Context, config OIDCConfig) (*OIDCAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid OIDC config: %w", err)
	}

	if config.AttributeMapping == (AttributeMap{}) {
		config.AttributeMapping = DefaultAttributeMap()
	}

	provider, err := oidc.NewProvider(ctx, config.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID:        config.ClientID,
		SkipIssuerCheck: config.SkipIssuerCheck,
	})

	return &OIDCAdapter{
		Notifier: NewNotifier(),
		config:   config,
		provider: provider,
		verifier: verifier,
	}, nil
}

// HandleToken verifies a raw ID token and emits the resulting principal.
// A verification failure leaves the current principal untouched.
func (a *OIDCAdapter) HandleToken(ctx context.Context, rawIDToken string) error {
	idToken, err := a.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return fmt.Errorf("failed to verify ID token: %w", err)
	}

	var claims map[string]interface{}
	if err := idToken.Claims(&claims); err != nil {
		return fmt.Errorf("failed to parse claims: %w", err)
	}

	principal, err := principalFromClaims(claims, a.config.AttributeMapping)
	if err != nil {
		return err
	}

	// Subject claim is the fallback when the mapped id claim is absent.
	if principal.ID == "" {
		principal.ID = idToken.Subject
	}
	if principal.ID == "" {
		return fmt.Errorf("missing user id in ID token")
	}

	a.Emit(principal)
	return nil
}

// HandleExchange accepts the token returned by the app shell's authorization
// code exchange, pulls the id_token extra off it, and hands it to
// HandleToken.
func (a *OIDCAdapter) HandleExchange(ctx context.Context, token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("no token present")
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return fmt.Errorf("token response carries no id_token")
	}
	return a.HandleToken(ctx, rawIDToken)
}

// principalFromClaims maps token claims to a Principal through an AttributeMap
func principalFromClaims(claims map[string]interface{}, mapping AttributeMap) (*Principal, error) {
	if claims == nil {
		return nil, fmt.Errorf("no claims present")
	}

	return &Principal{
		ID:    getStringClaim(claims, mapping.UserID),
		Name:  getStringClaim(claims, mapping.Name),
		Email: getStringClaim(claims, mapping.Email),
		Phone: getStringClaim(claims, mapping.Phone),
	}, nil
}

func getStringClaim(claims map[string]interface{}, key string) string {
	if key == "" {
		return ""
	}
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

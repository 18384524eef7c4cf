package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"spendwise/internal/config"
)

// Identity is what the OAuth provider tells us about the signed-in user.
// Subject is the provider's opaque user id and becomes the owner key for
// every record the user touches; email and name are display data only, so
// an address change at the provider cannot orphan existing records.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// Provider drives the authorization-code flow against Google and resolves
// the resulting token to an Identity.
type Provider struct {
	cfg *oauth2.Config
}

// NewGoogleProvider builds a provider from app configuration. The redirect
// URI is derived from the public app URL so it matches what the OAuth client
// has registered.
func NewGoogleProvider(appConfig *config.Config) (*Provider, error) {
	if !appConfig.OAuthEnabled() {
		return nil, fmt.Errorf("OAuth client credentials are not configured")
	}

	redirectURL := strings.TrimRight(appConfig.PublicAppURL, "/") + "/auth/callback"

	return &Provider{
		cfg: &oauth2.Config{
			ClientID:     appConfig.GoogleClientID,
			ClientSecret: appConfig.GoogleClientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				goauth2.UserinfoEmailScope,
				goauth2.UserinfoProfileScope,
			},
		},
	}, nil
}

// AuthCodeURL returns the provider URL to redirect the browser to.
func (p *Provider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the callback code for a token and resolves the identity
// behind it.
func (p *Provider) Exchange(ctx context.Context, code string) (Identity, error) {
	tok, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return Identity{}, fmt.Errorf("token exchange: %w", err)
	}
	return p.fetchIdentity(ctx, tok)
}

func (p *Provider) fetchIdentity(ctx context.Context, tok *oauth2.Token) (Identity, error) {
	svc, err := goauth2.NewService(ctx, option.WithTokenSource(p.cfg.TokenSource(ctx, tok)))
	if err != nil {
		return Identity{}, fmt.Errorf("userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return Identity{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	if info.Id == "" {
		return Identity{}, fmt.Errorf("provider returned no user id")
	}
	if info.Email == "" {
		return Identity{}, fmt.Errorf("provider returned no email address")
	}

	return Identity{
		Subject: info.Id,
		Email:   info.Email,
		Name:    info.Name,
	}, nil
}

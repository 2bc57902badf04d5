package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"rpg_tracker/internal/domain"

	"golang.org/x/oauth2"
)

// Discord OAuth2 endpoints
const (
	DiscordAuthURL    = "https://discord.com/api/oauth2/authorize"
	DiscordTokenURL   = "https://discord.com/api/oauth2/token"
	DiscordProfileURL = "https://discord.com/api/users/@me"
)

// DiscordConfig configures the Discord OAuth client. Empty URLs fall back
// to the public Discord endpoints.
type DiscordConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	ProfileURL   string
}

// DiscordProfile is the subset of /users/@me we use.
type DiscordProfile struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
}

// DiscordOAuth performs the authorization-code exchange with Discord.
type DiscordOAuth struct {
	config     *oauth2.Config
	profileURL string
	httpClient *http.Client
}

// NewDiscordOAuth creates a Discord OAuth client
func NewDiscordOAuth(cfg DiscordConfig) *DiscordOAuth {
	authURL, tokenURL, profileURL := cfg.AuthURL, cfg.TokenURL, cfg.ProfileURL
	if authURL == "" {
		authURL = DiscordAuthURL
	}
	if tokenURL == "" {
		tokenURL = DiscordTokenURL
	}
	if profileURL == "" {
		profileURL = DiscordProfileURL
	}

	return &DiscordOAuth{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"identify"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		profileURL: profileURL,
	}
}

// WithHTTPClient overrides the client used for token and profile requests.
func (d *DiscordOAuth) WithHTTPClient(c *http.Client) *DiscordOAuth {
	d.httpClient = c
	return d
}

// AuthCodeURL returns the consent page URL for state.
func (d *DiscordOAuth) AuthCodeURL(state string) string {
	return d.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for the caller's Discord profile.
// Every failure is reported as domain.ErrUpstream.
func (d *DiscordOAuth) Exchange(ctx context.Context, code string) (*DiscordProfile, error) {
	if d.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, d.httpClient)
	}

	token, err := d.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: token exchange: %v", domain.ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	resp, err := d.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch profile: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: profile status %d: %s", domain.ErrUpstream, resp.StatusCode, body)
	}

	var profile DiscordProfile
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: decode profile: %v", domain.ErrUpstream, err)
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("%w: profile without id", domain.ErrUpstream)
	}
	return &profile, nil
}

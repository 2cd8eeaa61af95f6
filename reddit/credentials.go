package reddit

import (
	"context"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/Luismorlan/redditmux/utils"
	. "github.com/Luismorlan/redditmux/utils/log"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

const (
	DefaultAuthURL   = "https://www.reddit.com/api/v1/authorize"
	DefaultTokenURL  = "https://www.reddit.com/api/v1/access_token"
	DefaultUserAgent = "redditmux/0.1"

	tokenTimeout = 20 * time.Second
)

// Config describes the registered Reddit app.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	UserAgent    string
	AuthURL      string
	TokenURL     string
}

// ConfigFromEnv reads CLIENT_ID, CLIENT_SECRET, REDIRECT_URI and USER_AGENT.
func ConfigFromEnv() Config {
	return Config{
		ClientID:     os.Getenv("CLIENT_ID"),
		ClientSecret: os.Getenv("CLIENT_SECRET"),
		RedirectURI:  os.Getenv("REDIRECT_URI"),
		UserAgent:    os.Getenv("USER_AGENT"),
	}
}

// TokenFromEnv returns the tokens in ACCESS_TOKEN and REFRESH_TOKEN, nil when
// neither is set.
func TokenFromEnv() *oauth2.Token {
	access, refresh := os.Getenv("ACCESS_TOKEN"), os.Getenv("REFRESH_TOKEN")
	if access == "" && refresh == "" {
		return nil
	}
	return &oauth2.Token{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}
}

// userAgentTransport sets the User-Agent Reddit requires on every request.
type userAgentTransport struct {
	userAgent string
	base      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}

// CredentialProvider owns the OAuth tokens of the service. Callers hold a
// reference to it and ask it for the current access token, or for a new one
// after a 401.
type CredentialProvider struct {
	conf       *oauth2.Config
	httpClient *http.Client
	userAgent  string
	store      TokenStore

	mu    sync.Mutex
	token *oauth2.Token
}

// NewCredentialProvider starts from initial, or from whatever store holds
// when initial is nil.
func NewCredentialProvider(ctx context.Context, cfg Config, store TokenStore, initial *oauth2.Token) *CredentialProvider {
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if store == nil {
		store = NopTokenStore{}
	}

	p := &CredentialProvider{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{"read"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		httpClient: &http.Client{
			Timeout:   tokenTimeout,
			Transport: &userAgentTransport{userAgent: cfg.UserAgent, base: http.DefaultTransport},
		},
		userAgent: cfg.UserAgent,
		store:     store,
		token:     initial,
	}

	if p.token == nil {
		tok, err := store.Load(ctx)
		if err != nil {
			Log.Warn("fail to load reddit token from store: ", err)
		}
		p.token = tok
	}
	return p
}

// UserAgent is the User-Agent sent with every Reddit request.
func (p *CredentialProvider) UserAgent() string {
	return p.userAgent
}

// AuthCodeURL is the Reddit consent page the user is redirected to.
func (p *CredentialProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state, oauth2.SetAuthURLParam("duration", "permanent"))
}

// Exchange trades an authorization code for tokens and makes them current.
func (p *CredentialProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := p.conf.Exchange(p.oauthContext(ctx), code)
	if err != nil {
		return nil, errors.Wrapf(utils.ErrUnauthorized, "exchange authorization code: %s", err)
	}
	p.setToken(ctx, tok)
	return tok, nil
}

// AccessToken returns the current access token, empty when there is none.
func (p *CredentialProvider) AccessToken() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token == nil {
		return ""
	}
	return p.token.AccessToken
}

// Refresh gets a new access token with the refresh token and returns it.
func (p *CredentialProvider) Refresh(ctx context.Context) (*oauth2.Token, error) {
	p.mu.Lock()
	var refreshToken string
	if p.token != nil {
		refreshToken = p.token.RefreshToken
	}
	p.mu.Unlock()

	if refreshToken == "" {
		return nil, errors.Wrap(utils.ErrUnauthorized, "no refresh token available")
	}
	if p.conf.ClientID == "" || p.conf.ClientSecret == "" {
		return nil, errors.Wrap(utils.ErrUnauthorized, "CLIENT_ID/CLIENT_SECRET not configured")
	}

	// An expired token with only the refresh token set forces a refresh.
	tok, err := p.conf.TokenSource(p.oauthContext(ctx), &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		Log.Error("fail to refresh reddit access token: ", err)
		return nil, errors.Wrapf(utils.ErrUnauthorized, "refresh access token: %s", err)
	}
	Log.Info("reddit access token refreshed")
	utils.Metrics().Incr(utils.MetricTokenRefreshed, nil, 1)
	p.setToken(ctx, tok)
	return tok, nil
}

func (p *CredentialProvider) setToken(ctx context.Context, tok *oauth2.Token) {
	p.mu.Lock()
	p.token = tok
	p.mu.Unlock()
	if err := p.store.Save(ctx, tok); err != nil {
		Log.Warn("fail to persist reddit token: ", err)
	}
}

func (p *CredentialProvider) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

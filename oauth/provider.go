// Package oauth implements the mock's token issuance and verification: an
// OAuth2 password grant against fixture users, refresh tokens with TTL, and
// a static API-key bypass. Tokens are HS256 JWTs signed with a local key;
// this is illustrative auth, not a hardened authorization server.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/fixtures"
)

// Defaults for token lifetimes.
const (
	DefaultAccessTokenTTL  = time.Hour
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

var (
	// ErrInvalidCredentials reports a failed password grant.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken reports an unverifiable or expired token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidGrant reports an unknown or expired refresh token.
	ErrInvalidGrant = errors.New("invalid grant")
)

// Claims is the mock's JWT payload: subject is the user id, plus the
// organization, role, and space-joined scope the dispatcher needs.
type Claims struct {
	jwt.RegisteredClaims
	OrganizationID int64  `json:"org"`
	Role           string `json:"role"`
	Scope          string `json:"scope,omitempty"`
}

// TokenResponse is the OAuth2 token endpoint response body.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

type refreshGrant struct {
	userID    int64
	expiresAt time.Time
}

// Provider issues and verifies the mock's tokens.
type Provider struct {
	issuer     string
	signingKey []byte
	apiKey     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	data       *fixtures.Store
	log        *slog.Logger
	clock      func() time.Time

	mu      sync.Mutex
	refresh map[string]refreshGrant
}

// Option customizes a Provider.
type Option func(*Provider)

// WithAccessTokenTTL overrides the access token lifetime.
func WithAccessTokenTTL(d time.Duration) Option {
	return func(p *Provider) { p.accessTTL = d }
}

// WithRefreshTokenTTL overrides the refresh token lifetime.
func WithRefreshTokenTTL(d time.Duration) Option {
	return func(p *Provider) { p.refreshTTL = d }
}

// WithAPIKey sets the static key accepted as a bearer-equivalent bypass.
func WithAPIKey(key string) Option {
	return func(p *Provider) { p.apiKey = key }
}

// WithClock overrides time lookup. Tests use this.
func WithClock(clock func() time.Time) Option {
	return func(p *Provider) { p.clock = clock }
}

// WithLogger sets the provider logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Provider) { p.log = log }
}

// NewProvider builds a token provider backed by the fixture user directory.
func NewProvider(issuer string, signingKey []byte, data *fixtures.Store, opts ...Option) *Provider {
	p := &Provider{
		issuer:     issuer,
		signingKey: signingKey,
		accessTTL:  DefaultAccessTokenTTL,
		refreshTTL: DefaultRefreshTokenTTL,
		data:       data,
		log:        slog.Default(),
		clock:      time.Now,
		refresh:    make(map[string]refreshGrant),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PasswordGrant exchanges fixture-user credentials for a token pair.
func (p *Provider) PasswordGrant(ctx context.Context, username, password string) (*TokenResponse, error) {
	u, ok := p.data.GetUserByUsername(username)
	if !ok || !u.Active || u.Password != password {
		p.log.InfoContext(ctx, "oauth.password.fail", slog.String("username", username))
		return nil, ErrInvalidCredentials
	}
	p.log.InfoContext(ctx, "oauth.password.ok", slog.Int64("user_id", u.ID))
	return p.issue(u)
}

// RefreshGrant exchanges a live refresh token for a fresh pair. The used
// token is rotated out.
func (p *Provider) RefreshGrant(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	now := p.clock()

	p.mu.Lock()
	grant, ok := p.refresh[refreshToken]
	if ok {
		delete(p.refresh, refreshToken)
	}
	p.mu.Unlock()

	if !ok || !now.Before(grant.expiresAt) {
		return nil, ErrInvalidGrant
	}
	u, ok := p.data.GetUser(grant.userID)
	if !ok || !u.Active {
		return nil, ErrInvalidGrant
	}
	p.log.InfoContext(ctx, "oauth.refresh.ok", slog.Int64("user_id", u.ID))
	return p.issue(u)
}

func (p *Provider) issue(u *fixtures.User) (*TokenResponse, error) {
	now := p.clock()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.issuer,
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.accessTTL)),
			ID:        uuid.NewString(),
		},
		OrganizationID: u.OrganizationID,
		Role:           u.Role,
		Scope:          strings.Join(u.Permissions, " "),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.signingKey)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken := uuid.NewString()
	p.mu.Lock()
	p.refresh[refreshToken] = refreshGrant{userID: u.ID, expiresAt: now.Add(p.refreshTTL)}
	p.mu.Unlock()

	return &TokenResponse{
		AccessToken:  access,
		TokenType:    "Bearer",
		ExpiresIn:    int64(p.accessTTL / time.Second),
		RefreshToken: refreshToken,
		Scope:        claims.Scope,
	}, nil
}

// Verify parses and validates an access token, returning its claims.
func (p *Provider) Verify(tokenString string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (any, error) { return p.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithTimeFunc(p.clock),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &claims, nil
}

// VerifyAPIKey reports whether key matches the configured static bypass.
// An empty configured key disables the bypass.
func (p *Provider) VerifyAPIKey(key string) bool {
	return p.apiKey != "" && key == p.apiKey
}

// SweepRefresh drops expired refresh grants and returns how many it removed.
func (p *Provider) SweepRefresh() int {
	now := p.clock()
	p.mu.Lock()
	defer p.mu.Unlock()
	removed := 0
	for tok, grant := range p.refresh {
		if !now.Before(grant.expiresAt) {
			delete(p.refresh, tok)
			removed++
		}
	}
	return removed
}

// Run sweeps expired refresh grants periodically until ctx is done.
func (p *Provider) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := p.SweepRefresh(); n > 0 {
				p.log.InfoContext(ctx, "oauth.refresh.sweep.ok", slog.Int("removed", n))
			}
		}
	}
}

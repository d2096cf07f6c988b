package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/fixtures"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestProvider(t *testing.T) (*Provider, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)}
	p := NewProvider("test-issuer", []byte("test-signing-key"), fixtures.NewStore(),
		WithAPIKey("test-api-key"),
		WithClock(clock.Now),
	)
	return p, clock
}

func TestPasswordGrant(t *testing.T) {
	p, _ := newTestProvider(t)

	resp, err := p.PasswordGrant(context.Background(), "demo@mediamath.com", "demo-password-2025")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(DefaultAccessTokenTTL/time.Second), resp.ExpiresIn)

	claims, err := p.Verify(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.Subject)
	assert.Equal(t, int64(100048), claims.OrganizationID)
	assert.Equal(t, "campaign_manager", claims.Role)
	assert.Contains(t, claims.Scope, "campaigns:write")
}

func TestPasswordGrantRejectsBadCredentials(t *testing.T) {
	p, _ := newTestProvider(t)

	_, err := p.PasswordGrant(context.Background(), "demo@mediamath.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.PasswordGrant(context.Background(), "nobody@example.com", "x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshGrantRotates(t *testing.T) {
	p, _ := newTestProvider(t)

	first, err := p.PasswordGrant(context.Background(), "demo@mediamath.com", "demo-password-2025")
	require.NoError(t, err)

	second, err := p.RefreshGrant(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The used refresh token is gone.
	_, err = p.RefreshGrant(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidGrant)
}

func TestRefreshGrantExpires(t *testing.T) {
	p, clock := newTestProvider(t)

	resp, err := p.PasswordGrant(context.Background(), "demo@mediamath.com", "demo-password-2025")
	require.NoError(t, err)

	clock.Advance(DefaultRefreshTokenTTL + time.Minute)
	_, err = p.RefreshGrant(context.Background(), resp.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidGrant)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	p, clock := newTestProvider(t)

	resp, err := p.PasswordGrant(context.Background(), "demo@mediamath.com", "demo-password-2025")
	require.NoError(t, err)

	clock.Advance(DefaultAccessTokenTTL + time.Minute)
	_, err = p.Verify(resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	p, _ := newTestProvider(t)
	other := NewProvider("test-issuer", []byte("different-key"), fixtures.NewStore())

	resp, err := other.PasswordGrant(context.Background(), "demo@mediamath.com", "demo-password-2025")
	require.NoError(t, err)

	_, err = p.Verify(resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAPIKey(t *testing.T) {
	p, _ := newTestProvider(t)
	assert.True(t, p.VerifyAPIKey("test-api-key"))
	assert.False(t, p.VerifyAPIKey("other"))

	unkeyed := NewProvider("test-issuer", []byte("k"), fixtures.NewStore())
	assert.False(t, unkeyed.VerifyAPIKey(""))
}

func TestSweepRefresh(t *testing.T) {
	p, clock := newTestProvider(t)

	_, err := p.PasswordGrant(context.Background(), "demo@mediamath.com", "demo-password-2025")
	require.NoError(t, err)
	_, err = p.PasswordGrant(context.Background(), "analyst@mediamath.com", "analyst-password-2025")
	require.NoError(t, err)

	assert.Equal(t, 0, p.SweepRefresh())
	clock.Advance(DefaultRefreshTokenTTL + time.Minute)
	assert.Equal(t, 2, p.SweepRefresh())
}

func TestHandleToken(t *testing.T) {
	p, _ := newTestProvider(t)

	do := func(form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/oauth/token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		p.HandleToken(rec, req)
		return rec
	}

	ok := do(url.Values{
		"grant_type": {"password"},
		"username":   {"demo@mediamath.com"},
		"password":   {"demo-password-2025"},
	})
	assert.Equal(t, http.StatusOK, ok.Code)
	assert.Contains(t, ok.Body.String(), "access_token")

	badCreds := do(url.Values{
		"grant_type": {"password"},
		"username":   {"demo@mediamath.com"},
		"password":   {"nope"},
	})
	assert.Equal(t, http.StatusUnauthorized, badCreds.Code)
	assert.Contains(t, badCreds.Body.String(), "invalid_grant")

	badGrant := do(url.Values{"grant_type": {"client_credentials"}})
	assert.Equal(t, http.StatusBadRequest, badGrant.Code)
	assert.Contains(t, badGrant.Body.String(), "unsupported_grant_type")

	missing := do(url.Values{"grant_type": {"password"}})
	assert.Equal(t, http.StatusBadRequest, missing.Code)
}

package credential

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/janhq/rooms-api/internal/infrastructure/metrics"
)

// ErrNoCredential is matched by errors.Is when no token was ever minted.
var ErrNoCredential = errors.New("no management token available")

const refreshKey = "management-token"

// CredentialError reports that no usable token could be produced.
type CredentialError struct {
	Err error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("credential: %v: %v", ErrNoCredential, e.Err)
}

func (e *CredentialError) Unwrap() error { return e.Err }

func (e *CredentialError) Is(target error) bool { return target == ErrNoCredential }

// Credential is the result of Current. A non-nil RefreshErr means the token
// is the last one minted successfully and a refresh attempt just failed.
type Credential struct {
	Token      string
	IssuedAt   time.Time
	RefreshErr error
}

// Stale reports whether the credential was served after a failed refresh.
func (c Credential) Stale() bool {
	return c.RefreshErr != nil
}

// Options configures a Manager.
type Options struct {
	AccessKey string
	Secret    string
	// RefreshAfter is how long a token is served before a new one is minted.
	RefreshAfter time.Duration
	// TokenTTL is the expiry written into the token itself.
	TokenTTL time.Duration

	// Signer overrides the default HMAC signer.
	Signer Signer
	// Now overrides the clock.
	Now func() time.Time
}

// Manager caches a management token and refreshes it when it ages out.
// Concurrent refreshes are collapsed into one signing call.
type Manager struct {
	signer       Signer
	refreshAfter time.Duration
	now          func() time.Time
	log          zerolog.Logger

	mu       sync.RWMutex
	token    string
	issuedAt time.Time

	group singleflight.Group
}

// NewManager creates a credential manager. Nothing is minted until the first call.
func NewManager(opts Options, log zerolog.Logger) *Manager {
	if opts.RefreshAfter <= 0 {
		opts.RefreshAfter = 12 * time.Hour
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Signer == nil {
		opts.Signer = NewHMACSigner(opts.AccessKey, opts.Secret, opts.TokenTTL)
	}

	return &Manager{
		signer:       opts.Signer,
		refreshAfter: opts.RefreshAfter,
		now:          opts.Now,
		log:          log.With().Str("component", "credential-manager").Logger(),
	}
}

// Warm mints the first token. A failure here means the service has no way
// to talk to the upstream platform.
func (m *Manager) Warm(ctx context.Context) error {
	_, err := m.Current(ctx)
	return err
}

// Token returns the current bearer token, fresh or stale.
func (m *Manager) Token(ctx context.Context) (string, error) {
	cred, err := m.Current(ctx)
	if err != nil {
		return "", err
	}
	return cred.Token, nil
}

// Current returns the cached token while it is within the refresh window,
// otherwise mints a new one. When minting fails and a previous token exists,
// that token is returned with RefreshErr set instead of an error.
func (m *Manager) Current(ctx context.Context) (Credential, error) {
	if cred, ok := m.cached(); ok {
		return cred, nil
	}

	ch := m.group.DoChan(refreshKey, func() (any, error) {
		return m.refresh()
	})

	select {
	case <-ctx.Done():
		return Credential{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Credential{}, res.Err
		}
		return res.Val.(Credential), nil
	}
}

func (m *Manager) cached() (Credential, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.token == "" || m.now().Sub(m.issuedAt) > m.refreshAfter {
		return Credential{}, false
	}
	return Credential{Token: m.token, IssuedAt: m.issuedAt}, true
}

func (m *Manager) refresh() (Credential, error) {
	// A flight that finished just before this one may already have refreshed.
	if cred, ok := m.cached(); ok {
		return cred, nil
	}

	now := m.now()
	token, err := m.signer(now)
	if err == nil && token == "" {
		err = errors.New("signer returned an empty token")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		if m.token != "" {
			metrics.CredentialRefreshes.WithLabelValues("stale").Inc()
			m.log.Warn().
				Err(err).
				Time("issued_at", m.issuedAt).
				Dur("age", now.Sub(m.issuedAt)).
				Msg("management token refresh failed, serving previous token")
			return Credential{Token: m.token, IssuedAt: m.issuedAt, RefreshErr: err}, nil
		}
		metrics.CredentialRefreshes.WithLabelValues("failed").Inc()
		m.log.Error().Err(err).Msg("management token could not be minted")
		return Credential{}, &CredentialError{Err: err}
	}

	m.token = token
	m.issuedAt = now
	metrics.CredentialRefreshes.WithLabelValues("fresh").Inc()
	m.log.Debug().Time("issued_at", now).Msg("management token refreshed")

	return Credential{Token: token, IssuedAt: now}, nil
}

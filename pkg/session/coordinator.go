package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/crisisready/fieldlink/pkg/identity"
	"github.com/crisisready/fieldlink/pkg/observability"
	"github.com/crisisready/fieldlink/pkg/profile"
	"github.com/crisisready/fieldlink/pkg/vault"
)

// ErrRefreshUnavailable indicates Refresh was called outside an active
// identity-provider session.
var ErrRefreshUnavailable = errors.New("refresh requires an active identity-provider session")

// Config holds coordinator dependencies
type Config struct {
	Provider identity.Provider
	Profiles profile.Store
	Vault    vault.Store

	// Derive maps principal+profile to backend credentials. Required.
	Derive DerivePolicy

	// Roles infers the role for direct logins. Defaults to
	// DefaultRolePolicy.
	Roles RolePolicy

	Logger  *observability.Logger
	Metrics *observability.Metrics
}

// Coordinator owns the session state machine. Create with New, wire it to
// the provider with Start, release with Close.
type Coordinator struct {
	mu        sync.Mutex
	state     State
	creds     *vault.Credentials
	listeners map[string]Listener

	provider identity.Provider
	profiles profile.Store
	vault    vault.Store
	derive   DerivePolicy
	roles    RolePolicy

	refreshGroup singleflight.Group

	logger  *observability.Logger
	metrics *observability.Metrics

	unsubscribe func()
}

// New validates the configuration and creates a coordinator in the
// Unauthenticated phase
func New(cfg Config) (*Coordinator, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("identity provider is required")
	}
	if cfg.Profiles == nil {
		return nil, fmt.Errorf("profile store is required")
	}
	if cfg.Vault == nil {
		return nil, fmt.Errorf("credential vault is required")
	}
	if cfg.Derive == nil {
		return nil, fmt.Errorf("derive policy is required")
	}
	if cfg.Roles == nil {
		cfg.Roles = DefaultRolePolicy
	}
	if cfg.Logger == nil {
		cfg.Logger = observability.NewNopLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NewNopMetrics()
	}

	return &Coordinator{
		state:     State{Phase: PhaseUnauthenticated},
		listeners: make(map[string]Listener),
		provider:  cfg.Provider,
		profiles:  cfg.Profiles,
		vault:     cfg.Vault,
		derive:    cfg.Derive,
		roles:     cfg.Roles,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
	}, nil
}

// Start subscribes to the identity provider's event stream. Idempotent
// only through Close; call once.
func (c *Coordinator) Start() {
	c.unsubscribe = c.provider.Subscribe(c.onPrincipal)
}

// Close detaches from the identity provider. The session state is left
// as-is; Close is a teardown, not a logout.
func (c *Coordinator) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// CurrentState returns a snapshot of the session
func (c *Coordinator) CurrentState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe registers a listener invoked synchronously after every
// transition. The returned function unregisters it.
func (c *Coordinator) Subscribe(fn Listener) func() {
	c.mu.Lock()
	id := uuid.NewString()
	c.listeners[id] = fn
	c.metrics.SessionListeners.Set(float64(len(c.listeners)))
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.metrics.SessionListeners.Set(float64(len(c.listeners)))
		c.mu.Unlock()
	}
}

// onPrincipal handles identity-provider events
func (c *Coordinator) onPrincipal(p *identity.Principal) {
	ctx := context.Background()
	if p == nil {
		c.signedOut(ctx, nil)
		return
	}
	c.resolve(ctx, p)
}

// resolve drives Resolving -> Authenticated for a provider principal. It
// never stalls: profile failures fall back to a minimal profile and the
// session is established regardless.
func (c *Coordinator) resolve(ctx context.Context, p *identity.Principal) {
	c.setState(State{Phase: PhaseResolving, Principal: p}, nil)

	prof := c.fetchOrCreate(ctx, p)

	creds, err := c.derive(p, prof)
	if err != nil {
		c.logger.WithError(err).WithField("principal_id", p.ID).Error("credential derivation failed")
		c.signedOut(ctx, err)
		return
	}

	c.persist(ctx, creds, prof)

	c.mu.Lock()
	c.creds = &creds
	c.mu.Unlock()

	c.logger.WithField("principal_id", p.ID).Info("session established")
	c.setState(State{
		Phase:     PhaseAuthenticated,
		Method:    MethodIdentityProvider,
		Profile:   prof,
		Principal: p,
	}, nil)
}

// fetchOrCreate resolves the profile for a principal, in order: fetch,
// create, local fallback. The fallback guarantees resolution terminates
// even with the profile service unreachable.
func (c *Coordinator) fetchOrCreate(ctx context.Context, p *identity.Principal) *profile.UserProfile {
	prof, err := c.profiles.Fetch(ctx, p.ID)
	if err == nil {
		return prof
	}

	if errors.Is(err, profile.ErrNotFound) {
		created, cerr := c.profiles.Create(ctx, p.ID, profile.Seed{
			Name:  p.Name,
			Email: p.Email,
			Phone: p.Phone,
			Role:  profile.RoleVictim,
		})
		if cerr == nil {
			return created
		}
		c.logger.WithError(cerr).Warn("profile create failed, using fallback profile")
	} else {
		c.logger.WithError(err).Warn("profile fetch failed, using fallback profile")
	}

	c.metrics.ProfileFallbacksTotal.Inc()
	return fallbackProfile(p)
}

// fallbackProfile builds a minimal usable profile from principal fields
func fallbackProfile(p *identity.Principal) *profile.UserProfile {
	now := time.Now().UTC()
	return &profile.UserProfile{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		Role:      profile.RoleVictim,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// persist writes credentials and the profile snapshot to the vault. The
// vault is the durable mirror; the in-memory pair serves the executor, so
// a write failure degrades durability but not the session.
func (c *Coordinator) persist(ctx context.Context, creds vault.Credentials, prof *profile.UserProfile) {
	if err := c.vault.SetCredentials(ctx, creds); err != nil {
		c.logger.WithError(err).Warn("failed to persist credentials")
	}
	if prof == nil {
		return
	}
	if snapshot, err := json.Marshal(prof); err == nil {
		if err := c.vault.SetProfileSnapshot(ctx, snapshot); err != nil {
			c.logger.WithError(err).Warn("failed to persist profile snapshot")
		}
	}
}

// LoginDirect establishes a session straight against the legacy backend,
// bypassing the identity provider. The profile is synthesized locally; the
// role comes from the configured RolePolicy.
func (c *Coordinator) LoginDirect(ctx context.Context, username, password string) error {
	if username == "" {
		return &ValidationError{Field: "username", Message: "must not be empty"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Message: "must not be empty"}
	}

	now := time.Now().UTC()
	prof := &profile.UserProfile{
		ID:        username,
		Name:      username,
		Role:      c.roles(username),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	creds := vault.Credentials{Username: username, Password: password}

	c.persist(ctx, creds, prof)

	c.mu.Lock()
	c.creds = &creds
	c.mu.Unlock()

	c.logger.WithField("username", username).Info("direct session established")
	c.setState(State{
		Phase:   PhaseAuthenticated,
		Method:  MethodDirectBackend,
		Profile: prof,
	}, nil)
	return nil
}

// Logout signs out of the identity provider best-effort and always clears
// local state. It never fails: clearing local state is the contract.
func (c *Coordinator) Logout(ctx context.Context) error {
	if err := c.provider.SignOut(ctx); err != nil {
		c.logger.WithError(err).Warn("provider sign-out failed, clearing local state anyway")
	}
	c.clearVault(ctx)
	c.signedOut(ctx, nil)
	return nil
}

// clearVault wipes the durable store best-effort
func (c *Coordinator) clearVault(ctx context.Context) {
	if err := c.vault.Clear(ctx); err != nil {
		c.logger.WithError(err).Warn("failed to clear vault")
	}
}

// signedOut clears credentials and resets to Unauthenticated. A no-op when
// already signed out, so the provider's replay of a nil principal on a cold
// start does not wipe the vault snapshot the UI reads before login. Logout
// clears the vault before calling here, so an explicit logout wipes durable
// entries left by a previous process even when no session is active.
func (c *Coordinator) signedOut(ctx context.Context, cause error) {
	c.mu.Lock()
	already := c.state.Phase == PhaseUnauthenticated && c.creds == nil
	c.mu.Unlock()
	if already && cause == nil {
		return
	}

	c.clearVault(ctx)

	c.mu.Lock()
	c.creds = nil
	c.mu.Unlock()

	c.setState(State{Phase: PhaseUnauthenticated}, cause)
}

// Refresh re-derives backend credentials for the current identity-provider
// session. Concurrent triggers coalesce onto one in-flight derivation and
// share its result. A failed refresh forces the session to Unauthenticated
// with the cause attached to the transition snapshot.
func (c *Coordinator) Refresh(ctx context.Context) error {
	_, err, shared := c.refreshGroup.Do("refresh", func() (interface{}, error) {
		return nil, c.doRefresh(ctx)
	})
	if shared {
		c.metrics.RefreshCoalescedTotal.Inc()
	}
	return err
}

func (c *Coordinator) doRefresh(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Phase != PhaseAuthenticated || c.state.Method != MethodIdentityProvider {
		c.mu.Unlock()
		c.metrics.RefreshTotal.WithLabelValues("rejected").Inc()
		return ErrRefreshUnavailable
	}
	p := c.state.Principal.Clone()
	prof := c.state.Profile.Clone()
	c.mu.Unlock()

	if p == nil {
		c.metrics.RefreshTotal.WithLabelValues("failure").Inc()
		err := fmt.Errorf("%w: no principal held", ErrRefreshUnavailable)
		c.signedOut(ctx, err)
		return err
	}

	creds, err := c.derive(p, prof)
	if err != nil {
		c.metrics.RefreshTotal.WithLabelValues("failure").Inc()
		c.logger.WithError(err).Warn("credential refresh failed, forcing sign-out")
		c.signedOut(ctx, err)
		return err
	}

	c.persist(ctx, creds, nil)

	c.mu.Lock()
	c.creds = &creds
	c.mu.Unlock()

	c.metrics.RefreshTotal.WithLabelValues("success").Inc()
	return nil
}

// BackendCredentials returns the current credential pair, or nil when no
// session is present. Implements the executor's SessionSource.
func (c *Coordinator) BackendCredentials() (*vault.Credentials, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.creds == nil {
		return nil, nil
	}
	cp := *c.creds
	return &cp, nil
}

// setState commits a transition and notifies listeners synchronously with
// an immutable snapshot. The lock is released before fan-out so listeners
// reading CurrentState cannot deadlock; mutating calls from a listener are
// undefined behavior.
func (c *Coordinator) setState(next State, cause error) {
	c.mu.Lock()
	c.state = next.clone()
	listeners := make([]Listener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	c.metrics.SessionTransitionsTotal.WithLabelValues(next.Phase.String(), string(next.Method)).Inc()

	snapshot := next.clone()
	snapshot.Err = cause
	for _, fn := range listeners {
		fn(snapshot)
	}
}

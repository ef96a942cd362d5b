package session

// Package session owns the process-wide authentication state machine:
// Uninitialized -> Initializing -> {Authenticated, Anonymous}, with
// Authenticated <-> Anonymous via login and logout. The store is the only
// writer of the session state and the credential cache apart from the
// transport pipeline's two invalidation sites.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/classpoint/schoolgate/internal/credential"
	domainauth "github.com/classpoint/schoolgate/internal/domain/auth"
	"github.com/classpoint/schoolgate/internal/ports"
	"github.com/classpoint/schoolgate/internal/transport"
)

// Options groups dependencies for NewStore.
type Options struct {
	Cache     ports.CredentialCache
	API       ports.AuthAPI
	Clock     *credential.Clock
	Navigator ports.Navigator
	Logger    *slog.Logger
}

// Store is the single session store. Construct one per process.
type Store struct {
	cache  ports.CredentialCache
	api    ports.AuthAPI
	clock  *credential.Clock
	nav    ports.Navigator
	logger *slog.Logger

	mu      sync.RWMutex
	state   domainauth.SessionState
	subs    map[int]func(domainauth.SessionState)
	nextSub int

	group       singleflight.Group
	initialized bool
}

// NewStore constructs a Store in the Initializing phase.
func NewStore(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = credential.NewClock(0)
	}
	return &Store{
		cache:  opts.Cache,
		api:    opts.API,
		clock:  clock,
		nav:    opts.Navigator,
		logger: logger,
		state:  domainauth.SessionState{IsInitializing: true},
		subs:   make(map[int]func(domainauth.SessionState)),
	}
}

// State returns a copy of the current session state.
func (s *Store) State() domainauth.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneState(s.state)
}

// Subscribe registers fn to be called with a state copy after every
// transition. The returned func cancels the subscription.
func (s *Store) Subscribe(fn func(domainauth.SessionState)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Initialize runs the startup reconciliation protocol once; concurrent and
// repeat calls collapse into the first run. Regardless of outcome the store
// leaves the Initializing phase exactly once.
func (s *Store) Initialize(ctx context.Context) error {
	_, err, _ := s.group.Do("initialize", func() (any, error) {
		s.mu.Lock()
		if s.initialized {
			s.mu.Unlock()
			return nil, nil
		}
		s.initialized = true
		s.mu.Unlock()
		return nil, s.initialize(ctx)
	})
	return err
}

func (s *Store) initialize(ctx context.Context) error {
	defer s.finishInitializing()
	defer func() {
		if r := recover(); r != nil {
			// Whatever went wrong, the session must land in a clean
			// anonymous state rather than take the process down.
			s.logger.Error("session initialization panicked", "panic", r)
			s.clearCache(ctx)
			s.setAnonymous()
		}
	}()

	rec, err := s.cache.Load(ctx)
	if err != nil {
		if !errors.Is(err, ports.ErrNoSession) {
			s.logger.Warn("loading cached session failed", "error", err)
			s.clearCache(ctx)
		}
		s.setAnonymous()
		return nil
	}

	ident, err := domainauth.DecodeIdentity(rec.Identity)
	if err != nil {
		s.logger.Warn("cached identity is unreadable", "error", err)
		s.clearCache(ctx)
		s.setAnonymous()
		return nil
	}

	// Optimistic restore: the cached identity is trusted until the server
	// says otherwise.
	s.setAuthenticated(ident)
	s.verify(ctx, rec)
	return nil
}

// verify asks the server who the session belongs to. Only an authoritative
// rejection evicts the optimistic state; a transient network or endpoint
// failure must not log out a user with a valid cached session.
func (s *Store) verify(ctx context.Context, rec ports.CacheRecord) {
	fresh, err := s.api.CurrentIdentity(ctx)
	if err != nil {
		if transport.IsKind(err, transport.KindUnauthorized) || transport.IsKind(err, transport.KindTokenExpired) {
			// The pipeline already invalidated globally; mirror it here.
			s.setAnonymous()
			return
		}
		s.logger.Warn("session verification failed, keeping cached session", "error", err)
		return
	}
	if !fresh.Valid() {
		s.logger.Warn("session verification returned an unusable identity, keeping cached one")
		return
	}

	s.setAuthenticated(fresh)
	if err := s.persist(ctx, rec.Token, fresh, rec.Expiry); err != nil {
		s.logger.Warn("refreshing cached identity failed", "error", err)
	}
}

// Login authenticates against the school API. Transport failures and
// server rejections both come back as a LoginResult with OK false and the
// best available message; the cache is only touched on success, and then
// with all three fields at once.
func (s *Store) Login(ctx context.Context, email, password string, rememberMe bool) ports.LoginResult {
	res, err := s.api.Login(ctx, email, password, rememberMe)
	if err != nil {
		return ports.LoginResult{Message: failureMessage(err)}
	}
	if !res.OK {
		return res
	}

	expiry := res.Expiry
	if expiry == "" {
		if exp, ok := s.clock.ExpiryInstant(res.Token); ok {
			expiry = exp.UTC().Format(time.RFC3339)
		}
	}
	if err := s.persist(ctx, res.Token, res.Identity, expiry); err != nil {
		s.logger.Error("persisting session failed", "error", err)
	}
	s.setAuthenticated(res.Identity)
	res.Expiry = expiry
	return res
}

// Logout drops the session. Local invalidation is authoritative and always
// succeeds; the remote notification is best effort.
func (s *Store) Logout(ctx context.Context) {
	s.clearCache(ctx)
	s.setAnonymous()
	if err := s.api.Logout(ctx); err != nil {
		s.logger.Warn("remote logout notification failed", "error", err)
	}
}

// UpdateIdentity overwrites the in-memory identity and the cached record.
// The authentication flag is untouched.
func (s *Store) UpdateIdentity(ctx context.Context, ident domainauth.Identity) error {
	ident.Role = ident.Role.Normalize()

	rec, err := s.cache.Load(ctx)
	switch {
	case err == nil:
		if perr := s.persist(ctx, rec.Token, ident, rec.Expiry); perr != nil {
			return perr
		}
	case errors.Is(err, ports.ErrNoSession):
		// Nothing durable to update.
	default:
		return err
	}

	s.mu.Lock()
	s.state.Identity = &ident
	state := cloneState(s.state)
	subs := s.subscribers()
	s.mu.Unlock()
	notify(subs, state)
	return nil
}

// HandleInvalidation is the top-level invalidation subscriber, registered
// into the transport pipeline at startup. The pipeline has already cleared
// the cache and set the one-shot flag; here the in-memory state drops to
// anonymous and navigation moves to sign-in.
func (s *Store) HandleInvalidation(reason transport.Reason) {
	s.logger.Info("session invalidated", "reason", string(reason))
	s.setAnonymous()
	if s.nav != nil {
		s.nav.ToSignIn()
	}
}

func (s *Store) persist(ctx context.Context, token string, ident domainauth.Identity, expiry string) error {
	raw, err := domainauth.EncodeIdentity(ident)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	return s.cache.Save(ctx, ports.CacheRecord{Token: token, Identity: raw, Expiry: expiry})
}

func (s *Store) clearCache(ctx context.Context) {
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Error("clearing credential cache failed", "error", err)
	}
}

func (s *Store) setAuthenticated(ident domainauth.Identity) {
	s.mu.Lock()
	s.state.Identity = &ident
	s.state.IsAuthenticated = true
	state := cloneState(s.state)
	subs := s.subscribers()
	s.mu.Unlock()
	notify(subs, state)
}

func (s *Store) setAnonymous() {
	s.mu.Lock()
	s.state.Identity = nil
	s.state.IsAuthenticated = false
	state := cloneState(s.state)
	subs := s.subscribers()
	s.mu.Unlock()
	notify(subs, state)
}

func (s *Store) finishInitializing() {
	s.mu.Lock()
	s.state.IsInitializing = false
	state := cloneState(s.state)
	subs := s.subscribers()
	s.mu.Unlock()
	notify(subs, state)
}

// subscribers must be called with mu held.
func (s *Store) subscribers() []func(domainauth.SessionState) {
	fns := make([]func(domainauth.SessionState), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	return fns
}

func notify(subs []func(domainauth.SessionState), state domainauth.SessionState) {
	for _, fn := range subs {
		fn(state)
	}
}

func cloneState(state domainauth.SessionState) domainauth.SessionState {
	if state.Identity != nil {
		ident := *state.Identity
		state.Identity = &ident
	}
	return state
}

func failureMessage(err error) string {
	var pe *transport.Error
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	return err.Error()
}

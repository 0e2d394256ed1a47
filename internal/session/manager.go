// Package session implements the authentication state machine.
//
// A Manager starts Initializing. Init restores the persisted session and
// moves to Authenticated or Anonymous. SignIn and SignUp move to
// Authenticated, SignOut back to Anonymous, and UpdateProfile replaces the
// signed-in account. Nothing but SignOut ever drops an active session.
//
// Construct one Manager per process and pass it to whatever needs it.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/ratemymovie/internal/common"
	"github.com/dmitrijs2005/ratemymovie/internal/logging"
	"github.com/dmitrijs2005/ratemymovie/internal/models"
	"github.com/dmitrijs2005/ratemymovie/internal/password"
	"github.com/dmitrijs2005/ratemymovie/internal/validate"
	"github.com/google/uuid"
)

// Test seams.
var (
	newID = uuid.NewString
	now   = time.Now
)

// Identity is the durable side of the session, implemented by
// identity.Repository.
type Identity interface {
	FindAccountByEmail(ctx context.Context, email string) *models.Account
	AddAccount(ctx context.Context, acc models.Account) error
	ReplaceAccount(ctx context.Context, acc models.Account) (bool, error)
	SetSessionAccount(ctx context.Context, acc models.Account) error
	GetSessionAccount(ctx context.Context) *models.Account
	ClearSessionAccount(ctx context.Context) error
}

// Listener is called after every session transition with the new account,
// nil meaning signed out.
type Listener func(ctx context.Context, acc *models.Account)

type Manager struct {
	identity Identity
	hasher   password.Hasher
	log      logging.Logger

	mu           sync.RWMutex
	account      *models.Account
	initializing bool
	listeners    []Listener
}

// NewManager returns a Manager in the Initializing state. A nil hasher
// selects password.Plain.
func NewManager(identity Identity, hasher password.Hasher, log logging.Logger) *Manager {
	if hasher == nil {
		hasher = password.Plain{}
	}
	return &Manager{
		identity:     identity,
		hasher:       hasher,
		log:          logging.OrNop(log).With("component", "session"),
		initializing: true,
	}
}

// Subscribe registers fn for all later transitions.
func (m *Manager) Subscribe(fn Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Account returns a copy of the signed-in account, or nil.
func (m *Manager) Account() *models.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyAccount(m.account)
}

func (m *Manager) Initializing() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initializing
}

func (m *Manager) IsAuthenticated() bool {
	return m.Account() != nil
}

// Init restores the persisted session. It never fails: an unreadable
// session leaves the manager Anonymous.
func (m *Manager) Init(ctx context.Context) {
	acc := m.identity.GetSessionAccount(ctx)

	m.mu.Lock()
	m.account = copyAccount(acc)
	m.initializing = false
	m.mu.Unlock()

	if acc != nil {
		m.log.Info(ctx, "session restored", "user_id", acc.ID)
	}
	m.notify(ctx, acc)
}

func (m *Manager) SignIn(ctx context.Context, email, pass string) error {
	if err := validate.SignIn(email, pass); err != nil {
		return err
	}

	acc := m.identity.FindAccountByEmail(ctx, email)
	if acc == nil {
		return fmt.Errorf("user not found: %w", common.ErrNotFound)
	}

	ok, err := m.hasher.Verify(pass, acc.Password)
	if err != nil {
		m.log.Warn(ctx, "stored credential unreadable", "user_id", acc.ID, "error", err)
	}
	if !ok {
		return fmt.Errorf("wrong password: %w", common.ErrCredential)
	}

	if err := m.identity.SetSessionAccount(ctx, *acc); err != nil {
		m.log.Error(ctx, "sign in failed", "error", err)
		return err
	}

	m.setAccount(ctx, acc)
	m.log.Info(ctx, "signed in", "user_id", acc.ID)
	return nil
}

// SignUp registers a new account and signs it in. profileImage may be nil.
func (m *Manager) SignUp(ctx context.Context, name, email, pass string, profileImage *string) error {
	if err := validate.SignUp(name, email, pass); err != nil {
		return err
	}

	if m.identity.FindAccountByEmail(ctx, email) != nil {
		return fmt.Errorf("email already registered: %w", common.ErrConflict)
	}

	stored, err := m.hasher.Hash(pass)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	acc := models.Account{
		ID:        newID(),
		Name:      name,
		Email:     strings.ToLower(email),
		Password:  stored,
		CreatedAt: now().UTC().Format(time.RFC3339Nano),
	}
	if profileImage != nil {
		img := *profileImage
		acc.ProfileImage = &img
	}

	if err := m.identity.AddAccount(ctx, acc); err != nil {
		m.log.Error(ctx, "sign up failed", "error", err)
		return err
	}
	if err := m.identity.SetSessionAccount(ctx, acc); err != nil {
		m.log.Error(ctx, "sign up failed", "error", err)
		return err
	}

	m.setAccount(ctx, &acc)
	m.log.Info(ctx, "signed up", "user_id", acc.ID)
	return nil
}

// SignOut clears the persisted session. On failure the manager stays
// Authenticated.
func (m *Manager) SignOut(ctx context.Context) error {
	if err := m.identity.ClearSessionAccount(ctx); err != nil {
		m.log.Error(ctx, "sign out failed", "error", err)
		return err
	}
	m.setAccount(ctx, nil)
	m.log.Info(ctx, "signed out")
	return nil
}

// UpdateProfile stores updated in the account list when an account with
// its id exists, then always makes it the session account.
func (m *Manager) UpdateProfile(ctx context.Context, updated models.Account) error {
	found, err := m.identity.ReplaceAccount(ctx, updated)
	if err != nil {
		m.log.Error(ctx, "profile update failed", "error", err)
		return err
	}
	if !found {
		// not fatal: the session pointer below is still updated
		m.log.Warn(ctx, "profile update for unknown account", "user_id", updated.ID)
	}

	if err := m.identity.SetSessionAccount(ctx, updated); err != nil {
		m.log.Error(ctx, "profile update failed", "error", err)
		return err
	}

	m.setAccount(ctx, &updated)
	return nil
}

func (m *Manager) setAccount(ctx context.Context, acc *models.Account) {
	m.mu.Lock()
	m.account = copyAccount(acc)
	m.initializing = false
	m.mu.Unlock()

	m.notify(ctx, acc)
}

func (m *Manager) notify(ctx context.Context, acc *models.Account) {
	m.mu.RLock()
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.RUnlock()

	for _, fn := range listeners {
		fn(ctx, copyAccount(acc))
	}
}

func copyAccount(acc *models.Account) *models.Account {
	if acc == nil {
		return nil
	}
	c := *acc
	if acc.ProfileImage != nil {
		img := *acc.ProfileImage
		c.ProfileImage = &img
	}
	return &c
}

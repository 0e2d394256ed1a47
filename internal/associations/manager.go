package associations

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/ratemymovie/internal/common"
	"github.com/dmitrijs2005/ratemymovie/internal/logging"
	"github.com/dmitrijs2005/ratemymovie/internal/models"
	"github.com/dmitrijs2005/ratemymovie/internal/session"
)

// now is a test seam.
var now = time.Now

// Store is the durable side of the manager, implemented by Repository.
type Store interface {
	ListForUser(ctx context.Context, userID string) []models.RatingAssociation
	Upsert(ctx context.Context, a models.RatingAssociation) error
	Remove(ctx context.Context, userID string, movieID int) error
}

// SessionSource is what the manager needs from session.Manager.
type SessionSource interface {
	Account() *models.Account
	Subscribe(fn session.Listener)
}

// Manager keeps an in-memory copy of the signed-in user's associations.
// The copy is reloaded after every mutation and on sign-in, and dropped
// on sign-out. Lookups read only the copy, so they can be stale relative
// to writers in other processes.
type Manager struct {
	store Store
	log   logging.Logger

	mu      sync.RWMutex
	userID  string
	cache   []models.RatingAssociation
	loading bool
}

func NewManager(store Store, log logging.Logger) *Manager {
	return &Manager{store: store, log: logging.OrNop(log).With("component", "movies")}
}

// Attach follows s: the current account is loaded now and every later
// transition is applied through OnSessionChange.
func (m *Manager) Attach(ctx context.Context, s SessionSource) {
	s.Subscribe(m.OnSessionChange)
	m.OnSessionChange(ctx, s.Account())
}

// OnSessionChange reloads the cache for acc, or clears it without I/O when
// acc is nil.
func (m *Manager) OnSessionChange(ctx context.Context, acc *models.Account) {
	m.mu.Lock()
	if acc == nil {
		m.userID = ""
		m.cache = nil
		m.mu.Unlock()
		return
	}
	m.userID = acc.ID
	m.mu.Unlock()

	m.reload(ctx)
}

func (m *Manager) currentUser() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.userID == "" {
		return "", fmt.Errorf("user not signed in: %w", common.ErrUnauthenticated)
	}
	return m.userID, nil
}

func (m *Manager) reload(ctx context.Context) {
	m.mu.Lock()
	userID := m.userID
	m.loading = true
	m.mu.Unlock()

	var list []models.RatingAssociation
	if userID != "" {
		list = m.store.ListForUser(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	// drop the result if the session changed while loading
	if m.userID == userID {
		m.cache = list
	}
}

// AddMovie rates movie for the signed-in user, replacing any earlier rating.
func (m *Manager) AddMovie(ctx context.Context, movie models.MovieSummary, rating float64) error {
	userID, err := m.currentUser()
	if err != nil {
		return err
	}

	a := models.RatingAssociation{
		UserID:     userID,
		MovieID:    movie.ID,
		UserRating: rating,
		Watched:    true,
		WatchedAt:  now().UTC().Format(time.RFC3339Nano),
		MovieData:  movie,
	}
	if err := m.store.Upsert(ctx, a); err != nil {
		m.log.Error(ctx, "failed to add movie", "movie_id", movie.ID, "error", err)
		return err
	}
	m.reload(ctx)
	return nil
}

func (m *Manager) RemoveMovie(ctx context.Context, movieID int) error {
	userID, err := m.currentUser()
	if err != nil {
		return err
	}
	if err := m.store.Remove(ctx, userID, movieID); err != nil {
		m.log.Error(ctx, "failed to remove movie", "movie_id", movieID, "error", err)
		return err
	}
	m.reload(ctx)
	return nil
}

// UpdateRating changes the rating of a movie already in the cache. A movie
// that is not there is ignored.
func (m *Manager) UpdateRating(ctx context.Context, movieID int, rating float64) error {
	if _, err := m.currentUser(); err != nil {
		return err
	}

	existing, ok := m.find(movieID)
	if !ok {
		return nil
	}

	existing.UserRating = rating
	existing.WatchedAt = now().UTC().Format(time.RFC3339Nano)
	if err := m.store.Upsert(ctx, existing); err != nil {
		m.log.Error(ctx, "failed to update rating", "movie_id", movieID, "error", err)
		return err
	}
	m.reload(ctx)
	return nil
}

func (m *Manager) HasMovie(movieID int) bool {
	_, ok := m.find(movieID)
	return ok
}

// GetRating returns the cached rating of movieID; ok is false when the
// movie is not in the list.
func (m *Manager) GetRating(movieID int) (rating float64, ok bool) {
	a, ok := m.find(movieID)
	if !ok {
		return 0, false
	}
	return a.UserRating, true
}

// Refresh reloads the cache from the store.
func (m *Manager) Refresh(ctx context.Context) {
	m.reload(ctx)
}

// Associations returns a copy of the cache.
func (m *Manager) Associations() []models.RatingAssociation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.cache)
}

func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

func (m *Manager) find(movieID int) (models.RatingAssociation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.cache {
		if a.MovieID == movieID {
			return a, true
		}
	}
	return models.RatingAssociation{}, false
}

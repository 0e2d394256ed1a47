// Package associations stores user-movie ratings and keeps the signed-in
// user's view of them.
//
// All users' associations live in one JSON array under the user_movies key.
// (userId, movieId) identifies an entry; Upsert replaces a matching entry in
// place and appends otherwise, so the relative order of other entries never
// changes.
package associations

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dmitrijs2005/ratemymovie/internal/common"
	"github.com/dmitrijs2005/ratemymovie/internal/kv"
	"github.com/dmitrijs2005/ratemymovie/internal/logging"
	"github.com/dmitrijs2005/ratemymovie/internal/models"
)

const KeyUserMovies = "user_movies"

type Repository struct {
	store kv.Store
	log   logging.Logger

	// guards read-modify-write of the user_movies document
	mu sync.Mutex
}

func NewRepository(store kv.Store, log logging.Logger) *Repository {
	return &Repository{store: store, log: logging.OrNop(log).With("component", "associations")}
}

// ListAll returns every association in insertion order. Read and decode
// failures are logged and yield an empty list.
func (r *Repository) ListAll(ctx context.Context) []models.RatingAssociation {
	all := []models.RatingAssociation{}
	for _, raw := range r.load(ctx) {
		var a models.RatingAssociation
		if err := json.Unmarshal(raw, &a); err != nil {
			r.log.Warn(ctx, "skipping undecodable association", "error", err)
			continue
		}
		all = append(all, a)
	}
	return all
}

// load returns the entries of the document undecoded, so that writes can
// leave entries they do not touch byte for byte as they were.
func (r *Repository) load(ctx context.Context) []json.RawMessage {
	raw, err := r.store.Get(ctx, KeyUserMovies)
	if err != nil {
		r.log.Warn(ctx, "failed to read associations, using empty list", "error", err)
		return nil
	}
	if raw == nil {
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		r.log.Warn(ctx, "failed to decode associations, using empty list", "error", err)
		return nil
	}
	return entries
}

// ListForUser returns userID's associations in insertion order.
func (r *Repository) ListForUser(ctx context.Context, userID string) []models.RatingAssociation {
	return forUser(r.ListAll(ctx), userID)
}

// Has reports whether userID has rated movieID.
func (r *Repository) Has(ctx context.Context, userID string, movieID int) bool {
	for _, a := range r.ListAll(ctx) {
		if a.Matches(userID, movieID) {
			return true
		}
	}
	return false
}

func (r *Repository) Upsert(ctx context.Context, a models.RatingAssociation) error {
	entry, err := json.Marshal(a)
	if err != nil {
		return common.StorageError("encode association", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(ctx, upsert(r.load(ctx), a.UserID, a.MovieID, entry))
}

// Remove deletes every entry for (userID, movieID).
func (r *Repository) Remove(ctx context.Context, userID string, movieID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(ctx, remove(r.load(ctx), userID, movieID))
}

func (r *Repository) save(ctx context.Context, entries []json.RawMessage) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return common.StorageError("encode associations", err)
	}
	if err := r.store.Set(ctx, KeyUserMovies, data); err != nil {
		r.log.Error(ctx, "failed to save associations", "error", err)
		return common.StorageError("save associations", err)
	}
	return nil
}

// entryKey is the identity of a stored entry.
type entryKey struct {
	UserID  string `json:"userId"`
	MovieID int    `json:"movieId"`
}

func matches(raw json.RawMessage, userID string, movieID int) bool {
	var k entryKey
	if err := json.Unmarshal(raw, &k); err != nil {
		return false
	}
	return k.UserID == userID && k.MovieID == movieID
}

// upsert returns a copy of prior with entry replacing the one for the same
// user and movie, or appended when there is none.
func upsert(prior []json.RawMessage, userID string, movieID int, entry json.RawMessage) []json.RawMessage {
	next := make([]json.RawMessage, 0, len(prior)+1)
	next = append(next, prior...)
	for i := range next {
		if matches(next[i], userID, movieID) {
			next[i] = entry
			return next
		}
	}
	return append(next, entry)
}

// remove returns prior without the entries for userID and movieID.
func remove(prior []json.RawMessage, userID string, movieID int) []json.RawMessage {
	next := make([]json.RawMessage, 0, len(prior))
	for _, raw := range prior {
		if !matches(raw, userID, movieID) {
			next = append(next, raw)
		}
	}
	return next
}

func forUser(all []models.RatingAssociation, userID string) []models.RatingAssociation {
	out := make([]models.RatingAssociation, 0)
	for _, a := range all {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out
}

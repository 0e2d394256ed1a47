package associations

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dmitrijs2005/ratemymovie/internal/common"
	"github.com/dmitrijs2005/ratemymovie/internal/kv"
	"github.com/dmitrijs2005/ratemymovie/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSetStore struct{ *kv.MemoryStore }

func (failingSetStore) Set(context.Context, string, []byte) error { return errors.New("read-only") }

func assoc(user string, movie int, rating float64) models.RatingAssociation {
	poster := "/p.jpg"
	return models.RatingAssociation{
		UserID:     user,
		MovieID:    movie,
		UserRating: rating,
		Watched:    true,
		WatchedAt:  "2024-01-01T00:00:00Z",
		MovieData:  models.MovieSummary{ID: movie, Title: "Movie", PosterPath: &poster},
	}
}

// Property 4: what goes in comes back out, and removal sticks.
func TestRepository_UpsertListRemoveRoundTrip(t *testing.T) {
	r := NewRepository(kv.NewMemoryStore(), nil)
	ctx := context.Background()
	a := assoc("u1", 42, 8)

	require.NoError(t, r.Upsert(ctx, a))
	got := r.ListForUser(ctx, "u1")
	require.Len(t, got, 1)
	assert.Empty(t, cmp.Diff(a, got[0]))
	assert.True(t, r.Has(ctx, "u1", 42))

	require.NoError(t, r.Remove(ctx, "u1", 42))
	assert.Empty(t, r.ListForUser(ctx, "u1"))
	assert.False(t, r.Has(ctx, "u1", 42))
}

func TestRepository_UpsertReplacesInPlace(t *testing.T) {
	r := NewRepository(kv.NewMemoryStore(), nil)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, assoc("u1", 1, 5)))
	require.NoError(t, r.Upsert(ctx, assoc("u2", 1, 6)))
	require.NoError(t, r.Upsert(ctx, assoc("u1", 2, 7)))
	require.NoError(t, r.Upsert(ctx, assoc("u1", 1, 9)))

	all := r.ListAll(ctx)
	require.Len(t, all, 3)
	assert.Equal(t, []float64{9, 6, 7}, []float64{all[0].UserRating, all[1].UserRating, all[2].UserRating})
	assert.Equal(t, "u2", all[1].UserID)
}

func TestRepository_ListForUserFiltersAndKeepsOrder(t *testing.T) {
	r := NewRepository(kv.NewMemoryStore(), nil)
	ctx := context.Background()
	for _, a := range []models.RatingAssociation{assoc("u1", 3, 1), assoc("u2", 4, 2), assoc("u1", 1, 3)} {
		require.NoError(t, r.Upsert(ctx, a))
	}

	got := r.ListForUser(ctx, "u1")
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].MovieID)
	assert.Equal(t, 1, got[1].MovieID)

	assert.NotNil(t, r.ListForUser(ctx, "nobody"))
	assert.Empty(t, r.ListForUser(ctx, "nobody"))
}

func TestRepository_RemoveOnlyTouchesPair(t *testing.T) {
	r := NewRepository(kv.NewMemoryStore(), nil)
	ctx := context.Background()
	require.NoError(t, r.Upsert(ctx, assoc("u1", 1, 5)))
	require.NoError(t, r.Upsert(ctx, assoc("u2", 1, 5)))

	require.NoError(t, r.Remove(ctx, "u1", 1))
	require.NoError(t, r.Remove(ctx, "u1", 99))

	all := r.ListAll(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "u2", all[0].UserID)
}

func TestRepository_CorruptDocumentReadsEmpty(t *testing.T) {
	s := kv.NewMemoryStore()
	require.NoError(t, s.Set(context.Background(), KeyUserMovies, []byte("garbage")))
	r := NewRepository(s, nil)

	assert.Empty(t, r.ListAll(context.Background()))
}

func TestRepository_WriteFailurePropagates(t *testing.T) {
	r := NewRepository(failingSetStore{kv.NewMemoryStore()}, nil)
	ctx := context.Background()

	assert.ErrorIs(t, r.Upsert(ctx, assoc("u1", 1, 5)), common.ErrStorage)
	assert.ErrorIs(t, r.Remove(ctx, "u1", 1), common.ErrStorage)
}

func TestRepository_PersistsUnderUserMoviesKey(t *testing.T) {
	inner := kv.NewMemoryStore()
	r := NewRepository(kv.Namespaced(inner, kv.DefaultNamespace), nil)
	require.NoError(t, r.Upsert(context.Background(), assoc("u1", 42, 8)))

	raw, err := inner.Get(context.Background(), "@rate_my_movie:user_movies")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"movieId":42`)
	assert.Contains(t, string(raw), `"userId":"u1"`)
}

func mustRaw(t *testing.T, a models.RatingAssociation) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(a)
	require.NoError(t, err)
	return b
}

func TestUpsertRemove_PureFunctions(t *testing.T) {
	prior := []json.RawMessage{mustRaw(t, assoc("u1", 1, 5))}
	before := string(prior[0])

	next := upsert(prior, "u1", 1, mustRaw(t, assoc("u1", 1, 10)))
	assert.Equal(t, before, string(prior[0]), "prior snapshot must not change")
	assert.Contains(t, string(next[0]), `"userRating":10`)

	next = upsert(prior, "u1", 2, mustRaw(t, assoc("u1", 2, 3)))
	assert.Len(t, prior, 1)
	assert.Len(t, next, 2)

	removed := remove(next, "u1", 1)
	assert.Len(t, next, 2)
	require.Len(t, removed, 1)
	assert.Contains(t, string(removed[0]), `"movieId":2`)
}

func TestRepository_UpsertLeavesOtherUsersEntriesUntouched(t *testing.T) {
	s := kv.NewMemoryStore()
	ctx := context.Background()
	bob := `{"userId":"bob","movieId":7,"userRating":6,"watched":true,"watchedAt":"2023-05-01T00:00:00Z",` +
		`"movieData":{"id":7,"title":"Old","overview":"","poster_path":null,"release_date":"1999-01-01",` +
		`"vote_average":7.1,"genre_ids":[18,35],"adult":false}}`
	require.NoError(t, s.Set(ctx, KeyUserMovies, []byte("["+bob+"]")))
	r := NewRepository(s, nil)

	require.NoError(t, r.Upsert(ctx, assoc("alice", 42, 8)))
	require.NoError(t, r.Remove(ctx, "alice", 99))

	raw, err := s.Get(ctx, KeyUserMovies)
	require.NoError(t, err)
	var entries []json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 2)
	assert.JSONEq(t, bob, string(entries[0]))
	assert.Contains(t, string(entries[1]), `"userId":"alice"`)
}

func TestRepository_ReplacedEntryKeepsUnknownMovieFields(t *testing.T) {
	r := NewRepository(kv.NewMemoryStore(), nil)
	ctx := context.Background()
	var movie models.MovieSummary
	require.NoError(t, json.Unmarshal([]byte(`{"id":5,"title":"T","overview":"","runtime":101}`), &movie))

	a := assoc("u1", 5, 4)
	a.MovieData = movie
	require.NoError(t, r.Upsert(ctx, a))
	a.UserRating = 9
	require.NoError(t, r.Upsert(ctx, a))

	got := r.ListForUser(ctx, "u1")
	require.Len(t, got, 1)
	assert.Equal(t, 9.0, got[0].UserRating)
	assert.JSONEq(t, "101", string(got[0].MovieData.Extra["runtime"]))

	b, err := json.Marshal(got[0].MovieData)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"overview":""`)
}

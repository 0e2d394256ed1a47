package associations

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/ratemymovie/internal/common"
	"github.com/dmitrijs2005/ratemymovie/internal/identity"
	"github.com/dmitrijs2005/ratemymovie/internal/kv"
	"github.com/dmitrijs2005/ratemymovie/internal/models"
	"github.com/dmitrijs2005/ratemymovie/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	sess   *session.Manager
	movies *Manager
	repo   *Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := kv.Namespaced(kv.NewMemoryStore(), kv.DefaultNamespace)
	ctx := context.Background()

	sess := session.NewManager(identity.NewRepository(store, nil), nil, nil)
	sess.Init(ctx)

	repo := NewRepository(store, nil)
	movies := NewManager(repo, nil)
	movies.Attach(ctx, sess)
	return &fixture{sess: sess, movies: movies, repo: repo}
}

func stubClock(t *testing.T, times ...time.Time) {
	t.Helper()
	orig := now
	i := 0
	now = func() time.Time {
		tm := times[min(i, len(times)-1)]
		i++
		return tm
	}
	t.Cleanup(func() { now = orig })
}

func movie(id int, title string) models.MovieSummary {
	return models.MovieSummary{ID: id, Title: title}
}

func TestManager_MutationsRequireSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.movies.AddMovie(ctx, movie(1, "A"), 5), common.ErrUnauthenticated)
	assert.ErrorIs(t, f.movies.RemoveMovie(ctx, 1), common.ErrUnauthenticated)
	assert.ErrorIs(t, f.movies.UpdateRating(ctx, 1, 5), common.ErrUnauthenticated)
	assert.Empty(t, f.repo.ListAll(ctx))
}

// Property 2: adding the same movie twice keeps one entry with the latest values.
func TestManager_AddMovieTwiceUpserts(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	stubClock(t, t1, t2)

	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sess.SignUp(ctx, "Alice", "alice@x.com", "secret1", nil))

	require.NoError(t, f.movies.AddMovie(ctx, movie(42, "X"), 8))
	require.NoError(t, f.movies.AddMovie(ctx, movie(42, "X"), 6))

	userID := f.sess.Account().ID
	stored := f.repo.ListForUser(ctx, userID)
	require.Len(t, stored, 1)
	assert.Equal(t, 6.0, stored[0].UserRating)
	assert.Equal(t, "2024-02-01T00:00:00Z", stored[0].WatchedAt)
	assert.True(t, stored[0].Watched)
	assert.Equal(t, stored, f.movies.Associations())
}

// Property 3: signing out empties the view, signing back in restores it.
func TestManager_SessionScopedVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sess.SignUp(ctx, "Alice", "alice@x.com", "secret1", nil))
	require.NoError(t, f.movies.AddMovie(ctx, movie(1, "A"), 7))
	require.NoError(t, f.movies.AddMovie(ctx, movie(2, "B"), 9))
	before := f.movies.Associations()
	require.Len(t, before, 2)

	require.NoError(t, f.sess.SignOut(ctx))
	assert.Empty(t, f.movies.Associations())
	assert.False(t, f.movies.HasMovie(1))

	require.NoError(t, f.sess.SignIn(ctx, "alice@x.com", "secret1"))
	assert.Equal(t, before, f.movies.Associations())
	assert.Equal(t, f.repo.ListForUser(ctx, f.sess.Account().ID), f.movies.Associations())
}

func TestManager_UsersDoNotSeeEachOther(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sess.SignUp(ctx, "Alice", "alice@x.com", "secret1", nil))
	require.NoError(t, f.movies.AddMovie(ctx, movie(1, "A"), 7))
	require.NoError(t, f.sess.SignOut(ctx))

	require.NoError(t, f.sess.SignUp(ctx, "Bob", "bob@x.com", "secret2", nil))
	assert.Empty(t, f.movies.Associations())
	require.NoError(t, f.movies.AddMovie(ctx, movie(1, "A"), 3))

	rating, ok := f.movies.GetRating(1)
	require.True(t, ok)
	assert.Equal(t, 3.0, rating)
	assert.Len(t, f.repo.ListAll(ctx), 2)
}

// Property 6: the end-to-end rating scenario.
func TestManager_AliceScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.sess.SignUp(ctx, "Alice", "alice@x.com", "secret1", nil))
	require.NoError(t, f.sess.SignOut(ctx))
	require.NoError(t, f.sess.SignIn(ctx, "alice@x.com", "secret1"))

	require.NoError(t, f.movies.AddMovie(ctx, movie(42, "X"), 8))
	assert.True(t, f.movies.HasMovie(42))
	rating, ok := f.movies.GetRating(42)
	require.True(t, ok)
	assert.Equal(t, 8.0, rating)

	require.NoError(t, f.movies.UpdateRating(ctx, 42, 5))
	rating, ok = f.movies.GetRating(42)
	require.True(t, ok)
	assert.Equal(t, 5.0, rating)

	require.NoError(t, f.movies.RemoveMovie(ctx, 42))
	assert.False(t, f.movies.HasMovie(42))
	_, ok = f.movies.GetRating(42)
	assert.False(t, ok)
}

func TestManager_UpdateRatingUnknownMovieIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sess.SignUp(ctx, "Alice", "alice@x.com", "secret1", nil))

	require.NoError(t, f.movies.UpdateRating(ctx, 777, 5))
	assert.Empty(t, f.repo.ListAll(ctx))
}

func TestManager_UpdateRatingKeepsMovieData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sess.SignUp(ctx, "Alice", "alice@x.com", "secret1", nil))
	m := models.MovieSummary{ID: 5, Title: "Heat", ReleaseDate: "1995-12-15", VoteAverage: 7.9}
	require.NoError(t, f.movies.AddMovie(ctx, m, 9))

	require.NoError(t, f.movies.UpdateRating(ctx, 5, 10))
	got := f.movies.Associations()
	require.Len(t, got, 1)
	assert.Equal(t, m, got[0].MovieData)
	assert.Equal(t, 10.0, got[0].UserRating)
}

func TestManager_RefreshPicksUpExternalWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sess.SignUp(ctx, "Alice", "alice@x.com", "secret1", nil))
	userID := f.sess.Account().ID

	require.NoError(t, f.repo.Upsert(ctx, assoc(userID, 9, 4)))
	assert.False(t, f.movies.HasMovie(9), "cache is only reloaded on demand")

	f.movies.Refresh(ctx)
	assert.True(t, f.movies.HasMovie(9))
	assert.False(t, f.movies.Loading())
}

func TestManager_AttachPicksUpExistingSession(t *testing.T) {
	store := kv.NewMemoryStore()
	ctx := context.Background()

	sess := session.NewManager(identity.NewRepository(store, nil), nil, nil)
	sess.Init(ctx)
	require.NoError(t, sess.SignUp(ctx, "Alice", "alice@x.com", "secret1", nil))
	repo := NewRepository(store, nil)
	require.NoError(t, repo.Upsert(ctx, assoc(sess.Account().ID, 1, 8)))

	movies := NewManager(repo, nil)
	movies.Attach(ctx, sess)
	assert.True(t, movies.HasMovie(1))
}

func TestManager_SortedAndStats(t *testing.T) {
	stubClock(t,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	)
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sess.SignUp(ctx, "Alice", "alice@x.com", "secret1", nil))

	assert.Equal(t, Stats{}, f.movies.Stats())

	require.NoError(t, f.movies.AddMovie(ctx, movie(1, "casablanca"), 9))
	require.NoError(t, f.movies.AddMovie(ctx, movie(2, "Alien"), 6))
	require.NoError(t, f.movies.AddMovie(ctx, movie(3, "Brazil"), 8))

	ids := func(list []models.RatingAssociation) []int {
		out := make([]int, 0, len(list))
		for _, a := range list {
			out = append(out, a.MovieID)
		}
		return out
	}

	assert.Equal(t, []int{2, 3, 1}, ids(f.movies.Sorted(SortByDate)))
	assert.Equal(t, []int{1, 3, 2}, ids(f.movies.Sorted(SortByRating)))
	assert.Equal(t, []int{2, 3, 1}, ids(f.movies.Sorted(SortByTitle)))
	assert.Equal(t, []int{1, 2, 3}, ids(f.movies.Associations()), "sorting must not reorder the cache")

	st := f.movies.Stats()
	assert.Equal(t, 3, st.Count)
	assert.InDelta(t, 23.0/3, st.AverageRating, 1e-9)
}

func TestParseSortOrder(t *testing.T) {
	o, err := ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortByDate, o)

	o, err = ParseSortOrder("Rating")
	require.NoError(t, err)
	assert.Equal(t, SortByRating, o)

	_, err = ParseSortOrder("year")
	assert.Error(t, err)
}

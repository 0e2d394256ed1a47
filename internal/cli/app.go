package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrijs2005/ratemymovie/internal/associations"
	"github.com/dmitrijs2005/ratemymovie/internal/avatar"
	"github.com/dmitrijs2005/ratemymovie/internal/catalog"
	"github.com/dmitrijs2005/ratemymovie/internal/config"
	"github.com/dmitrijs2005/ratemymovie/internal/identity"
	"github.com/dmitrijs2005/ratemymovie/internal/kv"
	"github.com/dmitrijs2005/ratemymovie/internal/logging"
	"github.com/dmitrijs2005/ratemymovie/internal/models"
	"github.com/dmitrijs2005/ratemymovie/internal/password"
	"github.com/dmitrijs2005/ratemymovie/internal/session"
)

// sessionService is the part of session.Manager the commands use.
type sessionService interface {
	Account() *models.Account
	IsAuthenticated() bool
	Init(ctx context.Context)
	SignIn(ctx context.Context, email, pass string) error
	SignUp(ctx context.Context, name, email, pass string, profileImage *string) error
	SignOut(ctx context.Context) error
	UpdateProfile(ctx context.Context, updated models.Account) error
}

// movieService is the part of associations.Manager the commands use.
type movieService interface {
	AddMovie(ctx context.Context, movie models.MovieSummary, rating float64) error
	RemoveMovie(ctx context.Context, movieID int) error
	UpdateRating(ctx context.Context, movieID int, rating float64) error
	HasMovie(movieID int) bool
	GetRating(movieID int) (float64, bool)
	Sorted(o associations.SortOrder) []models.RatingAssociation
	Stats() associations.Stats
}

type App struct {
	config   *config.Config
	log      logging.Logger
	session  sessionService
	movies   movieService
	catalog  catalog.Client
	avatars  avatar.Store
	store    kv.Store
	registry *prometheus.Registry
	closer   io.Closer
	reader   *bufio.Reader
	out      io.Writer
}

// newAvatarStore is a test seam.
var newAvatarStore = func(ctx context.Context, c config.AvatarConfig) (avatar.Store, error) {
	if c.S3Bucket == "" {
		return avatar.NewLocalStore(c.Dir), nil
	}
	return avatar.NewS3Store(ctx, avatar.S3Config{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		BaseEndpoint: c.S3Endpoint,
	})
}

// NewApp opens the store and builds every component from c. The persisted
// session is restored before it returns. Close releases the store.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	log = logging.OrNop(log)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	store, closer, err := kv.Open(ctx, kv.Options{
		Driver:     c.StoreDriver,
		DSN:        c.StoreDSN,
		Namespace:  c.Namespace,
		Registerer: registry,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	hasher, err := password.New(c.PasswordHashing)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	avatars, err := newAvatarStore(ctx, c.Avatar)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	sess := session.NewManager(identity.NewRepository(store, log), hasher, log)
	movies := associations.NewManager(associations.NewRepository(store, log), log)

	sess.Init(ctx)
	movies.Attach(ctx, sess)

	tmdb := catalog.NewTMDB(catalog.TMDBConfig{
		BaseURL:     c.Catalog.BaseURL,
		APIKey:      c.Catalog.APIKey,
		BearerToken: c.Catalog.BearerToken,
		Language:    c.Catalog.Language,
		Timeout:     c.Catalog.Timeout,
	})

	return &App{
		config:   c,
		log:      log,
		session:  sess,
		movies:   movies,
		catalog:  tmdb,
		avatars:  avatars,
		store:    store,
		registry: registry,
		closer:   closer,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Run starts the metrics endpoint when configured and blocks in the REPL
// until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	if a.config != nil && a.config.MetricsAddr != "" {
		go func() {
			if err := serveMetrics(ctx, a.config.MetricsAddr, a.registry); err != nil {
				a.log.Error(ctx, "metrics server stopped", "error", err)
			}
		}()
	}

	printlnFn("Welcome to RateMyMovie (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) status() string {
	if acc := a.session.Account(); acc != nil {
		return acc.Name
	}
	return ""
}

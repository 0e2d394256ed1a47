package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/ratemymovie/internal/associations"
	"github.com/dmitrijs2005/ratemymovie/internal/catalog"
	"github.com/dmitrijs2005/ratemymovie/internal/common"
	"github.com/dmitrijs2005/ratemymovie/internal/models"
	"github.com/dmitrijs2005/ratemymovie/internal/validate"
)

// Search looks the catalog up. A trailing number is taken as the page when
// it is not the only argument.
func (a *App) Search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("search <query> [page]")
	}

	page := 1
	if len(args) > 1 {
		if n, err := strconv.Atoi(args[len(args)-1]); err == nil {
			page = n
			args = args[:len(args)-1]
		}
	}

	res, err := a.catalog.Search(ctx, strings.Join(args, " "), page)
	if err != nil {
		return err
	}
	a.printPage(res)
	return nil
}

func (a *App) Popular(ctx context.Context, args []string) error {
	page := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return usageError("popular [page]")
		}
		page = n
	}

	res, err := a.catalog.Popular(ctx, page)
	if err != nil {
		return err
	}
	a.printPage(res)
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("show <movieId>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return usageError("show <movieId>")
	}

	m, err := a.catalog.Details(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (%s)\n", m.Title, yearOrUnknown(*m))
	if m.OriginalTitle != "" && m.OriginalTitle != m.Title {
		fmt.Fprintf(a.out, "Original title: %s\n", m.OriginalTitle)
	}
	fmt.Fprintf(a.out, "TMDB rating: %.1f (%d votes)\n", m.VoteAverage, m.VoteCount)
	if r, ok := a.movies.GetRating(m.ID); ok {
		fmt.Fprintf(a.out, "Your rating: %.1f\n", r)
	}
	fmt.Fprintf(a.out, "Poster: %s\n", catalog.ImageURL(m.PosterPath, catalog.SizeW500))
	if m.Overview != "" {
		fmt.Fprintf(a.out, "\n%s\n", m.Overview)
	}
	return nil
}

// Add fetches the movie from the catalog and rates it. An existing rating
// for the same movie is replaced.
func (a *App) Add(ctx context.Context, args []string) error {
	id, rating, err := parseIDRating(args, "add <movieId> <rating>")
	if err != nil {
		return err
	}

	m, err := a.catalog.Details(ctx, id)
	if err != nil {
		return err
	}
	if err := a.movies.AddMovie(ctx, *m, rating); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Added %q with rating %.1f\n", m.Title, rating)
	return nil
}

func (a *App) Rate(ctx context.Context, args []string) error {
	id, rating, err := parseIDRating(args, "rate <movieId> <rating>")
	if err != nil {
		return err
	}
	if !a.movies.HasMovie(id) {
		return fmt.Errorf("movie %d is not in your list: %w", id, common.ErrNotFound)
	}
	if err := a.movies.UpdateRating(ctx, id, rating); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Rating updated to %.1f\n", rating)
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("remove <movieId>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return usageError("remove <movieId>")
	}
	if !a.movies.HasMovie(id) {
		return fmt.Errorf("movie %d is not in your list: %w", id, common.ErrNotFound)
	}
	if err := a.movies.RemoveMovie(ctx, id); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Removed")
	return nil
}

func (a *App) List(_ context.Context, args []string) error {
	order := associations.SortByDate
	if len(args) > 0 {
		o, err := associations.ParseSortOrder(args[0])
		if err != nil {
			return usageError("list [date|rating|title]")
		}
		order = o
	}

	list := a.movies.Sorted(order)
	if len(list) == 0 {
		fmt.Fprintln(a.out, "Your list is empty")
		return nil
	}
	for _, r := range list {
		fmt.Fprintf(a.out, "%8d  %-40s %6s  %4.1f  %s\n",
			r.MovieID, r.MovieData.Title, yearOrUnknown(r.MovieData), r.UserRating, watchedDate(r.WatchedAt))
	}
	return nil
}

func (a *App) Stats(context.Context) error {
	s := a.movies.Stats()
	fmt.Fprintf(a.out, "Movies rated: %d\n", s.Count)
	if s.Count > 0 {
		fmt.Fprintf(a.out, "Average rating: %.1f\n", s.AverageRating)
	}
	return nil
}

func (a *App) printPage(p *models.MoviePage) {
	if len(p.Results) == 0 {
		fmt.Fprintln(a.out, "No movies found")
		return
	}
	for _, m := range p.Results {
		mark := ""
		if r, ok := a.movies.GetRating(m.ID); ok {
			mark = fmt.Sprintf("  [yours: %.1f]", r)
		}
		fmt.Fprintf(a.out, "%8d  %-40s %6s  %4.1f%s\n", m.ID, m.Title, yearOrUnknown(m), m.VoteAverage, mark)
	}
	fmt.Fprintf(a.out, "Page %d of %d (%d results)\n", p.Page, p.TotalPages, p.TotalResults)
}

// parseIDRating reads "<movieId> <rating>" and checks the rating range.
func parseIDRating(args []string, usage string) (int, float64, error) {
	if len(args) != 2 {
		return 0, 0, usageError(usage)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, usageError(usage)
	}
	rating, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, usageError(usage)
	}
	if err := validate.Rating(rating); err != nil {
		return 0, 0, err
	}
	return id, rating, nil
}

func yearOrUnknown(m models.MovieSummary) string {
	if y := m.Year(); y != "" {
		return y
	}
	return "n/a"
}

// watchedDate trims an RFC 3339 timestamp to its date.
func watchedDate(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}

// Package catalog looks movies up in TMDB.
//
// The core only depends on the Client interface. Every failure, whether a
// transport error, a non-2xx answer or an undecodable body, is returned as a
// *RemoteLookupError that matches common.ErrRemoteLookup. Nothing is
// retried.
package catalog

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/ratemymovie/internal/common"
	"github.com/dmitrijs2005/ratemymovie/internal/models"
)

type Client interface {
	Search(ctx context.Context, query string, page int) (*models.MoviePage, error)
	Popular(ctx context.Context, page int) (*models.MoviePage, error)
	Details(ctx context.Context, movieID int) (*models.MovieSummary, error)
}

// RemoteLookupError describes a failed catalog request. Status is the HTTP
// status when the server answered, zero otherwise.
type RemoteLookupError struct {
	Op     string
	Status int
	Err    error
}

func (e *RemoteLookupError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *RemoteLookupError) Unwrap() error { return e.Err }

func (e *RemoteLookupError) Is(target error) bool { return target == common.ErrRemoteLookup }

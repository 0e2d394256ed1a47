package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/ratemymovie/internal/common"
)

func (a *App) Profile(context.Context) error {
	acc := a.session.Account()
	if acc == nil {
		return common.ErrUnauthenticated
	}

	fmt.Fprintf(a.out, "Name:    %s\n", acc.Name)
	fmt.Fprintf(a.out, "Email:   %s\n", acc.Email)
	fmt.Fprintf(a.out, "Member since: %s\n", watchedDate(acc.CreatedAt))
	if acc.ProfileImage != nil {
		fmt.Fprintf(a.out, "Avatar:  %s\n", *acc.ProfileImage)
	}
	s := a.movies.Stats()
	fmt.Fprintf(a.out, "Rated:   %d movies\n", s.Count)
	if s.Count > 0 {
		fmt.Fprintf(a.out, "Average rating: %.1f\n", s.AverageRating)
	}
	return nil
}

// Avatar uploads the image at path and makes it the profile image.
func (a *App) Avatar(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("avatar <path>")
	}
	acc := a.session.Account()
	if acc == nil {
		return common.ErrUnauthenticated
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	uri, err := a.avatars.Put(ctx, acc.ID, filepath.Base(args[0]), f)
	if err != nil {
		return err
	}
	if err := a.session.UpdateProfile(ctx, acc.WithProfileImage(uri)); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Avatar updated: %s\n", uri)
	return nil
}

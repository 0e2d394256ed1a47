package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/ratemymovie/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a name, email, password (twice) and an optional
// profile image, then creates an account. On success the new account is
// signed in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	pw, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	fmt.Fprintln(a.out, "Confirm password")
	confirm, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(pw, confirm) {
		return &common.ValidationError{Field: "password", Reason: "passwords do not match"}
	}

	imgPath, err := getSimpleText(a.reader, "Profile image path (empty to skip)", a.out)
	if err != nil {
		return err
	}

	var img *os.File
	if imgPath = strings.TrimSpace(imgPath); imgPath != "" {
		if img, err = os.Open(imgPath); err != nil {
			return fmt.Errorf("profile image: %w", err)
		}
		defer img.Close()
	}

	if err := a.session.SignUp(ctx, name, email, string(pw), nil); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", name)

	if img == nil {
		return nil
	}
	acc := a.session.Account()
	if acc == nil {
		return common.ErrUnauthenticated
	}
	uri, err := a.avatars.Put(ctx, acc.ID, filepath.Base(imgPath), img)
	if err != nil {
		return fmt.Errorf("account created, profile image not set: %w", err)
	}
	if err := a.session.UpdateProfile(ctx, acc.WithProfileImage(uri)); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Avatar updated: %s\n", uri)
	return nil
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	pw, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if err := a.session.SignIn(ctx, email, string(pw)); err != nil {
		return err
	}

	if acc := a.session.Account(); acc != nil {
		fmt.Fprintf(a.out, "Signed in as %s\n", acc.Name)
	}
	return nil
}

// Logout ends the persisted session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.SignOut(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

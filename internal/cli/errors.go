package cli

import (
	"errors"

	"github.com/dmitrijs2005/ratemymovie/internal/common"
)

// usageError carries the expected syntax of a command.
type usageError string

func (u usageError) Error() string { return "Usage: " + string(u) }

// describe turns a command error into the line shown to the user.
func describe(err error) string {
	var (
		usage usageError
		verr  *common.ValidationError
	)
	switch {
	case errors.As(err, &usage):
		return usage.Error()
	case errors.As(err, &verr):
		return "Invalid " + verr.Field + ": " + verr.Reason
	case errors.Is(err, common.ErrCredential):
		return "Wrong email or password"
	case errors.Is(err, common.ErrNotFound):
		return "Not found: " + err.Error()
	case errors.Is(err, common.ErrConflict):
		return "Already exists: " + err.Error()
	case errors.Is(err, common.ErrUnauthenticated):
		return "Please login first"
	case errors.Is(err, common.ErrRemoteLookup):
		return "Catalog unavailable: " + err.Error()
	case errors.Is(err, common.ErrStorage):
		return "Storage error: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}

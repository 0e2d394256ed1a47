// Package avatar stores profile images and returns the URI that goes into
// Account.ProfileImage.
package avatar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/ratemymovie/internal/common"
)

// MaxSize caps accepted images.
const MaxSize = 5 << 20

var (
	ErrTooLarge       = errors.New("image too large")
	ErrUnsupportedExt = errors.New("unsupported image type")
	ErrInvalidUser    = errors.New("invalid user id")
)

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

type Store interface {
	Put(ctx context.Context, userID, filename string, body io.Reader) (uri string, err error)
}

// objectKey returns "avatars/<userID>/<random><ext>".
// userID must be a single path segment.
func objectKey(userID, filename string) (string, error) {
	if userID == "" || strings.ContainsAny(userID, `/\`) || strings.Contains(userID, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidUser, userID)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedExt, ext)
	}
	suffix, err := common.MakeRandHexString(8)
	if err != nil {
		return "", err
	}
	return "avatars/" + userID + "/" + suffix + ext, nil
}

// readLimited reads body fully, failing with ErrTooLarge past MaxSize.
func readLimited(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, MaxSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxSize {
		return nil, ErrTooLarge
	}
	return data, nil
}

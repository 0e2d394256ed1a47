package catalog

import "strings"

const (
	ImageBaseURL     = "https://image.tmdb.org/t/p"
	PlaceholderImage = "https://via.placeholder.com/500x750?text=Sem+Imagem"
)

type ImageSize string

const (
	SizeW185     ImageSize = "w185"
	SizeW342     ImageSize = "w342"
	SizeW500     ImageSize = "w500"
	SizeOriginal ImageSize = "original"
)

// ImageURL builds the CDN URL of a poster or backdrop path. A missing path
// yields the placeholder image; an unknown size falls back to w500.
func ImageURL(path *string, size ImageSize) string {
	if path == nil || *path == "" {
		return PlaceholderImage
	}
	switch size {
	case SizeW185, SizeW342, SizeW500, SizeOriginal:
	default:
		size = SizeW500
	}
	p := *path
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return ImageBaseURL + "/" + string(size) + p
}

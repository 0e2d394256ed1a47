package associations

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/ratemymovie/internal/models"
)

type SortOrder string

const (
	SortByDate   SortOrder = "date"
	SortByRating SortOrder = "rating"
	SortByTitle  SortOrder = "title"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(s)); o {
	case SortByDate, SortByRating, SortByTitle:
		return o, nil
	case "":
		return SortByDate, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// Sorted returns the cached associations ordered by o: most recently
// watched first, highest rated first, or by title. Ties keep cache order.
func (m *Manager) Sorted(o SortOrder) []models.RatingAssociation {
	list := m.Associations()
	switch o {
	case SortByDate:
		slices.SortStableFunc(list, func(a, b models.RatingAssociation) int {
			return watchedAt(b).Compare(watchedAt(a))
		})
	case SortByRating:
		slices.SortStableFunc(list, func(a, b models.RatingAssociation) int {
			switch {
			case a.UserRating > b.UserRating:
				return -1
			case a.UserRating < b.UserRating:
				return 1
			}
			return 0
		})
	case SortByTitle:
		slices.SortStableFunc(list, func(a, b models.RatingAssociation) int {
			return strings.Compare(strings.ToLower(a.MovieData.Title), strings.ToLower(b.MovieData.Title))
		})
	}
	return list
}

func watchedAt(a models.RatingAssociation) time.Time {
	t, err := time.Parse(time.RFC3339Nano, a.WatchedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Stats summarizes the signed-in user's list.
type Stats struct {
	Count         int
	AverageRating float64
}

func (m *Manager) Stats() Stats {
	list := m.Associations()
	if len(list) == 0 {
		return Stats{}
	}
	var sum float64
	for _, a := range list {
		sum += a.UserRating
	}
	return Stats{Count: len(list), AverageRating: sum / float64(len(list))}
}

package models

// RatingAssociation is one user's rating of one movie. (UserID, MovieID)
// identifies it.
type RatingAssociation struct {
	UserID     string       `json:"userId"`
	MovieID    int          `json:"movieId"`
	UserRating float64      `json:"userRating"`
	Watched    bool         `json:"watched"`
	WatchedAt  string       `json:"watchedAt"`
	MovieData  MovieSummary `json:"movieData"`
}

// Matches reports whether r belongs to the given user and movie.
func (r RatingAssociation) Matches(userID string, movieID int) bool {
	return r.UserID == userID && r.MovieID == movieID
}

package models

import (
	"bytes"
	"encoding/json"
	"slices"
)

// MovieSummary is a catalog movie as returned by TMDB. It is copied into
// rating associations wholesale: fields without a typed counterpart, such as
// genre_ids or runtime, are kept in Extra and written back unchanged.
type MovieSummary struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	OriginalLanguage string  `json:"original_language"`
	OriginalTitle    string  `json:"original_title"`

	Extra map[string]json.RawMessage `json:"-"`
}

// movieFields has the layout of MovieSummary without its JSON methods.
type movieFields MovieSummary

var movieKeys = map[string]bool{
	"id": true, "title": true, "overview": true, "poster_path": true, "backdrop_path": true,
	"release_date": true, "vote_average": true, "vote_count": true, "popularity": true,
	"original_language": true, "original_title": true,
}

func (m *MovieSummary) UnmarshalJSON(b []byte) error {
	var f movieFields
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	for k := range all {
		if movieKeys[k] {
			delete(all, k)
		}
	}
	if len(all) == 0 {
		all = nil
	}

	*m = MovieSummary(f)
	m.Extra = all
	return nil
}

// MarshalJSON writes the typed fields first, then Extra in key order.
// Extra never overrides a typed field.
func (m MovieSummary) MarshalJSON() ([]byte, error) {
	out, err := json.Marshal(movieFields(m))
	if err != nil {
		return nil, err
	}
	if len(m.Extra) == 0 {
		return out, nil
	}

	keys := make([]string, 0, len(m.Extra))
	for k := range m.Extra {
		if !movieKeys[k] {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	var buf bytes.Buffer
	buf.Write(out[:len(out)-1])
	for _, k := range keys {
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		if err := json.Compact(&buf, m.Extra[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Year returns the first four characters of ReleaseDate, or "" when unknown.
func (m MovieSummary) Year() string {
	if len(m.ReleaseDate) < 4 {
		return ""
	}
	return m.ReleaseDate[:4]
}

// MoviePage is one page of catalog search or listing results.
type MoviePage struct {
	Page         int            `json:"page"`
	Results      []MovieSummary `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

package web

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-web/internal/tmdb"
)

func TestEngineLoad(t *testing.T) {
	require.NoError(t, NewEngine().Load())
}

func TestRenderPages(t *testing.T) {
	engine := NewEngine()
	require.NoError(t, engine.Load())

	avg := 4.0
	base := map[string]any{"Lang": "hu", "UserID": 0}
	with := func(extra map[string]any) map[string]any {
		data := map[string]any{}
		for k, v := range base {
			data[k] = v
		}
		for k, v := range extra {
			data[k] = v
		}
		return data
	}

	movies := []tmdb.Movie{{ID: 550, Title: "Fight Club", PosterPath: "/x.jpg"}}
	details := []tmdb.MovieDetail{{ID: 550, Title: "Fight Club"}}

	tests := []struct {
		name     string
		page     string
		data     map[string]any
		contains string
	}{
		{
			name:     "index popular",
			page:     "index",
			data:     with(map[string]any{"Movies": movies, "Searching": false, "SearchQuery": ""}),
			contains: "Popular movies",
		},
		{
			name:     "index searching",
			page:     "index",
			data:     with(map[string]any{"Movies": movies, "Searching": true, "SearchQuery": "club"}),
			contains: "Results for",
		},
		{
			name:     "index empty list",
			page:     "index",
			data:     with(map[string]any{"Movies": []tmdb.Movie{}, "Searching": false, "SearchQuery": ""}),
			contains: "No movies to show.",
		},
		{
			name:     "search form",
			page:     "search",
			data:     with(map[string]any{"Genres": []tmdb.Genre{{ID: 18, Name: "Drama"}}}),
			contains: "Drama",
		},
		{
			name:     "search results",
			page:     "search_results",
			data:     with(map[string]any{"Results": movies, "SearchQuery": "club"}),
			contains: "Fight Club",
		},
		{
			name: "movie details with average",
			page: "movie_details",
			data: with(map[string]any{
				"Movie": &tmdb.MovieDetail{ID: 550, Title: "Fight Club"},
				"MovieID": 550, "AvgRating": &avg, "NumRatings": 2, "IsFavorite": false,
			}),
			contains: "Average rating: 4.0 (2 ratings)",
		},
		{
			name: "movie details without ratings",
			page: "movie_details",
			data: with(map[string]any{
				"Movie": &tmdb.MovieDetail{ID: 550, Title: "Fight Club"},
				"MovieID": 550, "AvgRating": (*float64)(nil), "NumRatings": 0, "IsFavorite": false,
			}),
			contains: "No ratings yet.",
		},
		{
			name: "movie details unavailable",
			page: "movie_details",
			data: with(map[string]any{
				"Movie": (*tmdb.MovieDetail)(nil), "MovieID": 550,
				"AvgRating": (*float64)(nil), "NumRatings": 0, "IsFavorite": false,
			}),
			contains: "currently unavailable",
		},
		{
			name:     "login",
			page:     "login",
			data:     with(map[string]any{"Next": "/favorites"}),
			contains: `name="next" value="/favorites"`,
		},
		{
			name:     "register",
			page:     "register",
			data:     base,
			contains: "Register",
		},
		{
			name:     "favorites",
			page:     "favorites",
			data:     with(map[string]any{"UserID": 1, "Movies": details}),
			contains: "My favorites",
		},
		{
			name:     "my ratings",
			page:     "my_ratings",
			data:     with(map[string]any{"UserID": 1, "Rated": []map[string]any{}}),
			contains: "not rated any movies",
		},
		{
			name:     "recommendations",
			page:     "recommendations",
			data:     with(map[string]any{"UserID": 1, "Movies": details}),
			contains: "Recommended for you",
		},
		{
			name:     "error",
			page:     "error",
			data:     with(map[string]any{"Message": "boom"}),
			contains: "boom",
		},
		{
			name:     "flash message",
			page:     "index",
			data:     with(map[string]any{"Movies": movies, "Searching": false, "SearchQuery": "", "FlashLevel": "success", "FlashMessage": "Saved!"}),
			contains: "Saved!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			require.NoError(t, engine.Render(&sb, tt.page, tt.data))
			assert.Contains(t, sb.String(), tt.contains)
		})
	}
}

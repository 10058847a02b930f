package tmdb

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// ImageBaseW500 is the TMDB image base for w500 posters.
const ImageBaseW500 = "https://image.tmdb.org/t/p/w500"

// ResolveLanguage maps a session language preference to a TMDB language
// code. Anything other than "en" falls back to Hungarian, the default.
func ResolveLanguage(lang string) string {
	if lang == "en" {
		return "en-US"
	}
	return "hu-HU"
}

// Client is the TMDB API client. Every call injects the API key and the
// caller's resolved language code; neither is ever exposed to the end user.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new TMDB API client.
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// ---- TMDB Response Types ----

// MovieList is a TMDB listing response ("results" envelope).
type MovieList struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Movie is a movie from TMDB listing results.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	Popularity  float64 `json:"popularity"`
	VoteAverage float64 `json:"vote_average"`
	PosterPath  string  `json:"poster_path"`
	GenreIDs    []int   `json:"genre_ids"`
}

// PosterURL returns the full poster URL, or "" when the movie has none.
func (m Movie) PosterURL() string {
	if m.PosterPath == "" {
		return ""
	}
	return ImageBaseW500 + m.PosterPath
}

// MovieDetail is the detailed movie info from TMDB.
type MovieDetail struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	Popularity  float64 `json:"popularity"`
	VoteAverage float64 `json:"vote_average"`
	PosterPath  string  `json:"poster_path"`
	Genres      []Genre `json:"genres"`
	Runtime     int     `json:"runtime"`
}

// PosterURL returns the full poster URL, or "" when the movie has none.
func (m MovieDetail) PosterURL() string {
	if m.PosterPath == "" {
		return ""
	}
	return ImageBaseW500 + m.PosterPath
}

// Genre is a genre from TMDB.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreList is the TMDB genre/movie/list response.
type GenreList struct {
	Genres []Genre `json:"genres"`
}

// ---- Client Methods ----

// Popular fetches a page of popular movies.
func (c *Client) Popular(lang string, page int) ([]Movie, error) {
	if page < 1 {
		page = 1
	}
	var result MovieList
	err := c.get("/movie/popular", url.Values{
		"language": {lang},
		"page":     {fmt.Sprintf("%d", page)},
	}, &result)
	if err != nil {
		return nil, err
	}
	return result.Results, nil
}

// Search fetches movies matching the query title.
func (c *Client) Search(lang, query string) ([]Movie, error) {
	var result MovieList
	err := c.get("/search/movie", url.Values{
		"language": {lang},
		"query":    {query},
	}, &result)
	if err != nil {
		return nil, err
	}
	return result.Results, nil
}

// Details fetches detailed info for a single movie.
func (c *Client) Details(lang string, movieID int) (*MovieDetail, error) {
	var result MovieDetail
	err := c.get(fmt.Sprintf("/movie/%d", movieID), url.Values{
		"language": {lang},
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Genres fetches the full movie genre list.
func (c *Client) Genres(lang string) ([]Genre, error) {
	var result GenreList
	err := c.get("/genre/movie/list", url.Values{
		"language": {lang},
	}, &result)
	if err != nil {
		return nil, err
	}
	return result.Genres, nil
}

// Similar fetches up to limit movies similar to the given one.
func (c *Client) Similar(lang string, movieID, limit int) ([]Movie, error) {
	var result MovieList
	err := c.get(fmt.Sprintf("/movie/%d/similar", movieID), url.Values{
		"language": {lang},
	}, &result)
	if err != nil {
		return nil, err
	}
	movies := result.Results
	if limit > 0 && len(movies) > limit {
		movies = movies[:limit]
	}
	return movies, nil
}

func (c *Client) get(endpoint string, params url.Values, out any) error {
	params.Set("api_key", c.apiKey)
	reqURL := c.baseURL + endpoint + "?" + params.Encode()

	slog.Debug("fetching TMDB", "endpoint", endpoint)
	resp, err := c.http.Get(reqURL)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("TMDB API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode TMDB response: %w", err)
	}
	return nil
}

package handler

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-web/internal/models"
	"movie-discovery-web/internal/service"
	"movie-discovery-web/internal/tmdb"
	"movie-discovery-web/internal/web"
)

// ---- in-memory stores ----

type memUserStore struct {
	users  []*models.User
	nextID int
}

func (s *memUserStore) CreateUser(username, email, passwordHash string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return nil, &pq.Error{Code: "23505"}
		}
	}
	s.nextID++
	user := &models.User{ID: s.nextID, Username: username, Email: email, PasswordHash: passwordHash}
	s.users = append(s.users, user)
	return user, nil
}

func (s *memUserStore) FindByUsernameOrEmail(identifier string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == identifier || u.Email == identifier {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *memUserStore) ExistsByUsernameOrEmail(username, email string) (bool, error) {
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *memUserStore) FindByID(id int) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

type memRatingStore struct {
	rows   []models.Rating
	nextID int
}

func (s *memRatingStore) Upsert(userID, movieID, value int) error {
	for i, r := range s.rows {
		if r.UserID == userID && r.MovieID == movieID {
			s.rows[i].Rating = value
			return nil
		}
	}
	s.nextID++
	s.rows = append(s.rows, models.Rating{ID: s.nextID, UserID: userID, MovieID: movieID, Rating: value})
	return nil
}

func (s *memRatingStore) Find(userID, movieID int) (*models.Rating, error) {
	for _, r := range s.rows {
		if r.UserID == userID && r.MovieID == movieID {
			rating := r
			return &rating, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *memRatingStore) Delete(userID, movieID int) (bool, error) {
	for i, r := range s.rows {
		if r.UserID == userID && r.MovieID == movieID {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *memRatingStore) ListByUser(userID int) ([]models.Rating, error) {
	out := make([]models.Rating, 0)
	for _, r := range s.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memRatingStore) ListByMovie(movieID int) ([]models.Rating, error) {
	out := make([]models.Rating, 0)
	for _, r := range s.rows {
		if r.MovieID == movieID {
			out = append(out, r)
		}
	}
	return out, nil
}

type memFavoriteStore struct {
	rows   []models.Favorite
	nextID int
}

func (s *memFavoriteStore) Add(userID, movieID int) (bool, error) {
	for _, f := range s.rows {
		if f.UserID == userID && f.MovieID == movieID {
			return false, nil
		}
	}
	s.nextID++
	s.rows = append(s.rows, models.Favorite{ID: s.nextID, UserID: userID, MovieID: movieID})
	return true, nil
}

func (s *memFavoriteStore) Remove(userID, movieID int) (bool, error) {
	for i, f := range s.rows {
		if f.UserID == userID && f.MovieID == movieID {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *memFavoriteStore) Find(userID, movieID int) (*models.Favorite, error) {
	for _, f := range s.rows {
		if f.UserID == userID && f.MovieID == movieID {
			fav := f
			return &fav, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *memFavoriteStore) ListByUser(userID int) ([]models.Favorite, error) {
	out := make([]models.Favorite, 0)
	for _, f := range s.rows {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

// ---- test app ----

type testEnv struct {
	app       *fiber.App
	ratings   *memRatingStore
	favorites *memFavoriteStore
	cookies   []*http.Cookie
}

func newTestEnv(t *testing.T, tmdbHandler http.HandlerFunc) *testEnv {
	t.Helper()

	tmdbURL := "http://127.0.0.1:0" // unreachable by default
	if tmdbHandler != nil {
		srv := httptest.NewServer(tmdbHandler)
		t.Cleanup(srv.Close)
		tmdbURL = srv.URL
	}

	ratings := &memRatingStore{}
	favorites := &memFavoriteStore{}

	catalog := service.NewCatalogService(tmdb.NewClient("test-key", tmdbURL))
	auth := service.NewAuthService(&memUserStore{})
	library := service.NewLibraryService(ratings, favorites, catalog)
	recommender := service.NewRecommendationService(catalog)

	app := fiber.New(fiber.Config{Views: web.NewEngine()})
	app.Use(session.New(session.Config{}))
	RegisterRoutes(app,
		NewAuthHandler(auth),
		NewMovieHandler(catalog, library),
		NewUserHandler(library, recommender, catalog),
		NewRateLimiter(nil, 10, 60),
	)

	return &testEnv{app: app, ratings: ratings, favorites: favorites}
}

// do sends a request carrying the accumulated session cookies.
func (e *testEnv) do(t *testing.T, method, target string, form url.Values) *http.Response {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	if cookies := resp.Cookies(); len(cookies) > 0 {
		e.cookies = cookies
	}
	return resp
}

func (e *testEnv) registerAndLogin(t *testing.T, username, email, password string) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/register", url.Values{
		"username": {username}, "email": {email}, "password": {password},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))

	resp = e.do(t, http.MethodPost, "/login", url.Values{
		"username": {username}, "password": {password},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// ---- tests ----

// Even with the catalog unreachable the home page renders, just empty.
func TestIndexRendersWithDeadCatalog(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "No movies to show.")
}

func TestGuardedRouteRedirectsAnonymous(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, target := range []string{"/favorites", "/ratings", "/recommendations", "/favorite/add/550"} {
		resp := env.do(t, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		loc := resp.Header.Get("Location")
		assert.True(t, strings.HasPrefix(loc, "/login?next="), "got %q", loc)
		assert.Contains(t, loc, url.QueryEscape(target))
	}
}

// Unsupported language codes resolve to the default and subsequent catalog
// calls request hu-HU.
func TestSetLanguageFallback(t *testing.T) {
	var gotLang string
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gotLang = r.URL.Query().Get("language")
		w.Write([]byte(`{"results":[]}`))
	})

	resp := env.do(t, http.MethodGet, "/set_language/fr", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	env.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, "hu-HU", gotLang)
}

func TestSetLanguageEnglish(t *testing.T) {
	var gotLang string
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gotLang = r.URL.Query().Get("language")
		w.Write([]byte(`{"results":[]}`))
	})

	env.do(t, http.MethodGet, "/set_language/en", nil)
	env.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, "en-US", gotLang)
}

func TestDuplicateRegistrationRedisplaysForm(t *testing.T) {
	env := newTestEnv(t, nil)
	env.registerAndLogin(t, "alice", "alice@x.com", "pw1")

	resp := env.do(t, http.MethodPost, "/register", url.Values{
		"username": {"alice"}, "email": {"other@x.com"}, "password": {"pw2"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/register", resp.Header.Get("Location"))
}

func TestLoginFailureRedirectsBack(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodPost, "/login", url.Values{
		"username": {"ghost"}, "password": {"pw"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

// Scenario: alice rates movie 550 as 4, then re-rates it as 2; her ratings
// page lists exactly one entry with the new value.
func TestRateThenReRate(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id":550,"title":"Fight Club"}`)
	})
	env.registerAndLogin(t, "alice", "alice@x.com", "pw1")

	resp := env.do(t, http.MethodPost, "/rating/add/550", url.Values{"rating": {"4"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/movie/550", resp.Header.Get("Location"))
	require.Len(t, env.ratings.rows, 1)
	assert.Equal(t, 4, env.ratings.rows[0].Rating)

	resp = env.do(t, http.MethodPost, "/rating/add/550", url.Values{"rating": {"2"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Len(t, env.ratings.rows, 1, "re-rating must overwrite, not duplicate")
	assert.Equal(t, 2, env.ratings.rows[0].Rating)

	body := readBody(t, env.do(t, http.MethodGet, "/ratings", nil))
	assert.Contains(t, body, "Fight Club")
	assert.Contains(t, body, "2/10")
}

// Scenario: adding movie 27205 to favorites twice lists it exactly once.
func TestAddFavoriteTwice(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id":27205,"title":"Inception"}`)
	})
	env.registerAndLogin(t, "alice", "alice@x.com", "pw1")

	resp := env.do(t, http.MethodGet, "/favorite/add/27205", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp = env.do(t, http.MethodGet, "/favorite/add/27205", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	require.Len(t, env.favorites.rows, 1)

	body := readBody(t, env.do(t, http.MethodGet, "/favorites", nil))
	assert.Equal(t, 1, strings.Count(body, "Inception"))
}

func TestRemoveMissingRatingWarns(t *testing.T) {
	env := newTestEnv(t, nil)
	env.registerAndLogin(t, "alice", "alice@x.com", "pw1")

	resp := env.do(t, http.MethodGet, "/rating/remove/550", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/ratings", resp.Header.Get("Location"))

	body := readBody(t, env.do(t, http.MethodGet, "/ratings", nil))
	assert.Contains(t, body, "You have no rating for this movie.")
}

func TestMovieDetailsDistinguishesNoRatings(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id":550,"title":"Fight Club"}`)
	})

	body := readBody(t, env.do(t, http.MethodGet, "/movie/550", nil))
	assert.Contains(t, body, "No ratings yet.")

	env.registerAndLogin(t, "alice", "alice@x.com", "pw1")
	env.do(t, http.MethodPost, "/rating/add/550", url.Values{"rating": {"3"}})
	env.do(t, http.MethodGet, "/logout", nil)
	env.registerAndLogin(t, "bob", "bob@x.com", "pw2")
	env.do(t, http.MethodPost, "/rating/add/550", url.Values{"rating": {"5"}})

	body = readBody(t, env.do(t, http.MethodGet, "/movie/550", nil))
	assert.Contains(t, body, "Average rating: 4.0 (2 ratings)")
}

// The recommendation id list is computed once per session: favorites added
// afterwards do not change it until a new session starts.
func TestRecommendationsCachedPerSession(t *testing.T) {
	var similarCalls int
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/similar") {
			similarCalls++
			w.Write([]byte(`{"results":[{"id":603,"title":"The Matrix"},{"id":42,"title":"Seed"}]}`))
			return
		}
		fmt.Fprintf(w, `{"id":%s,"title":"A movie"}`, strings.TrimPrefix(r.URL.Path, "/movie/"))
	})
	env.registerAndLogin(t, "alice", "alice@x.com", "pw1")
	env.do(t, http.MethodGet, "/favorite/add/42", nil)

	resp := env.do(t, http.MethodGet, "/recommendations", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, similarCalls)

	env.do(t, http.MethodGet, "/favorite/add/99", nil)
	resp = env.do(t, http.MethodGet, "/recommendations", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, similarCalls, "cached id list must be reused within the session")
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"status":"ok"`)
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		name     string
		next     string
		expected string
	}{
		{name: "local path", next: "/favorites", expected: "/favorites"},
		{name: "empty", next: "", expected: "/"},
		{name: "absolute url", next: "https://evil.example", expected: "/"},
		{name: "protocol relative", next: "//evil.example", expected: "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, safeNext(tt.next))
		})
	}
}

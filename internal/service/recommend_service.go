package service

import (
	"movie-discovery-web/internal/tmdb"
)

// recommendationLimit caps how many similar movies are requested per
// recommendation run.
const recommendationLimit = 10

// RecommendationService derives a recommendation list from favorites by
// proxying the catalog's similar-items lookup. There is deliberately no
// ranking and no deduplication against the user's own library: the first
// stored favorite seeds the lookup and only the seed itself is filtered out.
type RecommendationService struct {
	catalog *CatalogService
}

// NewRecommendationService creates a new RecommendationService.
func NewRecommendationService(catalog *CatalogService) *RecommendationService {
	return &RecommendationService{catalog: catalog}
}

// Recommend returns movies similar to the first favorite. With no favorites
// there is nothing to recommend.
func (s *RecommendationService) Recommend(lang string, favoriteMovieIDs []int) []tmdb.Movie {
	if len(favoriteMovieIDs) == 0 {
		return []tmdb.Movie{}
	}

	reference := favoriteMovieIDs[0]
	similar := s.catalog.Similar(lang, reference, recommendationLimit)

	// The catalog can include the reference movie in its own similar list.
	movies := make([]tmdb.Movie, 0, len(similar))
	for _, m := range similar {
		if m.ID != reference {
			movies = append(movies, m)
		}
	}
	return movies
}

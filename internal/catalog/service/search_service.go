package service

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/matforge/catalog/internal/catalog/entity"
	"github.com/matforge/catalog/internal/catalog/repository"
	"github.com/matforge/catalog/internal/shared/postgrest"
)

var numericPattern = regexp.MustCompile(`^\d+$`)

// SearchService builds the fuzzy, spell-corrected material search.
type SearchService struct {
	searchRepo   *repository.SearchRepository
	materialRepo *repository.MaterialRepository
	logger       *zap.Logger
}

func NewSearchService(searchRepo *repository.SearchRepository, materialRepo *repository.MaterialRepository, logger *zap.Logger) *SearchService {
	return &SearchService{
		searchRepo:   searchRepo,
		materialRepo: materialRepo,
		logger:       logger,
	}
}

// SearchResult carries the matches and, when the query was corrected, the
// corrected string for a "did you mean" hint.
type SearchResult struct {
	Materials []entity.MaterialWithDetails `json:"materials"`
	Corrected string                       `json:"corrected,omitempty"`
}

// Search tokenizes the query, corrects each token with the database-side
// edit-distance suggestion function, and runs an OR-combined filter against
// the joined materials view. An empty query lists all materials instead of
// searching for the empty string.
func (s *SearchService) Search(ctx context.Context, query string) (*SearchResult, error) {
	trimmed := strings.TrimSpace(strings.ToLower(query))
	if trimmed == "" {
		materials, err := s.materialRepo.FindAllWithDetails(ctx)
		if err != nil {
			return nil, err
		}
		return &SearchResult{Materials: materials}, nil
	}

	corrected, err := s.correct(ctx, trimmed)
	if err != nil {
		return nil, err
	}

	conditions := []string{
		postgrest.CondFTS("full_search_vector", corrected),
		postgrest.CondILike("description", corrected),
		postgrest.CondILike("long_text", corrected),
		postgrest.CondILike("details", corrected),
		postgrest.CondILike("noun_name", corrected),
		postgrest.CondILike("class_name", corrected),
	}
	// Purely numeric queries also match against the material number.
	if numericPattern.MatchString(corrected) {
		conditions = append([]string{postgrest.CondILike("material_number::text", corrected)}, conditions...)
	}

	materials, err := s.searchRepo.SearchView(ctx, conditions)
	if err != nil {
		return nil, err
	}
	if materials == nil {
		materials = []entity.MaterialWithDetails{}
	}

	result := &SearchResult{Materials: materials}
	if corrected != trimmed {
		result.Corrected = corrected
	}
	return result, nil
}

// correct replaces each token with its best spelling suggestion, keeping the
// original token when the suggestion function has nothing better. Tokens are
// corrected concurrently; order is preserved.
func (s *SearchService) correct(ctx context.Context, query string) (string, error) {
	words := strings.Fields(query)
	corrected := make([]string, len(words))

	g, gctx := errgroup.WithContext(ctx)
	for i, word := range words {
		i, word := i, word
		g.Go(func() error {
			suggestions, err := s.searchRepo.SpellingSuggestions(gctx, word)
			if err != nil {
				return err
			}
			if len(suggestions) > 0 && suggestions[0].Word != "" {
				corrected[i] = suggestions[0].Word
			} else {
				corrected[i] = word
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	result := strings.Join(corrected, " ")
	if result != query {
		s.logger.Debug("search query corrected",
			zap.String("original", query),
			zap.String("corrected", result),
		)
	}
	return result, nil
}

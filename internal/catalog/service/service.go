package service

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/matforge/catalog/internal/catalog/repository"
	"github.com/matforge/catalog/internal/config"
	"github.com/matforge/catalog/internal/shared/cognito"
)

// Services is the service registry.
type Services struct {
	Noun       *NounService
	Class      *ClassService
	Material   *MaterialService
	Search     *SearchService
	Enrichment *EnrichmentService
	Auth       *AuthService
	Session    *SessionService
}

// NewServices wires all services. rdb may be nil; the session store then
// falls back to its in-process cache.
func NewServices(repos *repository.Repositories, idp *cognito.Client, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	return &Services{
		Noun:       NewNounService(repos.Noun),
		Class:      NewClassService(repos.Class),
		Material:   NewMaterialService(repos.Material),
		Search:     NewSearchService(repos.Search, repos.Material, logger),
		Enrichment: NewEnrichmentService(repos.Noun, repos.Class, repos.Material, repos.ClassAttribute),
		Auth:       NewAuthService(idp, logger),
		Session:    NewSessionService(rdb, cfg.Session.TTL, cfg.Session.Secret),
	}
}

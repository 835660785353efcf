package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matforge/catalog/internal/catalog/repository"
	"github.com/matforge/catalog/internal/catalog/service"
	"github.com/matforge/catalog/internal/catalog/testutil"
	"github.com/matforge/catalog/internal/config"
	"github.com/matforge/catalog/internal/middleware"
	"github.com/matforge/catalog/internal/shared/cognito"
	"github.com/matforge/catalog/internal/shared/postgrest"
)

const testUserEmail = "tester@example.com"

type testEnv struct {
	gateway  *testutil.FakeGateway
	idp      *testutil.FakeCognito
	router   *gin.Engine
	services *service.Services
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gw := testutil.NewFakeGateway()
	t.Cleanup(gw.Close)
	fc := testutil.NewFakeCognito()
	t.Cleanup(fc.Close)

	idp, err := cognito.NewClient(context.Background(), cognito.Config{
		Region:    "us-east-1",
		ClientID:  "test-client",
		AccessKey: "test",
		SecretKey: "test",
		Endpoint:  fc.URL(),
	})
	if err != nil {
		t.Fatalf("Failed to create identity provider client: %v", err)
	}

	cfg := &config.Config{}
	cfg.Session.TTL = time.Hour
	cfg.Session.Secret = "test-session-secret"

	repos := repository.NewRepositories(postgrest.NewClient(gw.URL()))
	services := service.NewServices(repos, idp, nil, cfg, zap.NewNop())
	handlers := NewHandlers(services, cfg)

	r := testutil.SetupRouter()
	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", handlers.Auth.Register)
	auth.POST("/confirm", handlers.Auth.Confirm)
	auth.POST("/login", handlers.Auth.Login)

	authorized := v1.Group("")
	authorized.Use(middleware.CognitoAuth(services.Auth, services.Session))
	{
		authorized.GET("/auth/me", handlers.Auth.Me)
		authorized.POST("/auth/logout", handlers.Auth.Logout)

		nouns := authorized.Group("/nouns")
		{
			nouns.GET("", handlers.Noun.List)
			nouns.POST("", handlers.Noun.Create)
			nouns.GET("/:id", handlers.Noun.Get)
			nouns.PATCH("/:id", handlers.Noun.Update)
			nouns.DELETE("/:id", handlers.Noun.Delete)
			nouns.GET("/:id/classes", handlers.Class.ListByNoun)
		}

		classes := authorized.Group("/classes")
		{
			classes.GET("", handlers.Class.List)
			classes.POST("", handlers.Class.Create)
			classes.GET("/:id", handlers.Class.Get)
			classes.PATCH("/:id", handlers.Class.Update)
			classes.DELETE("/:id", handlers.Class.Delete)
		}

		materials := authorized.Group("/materials")
		{
			materials.GET("", handlers.Material.List)
			materials.POST("", handlers.Material.Create)
			materials.GET("/search", handlers.Material.Search)
			materials.GET("/bulk-enrichment", handlers.Material.BulkEnrichment)
			materials.GET("/:id", handlers.Material.Get)
			materials.PATCH("/:id", handlers.Material.Update)
			materials.DELETE("/:id", handlers.Material.Delete)
		}
	}

	return &testEnv{gateway: gw, idp: fc, router: r, services: services}
}

// token mints a valid access token for the default test user.
func (e *testEnv) token() string {
	return e.idp.IssueToken(testUserEmail)
}

func newRecorderFor(env *testEnv, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func dataField(resp map[string]interface{}) map[string]interface{} {
	data, _ := resp["data"].(map[string]interface{})
	return data
}

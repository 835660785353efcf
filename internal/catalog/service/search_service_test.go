package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/matforge/catalog/internal/catalog/repository"
	"github.com/matforge/catalog/internal/catalog/testutil"
	"github.com/matforge/catalog/internal/shared/postgrest"
)

func setupSearchTest(t *testing.T) (*testutil.FakeGateway, *SearchService) {
	t.Helper()
	gw := testutil.NewFakeGateway()
	t.Cleanup(gw.Close)

	gw.Seed("noun", map[string]interface{}{"id": "n1", "name": "Valve", "active": true})
	gw.Seed("class", map[string]interface{}{"id": "c1", "noun_id": "n1", "name": "Ball", "active": true})
	gw.Seed("class", map[string]interface{}{"id": "c2", "noun_id": "n1", "name": "Gate", "active": true})
	gw.Seed("material", map[string]interface{}{
		"id": "m1", "material_number": 1001, "description": "Ball Valve",
		"noun_id": "n1", "class_id": "c1",
	})
	gw.Seed("material", map[string]interface{}{
		"id": "m2", "material_number": 2002, "description": "Gate Valve",
		"noun_id": "n1", "class_id": "c2",
	})

	repos := repository.NewRepositories(postgrest.NewClient(gw.URL()))
	return gw, NewSearchService(repos.Search, repos.Material, zap.NewNop())
}

func materialNumbers(result *SearchResult) []int {
	var nums []int
	for _, m := range result.Materials {
		nums = append(nums, m.MaterialNumber)
	}
	return nums
}

func TestSearchNumericQueryMatchesMaterialNumber(t *testing.T) {
	_, svc := setupSearchTest(t)

	result, err := svc.Search(context.Background(), "1001")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result.Materials) != 1 || result.Materials[0].MaterialNumber != 1001 {
		t.Fatalf("expected material 1001, got %v", materialNumbers(result))
	}
	if result.Corrected != "" {
		t.Errorf("expected no correction for numeric query, got %q", result.Corrected)
	}
}

func TestSearchCorrectsMisspelledQuery(t *testing.T) {
	gw, svc := setupSearchTest(t)
	gw.SeedSuggestion("bal", "ball")

	result, err := svc.Search(context.Background(), "bal")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if result.Corrected != "ball" {
		t.Fatalf("expected corrected query %q, got %q", "ball", result.Corrected)
	}
	if len(result.Materials) != 1 || result.Materials[0].MaterialNumber != 1001 {
		t.Fatalf("expected material 1001, got %v", materialNumbers(result))
	}
}

func TestSearchKeepsTermWithoutSuggestion(t *testing.T) {
	_, svc := setupSearchTest(t)

	result, err := svc.Search(context.Background(), "valve")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if result.Corrected != "" {
		t.Errorf("expected corrected to be omitted, got %q", result.Corrected)
	}
	if len(result.Materials) != 2 {
		t.Fatalf("expected 2 materials, got %v", materialNumbers(result))
	}
}

func TestSearchCorrectsEachTokenIndependently(t *testing.T) {
	gw, svc := setupSearchTest(t)
	gw.SeedSuggestion("bal", "ball")
	gw.SeedSuggestion("valv", "valve")

	result, err := svc.Search(context.Background(), "Bal Valv")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if result.Corrected != "ball valve" {
		t.Fatalf("expected corrected query %q, got %q", "ball valve", result.Corrected)
	}
	if len(result.Materials) != 1 || result.Materials[0].MaterialNumber != 1001 {
		t.Fatalf("expected material 1001, got %v", materialNumbers(result))
	}
}

func TestSearchEmptyQueryListsAllMaterials(t *testing.T) {
	_, svc := setupSearchTest(t)

	result, err := svc.Search(context.Background(), "  ")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result.Materials) != 2 {
		t.Fatalf("expected all materials, got %v", materialNumbers(result))
	}
	if result.Corrected != "" {
		t.Errorf("expected corrected to be omitted, got %q", result.Corrected)
	}
}

func TestSearchMatchesNounAndClassNames(t *testing.T) {
	_, svc := setupSearchTest(t)

	result, err := svc.Search(context.Background(), "gate")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result.Materials) != 1 || result.Materials[0].MaterialNumber != 2002 {
		t.Fatalf("expected material 2002, got %v", materialNumbers(result))
	}
	if result.Materials[0].ClassName != "Gate" {
		t.Errorf("expected class name from view, got %q", result.Materials[0].ClassName)
	}
}

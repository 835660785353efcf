package handler

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/matforge/catalog/internal/catalog/testutil"
)

func seedTaxonomy(t *testing.T, env *testEnv) {
	t.Helper()
	env.gateway.Seed("noun", map[string]interface{}{"id": "n1", "name": "Valve", "active": true})
	env.gateway.Seed("class", map[string]interface{}{"id": "c1", "noun_id": "n1", "name": "Ball", "active": true})
}

func TestMaterialCreateValidationNeverHitsGateway(t *testing.T) {
	env := setupTestEnv(t)
	token := env.token()

	before := env.gateway.Requests()
	w := testutil.DoRequest(env.router, "POST", "/api/v1/materials", map[string]interface{}{
		"description": "Ball Valve",
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for incomplete payload, got %d", w.Code)
	}
	if after := env.gateway.Requests(); after != before {
		t.Errorf("rejected payload reached the gateway (%d requests)", after-before)
	}
}

func TestMaterialCreateThenSearchByNumber(t *testing.T) {
	env := setupTestEnv(t)
	token := env.token()
	seedTaxonomy(t, env)

	w := testutil.DoRequest(env.router, "POST", "/api/v1/materials", map[string]interface{}{
		"material_number": 1001,
		"description":     "Ball Valve",
		"noun_id":         "n1",
		"class_id":        "c1",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create failed with status %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.router, "GET", "/api/v1/materials/search?q=1001", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("search failed with status %d: %s", w.Code, w.Body.String())
	}
	data := dataField(testutil.ParseResponse(w))
	materials, _ := data["materials"].([]interface{})
	if len(materials) != 1 {
		t.Fatalf("expected 1 search result, got %d", len(materials))
	}
	match, _ := materials[0].(map[string]interface{})
	if match["material_number"] != float64(1001) {
		t.Errorf("expected material 1001, got %v", match["material_number"])
	}
	if _, present := data["corrected"]; present {
		t.Errorf("corrected must be omitted when the query was not corrected")
	}
}

func TestMaterialSearchEchoesCorrection(t *testing.T) {
	env := setupTestEnv(t)
	token := env.token()
	seedTaxonomy(t, env)
	env.gateway.Seed("material", map[string]interface{}{
		"id": "m1", "material_number": 1001, "description": "Ball Valve",
		"noun_id": "n1", "class_id": "c1",
	})
	env.gateway.SeedSuggestion("bal", "ball")

	w := testutil.DoRequest(env.router, "GET", "/api/v1/materials/search?q=bal", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("search failed with status %d", w.Code)
	}
	data := dataField(testutil.ParseResponse(w))
	if data["corrected"] != "ball" {
		t.Errorf("expected corrected %q, got %v", "ball", data["corrected"])
	}
}

func TestMaterialUpdatePartialFields(t *testing.T) {
	env := setupTestEnv(t)
	token := env.token()
	seedTaxonomy(t, env)
	env.gateway.Seed("material", map[string]interface{}{
		"id": "m1", "material_number": 1001, "description": "Ball Valve",
		"noun_id": "n1", "class_id": "c1",
	})

	w := testutil.DoRequest(env.router, "PATCH", "/api/v1/materials/m1", map[string]interface{}{
		"description": "Ball Valve DN50",
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("update failed with status %d: %s", w.Code, w.Body.String())
	}
	material := dataField(testutil.ParseResponse(w))
	if material["description"] != "Ball Valve DN50" {
		t.Errorf("expected updated description, got %v", material)
	}
	if material["material_number"] != float64(1001) {
		t.Errorf("expected untouched material number, got %v", material)
	}
}

func TestBulkEnrichmentDownload(t *testing.T) {
	env := setupTestEnv(t)
	token := env.token()
	seedTaxonomy(t, env)
	env.gateway.Seed("material", map[string]interface{}{
		"id": "m1", "material_number": 1001, "description": "Ball Valve",
		"noun_id": "n1", "class_id": "c1",
	})

	w := testutil.DoRequest(env.router, "GET", "/api/v1/materials/bulk-enrichment", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("download failed with status %d: %s", w.Code, w.Body.String())
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("expected attachment disposition, got %q", cd)
	}
	if cc := w.Header().Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Errorf("expected no-cache headers, got %q", cc)
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a readable workbook: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("Materials", "A2"); got != "1001" {
		t.Errorf("expected exported material in workbook, got %q", got)
	}
	if visible, _ := f.GetSheetVisible("Lists"); visible {
		t.Error("reference sheet must be hidden")
	}
}

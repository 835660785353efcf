package handler

import (
	"net/http"
	"testing"

	"github.com/matforge/catalog/internal/catalog/testutil"
)

func TestNounCRUD(t *testing.T) {
	env := setupTestEnv(t)
	token := env.token()

	w := testutil.DoRequest(env.router, "POST", "/api/v1/nouns", map[string]interface{}{
		"name": "Valve",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create failed with status %d: %s", w.Code, w.Body.String())
	}
	noun := dataField(testutil.ParseResponse(w))
	id, _ := noun["id"].(string)
	if id == "" {
		t.Fatal("expected created noun to have an id")
	}
	if noun["active"] != true {
		t.Error("expected new noun to default to active")
	}

	w = testutil.DoRequest(env.router, "PATCH", "/api/v1/nouns/"+id, map[string]interface{}{
		"active": false,
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("update failed with status %d: %s", w.Code, w.Body.String())
	}
	if updated := dataField(testutil.ParseResponse(w)); updated["active"] != false {
		t.Errorf("expected noun to be deactivated, got %v", updated)
	}

	w = testutil.DoRequest(env.router, "GET", "/api/v1/nouns?active=true", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("list failed with status %d", w.Code)
	}
	items, _ := dataField(testutil.ParseResponse(w))["items"].([]interface{})
	if len(items) != 0 {
		t.Errorf("expected no active nouns, got %d", len(items))
	}

	w = testutil.DoRequest(env.router, "DELETE", "/api/v1/nouns/"+id, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("delete failed with status %d", w.Code)
	}

	w = testutil.DoRequest(env.router, "GET", "/api/v1/nouns/"+id, nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestNounCreateValidationNeverHitsGateway(t *testing.T) {
	env := setupTestEnv(t)
	token := env.token()

	before := env.gateway.Requests()
	w := testutil.DoRequest(env.router, "POST", "/api/v1/nouns", map[string]interface{}{
		"active": true,
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", w.Code)
	}
	if after := env.gateway.Requests(); after != before {
		t.Errorf("rejected payload reached the gateway (%d requests)", after-before)
	}
}

func TestDeleteNounCascadesToClasses(t *testing.T) {
	env := setupTestEnv(t)
	token := env.token()

	w := testutil.DoRequest(env.router, "POST", "/api/v1/nouns", map[string]interface{}{
		"name": "Valve",
	}, token)
	nounID, _ := dataField(testutil.ParseResponse(w))["id"].(string)

	w = testutil.DoRequest(env.router, "POST", "/api/v1/classes", map[string]interface{}{
		"noun_id": nounID,
		"name":    "Ball",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("class create failed with status %d: %s", w.Code, w.Body.String())
	}
	classID, _ := dataField(testutil.ParseResponse(w))["id"].(string)

	w = testutil.DoRequest(env.router, "DELETE", "/api/v1/nouns/"+nounID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("noun delete failed with status %d", w.Code)
	}

	w = testutil.DoRequest(env.router, "GET", "/api/v1/classes/"+classID, nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected cascaded class to be gone, got %d", w.Code)
	}
}

func TestDeleteUnknownNounReturnsNotFound(t *testing.T) {
	env := setupTestEnv(t)

	w := testutil.DoRequest(env.router, "DELETE", "/api/v1/nouns/missing", nil, env.token())
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown noun, got %d", w.Code)
	}
}

func TestListClassesByNoun(t *testing.T) {
	env := setupTestEnv(t)
	token := env.token()

	env.gateway.Seed("noun", map[string]interface{}{"id": "n1", "name": "Valve", "active": true})
	env.gateway.Seed("noun", map[string]interface{}{"id": "n2", "name": "Pump", "active": true})
	env.gateway.Seed("class", map[string]interface{}{"id": "c1", "noun_id": "n1", "name": "Ball", "active": true})
	env.gateway.Seed("class", map[string]interface{}{"id": "c2", "noun_id": "n2", "name": "Centrifugal", "active": true})

	w := testutil.DoRequest(env.router, "GET", "/api/v1/nouns/n1/classes", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("list failed with status %d", w.Code)
	}
	items, _ := dataField(testutil.ParseResponse(w))["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 class for noun, got %d", len(items))
	}
	class, _ := items[0].(map[string]interface{})
	if class["name"] != "Ball" {
		t.Errorf("expected class Ball, got %v", class)
	}
}

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FakeGateway is an in-memory stand-in for the PostgREST data gateway. It
// understands the filter subset the repositories emit: eq filters, or groups
// of fts/ilike conditions, order and limit, plus the spelling-suggestion RPC.
// Deletes cascade from noun to class to material the way the real schema's
// foreign keys do.
type FakeGateway struct {
	Server *httptest.Server

	mu          sync.Mutex
	tables      map[string][]map[string]interface{}
	suggestions map[string][]map[string]interface{}
	requests    int
}

func NewFakeGateway() *FakeGateway {
	g := &FakeGateway{
		tables: map[string][]map[string]interface{}{
			"noun":            {},
			"class":           {},
			"material":        {},
			"class_attribute": {},
		},
		suggestions: map[string][]map[string]interface{}{},
	}
	g.Server = httptest.NewServer(http.HandlerFunc(g.handle))
	return g
}

func (g *FakeGateway) Close() {
	g.Server.Close()
}

// URL returns the gateway base URL.
func (g *FakeGateway) URL() string {
	return g.Server.URL
}

// Requests reports how many requests the gateway has served.
func (g *FakeGateway) Requests() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.requests
}

// Seed inserts a row directly into a table.
func (g *FakeGateway) Seed(table string, row map[string]interface{}) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tables[table] = append(g.tables[table], row)
}

// SeedSuggestion registers spelling suggestions for a search term.
func (g *FakeGateway) SeedSuggestion(term string, words ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rows := make([]map[string]interface{}, 0, len(words))
	for i, w := range words {
		rows = append(rows, map[string]interface{}{"word": w, "distance": i + 1})
	}
	g.suggestions[term] = rows
}

// Rows returns a copy of a table's rows.
func (g *FakeGateway) Rows(table string) []map[string]interface{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]map[string]interface{}{}, g.tables[table]...)
}

func (g *FakeGateway) handle(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests++

	resource := strings.TrimPrefix(r.URL.Path, "/")
	w.Header().Set("Content-Type", "application/json")

	if resource == "rpc/get_spelling_suggestions" {
		term := r.URL.Query().Get("search_term")
		rows := g.suggestions[term]
		if rows == nil {
			rows = []map[string]interface{}{}
		}
		json.NewEncoder(w).Encode(rows)
		return
	}

	switch r.Method {
	case http.MethodGet:
		g.handleGet(w, r, resource)
	case http.MethodPost:
		g.handlePost(w, r, resource)
	case http.MethodPatch:
		g.handlePatch(w, r, resource)
	case http.MethodDelete:
		g.handleDelete(w, r, resource)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (g *FakeGateway) handleGet(w http.ResponseWriter, r *http.Request, resource string) {
	var rows []map[string]interface{}
	if resource == "material_search_view" {
		rows = g.viewRows()
	} else {
		stored, ok := g.tables[resource]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "relation does not exist"})
			return
		}
		rows = append(rows, stored...)
	}

	query := r.URL.Query()
	rows = filterRows(rows, query)

	if order := query.Get("order"); order != "" {
		field := strings.TrimSuffix(order, ".asc")
		sort.SliceStable(rows, func(i, j int) bool {
			return compareValues(rows[i][field], rows[j][field])
		})
	}
	if limit := query.Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n < len(rows) {
			rows = rows[:n]
		}
	}
	if rows == nil {
		rows = []map[string]interface{}{}
	}
	json.NewEncoder(w).Encode(rows)
}

func (g *FakeGateway) handlePost(w http.ResponseWriter, r *http.Request, resource string) {
	var row map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid body"})
		return
	}
	if _, ok := row["id"]; !ok {
		row["id"] = uuid.New().String()
	}
	g.tables[resource] = append(g.tables[resource], row)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode([]map[string]interface{}{row})
}

func (g *FakeGateway) handlePatch(w http.ResponseWriter, r *http.Request, resource string) {
	var patch map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid body"})
		return
	}

	var updated []map[string]interface{}
	for _, row := range g.tables[resource] {
		if matchesEq(row, r.URL.Query()) {
			for k, v := range patch {
				row[k] = v
			}
			updated = append(updated, row)
		}
	}
	if updated == nil {
		updated = []map[string]interface{}{}
	}
	json.NewEncoder(w).Encode(updated)
}

func (g *FakeGateway) handleDelete(w http.ResponseWriter, r *http.Request, resource string) {
	var deleted, kept []map[string]interface{}
	for _, row := range g.tables[resource] {
		if matchesEq(row, r.URL.Query()) {
			deleted = append(deleted, row)
		} else {
			kept = append(kept, row)
		}
	}
	g.tables[resource] = kept

	for _, row := range deleted {
		g.cascade(resource, row)
	}

	if deleted == nil {
		deleted = []map[string]interface{}{}
	}
	json.NewEncoder(w).Encode(deleted)
}

// cascade mirrors the schema's ON DELETE CASCADE constraints.
func (g *FakeGateway) cascade(resource string, row map[string]interface{}) {
	id, _ := row["id"].(string)
	if id == "" {
		return
	}
	switch resource {
	case "noun":
		g.cascadeChildren("class", "noun_id", id)
		g.cascadeChildren("material", "noun_id", id)
		g.cascadeChildren("class_attribute", "noun_id", id)
	case "class":
		g.cascadeChildren("material", "class_id", id)
		g.cascadeChildren("class_attribute", "class_id", id)
	}
}

func (g *FakeGateway) cascadeChildren(table, fkField, id string) {
	var deleted, kept []map[string]interface{}
	for _, row := range g.tables[table] {
		if row[fkField] == id {
			deleted = append(deleted, row)
		} else {
			kept = append(kept, row)
		}
	}
	g.tables[table] = kept
	for _, row := range deleted {
		g.cascade(table, row)
	}
}

// viewRows joins materials with their noun and class names and a synthetic
// full-text column, like the database view does.
func (g *FakeGateway) viewRows() []map[string]interface{} {
	nounNames := map[string]string{}
	for _, n := range g.tables["noun"] {
		if id, ok := n["id"].(string); ok {
			nounNames[id], _ = n["name"].(string)
		}
	}
	classNames := map[string]string{}
	for _, c := range g.tables["class"] {
		if id, ok := c["id"].(string); ok {
			classNames[id], _ = c["name"].(string)
		}
	}

	var rows []map[string]interface{}
	for _, m := range g.tables["material"] {
		row := map[string]interface{}{}
		for k, v := range m {
			row[k] = v
		}
		nounID, _ := m["noun_id"].(string)
		classID, _ := m["class_id"].(string)
		row["noun_name"] = nounNames[nounID]
		row["class_name"] = classNames[classID]

		var parts []string
		for _, field := range []string{"description", "long_text", "details"} {
			if s, ok := m[field].(string); ok {
				parts = append(parts, s)
			}
		}
		parts = append(parts, nounNames[nounID], classNames[classID])
		row["full_search_vector"] = strings.ToLower(strings.Join(parts, " "))
		rows = append(rows, row)
	}
	return rows
}

func filterRows(rows []map[string]interface{}, query url.Values) []map[string]interface{} {
	var out []map[string]interface{}
	for _, row := range rows {
		if !matchesEq(row, query) {
			continue
		}
		if or := query.Get("or"); or != "" && !matchesOr(row, or) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func matchesEq(row map[string]interface{}, query url.Values) bool {
	for field, values := range query {
		if field == "order" || field == "limit" || field == "or" || field == "select" {
			continue
		}
		if len(values) == 0 {
			continue
		}
		value := values[0]
		if !strings.HasPrefix(value, "eq.") {
			continue
		}
		want := strings.TrimPrefix(value, "eq.")
		if stringValue(row[field]) != want {
			return false
		}
	}
	return true
}

// matchesOr evaluates an or=(...) group of fts and ilike conditions. Both
// are approximated as case-insensitive substring matches, which is close
// enough for test data.
func matchesOr(row map[string]interface{}, group string) bool {
	group = strings.TrimPrefix(group, "(")
	group = strings.TrimSuffix(group, ")")
	for _, cond := range strings.Split(group, ",") {
		parts := strings.SplitN(cond, ".", 3)
		if len(parts) != 3 {
			continue
		}
		field, op, term := parts[0], parts[1], parts[2]
		term = strings.Trim(term, "%")

		var value string
		if field == "material_number::text" {
			value = stringValue(row["material_number"])
		} else {
			value = stringValue(row[field])
		}

		switch op {
		case "ilike", "fts":
			if strings.Contains(strings.ToLower(value), strings.ToLower(term)) {
				return true
			}
		}
	}
	return false
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}

func compareValues(a, b interface{}) bool {
	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		return af < bf
	}
	return stringValue(a) < stringValue(b)
}

// SetupRouter creates a gin test router.
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// DoRequest executes an HTTP request against the test router.
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body.
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

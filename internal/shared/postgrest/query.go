package postgrest

import (
	"fmt"
	"net/url"
	"strings"
)

// Query builds a PostgREST resource path with filter query strings
// (field=eq.value, field=ilike.%term%, or=(...), order=field.asc, limit=N).
type Query struct {
	resource string
	params   []string
}

// Table starts a query against a table or view.
func Table(name string) *Query {
	return &Query{resource: name}
}

// RPC starts a query against a database function.
func RPC(name string) *Query {
	return &Query{resource: "rpc/" + name}
}

// Eq adds an equality filter.
func (q *Query) Eq(field, value string) *Query {
	return q.param(field, "eq."+value)
}

// Or adds a disjunctive filter group from prebuilt conditions.
func (q *Query) Or(conds ...string) *Query {
	q.params = append(q.params, "or=("+strings.Join(conds, ",")+")")
	return q
}

// OrderAsc orders results by field ascending.
func (q *Query) OrderAsc(field string) *Query {
	return q.param("order", field+".asc")
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	return q.param("limit", fmt.Sprintf("%d", n))
}

// Param adds a raw query parameter, value URL-escaped.
func (q *Query) Param(key, value string) *Query {
	return q.param(key, value)
}

func (q *Query) param(key, value string) *Query {
	q.params = append(q.params, key+"="+url.QueryEscape(value))
	return q
}

// String renders the resource path handed to the client.
func (q *Query) String() string {
	if len(q.params) == 0 {
		return q.resource
	}
	return q.resource + "?" + strings.Join(q.params, "&")
}

// Condition builders for Or groups. Values are escaped individually since
// the group itself is assembled verbatim.

// CondEq renders field.eq.value for use inside an Or group.
func CondEq(field, value string) string {
	return field + ".eq." + url.QueryEscape(value)
}

// CondILike renders a case-insensitive substring match condition.
func CondILike(field, term string) string {
	return field + ".ilike." + url.QueryEscape("%"+term+"%")
}

// CondFTS renders a full-text vector match condition.
func CondFTS(field, query string) string {
	return field + ".fts." + url.QueryEscape(query)
}

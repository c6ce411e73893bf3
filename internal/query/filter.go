// Package query builds MongoDB filter documents from optional request
// parameters. It replaces ad-hoc per-handler bson composition with one
// combinator that is unit-testable without a database: equality clauses
// and price caps are conjunctive, free-text search expands to a
// case-insensitive substring match across a fixed field set, and
// requirement attributes accumulate disjunctively and are conjoined
// with the search block when both are present.
package query

import (
	"regexp"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter accumulates predicate clauses and emits a single bson document.
type Filter struct {
	match  bson.M
	or     []bson.M
	search []bson.M
}

// New returns an empty Filter.
func New() *Filter {
	return &Filter{match: bson.M{}}
}

// Eq adds a conjunctive equality clause. Empty values are skipped so
// optional query parameters can be passed through unconditionally.
func (f *Filter) Eq(field, value string) *Filter {
	if value != "" {
		f.match[field] = value
	}
	return f
}

// PriceMax adds a conjunctive `price <= n` clause. Non-numeric input is
// ignored, matching the optional-parameter contract.
func (f *Filter) PriceMax(field, raw string) *Filter {
	if raw == "" {
		return f
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return f
	}
	f.match[field] = bson.M{"$lte": price}
	return f
}

// Search adds a conjunctive case-insensitive substring match across the
// given fields. The term is treated literally, not as a user-supplied
// regular expression.
func (f *Filter) Search(term string, fields ...string) *Filter {
	if term == "" || len(fields) == 0 {
		return f
	}
	for _, field := range fields {
		f.search = append(f.search, bson.M{field: Substring(term)})
	}
	return f
}

// OrEq adds a disjunctive equality clause. Empty values are skipped.
func (f *Filter) OrEq(field, value string) *Filter {
	if value != "" {
		f.or = append(f.or, bson.M{field: value})
	}
	return f
}

// OrSubstring adds a disjunctive case-insensitive substring clause.
func (f *Filter) OrSubstring(field, term string) *Filter {
	if term != "" {
		f.or = append(f.or, bson.M{field: Substring(term)})
	}
	return f
}

// OrPriceMax adds a disjunctive `price <= n` clause. Non-numeric input
// is skipped.
func (f *Filter) OrPriceMax(field, raw string) *Filter {
	if raw == "" {
		return f
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return f
	}
	f.or = append(f.or, bson.M{field: bson.M{"$lte": price}})
	return f
}

// OrCount returns the number of accumulated disjunctive clauses. A
// requirement whose attributes are all absent yields zero clauses and
// must match nothing; callers check this before querying.
func (f *Filter) OrCount() int {
	return len(f.or)
}

// Build emits the final filter document. Composition rules:
//
//   - conjunctive clauses always apply;
//   - the search block is itself a disjunction over its fields but is
//     conjoined with everything else;
//   - when both requirement (OR) clauses and a search block are present
//     the result is `(or1 OR or2 OR ...) AND (search)`.
func (f *Filter) Build() bson.M {
	out := bson.M{}
	for k, v := range f.match {
		out[k] = v
	}

	switch {
	case len(f.or) > 0 && len(f.search) > 0:
		and := bson.A{bson.M{"$or": f.or}, bson.M{"$or": f.search}}
		if len(out) > 0 {
			and = append(and, out)
			out = bson.M{}
		}
		out["$and"] = and
	case len(f.or) > 0:
		out["$or"] = f.or
	case len(f.search) > 0:
		out["$or"] = f.search
	}
	return out
}

// Substring returns a case-insensitive literal substring matcher for
// bson filters.
func Substring(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}

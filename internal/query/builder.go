// Package query builds and runs the paginated list queries behind every
// list endpoint. Filters are composed in a fixed order so the same request
// always produces the same query:
//
//  1. the caller's base filter
//  2. soft-delete visibility (collections with a trash only)
//  3. status equality
//  4. role equality or membership
//  5. case-insensitive substring search across the collection's fields
//  6. self-authored exclusion (reports only, and only while searching)
package query

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	DefaultPage  = 1
	DefaultLimit = 25
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit well inside int64. Pages past the data
	// come back empty.
	MaxPage = 1<<31 - 1
)

// Target describes how a collection takes part in list queries.
type Target struct {
	Collection   string
	SearchFields []string
	// SoftDelete adds the deletedAt visibility clause.
	SoftDelete bool
	// ExcludeSelfAuthored drops records whose name equals reporterName when
	// a search term is present.
	ExcludeSelfAuthored bool
	// SortField is sorted newest first; empty keeps natural store order.
	SortField string
}

var (
	Reports = Target{
		Collection:          "userReports",
		SearchFields:        []string{"name", "facebookLink", "phone"},
		SoftDelete:          true,
		ExcludeSelfAuthored: true,
		SortField:           "timestamp",
	}
	Profiles = Target{
		Collection:   "users",
		SearchFields: []string{"email", "fbName"},
	}
)

// Request carries the list parameters of one call.
type Request struct {
	Base           Predicate
	Page           int
	Limit          int
	Search         string
	Status         string
	Role           string
	IncludeDeleted bool
}

// Skip is the number of records before the requested page.
func (r Request) Skip() int64 {
	r = r.Normalize()
	return int64(r.Page-1) * int64(r.Limit)
}

// Build composes the filter for req against t.
func Build(t Target, req Request) And {
	var filter And
	if req.Base != nil {
		filter = append(filter, req.Base)
	}

	if t.SoftDelete {
		filter = append(filter, Exists{Field: "deletedAt", Exists: req.IncludeDeleted})
	}

	if status := strings.TrimSpace(req.Status); status != "" {
		filter = append(filter, Eq{Field: "status", Value: status})
	}

	if roles := splitList(req.Role); len(roles) == 1 {
		filter = append(filter, Eq{Field: "role", Value: roles[0]})
	} else if len(roles) > 1 {
		values := make([]interface{}, len(roles))
		for i, r := range roles {
			values[i] = r
		}
		filter = append(filter, In{Field: "role", Values: values})
	}

	search := strings.TrimSpace(req.Search)
	if search != "" && len(t.SearchFields) > 0 {
		pattern := regexp.QuoteMeta(search)
		matchAny := make(Or, len(t.SearchFields))
		for i, f := range t.SearchFields {
			matchAny[i] = Regex{Field: f, Pattern: pattern}
		}
		filter = append(filter, matchAny)

		if t.ExcludeSelfAuthored {
			filter = append(filter, FieldsNe{A: "name", B: "reporterName"})
		}
	}

	return filter
}

// Filter renders Build(t, req) as a MongoDB filter document.
func Filter(t Target, req Request) bson.D {
	return Build(t, req).BSON()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

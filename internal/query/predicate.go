package query

import (
	"reflect"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
)

// Predicate is a typed filter fragment. BSON renders it as a MongoDB query
// document; Matches evaluates it against a decoded document so the same
// filter can run against stores that are not MongoDB.
type Predicate interface {
	BSON() bson.D
	Matches(doc bson.M) bool
}

// Eq matches documents whose Field equals Value.
type Eq struct {
	Field string
	Value interface{}
}

func (p Eq) BSON() bson.D { return bson.D{{Key: p.Field, Value: p.Value}} }

func (p Eq) Matches(doc bson.M) bool {
	v, ok := doc[p.Field]
	return ok && sameValue(v, p.Value)
}

// In matches documents whose Field equals any of Values.
type In struct {
	Field  string
	Values []interface{}
}

func (p In) BSON() bson.D {
	return bson.D{{Key: p.Field, Value: bson.D{{Key: "$in", Value: bson.A(p.Values)}}}}
}

func (p In) Matches(doc bson.M) bool {
	v, ok := doc[p.Field]
	if !ok {
		return false
	}
	for _, want := range p.Values {
		if sameValue(v, want) {
			return true
		}
	}
	return false
}

// Regex is a case-insensitive pattern match on a string field.
type Regex struct {
	Field   string
	Pattern string
}

func (p Regex) BSON() bson.D {
	return bson.D{{Key: p.Field, Value: bson.D{
		{Key: "$regex", Value: p.Pattern},
		{Key: "$options", Value: "i"},
	}}}
}

func (p Regex) Matches(doc bson.M) bool {
	s, ok := doc[p.Field].(string)
	if !ok {
		return false
	}
	re, err := regexp.Compile("(?i)" + p.Pattern)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

// Exists matches on the presence (or absence) of Field.
type Exists struct {
	Field  string
	Exists bool
}

func (p Exists) BSON() bson.D {
	return bson.D{{Key: p.Field, Value: bson.D{{Key: "$exists", Value: p.Exists}}}}
}

func (p Exists) Matches(doc bson.M) bool {
	_, ok := doc[p.Field]
	return ok == p.Exists
}

// FieldsNe matches documents where field A differs from field B.
type FieldsNe struct {
	A, B string
}

func (p FieldsNe) BSON() bson.D {
	return bson.D{{Key: "$expr", Value: bson.D{{Key: "$ne", Value: bson.A{"$" + p.A, "$" + p.B}}}}}
}

func (p FieldsNe) Matches(doc bson.M) bool {
	return !sameValue(doc[p.A], doc[p.B])
}

// And matches when every member matches. An empty And matches everything.
type And []Predicate

func (p And) BSON() bson.D {
	switch len(p) {
	case 0:
		return bson.D{}
	case 1:
		return p[0].BSON()
	}
	parts := make(bson.A, 0, len(p))
	for _, q := range p {
		parts = append(parts, q.BSON())
	}
	return bson.D{{Key: "$and", Value: parts}}
}

func (p And) Matches(doc bson.M) bool {
	for _, q := range p {
		if !q.Matches(doc) {
			return false
		}
	}
	return true
}

// Or matches when any member matches. Callers never build an empty Or.
type Or []Predicate

func (p Or) BSON() bson.D {
	if len(p) == 1 {
		return p[0].BSON()
	}
	parts := make(bson.A, 0, len(p))
	for _, q := range p {
		parts = append(parts, q.BSON())
	}
	return bson.D{{Key: "$or", Value: parts}}
}

func (p Or) Matches(doc bson.M) bool {
	for _, q := range p {
		if q.Matches(doc) {
			return true
		}
	}
	return false
}

// sameValue compares loosely enough that a typed string constant equals the
// plain string decoded from a document.
func sameValue(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() == reflect.String && vb.Kind() == reflect.String {
		return va.String() == vb.String()
	}
	return reflect.DeepEqual(a, b)
}

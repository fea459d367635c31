package query

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Run evaluates req against documents already in memory, with the same
// filter, sort and paging rules Execute sends to MongoDB. It returns the
// page of matching documents and the total match count.
func Run(docs []bson.M, t Target, req Request) ([]bson.M, int64) {
	req = req.Normalize()
	filter := Build(t, req)

	var matched []bson.M
	for _, d := range docs {
		if filter.Matches(d) {
			matched = append(matched, d)
		}
	}

	if t.SortField != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			return sortKey(matched[i][t.SortField]) > sortKey(matched[j][t.SortField])
		})
	}

	total := int64(len(matched))
	skip := req.Skip()
	if skip >= total {
		return nil, total
	}
	end := skip + int64(req.Limit)
	if end > total {
		end = total
	}
	return matched[skip:end], total
}

func sortKey(v interface{}) int64 {
	switch t := v.(type) {
	case primitive.DateTime:
		return int64(t)
	case time.Time:
		return t.UnixMilli()
	case int64:
		return t
	case int32:
		return int64(t)
	case int:
		return int64(t)
	}
	return 0
}

// ToDocument converts a struct into the generic form Predicate.Matches reads.
func ToDocument(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

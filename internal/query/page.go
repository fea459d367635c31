package query

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Page is the list envelope shared by every list endpoint.
type Page[T any] struct {
	Data         []T   `json:"data"`
	CurrentPage  int   `json:"currentPage"`
	ItemsPerPage int   `json:"itemsPerPage"`
	TotalItems   int64 `json:"totalItems"`
	TotalPages   int64 `json:"totalPages"`
}

// NewPage wraps one page of items. Data is never nil so it encodes as [].
func NewPage[T any](items []T, req Request, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Data:         items,
		CurrentPage:  req.Page,
		ItemsPerPage: req.Limit,
		TotalItems:   total,
		TotalPages:   TotalPages(total, req.Limit),
	}
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 || total <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}

// ParseRequest reads page, limit, search, status and role from query
// parameters. Missing or non-numeric page/limit fall back to the defaults,
// page is capped at MaxPage and limit at MaxLimit.
func ParseRequest(values url.Values) Request {
	req := Request{
		Page:   positiveInt(values.Get("page"), DefaultPage),
		Limit:  positiveInt(values.Get("limit"), DefaultLimit),
		Search: strings.TrimSpace(values.Get("search")),
		Status: strings.TrimSpace(values.Get("status")),
		Role:   strings.TrimSpace(values.Get("role")),
	}
	return req.Normalize()
}

// Normalize applies the same defaults as ParseRequest to a hand-built request.
func (r Request) Normalize() Request {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.Page > MaxPage {
		r.Page = MaxPage
	}
	if r.Limit < 1 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	return r
}

func positiveInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if errors.Is(err, strconv.ErrRange) && n > 0 {
		// Atoi saturates on overflow; Normalize caps it.
		return n
	}
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Collection is the part of *mongo.Collection a list query needs.
type Collection interface {
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// FindOptions returns the sort/skip/limit options for req against t.
func FindOptions(t Target, req Request) *options.FindOptions {
	opts := options.Find().SetSkip(req.Skip()).SetLimit(int64(req.Limit))
	if t.SortField != "" {
		opts.SetSort(bson.D{{Key: t.SortField, Value: -1}})
	}
	return opts
}

// Execute counts and fetches one page of t matching req.
func Execute[T any](ctx context.Context, coll Collection, t Target, req Request) (*Page[T], error) {
	req = req.Normalize()
	filter := Filter(t, req)

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", t.Collection, err)
	}

	cursor, err := coll.Find(ctx, filter, FindOptions(t, req))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", t.Collection, err)
	}
	defer cursor.Close(ctx)

	var items []T
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", t.Collection, err)
	}
	return NewPage(items, req, total), nil
}

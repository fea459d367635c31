// Package memstore holds in-memory report and profile stores for tests.
// The server never wires it; cmd/server uses the MongoDB stores. List
// queries run through query.Run, so filtering, ordering and paging behave
// the way they do against MongoDB.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/reportguard-backend/internal/apperr"
	"github.com/AnshRaj112/reportguard-backend/internal/models"
	"github.com/AnshRaj112/reportguard-backend/internal/query"
	"github.com/AnshRaj112/reportguard-backend/internal/services"
)

var (
	_ services.ReportStore  = (*Reports)(nil)
	_ services.ProfileStore = (*Profiles)(nil)
)

// Reports is an in-memory services.ReportStore.
type Reports struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.Report
	// Err, when set, is returned by every call.
	Err error
}

func NewReports(seed ...models.Report) *Reports {
	s := &Reports{items: make(map[primitive.ObjectID]models.Report)}
	for _, r := range seed {
		if r.ID.IsZero() {
			r.ID = primitive.NewObjectID()
		}
		s.items[r.ID] = r
	}
	return s
}

func (s *Reports) Insert(_ context.Context, r *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	s.items[r.ID] = *r
	return nil
}

func (s *Reports) Get(_ context.Context, id primitive.ObjectID) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	r, ok := s.items[id]
	if !ok {
		return nil, apperr.NotFound("Report not found")
	}
	return &r, nil
}

func (s *Reports) List(_ context.Context, req query.Request) (*query.Page[models.Report], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	docs := make([]interface{}, 0, len(s.items))
	for _, r := range s.items {
		docs = append(docs, r)
	}
	return list[models.Report](docs, query.Reports, req)
}

func (s *Reports) MarkTrashed(_ context.Context, id primitive.ObjectID, by string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	r, ok := s.items[id]
	if !ok || r.Trashed() {
		return false, nil
	}
	at = at.Truncate(time.Millisecond)
	r.DeletedAt, r.DeletedBy = &at, by
	s.items[id] = r
	return true, nil
}

func (s *Reports) Restore(_ context.Context, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	return s.restore(id), nil
}

func (s *Reports) restore(id primitive.ObjectID) bool {
	r, ok := s.items[id]
	if !ok || !r.Trashed() {
		return false
	}
	r.DeletedAt, r.DeletedBy = nil, ""
	s.items[id] = r
	return true
}

func (s *Reports) Delete(_ context.Context, id primitive.ObjectID, trashedOnly bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	r, ok := s.items[id]
	if !ok || (trashedOnly && !r.Trashed()) {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func (s *Reports) RestoreMany(_ context.Context, ids []primitive.ObjectID) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, 0, s.Err
	}
	var n int64
	for _, id := range unique(ids) {
		if s.restore(id) {
			n++
		}
	}
	return n, n, nil
}

func (s *Reports) DeleteMany(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	var n int64
	for _, id := range unique(ids) {
		if r, ok := s.items[id]; ok && r.Trashed() {
			delete(s.items, id)
			n++
		}
	}
	return n, nil
}

// Len is the number of stored reports, trashed included.
func (s *Reports) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Profiles is an in-memory services.ProfileStore.
type Profiles struct {
	mu    sync.Mutex
	items map[string]models.UserProfile
	Err   error
}

func NewProfiles(seed ...models.UserProfile) *Profiles {
	s := &Profiles{items: make(map[string]models.UserProfile)}
	for _, p := range seed {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		s.items[p.UID] = p
	}
	return s
}

func (s *Profiles) FindByUID(_ context.Context, uid string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.items[uid]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	return &p, nil
}

func (s *Profiles) Insert(_ context.Context, p *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.items[p.UID]; ok {
		return services.ErrDuplicateProfile
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.items[p.UID] = *p
	return nil
}

func (s *Profiles) List(_ context.Context, req query.Request) (*query.Page[models.UserProfile], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	docs := make([]interface{}, 0, len(s.items))
	for _, p := range s.items {
		docs = append(docs, p)
	}
	return list[models.UserProfile](docs, query.Profiles, req)
}

func (s *Profiles) SetStatus(_ context.Context, uid string, status models.ProfileStatus) (bool, error) {
	return s.update(uid, func(p *models.UserProfile) { p.Status = status })
}

func (s *Profiles) SetRole(_ context.Context, uid string, role models.Role) (bool, error) {
	return s.update(uid, func(p *models.UserProfile) { p.Role = role })
}

func (s *Profiles) update(uid string, fn func(*models.UserProfile)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	p, ok := s.items[uid]
	if !ok {
		return false, nil
	}
	fn(&p)
	s.items[uid] = p
	return true, nil
}

func (s *Profiles) Delete(_ context.Context, uid string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	if _, ok := s.items[uid]; !ok {
		return false, nil
	}
	delete(s.items, uid)
	return true, nil
}

func list[T any](items []interface{}, t query.Target, req query.Request) (*query.Page[T], error) {
	req = req.Normalize()
	docs := make([]bson.M, 0, len(items))
	for _, it := range items {
		d, err := query.ToDocument(it)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	// Map iteration order is random; fix a base order before the stable sort.
	sortByID(docs)

	matched, total := query.Run(docs, t, req)
	out := make([]T, 0, len(matched))
	for _, d := range matched {
		raw, err := bson.Marshal(d)
		if err != nil {
			return nil, err
		}
		var v T
		if err := bson.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return query.NewPage(out, req, total), nil
}

func unique(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func sortByID(docs []bson.M) {
	sort.Slice(docs, func(i, j int) bool {
		a, _ := docs[i]["_id"].(primitive.ObjectID)
		b, _ := docs[j]["_id"].(primitive.ObjectID)
		return a.Hex() < b.Hex()
	})
}

package datastore

import (
	"context"
	"fmt"
	"time"

	"github.com/lucsky/cuid"

	"github.com/alegrify/go-services/pkg/logger"
	"github.com/alegrify/go-services/pkg/metrics"
)

// BulkSaveLimit caps the number of records a single Save call may write.
const BulkSaveLimit = 100

// DefaultLimit is applied to queries that don't ask for an explicit limit.
const DefaultLimit = 50

// FindOptions tune a FindOne/FindMultiple call.
type FindOptions struct {
	// Populate maps a foreign-key field to the collection its id(s) point at.
	// Resolved sub-records replace the id(s) inline.
	Populate map[string]string
	Limit    int
	Offset   int
	// NoFilters skips the role projection on populated sub-records.
	NoFilters bool
	// MyUserID is the viewer, used to pick the projection for populated
	// Corporate records.
	MyUserID      string
	CreatedAfter  time.Time
	CreatedBefore time.Time
}

// ViewFilters picks the projection applied to populated sub-records of a
// given collection, as seen by a given viewer. A nil projector means the
// sub-record passes through unfiltered.
type ViewFilters interface {
	ProjectorFor(collection, viewerID string) func(Record) Record
}

// Store is the query/population/mutation layer over a Backend.
//
// Reads are fail-soft: any backend failure is logged and surfaces to the
// caller as "nothing found". Mutations return errors, except Save which
// keeps the fail-soft contract of the rest of the write path's callers.
type Store struct {
	backend Backend
	filters ViewFilters
	now     func() time.Time
	newID   func() string
}

func NewStore(backend Backend, filters ViewFilters) *Store {
	return &Store{
		backend: backend,
		filters: filters,
		now:     time.Now,
		newID:   cuid.New,
	}
}

// FindMultiple returns records of a collection matching all equality filters.
//
// With CreatedAfter set the query ranges over created_at (descending);
// otherwise it applies the liveness bound updated_at > Sentinel and orders by
// updated_at descending, which keeps soft-deleted records out. Records whose
// _deleted flag is set are filtered out again after the query: the liveness
// bound does not apply on the created_at path, so the post-filter is
// load-bearing there.
func (s *Store) FindMultiple(ctx context.Context, collection string, filters map[string]any, opts *FindOptions) []Record {
	metrics.StoreOps.WithLabelValues("find", collection).Inc()
	if opts == nil {
		opts = &FindOptions{}
	}

	q := Query{
		Filters:    filters,
		Limit:      opts.Limit,
		Offset:     opts.Offset,
		Descending: true,
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if !opts.CreatedAfter.IsZero() {
		q.CreatedAfter = opts.CreatedAfter
		q.CreatedBefore = opts.CreatedBefore
		q.OrderBy = "created_at"
	} else {
		q.UpdatedAfter = Sentinel
		q.OrderBy = "updated_at"
	}

	results, err := s.backend.Run(ctx, collection, q)
	if err != nil {
		logger.LogError(fmt.Errorf("find %s: %w", collection, err))
		return nil
	}

	live := results[:0]
	for _, rec := range results {
		if !rec.Deleted() {
			live = append(live, rec)
		}
	}

	if len(opts.Populate) > 0 {
		for _, rec := range live {
			s.populate(ctx, rec, opts)
		}
	}
	return live
}

// FindOne returns the latest record matching the filters, or nil. Same
// fail-soft contract as FindMultiple: nil on error, never an error return.
func (s *Store) FindOne(ctx context.Context, collection string, filters map[string]any, opts *FindOptions) Record {
	merged := FindOptions{Limit: 1}
	if opts != nil {
		merged = *opts
		if merged.Limit <= 0 {
			merged.Limit = 1
		}
	}
	results := s.FindMultiple(ctx, collection, filters, &merged)
	if len(results) > 0 {
		return results[0]
	}
	return nil
}

func (s *Store) populate(ctx context.Context, rec Record, opts *FindOptions) {
	for field, targetCollection := range opts.Populate {
		value, ok := rec[field]
		if !ok || value == nil {
			continue
		}

		project := func(r Record) Record { return r }
		if !opts.NoFilters && s.filters != nil {
			if p := s.filters.ProjectorFor(targetCollection, opts.MyUserID); p != nil {
				project = p
			}
		}

		switch ids := value.(type) {
		case string:
			sub := s.FindOne(ctx, targetCollection, map[string]any{"_id": ids}, nil)
			if sub == nil || sub.Deleted() {
				delete(rec, field)
				continue
			}
			rec[field] = project(sub)
		default:
			resolved := make([]Record, 0)
			for _, id := range rec.StringsField(field) {
				sub := s.FindOne(ctx, targetCollection, map[string]any{"_id": id}, nil)
				if sub == nil || sub.Deleted() {
					continue
				}
				resolved = append(resolved, project(sub))
			}
			rec[field] = resolved
		}
	}
}

// Save writes each value as a brand new record, stamping _id, _deleted,
// created_at and updated_at. It returns the id of the first record written,
// or "" when nothing was written. More than BulkSaveLimit items is refused
// before any write happens.
func (s *Store) Save(ctx context.Context, collection string, values ...Record) string {
	stamped, err := s.save(ctx, collection, values)
	if err != nil {
		logger.LogError(fmt.Errorf("save %s: %w", collection, err))
		return ""
	}
	if len(stamped) == 0 {
		return ""
	}
	return stamped[0].ID()
}

func (s *Store) save(ctx context.Context, collection string, values []Record) ([]Record, error) {
	metrics.StoreOps.WithLabelValues("save", collection).Inc()
	if len(values) > BulkSaveLimit {
		return nil, ErrTooManyItems
	}

	now := s.now().UTC()
	stamped := make([]Record, 0, len(values))
	for _, value := range values {
		rec := value.Clone()
		if rec == nil {
			rec = Record{}
		}
		rec["_id"] = s.newID()
		rec["_deleted"] = false
		rec["created_at"] = now
		rec["updated_at"] = now
		if err := s.backend.Put(ctx, collection, rec.ID(), rec); err != nil {
			return nil, err
		}
		stamped = append(stamped, rec)
	}
	return stamped, nil
}

// Update overwrites the record under id with (current ∪ mutations) and a
// fresh updated_at. Unlike the read path this fails loud: an empty id is a
// programmer error and backend failures propagate.
func (s *Store) Update(ctx context.Context, collection, id string, mutations Record) (Record, error) {
	return s.overwrite(ctx, collection, id, mutations, true)
}

func (s *Store) overwrite(ctx context.Context, collection, id string, mutations Record, stampNow bool) (Record, error) {
	metrics.StoreOps.WithLabelValues("update", collection).Inc()
	if id == "" {
		return nil, ErrInvalidID
	}

	merged := Record{}
	if current := s.FindOne(ctx, collection, map[string]any{"_id": id}, nil); current != nil {
		merged = current.Clone()
	}
	for k, v := range mutations {
		merged[k] = v
	}
	merged["_id"] = id
	if stampNow {
		merged["updated_at"] = s.now().UTC()
	}

	if err := s.backend.Put(ctx, collection, id, merged); err != nil {
		return nil, fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return merged, nil
}

// Upsert updates the record matching query when one exists, otherwise it
// saves mutations as a new record. On insert the query fields are NOT folded
// into the new record; callers relying on them must include them in
// mutations. Existing callers depend on that asymmetry.
func (s *Store) Upsert(ctx context.Context, collection string, query map[string]any, mutations Record) (Record, error) {
	if current := s.FindOne(ctx, collection, query, nil); current != nil && current.ID() != "" {
		return s.Update(ctx, collection, current.ID(), mutations)
	}
	stamped, err := s.save(ctx, collection, []Record{mutations})
	if err != nil {
		return nil, err
	}
	return stamped[0], nil
}

// SoftDelete flags the record as deleted and pushes its updated_at below the
// liveness sentinel so default queries stop returning it. The record stays
// physically stored.
func (s *Store) SoftDelete(ctx context.Context, collection, id string) (Record, error) {
	mutations := Record{
		"_deleted":   true,
		"updated_at": time.Unix(0, 0).UTC(),
	}
	return s.overwrite(ctx, collection, id, mutations, false)
}

package filedb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Collection is the CRUD surface for one named collection. Handles are
// cheap; obtain one per call site via Store.Collection.
type Collection struct {
	store *Store
	spec  Spec
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.spec.Name
}

// Sequences returns the named record sequences of a documents collection.
func (c *Collection) Sequences() []string {
	return append([]string(nil), c.spec.Sequences...)
}

// CreateOption customises a single create call.
type CreateOption func(*createOptions)

type createOptions struct {
	sequence     string
	precondition func(existing []Record) error
}

// InSequence targets a named sequence instead of the collection default.
func InSequence(seq string) CreateOption {
	return func(o *createOptions) { o.sequence = seq }
}

// WithPrecondition runs the check inside the collection lock, against the
// freshly read records of every sequence, before the new record is appended.
// A returned error aborts the create and is surfaced unchanged. This is how
// check-then-act invariants (the user email uniqueness check) stay race-free
// with concurrent writers.
func WithPrecondition(check func(existing []Record) error) CreateOption {
	return func(o *createOptions) { o.precondition = check }
}

// Create appends a new record: assigns a fresh identifier, stamps the
// creation time, applies the collection's default status, merges the
// caller's attributes and persists the collection. The stored record is
// returned.
func (c *Collection) Create(ctx context.Context, attrs Record, opts ...CreateOption) (Record, error) {
	options := createOptions{sequence: c.spec.defaultSequence()}
	for _, opt := range opts {
		opt(&options)
	}
	if err := c.requireShape(ShapeDocuments); err != nil {
		return nil, err
	}

	record := Record{}
	if c.spec.DefaultStatus != "" {
		record[FieldStatus] = c.spec.DefaultStatus
	}
	record.merge(attrs)
	record[FieldID] = uuid.NewString()
	record[FieldCreatedAt] = time.Now().UTC().Format(TimeFormat)

	err := c.mutateOp(ctx, "create", func(p *payload) (bool, error) {
		if _, ok := p.seqs[options.sequence]; !ok && !contains(c.spec.Sequences, options.sequence) {
			return false, fmt.Errorf("collection %s has no sequence %q", c.spec.Name, options.sequence)
		}
		if options.precondition != nil {
			if err := options.precondition(p.all()); err != nil {
				return false, err
			}
		}
		p.seqs[options.sequence] = append(p.seqs[options.sequence], record)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// GetByID scans every sequence for a matching identifier. Absence is not an
// error: the record is nil.
func (c *Collection) GetByID(ctx context.Context, id string) (Record, error) {
	if err := c.requireShape(ShapeDocuments); err != nil {
		return nil, err
	}
	return c.find(ctx, func(r Record) bool { return r.ID() == id })
}

// Find returns the first record matching the predicate across all
// sequences, or nil.
func (c *Collection) Find(ctx context.Context, pred func(Record) bool) (Record, error) {
	if err := c.requireShape(ShapeDocuments); err != nil {
		return nil, err
	}
	return c.find(ctx, pred)
}

// List returns records from the default sequence, newest-created first,
// sliced by skip and limit. Out-of-range bounds yield an empty slice.
func (c *Collection) List(ctx context.Context, skip, limit int) ([]Record, error) {
	return c.ListIn(ctx, c.spec.defaultSequence(), skip, limit)
}

// ListIn is List for a named sequence.
func (c *Collection) ListIn(ctx context.Context, seq string, skip, limit int) ([]Record, error) {
	records, err := c.ListWhere(ctx, seq, nil)
	if err != nil {
		return nil, err
	}
	return paginate(records, skip, limit), nil
}

// ListWhere returns every record of the sequence matching the predicate
// (nil matches all), newest-created first.
func (c *Collection) ListWhere(ctx context.Context, seq string, pred func(Record) bool) ([]Record, error) {
	if err := c.requireShape(ShapeDocuments); err != nil {
		return nil, err
	}
	var out []Record
	err := c.readOp(ctx, "list", func(p *payload) error {
		if !contains(c.spec.Sequences, seq) {
			return fmt.Errorf("collection %s has no sequence %q", c.spec.Name, seq)
		}
		for _, r := range p.seqs[seq] {
			if pred == nil || pred(r) {
				out = append(out, r.clone())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortNewestFirst(out)
	return out, nil
}

// Update shallow-merges partial attributes into the matching record,
// refreshes the update timestamp and persists. A nil record means not found.
func (c *Collection) Update(ctx context.Context, id string, partial Record) (Record, error) {
	return c.update(ctx, "", id, partial)
}

// UpdateIn is Update restricted to one named sequence. A record with the
// identifier in a different sequence is left untouched and reported as not
// found.
func (c *Collection) UpdateIn(ctx context.Context, seq, id string, partial Record) (Record, error) {
	if !contains(c.spec.Sequences, seq) {
		return nil, fmt.Errorf("collection %s has no sequence %q", c.spec.Name, seq)
	}
	return c.update(ctx, seq, id, partial)
}

func (c *Collection) update(ctx context.Context, seq, id string, partial Record) (Record, error) {
	if err := c.requireShape(ShapeDocuments); err != nil {
		return nil, err
	}
	var updated Record
	err := c.mutateOp(ctx, "update", func(p *payload) (bool, error) {
		for name, records := range p.seqs {
			if seq != "" && name != seq {
				continue
			}
			for i, r := range records {
				if r.ID() != id {
					continue
				}
				merged := r.clone()
				merged.merge(partial)
				merged[FieldUpdatedAt] = time.Now().UTC().Format(TimeFormat)
				p.seqs[name][i] = merged
				updated = merged
				return true, nil
			}
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete filters the matching record out and persists. The boolean reports
// whether a removal occurred.
func (c *Collection) Delete(ctx context.Context, id string) (bool, error) {
	if err := c.requireShape(ShapeDocuments); err != nil {
		return false, err
	}
	removed := false
	err := c.mutateOp(ctx, "delete", func(p *payload) (bool, error) {
		for seq, records := range p.seqs {
			kept := records[:0:0]
			for _, r := range records {
				if r.ID() == id {
					removed = true
					continue
				}
				kept = append(kept, r)
			}
			if kept == nil {
				kept = []Record{}
			}
			p.seqs[seq] = kept
		}
		return removed, nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// GetKey returns the value stored under key in a keyed collection, or nil.
func (c *Collection) GetKey(ctx context.Context, key string) (Record, error) {
	if err := c.requireShape(ShapeKeyed); err != nil {
		return nil, err
	}
	var out Record
	err := c.readOp(ctx, "get_key", func(p *payload) error {
		if v, ok := p.keys[key]; ok {
			out = v.clone()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetKey stores value under key, replacing any previous value.
func (c *Collection) SetKey(ctx context.Context, key string, value Record) error {
	if err := c.requireShape(ShapeKeyed); err != nil {
		return err
	}
	return c.mutateOp(ctx, "set_key", func(p *payload) (bool, error) {
		p.keys[key] = value.clone()
		return true, nil
	})
}

// DeleteKey removes key. The boolean reports whether it was present.
func (c *Collection) DeleteKey(ctx context.Context, key string) (bool, error) {
	if err := c.requireShape(ShapeKeyed); err != nil {
		return false, err
	}
	removed := false
	err := c.mutateOp(ctx, "delete_key", func(p *payload) (bool, error) {
		if _, ok := p.keys[key]; !ok {
			return false, nil
		}
		delete(p.keys, key)
		removed = true
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (c *Collection) find(ctx context.Context, pred func(Record) bool) (Record, error) {
	var out Record
	err := c.readOp(ctx, "find", func(p *payload) error {
		for _, seq := range c.spec.Sequences {
			for _, r := range p.seqs[seq] {
				if pred(r) {
					out = r.clone()
					return nil
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// readOp runs fn against a freshly read payload. Reads take no lock: the
// atomic rename on the write path guarantees they see either the previous
// or the next complete version of the file.
func (c *Collection) readOp(ctx context.Context, op string, fn func(*payload) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	p := c.store.readPayload(c.spec)
	err := fn(p)
	c.store.metrics.ObserveOperation(c.spec.Name, op, err, time.Since(start))
	return err
}

// mutate runs fn inside the collection lock against a freshly read payload
// and persists when fn reports a change. The lock spans the whole
// read-modify-write-persist sequence so concurrent mutations serialize
// instead of losing updates.
func (c *Collection) mutate(ctx context.Context, fn func(*payload) (bool, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lock := c.store.lockFor(c.spec)
	lockStart := time.Now()
	if err := lock.acquire(ctx); err != nil {
		return err
	}
	c.store.metrics.ObserveLockWait(c.spec.Name, time.Since(lockStart))
	defer lock.release()

	p := c.store.readPayload(c.spec)
	dirty, err := fn(p)
	if err != nil {
		return err
	}
	if !dirty {
		return nil
	}
	return c.store.writePayload(p)
}

func (c *Collection) mutateOp(ctx context.Context, op string, fn func(*payload) (bool, error)) error {
	start := time.Now()
	err := c.mutate(ctx, fn)
	c.store.metrics.ObserveOperation(c.spec.Name, op, err, time.Since(start))
	return err
}

func (c *Collection) requireShape(shape Shape) error {
	if c.spec.Shape != shape {
		return fmt.Errorf("collection %s does not support this operation", c.spec.Name)
	}
	return nil
}

// all flattens every sequence, for precondition checks.
func (p *payload) all() []Record {
	var out []Record
	for _, seq := range p.spec.Sequences {
		out = append(out, p.seqs[seq]...)
	}
	return out
}

// sortNewestFirst orders by creation time descending. RFC3339Nano drops
// trailing zeros, so the strings are parsed rather than compared raw.
func sortNewestFirst(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		ti, erri := time.Parse(TimeFormat, records[i].String(FieldCreatedAt))
		tj, errj := time.Parse(TimeFormat, records[j].String(FieldCreatedAt))
		if erri != nil || errj != nil {
			return records[i].String(FieldCreatedAt) > records[j].String(FieldCreatedAt)
		}
		return ti.After(tj)
	})
}

func paginate(records []Record, skip, limit int) []Record {
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}
	if skip >= len(records) {
		return []Record{}
	}
	end := skip + limit
	if limit == 0 || end > len(records) {
		end = len(records)
	}
	return records[skip:end]
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

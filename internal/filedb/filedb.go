// Package filedb implements the flat-file document store backing the API.
//
// Each collection is a single JSON file under a configured data directory.
// Every operation re-reads the file in full and mutating operations rewrite
// it in full via a temp-file-plus-rename, so readers never observe a
// partially written file. A sentinel lock file provides cooperative
// cross-process mutual exclusion around the whole read-modify-write cycle.
package filedb

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// Shape describes the on-disk layout of a collection file.
type Shape int

const (
	// ShapeDocuments stores one or more named sequences of records,
	// e.g. {"schedules": [...]} or {"students": [...], "counselors": [...]}.
	ShapeDocuments Shape = iota + 1
	// ShapeKeyed stores a flat mapping from caller-supplied key to value,
	// e.g. reset codes keyed by lowercased email.
	ShapeKeyed
)

// Spec fixes the name, file and layout of one collection.
type Spec struct {
	Name  string
	File  string
	Shape Shape
	// Sequences lists the named record sequences for ShapeDocuments
	// collections. The first entry is the default sequence.
	Sequences []string
	// DefaultStatus, when non-empty, is stamped onto created records that
	// do not carry a status of their own.
	DefaultStatus string
}

func (s Spec) defaultSequence() string {
	if len(s.Sequences) == 0 {
		return ""
	}
	return s.Sequences[0]
}

// Collection names known to the store.
const (
	CollectionUsers           = "users"
	CollectionEnrollments     = "enrollments"
	CollectionSchedules       = "schedules"
	CollectionResetCodes      = "reset_codes"
	CollectionJobApplications = "job_applications"
	CollectionSignups         = "early_access_signups"
)

// All record collections use the mapping-of-sequences layout; legacy bare
// arrays are migrated once by Initialize.
var defaultSpecs = []Spec{
	{Name: CollectionUsers, File: "users.json", Shape: ShapeDocuments, Sequences: []string{"users"}},
	{Name: CollectionEnrollments, File: "enrollments.json", Shape: ShapeDocuments, Sequences: []string{"enrollments"}, DefaultStatus: "pending"},
	{Name: CollectionSchedules, File: "schedules.json", Shape: ShapeDocuments, Sequences: []string{"schedules"}, DefaultStatus: "pending"},
	{Name: CollectionResetCodes, File: "reset_codes.json", Shape: ShapeKeyed},
	{Name: CollectionJobApplications, File: "job_applications.json", Shape: ShapeDocuments, Sequences: []string{"applications"}, DefaultStatus: "new"},
	{Name: CollectionSignups, File: "early_access_signups.json", Shape: ShapeDocuments, Sequences: []string{"students", "counselors"}, DefaultStatus: "pending"},
}

// LockPolicy bounds lock acquisition retries and orphan cleanup.
type LockPolicy struct {
	Attempts   int
	Delay      time.Duration
	StaleAfter time.Duration
}

// DefaultLockPolicy mirrors the historical 50 x 100ms retry budget with a
// 30s staleness cutoff for orphaned sentinels.
var DefaultLockPolicy = LockPolicy{
	Attempts:   50,
	Delay:      100 * time.Millisecond,
	StaleAfter: 30 * time.Second,
}

// Store owns the data directory and hands out collection handles.
type Store struct {
	dir     string
	lock    LockPolicy
	logger  *zap.Logger
	metrics Observer
	specs   map[string]Spec
}

// Option customises store construction.
type Option func(*Store)

// WithLogger attaches a zap logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics attaches an operation observer. Defaults to a no-op observer.
func WithMetrics(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.metrics = o
		}
	}
}

// WithLockPolicy overrides the default lock retry budget.
func WithLockPolicy(p LockPolicy) Option {
	return func(s *Store) {
		if p.Attempts > 0 {
			s.lock.Attempts = p.Attempts
		}
		if p.Delay > 0 {
			s.lock.Delay = p.Delay
		}
		if p.StaleAfter > 0 {
			s.lock.StaleAfter = p.StaleAfter
		}
	}
}

// New creates a store rooted at dir. An unusable directory is a fatal
// configuration error surfaced immediately, not deferred to first use.
func New(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		dir = "./data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", dir, err)
	}

	s := &Store{
		dir:     dir,
		lock:    DefaultLockPolicy,
		logger:  zap.NewNop(),
		metrics: nopObserver{},
		specs:   make(map[string]Spec, len(defaultSpecs)),
	}
	for _, spec := range defaultSpecs {
		s.specs[spec.Name] = spec
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Initialize creates missing collection files with their default content and
// migrates legacy bare-array files to the mapping-of-sequences layout.
// It is idempotent: existing data is never altered, only gaps are filled.
func (s *Store) Initialize() error {
	for _, spec := range defaultSpecs {
		if err := s.initializeCollection(spec); err != nil {
			return fmt.Errorf("initialize collection %s: %w", spec.Name, err)
		}
	}
	return nil
}

func (s *Store) initializeCollection(spec Spec) error {
	c := s.Collection(spec.Name)
	return c.mutate(context.Background(), func(p *payload) (bool, error) {
		dirty := false
		if spec.Shape == ShapeDocuments {
			for _, seq := range spec.Sequences {
				if _, ok := p.seqs[seq]; !ok {
					p.seqs[seq] = []Record{}
					dirty = true
				}
			}
			if p.migrated {
				dirty = true
			}
		}
		if !p.existed {
			dirty = true
		}
		return dirty, nil
	})
}

// Collection returns a handle for the named collection. The collection table
// is fixed at compile time, so an unknown name is a programmer error.
func (s *Store) Collection(name string) *Collection {
	spec, ok := s.specs[name]
	if !ok {
		panic(fmt.Sprintf("filedb: unknown collection %q", name))
	}
	return &Collection{store: s, spec: spec}
}

// Dir exposes the data directory path.
func (s *Store) Dir() string {
	return s.dir
}

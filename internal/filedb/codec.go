package filedb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// payload is the in-memory form of one collection file.
type payload struct {
	spec Spec
	seqs map[string][]Record // ShapeDocuments
	keys map[string]Record   // ShapeKeyed

	// existed reports whether the file was present and parseable; migrated
	// reports that a legacy bare-array file was converted to the
	// mapping-of-sequences layout on read.
	existed  bool
	migrated bool
}

func newPayload(spec Spec) *payload {
	p := &payload{spec: spec}
	switch spec.Shape {
	case ShapeKeyed:
		p.keys = make(map[string]Record)
	default:
		p.seqs = make(map[string][]Record, len(spec.Sequences))
		for _, seq := range spec.Sequences {
			p.seqs[seq] = []Record{}
		}
	}
	return p
}

func (s *Store) filePath(spec Spec) string {
	return filepath.Join(s.dir, spec.File)
}

// readPayload loads the full collection file. A missing or unparseable file
// yields the collection's empty default so readers never fail on absence or
// corruption; a corrupt file is first preserved to a .corrupt sibling so the
// next successful write does not silently discard it.
func (s *Store) readPayload(spec Spec) *payload {
	path := s.filePath(spec)

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read collection file, using empty default",
				zap.String("collection", spec.Name), zap.Error(err))
		}
		return newPayload(spec)
	}
	if len(raw) == 0 {
		return newPayload(spec)
	}

	p, err := decodePayload(spec, raw)
	if err != nil {
		s.quarantine(spec, path, raw, err)
		return newPayload(spec)
	}
	p.existed = true
	return p
}

func decodePayload(spec Spec, raw []byte) (*payload, error) {
	p := newPayload(spec)

	if spec.Shape == ShapeKeyed {
		if err := json.Unmarshal(raw, &p.keys); err != nil {
			return nil, fmt.Errorf("parse keyed collection: %w", err)
		}
		return p, nil
	}

	// Legacy deployments stored some collections as a bare array. Accept
	// both forms on read; Initialize persists the migrated layout once.
	var seqs map[string][]Record
	if err := json.Unmarshal(raw, &seqs); err == nil {
		for seq, records := range seqs {
			if records == nil {
				records = []Record{}
			}
			p.seqs[seq] = records
		}
		return p, nil
	}

	var legacy []Record
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, fmt.Errorf("parse collection: %w", err)
	}
	p.seqs[spec.defaultSequence()] = legacy
	p.migrated = true
	return p, nil
}

// writePayload serializes the full structure to a sibling temp file, syncs
// it, and renames it onto the final path. The rename is the commit point;
// same directory renames are atomic on POSIX filesystems.
func (s *Store) writePayload(p *payload) error {
	var doc interface{}
	if p.spec.Shape == ShapeKeyed {
		doc = p.keys
	} else {
		doc = p.seqs
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal collection %s: %w", p.spec.Name, err)
	}

	path := s.filePath(p.spec)
	tmp, err := os.CreateTemp(s.dir, p.spec.File+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", p.spec.Name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file for %s: %w", p.spec.Name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp file for %s: %w", p.spec.Name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file for %s: %w", p.spec.Name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("commit collection %s: %w", p.spec.Name, err)
	}
	return nil
}

// quarantine preserves an unparseable collection file before the store heals
// it with an empty default on the next write.
func (s *Store) quarantine(spec Spec, path string, raw []byte, cause error) {
	target := fmt.Sprintf("%s.corrupt-%s", path, time.Now().UTC().Format("20060102T150405"))
	if err := os.WriteFile(target, raw, 0o644); err != nil {
		s.logger.Error("failed to quarantine corrupt collection file",
			zap.String("collection", spec.Name), zap.Error(err), zap.NamedError("cause", cause))
		return
	}
	s.logger.Warn("corrupt collection file quarantined, continuing with empty default",
		zap.String("collection", spec.Name), zap.String("quarantined_as", target),
		zap.NamedError("cause", cause))
}

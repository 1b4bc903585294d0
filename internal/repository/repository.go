// Package repository provides typed access to the flat-file document store.
// Repositories translate between domain models and untyped store records;
// absence is reported as a nil result, never an error.
package repository

import (
	"github.com/stempro/academy-api/internal/filedb"
)

// createAttrs converts a model into create attributes, stripping the
// server-assigned fields so the store stamps them itself. An empty status is
// removed to let the collection default apply.
func createAttrs(v interface{}) (filedb.Record, error) {
	rec, err := filedb.Encode(v)
	if err != nil {
		return nil, err
	}
	delete(rec, filedb.FieldID)
	delete(rec, filedb.FieldCreatedAt)
	if s, ok := rec[filedb.FieldStatus].(string); ok && s == "" {
		delete(rec, filedb.FieldStatus)
	}
	return rec, nil
}

// pageSlice applies skip/limit pagination to an already-sorted record list.
// Out-of-range bounds yield an empty slice.
func pageSlice(records []filedb.Record, skip, limit int) []filedb.Record {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = len(records)
	}
	if skip >= len(records) {
		return []filedb.Record{}
	}
	end := skip + limit
	if end > len(records) {
		end = len(records)
	}
	return records[skip:end]
}

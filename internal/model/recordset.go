package model

import (
	"sort"
	"time"
)

// RecordSet is an ordered collection of records with unique natural
// keys. Duplicates are dropped on insert, first occurrence wins.
type RecordSet struct {
	records []Record
	seen    map[string]struct{}
}

// NewRecordSet builds a set from records in order, dropping duplicate
// keys.
func NewRecordSet(records ...Record) RecordSet {
	var s RecordSet
	for _, r := range records {
		s.Add(r)
	}
	return s
}

// Add appends a record unless its natural key is already present.
// Reports whether the record was kept.
func (s *RecordSet) Add(r Record) bool {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	key := r.NaturalKey()
	if _, dup := s.seen[key]; dup {
		return false
	}
	s.seen[key] = struct{}{}
	s.records = append(s.records, r)
	return true
}

// Records returns the records in their current order. Never nil, so an
// empty successful set serializes as an empty array.
func (s RecordSet) Records() []Record {
	if s.records == nil {
		return []Record{}
	}
	return s.records
}

// Len reports the number of records.
func (s RecordSet) Len() int {
	return len(s.records)
}

// Head returns up to n leading records.
func (s RecordSet) Head(n int) []Record {
	if n > len(s.records) {
		n = len(s.records)
	}
	return s.records[:n]
}

// SortByTimeDesc orders records newest first. Equal timestamps fall
// back to natural key ascending so the order is deterministic
// regardless of insertion order.
func (s *RecordSet) SortByTimeDesc() {
	sort.SliceStable(s.records, func(i, j int) bool {
		ti, tj := s.records[i].Time(), s.records[j].Time()
		if ti.Equal(tj) {
			return s.records[i].NaturalKey() < s.records[j].NaturalKey()
		}
		return ti.After(tj)
	})
}

// Since returns a new set holding only records at or after cutoff. A
// zero cutoff keeps everything.
func (s RecordSet) Since(cutoff time.Time) RecordSet {
	if cutoff.IsZero() {
		return s
	}
	var out RecordSet
	for _, r := range s.records {
		if !r.Time().Before(cutoff) {
			out.Add(r)
		}
	}
	return out
}

// Merge combines sets left to right under the same first-wins
// uniqueness rule.
func Merge(sets ...RecordSet) RecordSet {
	var out RecordSet
	for _, s := range sets {
		for _, r := range s.records {
			out.Add(r)
		}
	}
	return out
}

package fetcher

import (
	"encoding/json"
	"time"
)

// LedgerEntry is one recorded failure, keyed by the source or context
// it happened under.
type LedgerEntry struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// Snapshot is the complete keyed result of one aggregation run. It
// holds an outcome for every requested source; a missing key is a bug,
// not a "no data" signal.
type Snapshot struct {
	Timestamp time.Time
	Outcomes  map[Source]Outcome
	Errors    []LedgerEntry
}

// MarshalJSON renders the persisted schema: one data entry per
// requested source, with null standing in for disabled or failed
// sources. An empty-but-successful source keeps its empty array.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	data := make(map[Source]any, len(s.Outcomes))
	for src, out := range s.Outcomes {
		if out.Status == StatusSuccess {
			data[src] = out.Records.Records()
		} else {
			data[src] = nil
		}
	}

	errs := s.Errors
	if errs == nil {
		errs = []LedgerEntry{}
	}

	return json.Marshal(struct {
		Timestamp time.Time      `json:"timestamp"`
		Data      map[Source]any `json:"data"`
		Errors    []LedgerEntry  `json:"errors"`
	}{
		Timestamp: s.Timestamp,
		Data:      data,
		Errors:    errs,
	})
}

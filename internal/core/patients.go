package core

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/AnesSym/medical-test/pkg"
)

// ErrNoRecord is returned for an index outside the intake log.
var ErrNoRecord = errors.New("core: no such patient record")

// PatientLog is the append-only list of submitted intake records.
// Records are addressed by their index in submission order and are never
// mutated or removed; the diagnostic analysis generated for a record is
// cached alongside it.
type PatientLog struct {
	mu       sync.Mutex
	records  []pkg.PatientRecord
	analyses map[int]string
}

// NewPatientLog returns an empty intake log.
func NewPatientLog() *PatientLog {
	return &PatientLog{analyses: make(map[int]string)}
}

// Append stores a submitted record and returns its index.
func (l *PatientLog) Append(rec pkg.PatientRecord) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
	return len(l.records) - 1
}

// Get returns the record at the given index.
func (l *PatientLog) Get(idx int) (pkg.PatientRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if idx < 0 || idx >= len(l.records) {
		return pkg.PatientRecord{}, ErrNoRecord
	}
	return l.records[idx], nil
}

// Len reports the number of submitted records.
func (l *PatientLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// SetAnalysis caches the diagnostic analysis for a record.
func (l *PatientLog) SetAnalysis(idx int, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.analyses[idx] = text
}

// Analysis returns the cached analysis for a record, if any.
func (l *PatientLog) Analysis(idx int) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	text, ok := l.analyses[idx]
	return text, ok
}

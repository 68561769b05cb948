package service

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/AnTengye/casebrief/model"
	"github.com/AnTengye/casebrief/pkg/casename"
)

// ErrCaseNotFound is returned for an index outside the loaded dataset.
var ErrCaseNotFound = errors.New("case not found")

// CaseStore is the in-memory catalog of loaded cases. It is filled once by
// Load and only read afterwards.
type CaseStore struct {
	mu     sync.RWMutex
	cases  []*model.Case
	source string
}

func NewCaseStore() *CaseStore {
	return &CaseStore{}
}

// Load replaces the catalog with records, deriving each case name once.
func (s *CaseStore) Load(records []model.OpinionRecord, source string) {
	cases := make([]*model.Case, len(records))
	unnamed := 0
	for i := range records {
		name := casename.Extract(records[i].SourceURL)
		if name == casename.Unknown {
			unnamed++
		}
		cases[i] = &model.Case{Name: name, OpinionRecord: records[i]}
	}

	s.mu.Lock()
	s.cases = cases
	s.source = source
	s.mu.Unlock()

	slog.Info("case store loaded",
		"cases", len(cases),
		"unnamed", unnamed,
		"source", source,
	)
}

// Get returns the case at index.
func (s *CaseStore) Get(index int) (*model.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.cases) {
		return nil, ErrCaseNotFound
	}
	return s.cases[index], nil
}

// List returns summaries in dataset order. A non-empty query keeps only cases
// whose name, civil number, court or keywords contain it, ignoring case.
func (s *CaseStore) List(query string) []model.CaseSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	result := make([]model.CaseSummary, 0, len(s.cases))
	for _, c := range s.cases {
		if query != "" && !matches(c, query) {
			continue
		}
		result = append(result, c.Summary())
	}
	return result
}

// Count returns the number of cases in the store
func (s *CaseStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cases)
}

// Source returns the location the catalog was loaded from.
func (s *CaseStore) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

func matches(c *model.Case, query string) bool {
	if strings.Contains(strings.ToLower(c.Name), query) {
		return true
	}
	if c.Brief == nil {
		return false
	}
	meta := c.Brief.CaseMetadata
	for _, field := range []model.Text{meta.CivilNumber, meta.Court} {
		if field.Present() && strings.Contains(strings.ToLower(field.String()), query) {
			return true
		}
	}
	for _, kw := range c.Brief.Keywords.Present() {
		if strings.Contains(strings.ToLower(kw), query) {
			return true
		}
	}
	return false
}

// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/martium/fsh/internal/models"
	"github.com/martium/fsh/internal/shared"
)

// MemoryStore is an in-memory test double for [models.RecordStore].
//
// Search follows the SQLite store: a folded substring match over the five summary fields.
// Setting Err makes every call fail with it; CreateResult and UpdateResult force the reported outcome.
type MemoryStore struct {
	mu      sync.Mutex
	records map[int]models.ServiceRecord
	lastID  int

	Err          error
	CreateResult *bool
	UpdateResult *bool

	Calls []string
}

var _ models.RecordStore = (*MemoryStore)(nil)

// NewMemoryStore creates a store seeded with records, assigning order numbers 1..n.
func NewMemoryStore(records ...models.ServiceRecord) *MemoryStore {
	s := &MemoryStore{records: make(map[int]models.ServiceRecord)}
	for _, r := range records {
		s.lastID++
		r.OrderNumber = s.lastID
		s.records[s.lastID] = r
	}
	return s
}

func (s *MemoryStore) record(call string) error {
	s.Calls = append(s.Calls, call)
	return s.Err
}

func (s *MemoryStore) List(ctx context.Context, searchPhrase string) ([]models.ServiceSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("List:" + searchPhrase); err != nil {
		return nil, err
	}

	phrase := shared.FoldText(searchPhrase)
	filter := strings.TrimSpace(searchPhrase) != ""

	var summaries []models.ServiceSummary
	for _, r := range s.records {
		if filter && !matches(r, phrase) {
			continue
		}
		summaries = append(summaries, r.Summary())
	}
	slices.SortFunc(summaries, func(a, b models.ServiceSummary) int { return b.OrderNumber - a.OrderNumber })
	return summaries, nil
}

func matches(r models.ServiceRecord, phrase string) bool {
	for _, v := range []string{r.ServiceDates, strconv.Itoa(r.OrderNumber), r.CustomerNames, r.CustomerPhoneNumbers, r.DepartedInfo} {
		if strings.Contains(shared.FoldText(v), phrase) {
			return true
		}
	}
	return false
}

func (s *MemoryStore) Get(ctx context.Context, orderNumber int) (*models.ServiceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(fmt.Sprintf("Get:%d", orderNumber)); err != nil {
		return nil, err
	}

	r, ok := s.records[orderNumber]
	if !ok {
		return nil, fmt.Errorf("%w: order number %d", shared.ErrRecordNotFound, orderNumber)
	}
	return &r, nil
}

func (s *MemoryStore) NextOrderNumber(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("NextOrderNumber"); err != nil {
		return 0, err
	}
	return s.lastID + 1, nil
}

func (s *MemoryStore) Create(ctx context.Context, record *models.ServiceRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Create"); err != nil {
		return false, err
	}
	if err := record.Validate(); err != nil {
		return false, err
	}
	if s.CreateResult != nil && !*s.CreateResult {
		return false, nil
	}

	s.lastID++
	record.OrderNumber = s.lastID
	s.records[s.lastID] = *record
	return true, nil
}

func (s *MemoryStore) Update(ctx context.Context, orderNumber int, record *models.ServiceRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(fmt.Sprintf("Update:%d", orderNumber)); err != nil {
		return false, err
	}
	if err := record.Validate(); err != nil {
		return false, err
	}
	if s.UpdateResult != nil && !*s.UpdateResult {
		return false, nil
	}
	if _, ok := s.records[orderNumber]; !ok {
		return false, nil
	}

	record.OrderNumber = orderNumber
	s.records[orderNumber] = *record
	return true, nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

package interfaces

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/giygas/empirical-rx/catalog/entities"
)

// MockSlot implements Slot interface for testing
type MockSlot struct {
	payload  []byte
	writeErr error
	pingErr  error
	closed   bool
}

func (m *MockSlot) Name() string {
	return "mock"
}

func (m *MockSlot) Read(ctx context.Context) ([]byte, error) {
	if m.payload == nil {
		return nil, errors.New("slot empty")
	}
	return m.payload, nil
}

func (m *MockSlot) Write(ctx context.Context, payload []byte) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.payload = append([]byte(nil), payload...)
	return nil
}

func (m *MockSlot) Ping(ctx context.Context) error {
	return m.pingErr
}

func (m *MockSlot) Close() error {
	m.closed = true
	return nil
}

// MockCatalogStore implements CatalogStore interface for testing
type MockCatalogStore struct {
	entries      []entities.Entry
	lastModified time.Time
	saveErr      error
}

func (m *MockCatalogStore) LookupByPrefix(query string) []entities.Entry {
	var matches []entities.Entry
	for _, entry := range m.entries {
		if strings.HasPrefix(entry.Name, query) {
			matches = append(matches, entry)
		}
	}
	return matches
}

func (m *MockCatalogStore) Get(name string) (entities.ClinicalRecord, bool) {
	for _, entry := range m.entries {
		if entry.Name == name {
			return entry.Record, true
		}
	}
	return entities.ClinicalRecord{}, false
}

func (m *MockCatalogStore) Entries() []entities.Entry {
	return m.entries
}

func (m *MockCatalogStore) Len() int {
	return len(m.entries)
}

func (m *MockCatalogStore) Revision() string {
	return "mock"
}

func (m *MockCatalogStore) LastModified() time.Time {
	return m.lastModified
}

func (m *MockCatalogStore) LastSaveError() error {
	return m.saveErr
}

func (m *MockCatalogStore) Insert(ctx context.Context, name string, input entities.RecordInput) error {
	if _, exists := m.Get(name); exists {
		return errors.New("already exists")
	}
	m.entries = append(m.entries, entities.Entry{
		Name:   name,
		Record: entities.ClinicalRecord{FirstLine: input.FirstLine, Management: input.Management},
	})
	m.lastModified = time.Now()
	return nil
}

// MockScheduler implements Scheduler interface for testing
type MockScheduler struct {
	started bool
	stopped bool
}

func (m *MockScheduler) Start() error {
	m.started = true
	return nil
}

func (m *MockScheduler) Stop() {
	m.stopped = true
}

// MockHTTPHandler implements HTTPHandler interface for testing
type MockHTTPHandler struct {
	responseCode int
	responseBody string
}

func (m *MockHTTPHandler) respond(w http.ResponseWriter) {
	w.WriteHeader(m.responseCode)
	w.Write([]byte(m.responseBody))
}

func (m *MockHTTPHandler) SearchConditions(w http.ResponseWriter, r *http.Request) { m.respond(w) }
func (m *MockHTTPHandler) GetCondition(w http.ResponseWriter, r *http.Request)     { m.respond(w) }
func (m *MockHTTPHandler) AddCondition(w http.ResponseWriter, r *http.Request)     { m.respond(w) }
func (m *MockHTTPHandler) CalculateDose(w http.ResponseWriter, r *http.Request)    { m.respond(w) }
func (m *MockHTTPHandler) ExportCSV(w http.ResponseWriter, r *http.Request)        { m.respond(w) }
func (m *MockHTTPHandler) ExportJSON(w http.ResponseWriter, r *http.Request)       { m.respond(w) }
func (m *MockHTTPHandler) BrandLinks(w http.ResponseWriter, r *http.Request)       { m.respond(w) }
func (m *MockHTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request)      { m.respond(w) }

// MockHealthChecker implements HealthChecker interface for testing
type MockHealthChecker struct {
	status  string
	details map[string]any
	code    int
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) (string, map[string]any, int) {
	return m.status, m.details, m.code
}

// MockInputValidator implements InputValidator interface for testing
type MockInputValidator struct {
	shouldFail bool
}

func (m *MockInputValidator) ValidateQuery(query string) error {
	if m.shouldFail {
		return errors.New("mock validation error")
	}
	return nil
}

func (m *MockInputValidator) ValidateRecordInput(name string, input entities.RecordInput) error {
	if m.shouldFail {
		return errors.New("mock validation error")
	}
	return nil
}

func TestSlotInterface(t *testing.T) {
	slot := &MockSlot{}
	ctx := context.Background()

	if _, err := slot.Read(ctx); err == nil {
		t.Error("Expected error reading an empty slot")
	}

	if err := slot.Write(ctx, []byte(`{"asthma":{}}`)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	payload, err := slot.Read(ctx)
	if err != nil || string(payload) != `{"asthma":{}}` {
		t.Errorf("Expected written payload back, got %q (%v)", payload, err)
	}

	slot.writeErr = errors.New("disk full")
	if err := slot.Write(ctx, []byte("{}")); err == nil {
		t.Error("Expected write error")
	}

	slot.Close()
	if !slot.closed {
		t.Error("Slot should be closed")
	}
}

func TestCatalogStoreInterface(t *testing.T) {
	store := &MockCatalogStore{
		entries: []entities.Entry{
			{Name: "diarrhea", Record: entities.ClinicalRecord{FirstLine: "ORS"}},
			{Name: "diabetes", Record: entities.ClinicalRecord{FirstLine: "Metformin"}},
			{Name: "asthma", Record: entities.ClinicalRecord{FirstLine: "Salbutamol"}},
		},
	}

	if got := len(store.LookupByPrefix("dia")); got != 2 {
		t.Errorf("Expected 2 matches, got %d", got)
	}

	if err := store.Insert(context.Background(), "gout", entities.RecordInput{FirstLine: "Colchicine"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if store.Len() != 4 {
		t.Errorf("Expected 4 entries, got %d", store.Len())
	}

	if err := store.Insert(context.Background(), "gout", entities.RecordInput{FirstLine: "x"}); err == nil {
		t.Error("Expected duplicate insert to fail")
	}
}

func TestSchedulerInterface(t *testing.T) {
	scheduler := &MockScheduler{}

	if err := scheduler.Start(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if !scheduler.started {
		t.Error("Scheduler should be started")
	}

	scheduler.Stop()
	if !scheduler.stopped {
		t.Error("Scheduler should be stopped")
	}
}

func TestHTTPHandlerInterface(t *testing.T) {
	handler := &MockHTTPHandler{
		responseCode: http.StatusOK,
		responseBody: "test response",
	}

	req := httptest.NewRequest("GET", "/conditions", nil)
	w := httptest.NewRecorder()

	handler.SearchConditions(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if w.Body.String() != "test response" {
		t.Errorf("Expected body 'test response', got '%s'", w.Body.String())
	}
}

func TestHealthCheckerInterface(t *testing.T) {
	checker := &MockHealthChecker{
		status:  "degraded",
		details: map[string]any{"conditions": 0},
		code:    http.StatusServiceUnavailable,
	}

	status, details, code := checker.HealthCheck(context.Background())
	if status != "degraded" {
		t.Errorf("Expected status 'degraded', got '%s'", status)
	}
	if details["conditions"] != 0 {
		t.Errorf("Expected 0 conditions, got %v", details["conditions"])
	}
	if code != http.StatusServiceUnavailable {
		t.Errorf("Expected %d, got %d", http.StatusServiceUnavailable, code)
	}
}

func TestInputValidatorInterface(t *testing.T) {
	validator := &MockInputValidator{}
	if err := validator.ValidateQuery("asthma"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	validator = &MockInputValidator{shouldFail: true}
	if err := validator.ValidateRecordInput("gout", entities.RecordInput{FirstLine: "x"}); err == nil {
		t.Error("Expected validation error but got none")
	}
}

// Example of how interfaces enable dependency injection
type Service struct {
	store     CatalogStore
	scheduler Scheduler
}

func NewService(store CatalogStore, scheduler Scheduler) *Service {
	return &Service{store: store, scheduler: scheduler}
}

func (s *Service) ConditionCount() int {
	return s.store.Len()
}

func TestServiceWithDependencyInjection(t *testing.T) {
	store := &MockCatalogStore{
		entries: []entities.Entry{{Name: "asthma"}, {Name: "copd"}},
	}

	service := NewService(store, &MockScheduler{})

	if count := service.ConditionCount(); count != 2 {
		t.Errorf("Expected 2 conditions, got %d", count)
	}
}

// Compile-time checks to ensure the mocks implement the interfaces
func TestCompileTimeChecks(t *testing.T) {
	var _ Slot = (*MockSlot)(nil)
	var _ CatalogStore = (*MockCatalogStore)(nil)
	var _ Scheduler = (*MockScheduler)(nil)
	var _ HTTPHandler = (*MockHTTPHandler)(nil)
	var _ HealthChecker = (*MockHealthChecker)(nil)
	var _ InputValidator = (*MockInputValidator)(nil)
}

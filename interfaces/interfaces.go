// Package interfaces defines core abstractions for the prescribing reference API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/giygas/empirical-rx/catalog/entities"
)

// Slot is a single named storage location holding the whole serialized catalog.
// Writes overwrite the previous payload entirely.
type Slot interface {
	// Name identifies the slot in logs and health output
	Name() string

	// Read returns the stored payload, or storage.ErrSlotEmpty when nothing was written yet
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the stored payload
	Write(ctx context.Context, payload []byte) error

	// Ping checks the backend is reachable
	Ping(ctx context.Context) error

	// Close releases backend connections
	Close() error
}

// CatalogStore defines the contract for condition catalog access.
// Reads return copies; the only mutation is Insert.
type CatalogStore interface {
	// Data retrieval methods
	LookupByPrefix(query string) []entities.Entry
	Get(name string) (entities.ClinicalRecord, bool)
	Entries() []entities.Entry
	Len() int
	Revision() string
	LastModified() time.Time
	LastSaveError() error

	// Insert validates and appends a new condition, then writes the catalog through to storage
	Insert(ctx context.Context, name string, input entities.RecordInput) error
}

// Scheduler defines the contract for background jobs.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// HTTPHandler defines the contract for HTTP request handlers.
type HTTPHandler interface {
	SearchConditions(w http.ResponseWriter, r *http.Request)
	GetCondition(w http.ResponseWriter, r *http.Request)
	AddCondition(w http.ResponseWriter, r *http.Request)
	CalculateDose(w http.ResponseWriter, r *http.Request)
	ExportCSV(w http.ResponseWriter, r *http.Request)
	ExportJSON(w http.ResponseWriter, r *http.Request)
	BrandLinks(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns current system health status
	HealthCheck(ctx context.Context) (status string, details map[string]any, httpStatus int)
}

// InputValidator defines the contract for user input validation.
type InputValidator interface {
	// ValidateQuery checks a search string
	ValidateQuery(query string) error

	// ValidateRecordInput checks admin input sizes and content
	ValidateRecordInput(name string, input entities.RecordInput) error
}

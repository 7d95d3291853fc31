package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/giygas/empirical-rx/catalog"
	"github.com/giygas/empirical-rx/catalog/entities"
	"github.com/giygas/empirical-rx/dosage"
	"github.com/giygas/empirical-rx/export"
	"github.com/giygas/empirical-rx/handlers"
	"github.com/giygas/empirical-rx/interfaces"
	"github.com/giygas/empirical-rx/storage"
	"github.com/giygas/empirical-rx/validation"
	"github.com/go-chi/chi/v5"
)

var (
	benchmarkStore *catalog.Store
	benchmarkOnce  sync.Once
)

// createBenchmarkStore returns a catalog with the built-in conditions plus a few
// hundred generated ones, so lookups walk a realistically long list
func createBenchmarkStore() *catalog.Store {
	benchmarkOnce.Do(func() {
		store := catalog.NewStore(storage.NewMemorySlot("benchmark"))
		store.Load(context.Background())

		for i := 0; i < 500; i++ {
			input := entities.RecordInput{
				FirstLine:  fmt.Sprintf("Drug %d 500 mg BID (e.g., Brand%d, Other%d)", i, i, i),
				Management: []string{"Rest", "Hydration", "Review in 48 hours"},
				Symptoms:   []string{"Fever", "Fatigue"},
				Labs:       []string{"CBC"},
			}
			if err := store.Insert(context.Background(), fmt.Sprintf("generated condition %03d", i), input); err != nil {
				panic(fmt.Sprintf("Failed to seed benchmark catalog: %v", err))
			}
		}

		benchmarkStore = store
	})

	return benchmarkStore
}

type benchmarkHealth struct{}

func (benchmarkHealth) HealthCheck(ctx context.Context) (string, map[string]any, int) {
	return "healthy", map[string]any{}, 200
}

func newBenchmarkHandler() interfaces.HTTPHandler {
	return handlers.NewHTTPHandler(createBenchmarkStore(), validation.NewDataValidator(), benchmarkHealth{}, handlers.Options{})
}

// Benchmark prefix lookup on the store
func BenchmarkLookupByPrefix(b *testing.B) {
	store := createBenchmarkStore()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		store.LookupByPrefix("generated condition 4")
	}
}

// Benchmark the search endpoint
func BenchmarkSearchConditions(b *testing.B) {
	handler := newBenchmarkHandler()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest("GET", "/conditions?q=di", nil)
		w := httptest.NewRecorder()
		handler.SearchConditions(w, req)
	}
}

// Benchmark single condition lookup with brand links
func BenchmarkGetCondition(b *testing.B) {
	handler := newBenchmarkHandler()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest("GET", "/conditions/common%20cold", nil)
		w := httptest.NewRecorder()

		// Create chi router context to properly extract URL parameters
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("name", "common cold")
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		handler.GetCondition(w, req)
	}
}

// Benchmark the dose calculator endpoint
func BenchmarkCalculateDose(b *testing.B) {
	handler := newBenchmarkHandler()
	body := `{"mode":"bsa","weight_kg":20,"height_cm":110,"adult_dose_mg":500}`

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest("POST", "/dose", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		handler.CalculateDose(w, req)
	}
}

// Benchmark the pure dose computation
func BenchmarkCompute(b *testing.B) {
	req := dosage.Request{Mode: dosage.PediatricBSA, WeightKg: 20, HeightCm: 110, ReferenceAdultDoseMg: 500}

	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		dosage.Compute(req)
	}
}

// Benchmark a full CSV export
func BenchmarkExportCSV(b *testing.B) {
	entries := createBenchmarkStore().Entries()
	var buf bytes.Buffer

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		buf.Reset()
		if err := export.WriteCSV(&buf, entries); err != nil {
			b.Fatal(err)
		}
	}
}

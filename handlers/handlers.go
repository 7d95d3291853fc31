// Package handlers provides HTTP request handlers for the prescribing reference API.
// It includes condition search and lookup, the admin insert, the dose calculator,
// catalog exports, brand links and the health check.
package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/giygas/empirical-rx/brands"
	"github.com/giygas/empirical-rx/catalog/entities"
)

// AnnotatedText is a line of treatment text with the brands it mentions
type AnnotatedText struct {
	Text   string        `json:"text"`
	Brands []brands.Link `json:"brands"`
}

// ConditionResponse defines the structure for consistent JSON ordering
type ConditionResponse struct {
	Name       string          `json:"name"`
	FirstLine  AnnotatedText   `json:"firstLine"`
	Management []AnnotatedText `json:"management"`
	Symptoms   []string        `json:"symptoms"`
	Labs       []string        `json:"labs"`
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status        string         `json:"status"`
	Uptime        string         `json:"uptime"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	Data          map[string]any `json:"data"`
	System        map[string]any `json:"system"`
}

// DoseResponse is the calculator output. DoseMg is a two-decimal string so
// clients display exactly what was computed.
type DoseResponse struct {
	Mode   string   `json:"mode"`
	DoseMg string   `json:"dose_mg"`
	BSA    *float64 `json:"bsa_m2,omitempty"`
}

// newConditionResponse annotates first-line and management text with brand links.
// Symptoms and labs never carry brands.
func newConditionResponse(searchURL string, entry entities.Entry) ConditionResponse {
	management := make([]AnnotatedText, 0, len(entry.Record.Management))
	for _, item := range entry.Record.Management {
		management = append(management, annotate(searchURL, item))
	}

	return ConditionResponse{
		Name:       entry.Name,
		FirstLine:  annotate(searchURL, entry.Record.FirstLine),
		Management: management,
		Symptoms:   nonNil(entry.Record.Symptoms),
		Labs:       nonNil(entry.Record.Labs),
	}
}

func annotate(searchURL, text string) AnnotatedText {
	return AnnotatedText{Text: text, Brands: brands.Links(searchURL, text)}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

// formatUptimeHuman formats duration into a human-readable string
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}

// Package dosage scales a reference adult dose to a patient by weight or body surface area.
package dosage

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Mode selects the scaling formula
type Mode int

const (
	Adult Mode = iota
	PediatricWeightRatio
	PediatricBSA
)

const (
	// reference adult weight for the weight-ratio (Clark) rule
	referenceWeightKg = 70.0
	// reference adult body surface area, m²
	referenceBSA = 1.73
)

func (m Mode) String() string {
	switch m {
	case Adult:
		return "adult"
	case PediatricWeightRatio:
		return "pediatric"
	case PediatricBSA:
		return "bsa"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts adult, pediatric (or clark, weight) and bsa, case-insensitively
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "adult":
		return Adult, nil
	case "pediatric", "clark", "weight":
		return PediatricWeightRatio, nil
	case "bsa":
		return PediatricBSA, nil
	default:
		return Adult, fmt.Errorf("unknown dose mode %q (expected adult, pediatric or bsa)", value)
	}
}

// Request holds the calculator inputs. HeightCm is only read in BSA mode.
type Request struct {
	Mode                 Mode
	WeightKg             float64
	HeightCm             float64
	ReferenceAdultDoseMg float64
}

// Result is a computed dose, already rounded to two decimals
type Result struct {
	Mode   Mode
	DoseMg float64
	// BSA is the patient's body surface area in m², set in BSA mode only
	BSA float64
}

// String formats the dose with exactly two decimals
func (r Result) String() string {
	return strconv.FormatFloat(r.DoseMg, 'f', 2, 64)
}

// Compute applies the formula for req.Mode. ok is false when an input the mode
// needs is missing, non-finite or not strictly positive.
func Compute(req Request) (Result, bool) {
	if !positive(req.ReferenceAdultDoseMg) || !positive(req.WeightKg) {
		return Result{}, false
	}

	var result Result
	switch req.Mode {
	case Adult:
		result = Result{Mode: Adult, DoseMg: round2(req.ReferenceAdultDoseMg)}

	case PediatricWeightRatio:
		dose := req.WeightKg / referenceWeightKg * req.ReferenceAdultDoseMg
		result = Result{Mode: PediatricWeightRatio, DoseMg: round2(dose)}

	case PediatricBSA:
		if !positive(req.HeightCm) {
			return Result{}, false
		}
		// Mosteller
		bsa := math.Sqrt(req.WeightKg * req.HeightCm / 3600)
		dose := bsa / referenceBSA * req.ReferenceAdultDoseMg
		result = Result{Mode: PediatricBSA, DoseMg: round2(dose), BSA: round2(bsa)}

	default:
		return Result{}, false
	}

	// overflowed inputs are reported as no result
	if math.IsInf(result.DoseMg, 0) || math.IsInf(result.BSA, 0) {
		return Result{}, false
	}
	return result, true
}

// ParseRequest builds a Request from raw form strings. ok is false when the mode is
// unknown or a number the mode needs does not parse to a finite positive value.
// Height is ignored outside BSA mode.
func ParseRequest(mode, weight, height, dose string) (Request, bool) {
	m, err := ParseMode(mode)
	if err != nil {
		return Request{}, false
	}

	req := Request{Mode: m}
	var ok bool
	if req.ReferenceAdultDoseMg, ok = parsePositive(dose); !ok {
		return Request{}, false
	}
	if req.WeightKg, ok = parsePositive(weight); !ok {
		return Request{}, false
	}
	if m == PediatricBSA {
		if req.HeightCm, ok = parsePositive(height); !ok {
			return Request{}, false
		}
	}
	return req, true
}

func parsePositive(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !positive(v) {
		return 0, false
	}
	return v, true
}

func positive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// round2 rounds half away from zero to two decimals. Values this large carry no
// fractional digits, and scaling them by 100 could overflow.
func round2(v float64) float64 {
	if math.Abs(v) >= 1e15 {
		return v
	}
	return math.Round(v*100) / 100
}

package muscle

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Involvement is the share of work a muscle group takes in an exercise.
type Involvement struct {
	Muscle    Muscle
	Intensity float64
}

// Distribution is a sparse, insertion-ordered list of involvements.
type Distribution []Involvement

// Get returns the intensity recorded for m, or 0.
func (d Distribution) Get(m Muscle) float64 {
	for _, inv := range d {
		if inv.Muscle == m {
			return inv.Intensity
		}
	}
	return 0
}

// Set records intensity for m in place. A non-positive intensity removes the entry.
func (d Distribution) Set(m Muscle, intensity float64) Distribution {
	for i, inv := range d {
		if inv.Muscle != m {
			continue
		}
		if intensity <= 0 {
			return append(d[:i:i], d[i+1:]...)
		}
		d[i].Intensity = intensity
		return d
	}
	if intensity <= 0 {
		return d
	}
	return append(d, Involvement{Muscle: m, Intensity: intensity})
}

// Toggle advances m through the tap sequence and returns the updated distribution.
func (d Distribution) Toggle(m Muscle) Distribution {
	return d.Set(m, NextIntensity(d.Get(m)))
}

// ParseError reports a malformed encoded distribution.
type ParseError struct {
	Input   string
	Segment string
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed muscle field %q: segment %q: %s", e.Input, e.Segment, e.Reason)
}

// Encode renders d as "<id>,<intensity>" pairs joined by ";", skipping entries
// without a positive intensity.
func Encode(d Distribution) string {
	parts := make([]string, 0, len(d))
	for _, inv := range d {
		if inv.Intensity <= 0 {
			continue
		}
		parts = append(parts, strconv.Itoa(int(inv.Muscle))+","+formatIntensity(inv.Intensity))
	}
	return strings.Join(parts, ";")
}

// Decode parses an encoded distribution. The empty string decodes to an empty
// distribution; anything else that does not parse cleanly is a *ParseError.
func Decode(field string) (Distribution, error) {
	if strings.TrimSpace(field) == "" {
		return Distribution{}, nil
	}
	segments := strings.Split(field, ";")
	out := make(Distribution, 0, len(segments))
	seen := make(map[Muscle]struct{}, len(segments))
	for _, segment := range segments {
		fail := func(reason string) (Distribution, error) {
			return nil, &ParseError{Input: field, Segment: segment, Reason: reason}
		}
		fields := strings.Split(segment, ",")
		if len(fields) != 2 {
			return fail("expected <index>,<intensity>")
		}
		idx, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return fail("index is not an integer")
		}
		m := Muscle(idx)
		if !m.Valid() {
			return fail(fmt.Sprintf("unknown muscle index %d", idx))
		}
		if _, ok := seen[m]; ok {
			return fail(fmt.Sprintf("duplicate muscle index %d", idx))
		}
		intensity, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return fail("intensity is not a number")
		}
		if math.IsNaN(intensity) || intensity <= 0 || intensity > 1 {
			return fail("intensity must be within (0,1]")
		}
		seen[m] = struct{}{}
		out = append(out, Involvement{Muscle: m, Intensity: intensity})
	}
	return out, nil
}

// formatIntensity keeps at least one decimal so stored fields read 1.0 and 0.5.
func formatIntensity(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

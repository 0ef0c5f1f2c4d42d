// Package muscle defines the muscle-group enumeration and the per-exercise
// involvement distribution persisted as a single text field.
package muscle

import (
	"fmt"
	"strings"
)

// Muscle identifies a muscle group. Ids are 1-based and stable because they are
// persisted inside encoded distributions.
type Muscle int

const (
	Pecs Muscle = iota + 1
	Traps
	Biceps
	Abs
	Delts
	Lats
	Triceps
	Glutes
	Hams
	Quads
	Forearms
	Calves
)

var names = [...]string{
	Pecs:     "Pecs",
	Traps:    "Traps",
	Biceps:   "Biceps",
	Abs:      "Abs",
	Delts:    "Delts",
	Lats:     "Lats",
	Triceps:  "Triceps",
	Glutes:   "Glutes",
	Hams:     "Hams",
	Quads:    "Quads",
	Forearms: "Forearms",
	Calves:   "Calves",
}

// All returns every muscle group in id order.
func All() []Muscle {
	out := make([]Muscle, 0, len(names)-1)
	for m := Pecs; m <= Calves; m++ {
		out = append(out, m)
	}
	return out
}

// Valid reports whether m is a known muscle group.
func (m Muscle) Valid() bool {
	return m >= Pecs && m <= Calves
}

func (m Muscle) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Muscle(%d)", int(m))
	}
	return names[m]
}

// Parse resolves a muscle name case-insensitively.
func Parse(name string) (Muscle, error) {
	name = strings.TrimSpace(name)
	for _, m := range All() {
		if strings.EqualFold(names[m], name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown muscle group %q", name)
}

// NextIntensity advances the tap sequence off -> full -> half -> off.
func NextIntensity(current float64) float64 {
	if current <= 0 {
		return 1.0
	}
	next := current - 0.5
	if next < 0 {
		return 0
	}
	return next
}

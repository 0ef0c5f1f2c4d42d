// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/liftlog/internal/muscle"
)

// SetType classifies a logged set. Stored values are part of the schema.
type SetType int

const (
	SetWarmUp SetType = iota
	SetWork
	SetDrop
)

var setTypeNames = [...]string{
	SetWarmUp: "Warm",
	SetWork:   "Work",
	SetDrop:   "Drop",
}

// SetTypes lists set types in the order the logging screen cycles through them.
func SetTypes() []SetType {
	return []SetType{SetWarmUp, SetWork, SetDrop}
}

// Valid reports whether t is a known set type.
func (t SetType) Valid() bool {
	return t >= SetWarmUp && t <= SetDrop
}

func (t SetType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("SetType(%d)", int(t))
	}
	return setTypeNames[t]
}

// Next returns the following set type, wrapping around.
func (t SetType) Next() SetType {
	return SetType((int(t) + 1) % len(setTypeNames))
}

// Prev returns the preceding set type, wrapping around.
func (t SetType) Prev() SetType {
	return SetType((int(t) + len(setTypeNames) - 1) % len(setTypeNames))
}

// ParseSetType resolves a set type name.
func ParseSetType(s string) (SetType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warm", "warmup", "warm-up":
		return SetWarmUp, nil
	case "work":
		return SetWork, nil
	case "drop":
		return SetDrop, nil
	}
	return 0, fmt.Errorf("unknown set type %q (use warm, work or drop)", s)
}

// ExerciseType is the equipment category of an exercise.
type ExerciseType int

const (
	ExerciseBarbell ExerciseType = iota + 1
	ExerciseDumbbell
	ExerciseMachine
	ExerciseCable
	ExerciseBodyweight
)

var exerciseTypeNames = [...]string{
	ExerciseBarbell:    "Barbell",
	ExerciseDumbbell:   "Dumbbell",
	ExerciseMachine:    "Machine",
	ExerciseCable:      "Cable",
	ExerciseBodyweight: "Bodyweight",
}

// Valid reports whether t is a known exercise type.
func (t ExerciseType) Valid() bool {
	return t >= ExerciseBarbell && t <= ExerciseBodyweight
}

func (t ExerciseType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("ExerciseType(%d)", int(t))
	}
	return exerciseTypeNames[t]
}

// ParseExerciseType resolves an exercise type name case-insensitively.
func ParseExerciseType(s string) (ExerciseType, error) {
	s = strings.TrimSpace(s)
	for t := ExerciseBarbell; t <= ExerciseBodyweight; t++ {
		if strings.EqualFold(exerciseTypeNames[t], s) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown exercise type %q", s)
}

// RepScheme is the target repetition range and the weight step used to turn a
// repetition surplus into an equivalent weight.
type RepScheme struct {
	RepBase   int
	RepMax    int
	Increment float64
}

// Validate checks that the scheme can be used for scoring.
func (r RepScheme) Validate() error {
	if r.RepBase < 0 {
		return fmt.Errorf("rep base must be >= 0")
	}
	if r.RepMax <= r.RepBase {
		return fmt.Errorf("rep max (%d) must be greater than rep base (%d)", r.RepMax, r.RepBase)
	}
	if r.Increment <= 0 {
		return fmt.Errorf("increment must be > 0")
	}
	return nil
}

// Exercise holds an exercise and its defaults for new sets.
type Exercise struct {
	ID       int64
	Name     string
	Type     ExerciseType
	Muscles  muscle.Distribution
	Defaults RepScheme
}

// Set is one logged block of repetitions.
type Set struct {
	ID          int64
	Exercise    string
	PerformedAt time.Time
	Weight      float64
	Reps        int
	Type        SetType
	Scheme      RepScheme
}

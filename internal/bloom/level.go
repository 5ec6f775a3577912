// Package bloom models the fixed Bloom's taxonomy scale used to self-rate
// competencies, from Unfamiliar up to Create.
package bloom

import (
	"errors"
	"fmt"
)

// Level is one step of the scale. Its integer value is the plotting rank.
type Level int

const (
	Unfamiliar Level = iota
	Remember
	Understand
	Apply
	Analyse
	Evaluate
	Create
)

// Count is the number of levels on the scale.
const Count = 7

// ErrUnknownLevel is returned for labels outside the seven level names.
var ErrUnknownLevel = errors.New("unknown bloom level")

var names = [Count]string{
	"Unfamiliar",
	"Remember",
	"Understand",
	"Apply",
	"Analyse",
	"Evaluate",
	"Create",
}

var byName = func() map[string]Level {
	m := make(map[string]Level, Count)
	for i, n := range names {
		m[n] = Level(i)
	}
	return m
}()

func (l Level) String() string {
	if !l.Valid() {
		return "unknown"
	}
	return names[l]
}

// Valid reports whether l is one of the seven levels.
func (l Level) Valid() bool {
	return l >= Unfamiliar && l <= Create
}

// Rank returns the ordinal rank used for charting (0..6).
func (l Level) Rank() int {
	return int(l)
}

// Levels returns all levels in ascending order.
func Levels() []Level {
	out := make([]Level, Count)
	for i := range out {
		out[i] = Level(i)
	}
	return out
}

// Names returns the level names in ascending order.
func Names() []string {
	return append([]string(nil), names[:]...)
}

// ParseLevel maps a level name to its Level. The match is exact: case and
// surrounding whitespace both count, so " Apply" is not a level.
func ParseLevel(s string) (Level, error) {
	l, ok := byName[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
	return l, nil
}

// Rank maps a label straight to its rank. ok is false for unknown labels.
func Rank(label string) (rank int, ok bool) {
	l, err := ParseLevel(label)
	if err != nil {
		return 0, false
	}
	return l.Rank(), true
}

// FromRank is the inverse of Rank.
func FromRank(rank int) (Level, bool) {
	l := Level(rank)
	return l, l.Valid()
}

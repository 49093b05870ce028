// Package model defines the core memory data types.
package model

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Length limits, counted in runes after trimming.
const (
	MaxContentLen = 300
	MaxAuthorLen  = 50

	MaxRotation = 3.0
)

// Memory represents a single note hung on the board.
type Memory struct {
	ID        string  `json:"id"`
	Content   string  `json:"content"`
	Author    string  `json:"author"`
	CreatedAt int64   `json:"createdAt"` // ms since epoch
	Mood      Mood    `json:"mood"`
	Color     string  `json:"color"`
	Rotation  float64 `json:"rotation"`
}

// Mood is the emotional category assigned to a memory.
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodSad      Mood = "sad"
	MoodAngry    Mood = "angry"
	MoodNeutral  Mood = "neutral"
	MoodRomantic Mood = "romantic"
	MoodExcited  Mood = "excited"
)

// Moods lists the closed mood set in display order.
var Moods = []Mood{MoodHappy, MoodSad, MoodAngry, MoodNeutral, MoodRomantic, MoodExcited}

// ValidMoods maps each mood to its canonical pastel color.
var ValidMoods = map[Mood]string{
	MoodHappy:    "#fef3c7",
	MoodSad:      "#e0f2fe",
	MoodAngry:    "#fee2e2",
	MoodNeutral:  "#f3f4f6",
	MoodRomantic: "#fce7f3",
	MoodExcited:  "#d1fae5",
}

// NeutralColor is the color used whenever classification falls back.
const NeutralColor = "#f3f4f6"

// Valid reports whether m is one of the six known moods.
func (m Mood) Valid() bool {
	_, ok := ValidMoods[m]
	return ok
}

// Color returns the canonical color for m, or NeutralColor for unknown moods.
func (m Mood) Color() string {
	if c, ok := ValidMoods[m]; ok {
		return c
	}
	return NeutralColor
}

// ParseMood normalizes s and reports whether it names a known mood.
func ParseMood(s string) (Mood, bool) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	return m, m.Valid()
}

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidColor reports whether s is a #rgb or #rrggbb hex color.
func ValidColor(s string) bool {
	return hexColorRegex.MatchString(s)
}

// RotationFromUnit maps a uniform draw in [0, 1) onto [-3, 3].
func RotationFromUnit(u float64) float64 {
	r := u*2*MaxRotation - MaxRotation
	return math.Max(-MaxRotation, math.Min(MaxRotation, r))
}

// Validate checks that every field is populated and in range.
func (m Memory) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("id is required")
	}
	n := utf8.RuneCountInString(m.Content)
	if strings.TrimSpace(m.Content) == "" || n > MaxContentLen {
		return fmt.Errorf("content must be 1-%d characters, got %d", MaxContentLen, n)
	}
	if n := utf8.RuneCountInString(m.Author); n > MaxAuthorLen {
		return fmt.Errorf("author must be at most %d characters, got %d", MaxAuthorLen, n)
	}
	if m.CreatedAt <= 0 {
		return fmt.Errorf("createdAt is required")
	}
	if !m.Mood.Valid() {
		return fmt.Errorf("invalid mood %q", m.Mood)
	}
	if !ValidColor(m.Color) {
		return fmt.Errorf("invalid color %q", m.Color)
	}
	if math.IsNaN(m.Rotation) || m.Rotation < -MaxRotation || m.Rotation > MaxRotation {
		return fmt.Errorf("rotation %v out of range", m.Rotation)
	}
	return nil
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

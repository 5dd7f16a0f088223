// Package seatmap models the seat grid of a single showing: an ordered list of
// rows, each holding an ordered list of seats that are either available or sold.
package seatmap

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultSeatsPerRow is used by Generate when no positive row width is given.
const DefaultSeatsPerRow = 8

type Status string

const (
	StatusAvailable Status = "available"
	StatusSold      Status = "sold"
)

func (s Status) Valid() bool {
	return s == StatusAvailable || s == StatusSold
}

type Seat struct {
	Label  string `json:"label"`
	Status Status `json:"status"`
}

type Row struct {
	Label string
	Seats []Seat
}

// SeatMap keeps rows in display order. The zero value is an empty map.
type SeatMap struct {
	Rows []Row
}

// SeatCount returns the number of seats across all rows.
func (m SeatMap) SeatCount() int {
	n := 0
	for _, row := range m.Rows {
		n += len(row.Seats)
	}
	return n
}

// Counts returns how many seats are available and how many are sold.
func (m SeatMap) Counts() (available, sold int) {
	for _, row := range m.Rows {
		for _, seat := range row.Seats {
			if seat.Status == StatusSold {
				sold++
			} else {
				available++
			}
		}
	}
	return available, sold
}

// Find looks a seat up by label.
func (m SeatMap) Find(label string) (Seat, bool) {
	for _, row := range m.Rows {
		for _, seat := range row.Seats {
			if seat.Label == label {
				return seat, true
			}
		}
	}
	return Seat{}, false
}

// Labels returns every seat label in row-major order.
func (m SeatMap) Labels() []string {
	labels := make([]string, 0, m.SeatCount())
	for _, row := range m.Rows {
		for _, seat := range row.Seats {
			labels = append(labels, seat.Label)
		}
	}
	return labels
}

// Clone returns a deep copy that shares no slices with m.
func (m SeatMap) Clone() SeatMap {
	if m.Rows == nil {
		return SeatMap{}
	}
	rows := make([]Row, len(m.Rows))
	for i, row := range m.Rows {
		seats := make([]Seat, len(row.Seats))
		copy(seats, row.Seats)
		rows[i] = Row{Label: row.Label, Seats: seats}
	}
	return SeatMap{Rows: rows}
}

// MarkSold returns a copy of m with every seat in labels set to sold.
// Labels that are not on the map are ignored.
func (m SeatMap) MarkSold(labels []string) SeatMap {
	want := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		want[l] = struct{}{}
	}

	out := m.Clone()
	for i := range out.Rows {
		for j := range out.Rows[i].Seats {
			if _, ok := want[out.Rows[i].Seats[j].Label]; ok {
				out.Rows[i].Seats[j].Status = StatusSold
			}
		}
	}
	return out
}

// MaxLabelLength caps a seat label in runes.
const MaxLabelLength = 32

// ValidLabel reports whether label can be stored in a seat map. Any text a
// booking request could name exactly is accepted: no surrounding whitespace,
// no control characters, at most MaxLabelLength runes.
func ValidLabel(label string) bool {
	if label == "" || label != NormalizeLabel(label) {
		return false
	}
	if utf8.RuneCountInString(label) > MaxLabelLength {
		return false
	}
	return !strings.ContainsFunc(label, unicode.IsControl)
}

// NormalizeLabel strips the whitespace form posts tend to carry around a label.
func NormalizeLabel(label string) string {
	return strings.TrimSpace(label)
}

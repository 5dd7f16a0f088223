package seatmap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMalformed is returned (wrapped) for seat map text that does not have the
// shape {"<row>": [{"label": "...", "status": "..."}, ...], ...}.
var ErrMalformed = errors.New("malformed seat map")

const indent = "    "

type rawSeat struct {
	Label  *string `json:"label"`
	Status *string `json:"status"`
}

// Decode parses the persisted seat map text. Row and seat order are kept as
// they appear in raw. Seat fields other than label and status are ignored.
func Decode(raw []byte) (SeatMap, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return SeatMap{}, fmt.Errorf("%w: empty input", ErrMalformed)
	}

	// An empty map written by older tooling may be an empty JSON array.
	if bytes.Equal(bytes.Join(bytes.Fields(trimmed), nil), []byte("[]")) {
		return SeatMap{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))

	tok, err := dec.Token()
	if err != nil {
		return SeatMap{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return SeatMap{}, fmt.Errorf("%w: top-level value is not an object", ErrMalformed)
	}

	var m SeatMap
	rowsSeen := make(map[string]struct{})
	labelsSeen := make(map[string]struct{})

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return SeatMap{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		rowLabel, ok := keyTok.(string)
		if !ok {
			return SeatMap{}, fmt.Errorf("%w: row key is not a string", ErrMalformed)
		}
		if _, dup := rowsSeen[rowLabel]; dup {
			return SeatMap{}, fmt.Errorf("%w: duplicate row %q", ErrMalformed, rowLabel)
		}
		rowsSeen[rowLabel] = struct{}{}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return SeatMap{}, fmt.Errorf("%w: row %q: %v", ErrMalformed, rowLabel, err)
		}
		if len(value) == 0 || value[0] != '[' {
			return SeatMap{}, fmt.Errorf("%w: row %q is not an array", ErrMalformed, rowLabel)
		}

		var entries []json.RawMessage
		if err := json.Unmarshal(value, &entries); err != nil {
			return SeatMap{}, fmt.Errorf("%w: row %q: %v", ErrMalformed, rowLabel, err)
		}

		row := Row{Label: rowLabel, Seats: make([]Seat, 0, len(entries))}
		for i, entry := range entries {
			seat, err := decodeSeat(entry)
			if err != nil {
				return SeatMap{}, fmt.Errorf("%w: row %q seat %d: %v", ErrMalformed, rowLabel, i, err)
			}
			if _, dup := labelsSeen[seat.Label]; dup {
				return SeatMap{}, fmt.Errorf("%w: duplicate seat label %q", ErrMalformed, seat.Label)
			}
			labelsSeen[seat.Label] = struct{}{}
			row.Seats = append(row.Seats, seat)
		}
		m.Rows = append(m.Rows, row)
	}

	if _, err := dec.Token(); err != nil {
		return SeatMap{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return SeatMap{}, fmt.Errorf("%w: trailing data after seat map", ErrMalformed)
	}

	return m, nil
}

func decodeSeat(entry json.RawMessage) (Seat, error) {
	if len(entry) == 0 || entry[0] != '{' {
		return Seat{}, errors.New("seat entry is not an object")
	}

	var rs rawSeat
	if err := json.Unmarshal(entry, &rs); err != nil {
		return Seat{}, err
	}
	if rs.Label == nil || rs.Status == nil {
		return Seat{}, errors.New("seat entry needs both label and status")
	}
	if !ValidLabel(*rs.Label) {
		return Seat{}, fmt.Errorf("invalid seat label %q", *rs.Label)
	}

	status := Status(*rs.Status)
	if !status.Valid() {
		return Seat{}, fmt.Errorf("unknown seat status %q", *rs.Status)
	}

	return Seat{Label: *rs.Label, Status: status}, nil
}

// Encode serializes m in stored order, indented with four spaces so the
// persisted text stays stable and diffable.
func Encode(m SeatMap) ([]byte, error) {
	compact, err := m.compact()
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", indent); err != nil {
		return nil, fmt.Errorf("indent seat map: %w", err)
	}
	return out.Bytes(), nil
}

func (m SeatMap) compact() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, row := range m.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(row.Label)
		if err != nil {
			return nil, fmt.Errorf("encode row label %q: %w", row.Label, err)
		}
		buf.Write(key)
		buf.WriteByte(':')

		buf.WriteByte('[')
		for j, seat := range row.Seats {
			if j > 0 {
				buf.WriteByte(',')
			}
			b, err := json.Marshal(seat)
			if err != nil {
				return nil, fmt.Errorf("encode seat %q: %w", seat.Label, err)
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON keeps row order when a SeatMap is embedded in other JSON.
func (m SeatMap) MarshalJSON() ([]byte, error) {
	return m.compact()
}

func (m *SeatMap) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*m = decoded
	return nil
}

package seatmap

import "strconv"

// Generate builds a fresh map of totalSeats available seats, filled row-major
// with seatsPerRow seats per row. The last row may be short. A non-positive
// totalSeats yields an empty map.
func Generate(totalSeats, seatsPerRow int) SeatMap {
	if totalSeats <= 0 {
		return SeatMap{}
	}
	if seatsPerRow <= 0 {
		seatsPerRow = DefaultSeatsPerRow
	}

	rowCount := (totalSeats + seatsPerRow - 1) / seatsPerRow
	rows := make([]Row, 0, rowCount)

	remaining := totalSeats
	for i := 0; remaining > 0; i++ {
		n := min(seatsPerRow, remaining)
		label := RowLabel(i)

		seats := make([]Seat, n)
		for j := range seats {
			seats[j] = Seat{
				Label:  label + strconv.Itoa(j+1),
				Status: StatusAvailable,
			}
		}

		rows = append(rows, Row{Label: label, Seats: seats})
		remaining -= n
	}

	return SeatMap{Rows: rows}
}

// RowLabel returns the label of the zero-based row index: A..Z, then AA, AB
// and so on, the way spreadsheet columns are named.
func RowLabel(index int) string {
	if index < 0 {
		return ""
	}

	var buf []byte
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		buf = append([]byte{byte('A' + (n-1)%26)}, buf...)
	}
	return string(buf)
}

package booking

import (
	"errors"
	"reflect"
	"slices"
	"testing"

	"busline/internal/domain"
)

func TestGenerateSeatMapRowCount(t *testing.T) {
	for n := 1; n <= 120; n++ {
		m := GenerateSeatMap(n, nil)
		want := (n + 3) / 4
		if len(m.Rows) != want {
			t.Fatalf("n=%d: rows = %d, want %d", n, len(m.Rows), want)
		}
		for i, row := range m.Rows {
			if row.Label != rowLabel(i) {
				t.Fatalf("n=%d row %d label = %q", n, i, row.Label)
			}
			if len(row.Seats) != SeatsPerRow {
				t.Fatalf("n=%d row %s has %d seats", n, row.Label, len(row.Seats))
			}
		}
		if m.Rows[0].Label != "A" {
			t.Fatalf("first row label = %q", m.Rows[0].Label)
		}
	}
}

func TestGenerateSeatMapDeterministic(t *testing.T) {
	for _, n := range []int{1, 7, 40, 53} {
		a := GenerateSeatMap(n, []string{"B1"})
		b := GenerateSeatMap(n, []string{"B1"})
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("n=%d: seat maps differ between calls", n)
		}
	}
}

func TestGenerateSeatMapDefaultsAndFlags(t *testing.T) {
	m := GenerateSeatMap(0, []string{"B3"})
	if m.TotalSeats != DefaultTotalSeats || len(m.Rows) != 10 {
		t.Fatalf("default map: total=%d rows=%d", m.TotalSeats, len(m.Rows))
	}
	if got := m.Rows[1].Label; got != "B" {
		t.Fatalf("second row label = %q", got)
	}

	cases := []struct {
		id                       string
		booked, category, picked bool
	}{
		{"A1", true, false, false},
		{"A2", false, true, false},
		{"B3", false, false, true},
		{"F1", true, false, false},
		{"J4", false, false, false},
	}
	for _, tc := range cases {
		s, ok := m.Seat(tc.id)
		if !ok {
			t.Fatalf("seat %s missing", tc.id)
		}
		if s.Booked != tc.booked || s.CategoryReserved != tc.category || s.Selected != tc.picked {
			t.Fatalf("seat %s flags = %+v", tc.id, s)
		}
	}
	if _, ok := m.Seat("K1"); ok {
		t.Fatalf("K1 should not exist on a 40 seat bus")
	}
	if left, right := m.Rows[0].Left(), m.Rows[0].Right(); left[1].ID != "A2" || right[0].ID != "A3" {
		t.Fatalf("aisle split wrong: %v | %v", left, right)
	}
}

func TestRowLabelPastZ(t *testing.T) {
	if rowLabel(25) != "Z" || rowLabel(26) != "AA" || rowLabel(27) != "AB" {
		t.Fatalf("labels: %s %s %s", rowLabel(25), rowLabel(26), rowLabel(27))
	}
}

func TestToggleSeatRoundTrip(t *testing.T) {
	m := GenerateSeatMap(40, nil)
	start := []string{"B1", "C3"}
	for _, row := range m.Rows {
		for _, seat := range row.Seats {
			if seat.Booked || slices.Contains(start, seat.ID) {
				continue
			}
			on, err := ToggleSeat(start, seat)
			if err != nil || on.Action != ToggleAdded {
				t.Fatalf("select %s: %v %v", seat.ID, on.Action, err)
			}
			off, err := ToggleSeat(on.Seats, seat)
			if err != nil || off.Action != ToggleRemoved {
				t.Fatalf("deselect %s: %v %v", seat.ID, off.Action, err)
			}
			if !reflect.DeepEqual(off.Seats, start) {
				t.Fatalf("round trip on %s gave %v", seat.ID, off.Seats)
			}
		}
	}
}

func TestToggleSeatBookedIsNoop(t *testing.T) {
	seat, _ := GenerateSeatMap(40, nil).Seat("C2")
	res, err := ToggleSeat([]string{"B1"}, seat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Action != ToggleIgnored || !reflect.DeepEqual(res.Seats, []string{"B1"}) {
		t.Fatalf("booked seat changed selection: %+v", res)
	}
}

func TestToggleSeatKeepsClickOrder(t *testing.T) {
	m := GenerateSeatMap(40, nil)
	sel := []string{}
	for _, id := range []string{"E2", "B1", "D1"} {
		s, _ := m.Seat(id)
		res, err := ToggleSeat(sel, s)
		if err != nil {
			t.Fatal(err)
		}
		sel = res.Seats
	}
	if !reflect.DeepEqual(sel, []string{"E2", "B1", "D1"}) {
		t.Fatalf("selection order = %v", sel)
	}
}

func TestToggleSeatLimit(t *testing.T) {
	full := []string{"B1", "B3", "C1", "C3", "C4", "D1"}
	seat, _ := GenerateSeatMap(40, nil).Seat("E1")
	res, err := ToggleSeat(full, seat)
	if !errors.Is(err, ErrSeatLimit) || !domain.IsValidation(err) {
		t.Fatalf("expected seat limit validation error, got %v", err)
	}
	if !reflect.DeepEqual(res.Seats, full) {
		t.Fatalf("selection changed: %v", res.Seats)
	}
}

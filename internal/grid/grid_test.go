package grid

import (
	"errors"
	"testing"
)

func TestParseRef(t *testing.T) {
	cases := []struct {
		ref    string
		column int
		row    int
	}{
		{"A1", 1, 1},
		{"E6", 5, 6},
		{"b5", 2, 5},
		{"Z3", 26, 3},
		{"AA1", 27, 1},
		{"ab10", 28, 10},
	}

	for _, tc := range cases {
		column, row, err := ParseRef(tc.ref)
		if err != nil {
			t.Fatalf("ParseRef(%q) returned error: %v", tc.ref, err)
		}
		if column != tc.column || row != tc.row {
			t.Fatalf("ParseRef(%q) = (%d,%d), want (%d,%d)", tc.ref, column, row, tc.column, tc.row)
		}
	}
}

func TestParseRefRejectsMalformed(t *testing.T) {
	for _, ref := range []string{"1A", "", "A", "12", "A-1", "A0", "é1", "A1B"} {
		if _, _, err := ParseRef(ref); !errors.Is(err, ErrInvalidReferenceFormat) {
			t.Fatalf("ParseRef(%q) expected ErrInvalidReferenceFormat, got %v", ref, err)
		}
	}
}

func TestIsWithinBounds(t *testing.T) {
	if !IsWithinBounds(5, 6, 5, 6) {
		t.Fatal("expected bottom-right corner to be within bounds")
	}
	if IsWithinBounds(6, 1, 5, 6) {
		t.Fatal("expected column past capacity to be out of bounds")
	}
	if IsWithinBounds(1, 7, 5, 6) {
		t.Fatal("expected row past capacity to be out of bounds")
	}
	if IsWithinBounds(0, 1, 5, 6) {
		t.Fatal("expected zero column to be out of bounds")
	}
}

func TestFormatRefRoundTrip(t *testing.T) {
	for _, ref := range []string{"a1", "e6", "z9", "aa1", "az12", "ba3"} {
		column, row, err := ParseRef(ref)
		if err != nil {
			t.Fatalf("ParseRef(%q) returned error: %v", ref, err)
		}
		if got := FormatRef(column, row); got != ref {
			t.Fatalf("FormatRef(%d,%d) = %q, want %q", column, row, got, ref)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  B5 "); got != "b5" {
		t.Fatalf("Normalize = %q, want b5", got)
	}
}

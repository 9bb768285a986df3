package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{0: DefaultLimit, -4: DefaultLimit, 10: 10, 500: MaxLimit}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestCursorRoundTrip(t *testing.T) {
	cursor := EncodeCursor(42)
	id, err := ParseCursor(cursor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected 42, got %d", id)
	}

	if id, err := ParseCursor(""); err != nil || id != 0 {
		t.Fatalf("expected empty cursor to yield 0, got %d (%v)", id, err)
	}
	if _, err := ParseCursor("not-base64!"); err == nil {
		t.Fatal("expected malformed cursor to fail")
	}
}

func TestBuildTrimsAndSetsNextCursor(t *testing.T) {
	rows := []uint{1, 2, 3}
	page := Build(rows, 2, func(v uint) uint { return v })
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	if page.NextCursor != EncodeCursor(2) {
		t.Fatalf("unexpected next cursor %q", page.NextCursor)
	}

	last := Build(rows[:1], 2, func(v uint) uint { return v })
	if last.NextCursor != "" {
		t.Fatalf("expected no next cursor on the final page, got %q", last.NextCursor)
	}

	empty := Build[uint](nil, 2, func(v uint) uint { return v })
	if empty.Items == nil {
		t.Fatal("expected empty page to carry a non-nil slice")
	}
}

package enums

import "testing"

func TestOrderStatusSets(t *testing.T) {
	cases := []struct {
		status   OrderStatus
		active   bool
		archived bool
	}{
		{OrderStatusConfirmed, true, false},
		{OrderStatusPaid, true, false},
		{OrderStatusCancelled, false, true},
		{OrderStatusArchived, false, true},
		{OrderStatusRetrieved, false, true},
		{OrderStatus("pending"), false, false},
	}

	for _, tc := range cases {
		if got := tc.status.IsActive(); got != tc.active {
			t.Fatalf("%s: IsActive() = %v, want %v", tc.status, got, tc.active)
		}
		if got := tc.status.IsArchived(); got != tc.archived {
			t.Fatalf("%s: IsArchived() = %v, want %v", tc.status, got, tc.archived)
		}
	}
}

func TestParseOrderStatusNormalizes(t *testing.T) {
	got, err := ParseOrderStatus("  Paid ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != OrderStatusPaid {
		t.Fatalf("expected paid, got %q", got)
	}
	if _, err := ParseOrderStatus("shipped"); err == nil {
		t.Fatal("expected unknown status to fail")
	}
}

func TestParseUploadFolder(t *testing.T) {
	if _, err := ParseUploadFolder("qrcodes"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseUploadFolder("../etc"); err == nil {
		t.Fatal("expected unknown folder to fail")
	}
}

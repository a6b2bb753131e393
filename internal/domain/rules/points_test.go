package rules

import "testing"

func TestLevelFor(t *testing.T) {
	cases := []struct {
		earned    int
		wantLevel int
		wantName  string
	}{
		{0, 1, "Newcomer"},
		{49, 1, "Newcomer"},
		{50, 2, "Guide"},
		{149, 2, "Guide"},
		{150, 3, "Expert"},
		{499, 3, "Expert"},
		{500, 4, "Legend"},
		{10000, 4, "Legend"},
	}

	for _, tc := range cases {
		got := LevelFor(tc.earned)
		if got.Level != tc.wantLevel || got.Name != tc.wantName {
			t.Fatalf("LevelFor(%d) = %+v, want level %d %q", tc.earned, got, tc.wantLevel, tc.wantName)
		}
	}
}

func TestBookingCost(t *testing.T) {
	if got := BookingCost(25, 2); got != 40 {
		t.Fatalf("cost for 25/h x 2h: got %d want 40", got)
	}
	if got := BookingCost(30, 3); got != 72 {
		t.Fatalf("cost for 30/h x 3h: got %d want 72", got)
	}
	if got := BookingCost(0, 2); got != 0 {
		t.Fatalf("zero rate should cost nothing, got %d", got)
	}
	if got := BookingCost(25, 0); got != 0 {
		t.Fatalf("zero hours should cost nothing, got %d", got)
	}
}

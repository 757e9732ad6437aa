package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		{"", 10, 10},
		{"42", 0, 42},
		{"-13", 1, -13},
		{"0012", 99, 12},
		{"x", 5, 5},
		{" 42", 7, 7},
		{"999999999999999999999999", -1, -1},
	}
	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestLimitParam(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", 50},
		{"oops", 50},
		{"10", 10},
		{"0", 1},
		{"-4", 1},
		{"999", 200},
	}
	for _, tc := range cases {
		if got := LimitParam(tc.raw, 50, 200); got != tc.want {
			t.Fatalf("LimitParam(%q) = %d; want %d", tc.raw, got, tc.want)
		}
	}
	if Clamp(5, 1, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 1, 3) != 2 {
		t.Fatalf("Clamp mismatch")
	}
}

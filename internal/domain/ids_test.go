package domain

import "testing"

func TestParseRecordID(t *testing.T) {
	cases := []struct {
		in      string
		want    RecordID
		wantErr bool
	}{
		{"42", 42, false},
		{" 7 ", 7, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseRecordID(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseRecordID(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseRecordID(%q) = (%d, %v), want %d", tc.in, got, err, tc.want)
		}
	}
}

func TestModuleCode_String(t *testing.T) {
	if got := ModuleCode(42).String(); got != "0042" {
		t.Fatalf("ModuleCode(42).String() = %q", got)
	}
	if got := ModuleCode(1001).BusinessID(); got != "1001" {
		t.Fatalf("ModuleCode(1001).BusinessID() = %q", got)
	}
}

func TestBusinessID_Empty(t *testing.T) {
	if !BusinessID("  ").Empty() {
		t.Fatalf("blank business id should be empty")
	}
	if BusinessID("CS101").Empty() {
		t.Fatalf("CS101 should not be empty")
	}
}

package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "report.pdf", want: "report.pdf"},
		{name: "trims whitespace", in: "  notes.pdf ", want: "notes.pdf"},
		{name: "forward slash replaced", in: "a/b.pdf", want: "a_b.pdf"},
		{name: "backslash replaced", in: `a\b.pdf`, want: "a_b.pdf"},
		{name: "traversal rejected", in: "../etc/passwd", wantErr: true},
		{name: "empty rejected", in: "   ", wantErr: true},
		{name: "dots only rejected", in: ".", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SanitizeFileName(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %q", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("SanitizeFileName(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

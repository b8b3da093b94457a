package format

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"fits", "alice", 10, "alice"},
		{"exact", "alice", 5, "alice"},
		{"truncated", "alice@example.com", 8, "alice@e…"},
		{"multibyte", "共有プリンター", 4, "共有プ…"},
		{"one", "alice", 1, "…"},
		{"zero", "alice", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestOrDash(t *testing.T) {
	if got := OrDash(""); got != "-" {
		t.Errorf("OrDash(\"\") = %q, want %q", got, "-")
	}
	if got := OrDash("x"); got != "x" {
		t.Errorf("OrDash(\"x\") = %q, want %q", got, "x")
	}
}

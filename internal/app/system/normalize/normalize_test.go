package normalize

import "testing"

func TestLoginID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"coach@example.com", "coach@example.com"},
		{"COACH@EXAMPLE.COM", "coach@example.com"},
		{"  Coach@Example.Com\t", "coach@example.com"},
		{"", ""},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := LoginID(tt.input); got != tt.want {
			t.Errorf("LoginID(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestName(t *testing.T) {
	// Names keep their case; only surrounding whitespace goes.
	tests := []struct {
		input string
		want  string
	}{
		{"Jordan Smith", "Jordan Smith"},
		{"  Jordan Smith ", "Jordan Smith"},
		{"McDONALD, Al", "McDONALD, Al"},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := Name(tt.input); got != tt.want {
			t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"active", "active"},
		{" Archived ", "archived"},
		{"DISABLED", "disabled"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Status(tt.input); got != tt.want {
			t.Errorf("Status(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

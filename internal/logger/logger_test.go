package logger

import "testing"

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{in: "  hello  ", limit: 10, want: "hello"},
		{in: "hello world", limit: 5, want: "hello..."},
		{in: "héllo", limit: 2, want: "hé..."},
		{in: "x", limit: 0, want: ""},
	}
	for _, tt := range tests {
		if got := TruncateForLog(tt.in, tt.limit); got != tt.want {
			t.Fatalf("TruncateForLog(%q,%d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatalf("expected nop logger")
	}
}

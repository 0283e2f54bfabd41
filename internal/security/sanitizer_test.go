package security

import "testing"

func TestSanitizeContent(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "hello world", "hello world"},
		{"trims whitespace", "  hello  ", "hello"},
		{"strips tags", "<b>bold</b> and <i>italic</i>", "bold and italic"},
		{"drops script body", "<script>alert('x')</script>ok", "ok"},
		{"strips null bytes", "he\x00llo", "hello"},
		{"markup only", "<img src=x onerror=alert(1)>", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeContent(tc.input); got != tc.want {
				t.Fatalf("SanitizeContent(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken(16)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if len(a) != 32 {
		t.Fatalf("expected 32 hex chars, got %d", len(a))
	}

	b, err := GenerateToken(16)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if a == b {
		t.Fatal("two tokens should not collide")
	}
}

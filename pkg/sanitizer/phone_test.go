package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid E.164 format",
			input: "+393331234567",
			want:  "+393331234567",
		},
		{
			name:  "with spaces",
			input: "+39 333 123 4567",
			want:  "+393331234567",
		},
		{
			name:  "with dashes",
			input: "+39-333-123-4567",
			want:  "+393331234567",
		},
		{
			name:  "us number with parentheses",
			input: "+1 (212) 555-1234",
			want:  "+12125551234",
		},
		{
			name:  "leading and trailing spaces",
			input: "  +393331234567  ",
			want:  "+393331234567",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "italian number without country code",
			input: "333 123 4567",
			want:  "+393331234567",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhone(tt.input)
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	input := "+39 333 123 4567"
	once := NormalizePhone(input)
	twice := NormalizePhone(once)
	if once != twice {
		t.Errorf("NormalizePhone is not idempotent: %q != %q", once, twice)
	}
}

package pdftext

import "testing"

func TestFindDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "plain DOI",
			text: "Available at https://doi.org/10.1038/s41586-021-03819-2 online",
			want: "10.1038/s41586-021-03819-2",
		},
		{
			name: "trailing period stripped",
			text: "See 10.1145/3292500.3330919.",
			want: "10.1145/3292500.3330919",
		},
		{
			name: "no DOI",
			text: "This page has no identifier at all",
			want: "",
		},
		{
			name: "prefix without suffix rejected",
			text: "something 10.1234/ nothing",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findDOI(tt.text)
			if got != tt.want {
				t.Errorf("findDOI() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsValidDOI(t *testing.T) {
	tests := []struct {
		doi  string
		want bool
	}{
		{"10.1038/s41586-021-03819-2", true},
		{"10.1145/xyz", true},
		{"11.1038/abc", false},
		{"10.1038/", false},
		{"10.1/x", false},
	}

	for _, tt := range tests {
		if got := isValidDOI(tt.doi); got != tt.want {
			t.Errorf("isValidDOI(%q) = %v, want %v", tt.doi, got, tt.want)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "collapses space runs",
			input: "two  columns   of    text",
			want:  "two columns of text",
		},
		{
			name:  "trims line edges",
			input: "  indented line  \nnext line",
			want:  "indented line\nnext line",
		},
		{
			name:  "collapses blank line runs",
			input: "paragraph one\n\n\n\n\nparagraph two",
			want:  "paragraph one\n\nparagraph two",
		},
		{
			name:  "windows line endings",
			input: "a\r\nb",
			want:  "a\nb",
		},
		{
			name:  "trims surrounding whitespace",
			input: "\n\n body \n\n",
			want:  "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeText(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

package slug

import "testing"

// TestGenerate exercises the slug generator with a broad range of inputs
// covering typical titles, special characters, unicode, and boundary
// conditions.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Normal titles ---
		{
			name:  "simple two words",
			input: "Hello World",
			want:  "hello-world",
		},
		{
			name:  "title with punctuation and year",
			input: "Hello, World! 2024",
			want:  "hello-world-2024",
		},
		{
			name:  "already lowercase",
			input: "already lowercase",
			want:  "already-lowercase",
		},
		{
			name:  "single word",
			input: "Technology",
			want:  "technology",
		},
		{
			name:  "mixed case sentence",
			input: "The Quick Brown Fox Jumps Over the Lazy Dog",
			want:  "the-quick-brown-fox-jumps-over-the-lazy-dog",
		},

		// --- Special characters ---
		{
			name:  "apostrophes dropped",
			input: "India's Economy in 2025",
			want:  "indias-economy-in-2025",
		},
		{
			name:  "ampersand and at sign",
			input: "Rock & Roll @ the Arena",
			want:  "rock-roll-the-arena",
		},
		{
			name:  "parentheses and brackets",
			input: "Version (2.0) [Beta]",
			want:  "version-20-beta",
		},
		{
			name:  "slashes collapse words",
			input: "Frontend/Backend | Full Stack",
			want:  "frontendbackend-full-stack",
		},
		{
			name:  "hash and dollar",
			input: "Issue #42 costs $100",
			want:  "issue-42-costs-100",
		},

		// --- Separator handling ---
		{
			name:  "underscores become hyphens",
			input: "snake_case_title",
			want:  "snake-case-title",
		},
		{
			name:  "existing hyphens preserved",
			input: "already-hyphenated-title",
			want:  "already-hyphenated-title",
		},
		{
			name:  "consecutive separators collapse",
			input: "too   many --- separators___here",
			want:  "too-many-separators-here",
		},
		{
			name:  "tabs and newlines",
			input: "tab\there\nnewline",
			want:  "tab-here-newline",
		},

		// --- Trimming ---
		{
			name:  "leading and trailing spaces",
			input: "   padded title   ",
			want:  "padded-title",
		},
		{
			name:  "leading and trailing hyphens",
			input: "--wrapped in hyphens--",
			want:  "wrapped-in-hyphens",
		},
		{
			name:  "punctuation at the edges",
			input: "!!!Breaking News!!!",
			want:  "breaking-news",
		},

		// --- Edge cases ---
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only punctuation",
			input: "!?@#$%",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   ",
			want:  "",
		},
		{
			name:  "digits only",
			input: "2024",
			want:  "2024",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Generate must be deterministic — repeated calls on the same input
// always produce the same slug.
func TestGenerateDeterministic(t *testing.T) {
	input := "Some Title, Repeated! 99"
	first := Generate(input)
	for i := 0; i < 5; i++ {
		if got := Generate(input); got != first {
			t.Fatalf("non-deterministic output: %q vs %q", got, first)
		}
	}
}

package interview

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Class
	}{
		{"empty", "", ClassHesitant},
		{"whitespace only", "   \t ", ClassHesitant},
		{"filler um", "um", ClassHesitant},
		{"filler hmm", "hmm", ClassHesitant},
		{"filler idk", "idk", ClassHesitant},
		{"refusal skip", "skip", ClassHesitant},
		{"refusal no idea", "no idea", ClassHesitant},
		{"refusal next", "next", ClassHesitant},
		{"refusal dont know", "i don't know", ClassHesitant},
		{"bare no", "no", ClassHesitant},
		{"ellipsis", "...", ClassHesitant},
		{"single dot", ".", ClassHesitant},
		{"single letter", "x", ClassHesitant},
		{"bare n", "n", ClassHesitant},
		{"two letters", "hi", ClassHesitant},
		{"punctuation noise", "?!?!", ClassHesitant},
		{"symbol noise", "###", ClassHesitant},

		{"yes", "yes", ClassPositiveShort},
		{"uppercase yes", "YES", ClassPositiveShort},
		{"bare y", "y", ClassPositiveShort},
		{"okay", "okay", ClassPositiveShort},
		{"sure with spaces", "  sure  ", ClassPositiveShort},
		{"fine", "fine", ClassPositiveShort},

		{"real answer", "I built a caching layer for a payments service", ClassSubstantive},
		{"short but real", "Go and Python", ClassSubstantive},
		{"three letters", "SQL", ClassSubstantive},
		{"two chars too short", "42", ClassHesitant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.input); got != tt.want {
				t.Fatalf("Classify(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	t.Parallel()

	for i := 0; i < 3; i++ {
		if got := Classify("um"); got != ClassHesitant {
			t.Fatalf("iteration %d: got %v", i, got)
		}
	}
}

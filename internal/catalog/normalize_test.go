package catalog

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase passthrough", "hello world", "hello world"},
		{"case folding", "Fire Alarm", "fire alarm"},
		{"whitespace collapse", "  Hello   World  ", "hello world"},
		{"tabs and newlines", "hello\t\nworld", "hello world"},
		{"empty", "", ""},
		{"only whitespace", "   \t\n ", ""},
		{"cyrillic folding", "Хурлиман СА́ЛЕМ", "хурлиман са́лем"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeSymmetry(t *testing.T) {
	// Keys and queries go through the same function, so differently
	// spaced and cased spellings of the same phrase must collide.
	if Normalize("  Fire   ALARM ") != Normalize("fire alarm") {
		t.Error("expected whitespace and case variants to normalize identically")
	}
}

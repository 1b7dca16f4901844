package pair

import "testing"

func TestNormalize_Symmetry(t *testing.T) {
	pairs := [][2]string{
		{"0xAAA", "0xBBB"},
		{"0xbbb", "0xAAA"},
		{"So11111111111111111111111111111111111111112", "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"},
		{"tokenX", "tokenY"},
	}

	for _, p := range pairs {
		ab := Normalize(p[0], p[1])
		ba := Normalize(p[1], p[0])
		if ab != ba {
			t.Errorf("Normalize(%q, %q) = %q, Normalize(%q, %q) = %q; want equal",
				p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}

func TestNormalize_CaseInsensitive(t *testing.T) {
	got := Normalize("0xAbC", "0xDeF")
	want := "0xabc-0xdef"
	if got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
}

func TestNormalize_SortOrder(t *testing.T) {
	// The lexicographically-smaller address always comes first.
	got := Normalize("0xzzz", "0xaaa")
	want := "0xaaa-0xzzz"
	if got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
}

func TestBase(t *testing.T) {
	key := Normalize("0xBBB", "0xAAA")
	if base := Base(key); base != "0xaaa" {
		t.Errorf("Base(%q) = %q, want %q", key, base, "0xaaa")
	}
}

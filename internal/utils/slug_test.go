package utils

import "testing"

func TestValidSlug(t *testing.T) {
	valid := []string{"mikail-cafe", "cafe42", "a", "a-b-c"}
	for _, s := range valid {
		if !ValidSlug(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}

	invalid := []string{"", "Mikail-Cafe", "cafe_42", "-cafe", "cafe-", "ca fe", "café"}
	for _, s := range invalid {
		if ValidSlug(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestNormalizeSlug(t *testing.T) {
	cases := map[string]string{
		"Mikail Cafe":    "mikail-cafe",
		"  Cafe  42  ":   "cafe-42",
		"cafe_42":        "cafe-42",
		"ALL-CAPS":       "all-caps",
		"tatlı dünyası":  "tatl-dnyas",
		"already-a-slug": "already-a-slug",
	}

	for input, want := range cases {
		if got := NormalizeSlug(input); got != want {
			t.Errorf("NormalizeSlug(%q) = %q, want %q", input, got, want)
		}
	}
}

package graph

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Kili Technology", "kili-technology"},
		{"punctuation collapses", "Kili   Technology!!", "kili-technology"},
		{"already a slug", "kili-technology", "kili-technology"},
		{"leading and trailing junk", "  --DeepIP-- ", "deepip"},
		{"digits survive", "Area 51 Labs", "area-51-labs"},
		{"non-ascii is stripped", " Ôrbit ", "rbit"},
		{"empty", "", ""},
		{"only junk", "!!!", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slugify(tc.in); got != tc.want {
				t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{"Kili Technology", "DeepIP", "A&B Consulting", "  spaced  out  "}
	for _, in := range inputs {
		once := Slugify(in)
		if twice := Slugify(once); twice != once {
			t.Errorf("Slugify not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

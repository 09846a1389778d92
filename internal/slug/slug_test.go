package slug

import "testing"

func TestGenerate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Brake Pads & Discs", "brake-pads-discs"},
		{"  Engine  Components ", "engine-components"},
		{"OIL, FILTERS!", "oil-filters"},
		{"already-a-slug", "already-a-slug"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Generate(tc.in); got != tc.want {
			t.Fatalf("Generate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValid(t *testing.T) {
	valid := []string{"brake-system", "a", "timing-belts-2"}
	for _, s := range valid {
		if !Valid(s) {
			t.Fatalf("expected %q valid", s)
		}
	}
	invalid := []string{"", "Brake-System", "double--hyphen", "-leading", "trailing-", "with space"}
	for _, s := range invalid {
		if Valid(s) {
			t.Fatalf("expected %q invalid", s)
		}
	}
}

package utils

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"José Martínez", "jose-martinez"},
		{"Ana G. Pérez", "ana-g-perez"},
		{"  Foo   Bar  ", "foo-bar"},
		{"ALL CAPS", "all-caps"},
	}
	for _, tc := range tests {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlugWithSuffix(t *testing.T) {
	if got := SlugWithSuffix("jose-martinez", 2); got != "jose-martinez-2" {
		t.Errorf("SlugWithSuffix() = %q, want %q", got, "jose-martinez-2")
	}
}

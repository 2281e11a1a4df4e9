package camera

import "testing"

func TestNormalizeLabel(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"collapses whitespace", "Integrated   Camera", "Integrated Camera"},
		{"strips bus suffix", "HD Webcam C920: HD Webcam C920", "HD Webcam C920"},
		{"title-cases lowercase names", "integrated camera", "Integrated Camera"},
		{"keeps mixed-case vendor strings", "Logitech BRIO", "Logitech BRIO"},
		{"empty input", "   ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeLabel(tc.raw); got != tc.want {
				t.Fatalf("NormalizeLabel(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

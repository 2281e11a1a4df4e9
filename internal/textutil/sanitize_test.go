package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"screen.png", "screen.png"},
		{"  webcam_main.jpg  ", "webcam_main.jpg"},
		{"a/b\\c:d*e", "a-b-c-d-e"},
		{"bad?\"<>|name", "badname"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeFileName(tc.in); got != tc.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

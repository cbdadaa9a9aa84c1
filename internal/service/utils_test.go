package service

import "testing"

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"label.png", "label.png"},
		{"my label.png", "my_label.png"},
		{"../../etc/passwd", "passwd"},
		{"..\\..\\label.jpg", "label.jpg"},
		{"über-label.webp", "ber-label.webp"},
		{"...", "upload"},
		{"", "upload"},
	}

	for _, c := range cases {
		if got := sanitizeFilename(c.in); got != c.want {
			t.Fatalf("sanitizeFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeUTF8(t *testing.T) {
	if got := sanitizeUTF8("clean text"); got != "clean text" {
		t.Fatalf("valid string altered: %q", got)
	}
	if got := sanitizeUTF8("bad\xffbyte"); got != "badbyte" {
		t.Fatalf("invalid byte not removed: %q", got)
	}
}

package database

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Central Rama 3", "central-rama-3"},
		{"Siam Paragon", "siam-paragon"},
		{"  The   Mall  Bangkapi ", "the-mall-bangkapi"},
		{"Terminal 21 (Asok)", "terminal-21-asok"},
		{"เซ็นทรัลเวิลด์", "เซ็นทรัลเวิลด์"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

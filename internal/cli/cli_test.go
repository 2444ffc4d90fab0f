package cli

import "testing"

func TestDefaultName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"web.toml", "web"},
		{"/etc/doe/db.toml", "db"},
		{"./configs/api", "api"},
		{"cache.v2.toml", "cache.v2"},
	}

	for _, tt := range tests {
		if got := defaultName(tt.path); got != tt.want {
			t.Errorf("defaultName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

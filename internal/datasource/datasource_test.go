package datasource

import (
	"testing"

	"disasteretl/internal/datasource/file"
	"disasteretl/internal/datasource/httpds"
)

func TestFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		loc     string
		wantURL bool
	}{
		{"disaster_messages.csv", false},
		{"/data/in/categories.csv", false},
		{"http://example.com/m.csv", true},
		{"HTTPS://example.com/c.csv", true},
		{"httpdata.csv", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.loc); got != tt.wantURL {
			t.Errorf("IsURL(%q) = %v, want %v", tt.loc, got, tt.wantURL)
		}
		switch src := For(tt.loc, nil).(type) {
		case *httpds.Source:
			if !tt.wantURL {
				t.Errorf("For(%q) = http source", tt.loc)
			}
		case *file.Local:
			if tt.wantURL {
				t.Errorf("For(%q) = local source", tt.loc)
			}
		default:
			t.Errorf("For(%q) = %T", tt.loc, src)
		}
	}
}

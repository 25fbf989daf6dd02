package browser

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com", false},
		{"http://example.com/post?id=1", false},
		{"file:///etc/passwd", true},
		{"javascript:alert(1)", true},
		{"ftp://example.com", true},
		{"https://", true},
		{"", true},
		{"#", true},
	}

	for _, tt := range tests {
		err := Validate(tt.url)
		if tt.wantErr && err == nil {
			t.Errorf("Validate(%q): expected error, got nil", tt.url)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("Validate(%q): unexpected error %v", tt.url, err)
		}
	}
}

func TestOpenRejectsMissingLink(t *testing.T) {
	if err := Open("#"); !errors.Is(err, ErrNoLink) {
		t.Errorf("Open(#) = %v, want ErrNoLink", err)
	}
}

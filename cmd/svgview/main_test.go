package main

import "testing"

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{"400x400", 400, 400, false},
		{"640X480", 640, 480, false},
		{"0x10", 0, 0, true},
		{"400", 0, 0, true},
		{"ax10", 0, 0, true},
		{"10x-1", 0, 0, true},
	}
	for _, tt := range tests {
		w, h, err := parseSize(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if w != tt.w || h != tt.h {
			t.Errorf("parseSize(%q) = %d, %d, want %d, %d", tt.in, w, h, tt.w, tt.h)
		}
	}
}

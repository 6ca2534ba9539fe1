// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import "testing"

func TestMaskString(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		visible int
		want    string
	}{
		{"empty", "", 4, ""},
		{"shorter than visible", "abc", 4, "***"},
		{"equal to visible", "abcd", 4, "***"},
		{"nonce prefix", "3f2a9c1e-77d0-4a52", 8, "3f2a9c1e***"},
		{"zero visible", "secret", 0, "***"},
		{"multibyte", "пароль123", 3, "пар***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskString(tt.in, tt.visible); got != tt.want {
				t.Errorf("MaskString(%q, %d) = %q, want %q", tt.in, tt.visible, got, tt.want)
			}
		})
	}
}

func TestMaskPhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"international", "+919876543210", "+91********10"},
		{"local", "9876543210", "98******10"},
		{"short", "12345", "*****"},
		{"padded", " +919876543210 ", "+91********10"},
		{"plus and four digits", "+12345", "+12*45"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskPhone(tt.in); got != tt.want {
				t.Errorf("MaskPhone(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

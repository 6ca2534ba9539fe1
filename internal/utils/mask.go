// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import "strings"

// MaskString keeps the first visible runes of s and replaces the rest with
// "***". Values no longer than visible are masked entirely.
//
//	MaskString("3f2a9c1e-77d0", 8) // "3f2a9c1e***"
func MaskString(s string, visible int) string {
	if s == "" {
		return ""
	}
	runes := []rune(s)
	if visible <= 0 || len(runes) <= visible {
		return "***"
	}
	return string(runes[:visible]) + "***"
}

// MaskPhone keeps the leading "+" with the next two digits and the last two
// digits of a phone number.
//
//	MaskPhone("+919876543210") // "+91********10"
func MaskPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if len(phone) < 6 {
		return strings.Repeat("*", len(phone))
	}

	head := 2
	if strings.HasPrefix(phone, "+") {
		head = 3
	}
	tail := 2
	if len(phone) <= head+tail {
		return strings.Repeat("*", len(phone))
	}
	return phone[:head] + strings.Repeat("*", len(phone)-head-tail) + phone[len(phone)-tail:]
}

package user

import (
	"fmt"
	"strings"
)

// NormalizePhone converts a Kenyan phone number to E.164 form. A leading
// zero is replaced with the +254 country code; numbers already carrying
// +254 pass through. Spaces are stripped either way.
func NormalizePhone(phone string) (string, error) {
	phone = strings.ReplaceAll(phone, " ", "")
	switch {
	case phone == "":
		return "", fmt.Errorf("phone number is empty")
	case strings.HasPrefix(phone, "0"):
		return "+254" + phone[1:], nil
	case strings.HasPrefix(phone, "+254"):
		return phone, nil
	default:
		return "", fmt.Errorf("unsupported phone number format: %s", phone)
	}
}

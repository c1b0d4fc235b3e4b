package id

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatVoucherID returns a voucher ID like "2025-01-001".
func FormatVoucherID(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", year, month, seq)
}

// FormatLineID returns a line ID like "2025-01-001a" (line 0='a', 1='b', ...).
// Past 'z' the suffix grows: 26='aa', 27='ab'.
func FormatLineID(voucherID string, line int) string {
	suffix := ""
	for {
		suffix = string(rune('a'+line%26)) + suffix
		line = line/26 - 1
		if line < 0 {
			break
		}
	}
	return voucherID + suffix
}

// ParseVoucherID parses "2025-01-001" (or a line ID) into year, month, seq.
func ParseVoucherID(id string) (year, month, seq int, err error) {
	base := VoucherOf(id)

	parts := strings.SplitN(base, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid voucher ID format: %q", id)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in voucher ID %q: %w", id, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in voucher ID %q: %w", id, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("month %d out of range in voucher ID %q", month, id)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in voucher ID %q: %w", id, err)
	}

	return year, month, seq, nil
}

// VoucherOf strips the line suffix from a line ID.
// "2025-01-001a" -> "2025-01-001"
func VoucherOf(lineID string) string {
	i := len(lineID)
	for i > 0 && lineID[i-1] >= 'a' && lineID[i-1] <= 'z' {
		i--
	}
	return lineID[:i]
}

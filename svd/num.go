// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svd

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseUint parses an SVD scaled non-negative integer: 0x/0X prefixed
// hexadecimal, #-prefixed binary (x digits read as 0) or decimal.
func ParseUint(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		return strconv.ParseUint(s[2:], 16, 64)
	case strings.HasPrefix(s, "#"):
		b := strings.Map(
			func(r rune) rune {
				if r == 'x' || r == 'X' {
					return '0'
				}
				return r
			},
			s[1:],
		)
		return strconv.ParseUint(b, 2, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}

// ParseInt is like ParseUint but the result must fit in an int32.
func ParseInt(s string) (int, error) {
	u, err := ParseUint(s)
	if err != nil {
		return 0, err
	}
	if u > math.MaxInt32 {
		return 0, &strconv.NumError{Func: "ParseInt", Num: s, Err: strconv.ErrRange}
	}
	return int(u), nil
}

// FormatHex formats v as 0x prefixed upper case hexadecimal padded to
// digits.
func FormatHex(v uint64, digits int) string {
	return fmt.Sprintf("0x%0*X", digits, v)
}

// BitMask returns the mask of width bits starting at offset.
func BitMask(offset, width int) uint64 {
	if width <= 0 || offset < 0 || offset >= 64 {
		return 0
	}
	if width >= 64 {
		return math.MaxUint64 << uint(offset)
	}
	return (1<<uint(width) - 1) << uint(offset)
}

// FormatBitRange returns "[n]" for single bits and "[msb:lsb]" otherwise.
func FormatBitRange(offset, width int) string {
	if width == 1 {
		return fmt.Sprintf("[%d]", offset)
	}
	return fmt.Sprintf("[%d:%d]", offset+width-1, offset)
}

// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package validate checks values entered for the SVD model. The functions
// are pure: they return the accepted (possibly trimmed) value or an *Error
// describing the problem.
package validate

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/embeddedgo/svdtool/svd"
)

// Error is the only error kind returned by this package.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

func fail(f string, args ...any) error {
	return &Error{fmt.Sprintf(f, args...)}
}

// DefaultMaxBits is the register width used by the composite validators.
const DefaultMaxBits = svd.RegisterBits

// Hex accepts a hexadecimal number with an optional 0x prefix. It returns
// the trimmed input, not a normalized form.
func Hex(value, fieldName string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fail("%s must not be empty", fieldName)
	}
	digits := strings.TrimPrefix(value, "0x")
	if digits == "" {
		return "", fail("%s must not be empty", fieldName)
	}
	if _, err := strconv.ParseUint(digits, 16, 64); err != nil {
		return "", fail("%s must be a valid hexadecimal number: %q", fieldName, value)
	}
	return value, nil
}

// Decimal parses a base 10 integer.
func Decimal(value, fieldName string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fail("%s must not be empty", fieldName)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fail("%s must be a valid number: %q", fieldName, value)
	}
	return n, nil
}

var identRE = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Name accepts C identifiers.
func Name(name, fieldName string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fail("%s must not be empty", fieldName)
	}
	if !identRE.MatchString(name) {
		return "", fail(
			"%s may contain only letters, digits and underscores and must not start with a digit: %q",
			fieldName, name,
		)
	}
	return name, nil
}

// NoAccess is the sentinel accepted by Access for "not specified".
const NoAccess = "none"

// Access accepts one of svd.AccessTypes. The empty string and NoAccess
// yield the empty Access.
func Access(access string) (svd.Access, error) {
	if access == "" || access == NoAccess {
		return "", nil
	}
	a := svd.Access(access)
	if !slices.Contains(svd.AccessTypes, a) {
		names := make([]string, len(svd.AccessTypes))
		for i, t := range svd.AccessTypes {
			names[i] = string(t)
		}
		return "", fail("access must be one of: %s", strings.Join(names, ", "))
	}
	return a, nil
}

// BitRange checks that the field [offset, offset+width) fits in maxBits.
func BitRange(offset, width, maxBits int) (int, int, error) {
	if offset < 0 || offset >= maxBits {
		return 0, 0, fail("bit offset must be in range 0-%d", maxBits-1)
	}
	if width < 1 || width > maxBits {
		return 0, 0, fail("bit width must be in range 1-%d", maxBits)
	}
	if offset+width > maxBits {
		return 0, 0, fail(
			"bit range %d-%d exceeds the %d-bit register",
			offset, offset+width-1, maxBits,
		)
	}
	return offset, width, nil
}

// IRQNumber accepts interrupt numbers 0-255.
func IRQNumber(n int) (int, error) {
	if n < 0 || n > 255 {
		return 0, fail("interrupt number must be in range 0-255")
	}
	return n, nil
}

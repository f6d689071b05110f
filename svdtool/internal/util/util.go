// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// stderr receives warnings.
var stderr io.Writer = os.Stderr

func Warn(f string, args ...any) {
	fmt.Fprintf(stderr, f+"\n", args...)
}

// FatalErr prints an error description and exits the program if the
// err != nil.
func FatalErr(what string, err error) {
	if err == nil {
		return
	}
	s := err.Error() + "\n"
	if what != "" {
		s = what + ": " + s
	}
	os.Stderr.WriteString(s)
	os.Exit(1)
}

// DirName returns the last element of the path to the current working
// directory.
func DirName() string {
	dir, err := os.Getwd()
	FatalErr("", err)
	dir = filepath.Base(dir)
	if dir == "/" || dir == "." {
		dir = ""
	}
	return dir
}

// InOutFiles infers the name of the input and output files from the name of
// the current working directory if the inName is an empty strings.
func InOutFiles(inName, inSuffix, outName, outSuffix string) (string, string) {
	if inName == "" {
		inName = DirName() + inSuffix
	}
	if outName == "" {
		outName = strings.TrimSuffix(inName, inSuffix) + outSuffix
	}
	return inName, outName
}

// Limit returns the first limit items of list and the number of the omitted
// ones. Zero limit means no limit.
func Limit[T any](list []T, limit int) ([]T, int) {
	if limit > 0 && len(list) > limit {
		return list[:limit], len(list) - limit
	}
	return list, 0
}

// WriteList writes the items of list limited by Limit to w, one per line,
// followed by the number of the omitted ones.
func WriteList[T fmt.Stringer](w io.Writer, prefix string, list []T, limit int) {
	shown, more := Limit(list, limit)
	for _, s := range shown {
		fmt.Fprintln(w, prefix+s.String())
	}
	if more != 0 {
		fmt.Fprintf(w, "%s... and %d more\n", prefix, more)
	}
}

// WarnList prints the items of list limited by Limit using Warn.
func WarnList[T fmt.Stringer](list []T, limit int) {
	shown, more := Limit(list, limit)
	for _, s := range shown {
		Warn("warning: %s", s)
	}
	if more != 0 {
		Warn("warning: ... and %d more", more)
	}
}

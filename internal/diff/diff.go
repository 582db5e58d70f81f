// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff compares expected and actual test output.
package diff

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Diff returns a unified diff from want to got, labeled with
// wantName and gotName. It returns "" if want and got are equal.
// If the diff command is unavailable, it returns both texts in full.
func Diff(wantName string, want []byte, gotName string, got []byte) string {
	if string(want) == string(got) {
		return ""
	}
	if _, err := exec.LookPath("diff"); err != nil {
		return fmt.Sprintf("%s:\n%s%s:\n%s", wantName, want, gotName, got)
	}

	d, err := os.MkdirTemp("", "simstat-diff")
	if err != nil {
		return err.Error()
	}
	defer os.RemoveAll(d)
	for name, data := range map[string][]byte{wantName: want, gotName: got} {
		if err := os.WriteFile(filepath.Join(d, name), data, 0666); err != nil {
			return err.Error()
		}
	}

	cmd := exec.Command("diff", "-Nu", wantName, gotName)
	cmd.Dir = d
	data, err := cmd.CombinedOutput()
	if len(data) > 0 {
		// diff exits with a non-zero status when the files don't
		// match. Ignore that as long as there is output.
		err = nil
	}
	if err != nil {
		data = append(data, err.Error()...)
	}
	return string(data)
}

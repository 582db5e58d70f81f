// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diff

import (
	"os/exec"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	if d := Diff("want", []byte("a\nb\n"), "got", []byte("a\nb\n")); d != "" {
		t.Errorf("equal inputs: got diff %q", d)
	}

	d := Diff("want", []byte("a\nb\n"), "got", []byte("a\nc\n"))
	if _, err := exec.LookPath("diff"); err != nil {
		if !strings.Contains(d, "want:\na\nb\n") {
			t.Errorf("fallback output missing want text:\n%s", d)
		}
		return
	}
	for _, line := range []string{"-b", "+c"} {
		if !strings.Contains(d, "\n"+line+"\n") {
			t.Errorf("diff missing %q:\n%s", line, d)
		}
	}
}

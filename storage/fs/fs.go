// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fs opens the inputs and outputs of simstat commands. A path
// is a local file name, "-" for standard input or output, or a URL
// such as gs://bucket/object whose scheme has been registered with
// RegisterScheme.
package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/net/context"
)

// An FS is a flat store of named objects.
type FS interface {
	// Open returns a reader for the object called name.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Create returns a writer that replaces the object called name.
	Create(ctx context.Context, name string) (Writer, error)
}

// A Writer is the output of FS.Create. Nothing written is guaranteed
// to be stored until Close returns nil.
type Writer interface {
	io.Writer
	// CloseWithError abandons the object. Partially written data
	// is discarded where the backend allows it.
	CloseWithError(err error) error
	Close() error
}

// Stdio names standard input for Open and standard output for Create.
const Stdio = "-"

var (
	schemeMu sync.Mutex
	schemes  = make(map[string]func(ctx context.Context, bucket string) (FS, error))
)

// RegisterScheme makes URLs of the form scheme://bucket/object
// resolve to the FS returned by open. It is called from the init
// function of a backend package such as storage/fs/gcs.
func RegisterScheme(scheme string, open func(ctx context.Context, bucket string) (FS, error)) {
	schemeMu.Lock()
	defer schemeMu.Unlock()
	schemes[scheme] = open
}

// resolve splits path into the FS that holds it and the name within
// that FS.
func resolve(ctx context.Context, path string) (FS, string, error) {
	scheme, rest, ok := strings.Cut(path, "://")
	if !ok {
		return Local, path, nil
	}
	schemeMu.Lock()
	open := schemes[scheme]
	schemeMu.Unlock()
	if open == nil {
		return nil, "", fmt.Errorf("%s: unsupported scheme %q", path, scheme)
	}
	bucket, name, _ := strings.Cut(rest, "/")
	if bucket == "" || name == "" {
		return nil, "", fmt.Errorf("%s: want %s://bucket/object", path, scheme)
	}
	fsys, err := open(ctx, bucket)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return fsys, name, nil
}

// Open opens path for reading.
func Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if path == Stdio {
		return io.NopCloser(os.Stdin), nil
	}
	fsys, name, err := resolve(ctx, path)
	if err != nil {
		return nil, err
	}
	return fsys.Open(ctx, name)
}

// Create opens path for writing, replacing any existing content.
func Create(ctx context.Context, path string) (Writer, error) {
	if path == Stdio {
		return nopWriter{os.Stdout}, nil
	}
	fsys, name, err := resolve(ctx, path)
	if err != nil {
		return nil, err
	}
	return fsys.Create(ctx, name)
}

type nopWriter struct{ io.Writer }

func (nopWriter) CloseWithError(error) error { return nil }
func (nopWriter) Close() error               { return nil }

// Local is the FS of the local file system. Names are file paths.
var Local FS = localFS{}

type localFS struct{}

func (localFS) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Create writes to a temporary file next to name and renames it into
// place on Close, so a failed command never leaves a truncated output.
func (localFS) Create(ctx context.Context, name string) (Writer, error) {
	f, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return nil, err
	}
	// CreateTemp makes the file private.
	if err := f.Chmod(0644); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	return &localWriter{f: f, name: name}, nil
}

type localWriter struct {
	f    *os.File
	name string
	done bool
}

func (w *localWriter) Write(p []byte) (int, error) {
	return w.f.Write(p)
}

func (w *localWriter) CloseWithError(err error) error {
	if w.done {
		return nil
	}
	w.done = true
	cerr := w.f.Close()
	os.Remove(w.f.Name())
	return cerr
}

func (w *localWriter) Close() error {
	if w.done {
		return errors.New("fs: writer already closed")
	}
	w.done = true
	if err := w.f.Close(); err != nil {
		os.Remove(w.f.Name())
		return err
	}
	if err := os.Rename(w.f.Name(), w.name); err != nil {
		os.Remove(w.f.Name())
		return err
	}
	return nil
}

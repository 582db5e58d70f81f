// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gcs implements the FS interface using Google Cloud Storage.
// Importing it registers the gs:// scheme with storage/fs.
package gcs

import (
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"golang.org/x/net/context"
	"google.golang.org/api/option"

	"github.com/natsunoshion/CA-Final/storage/fs"
)

func init() {
	fs.RegisterScheme("gs", func(ctx context.Context, bucket string) (fs.FS, error) {
		return NewFS(ctx, bucket)
	})
}

// impl is an fs.FS backed by Google Cloud Storage.
type impl struct {
	name   string
	bucket *storage.BucketHandle
}

// NewFS constructs an FS that accesses objects in bucketName. opts
// are passed to the storage client, for example to select
// credentials; by default Application Default Credentials are used.
func NewFS(ctx context.Context, bucketName string, opts ...option.ClientOption) (fs.FS, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &impl{bucketName, client.Bucket(bucketName)}, nil
}

func (f *impl) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	r, err := f.bucket.Object(name).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("gs://%s/%s: %w", f.name, name, err)
	}
	return r, nil
}

func (f *impl) Create(ctx context.Context, name string) (fs.Writer, error) {
	ctx, cancel := context.WithCancel(ctx)
	w := f.bucket.Object(name).NewWriter(ctx)
	w.ObjectAttrs.ContentType = "text/plain; charset=utf-8"
	return &wrapper{w, cancel}, nil
}

// wrapper aborts an upload by canceling its context.
type wrapper struct {
	*storage.Writer
	cancel context.CancelFunc
}

func (w *wrapper) CloseWithError(err error) error {
	w.cancel()
	// Close reports the cancellation; the object is not created.
	w.Writer.Close()
	return nil
}

func (w *wrapper) Close() error {
	defer w.cancel()
	if err := w.Writer.Close(); err != nil {
		return fmt.Errorf("gs://%s/%s: %w", w.Writer.Bucket, w.Writer.Name, err)
	}
	return nil
}

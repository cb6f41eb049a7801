// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package client

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"sitefolio/internal/models"
)

// SelectedImage is a locally validated image staged for upload. Data is
// the raw bytes, good for both the local preview and the later commit.
type SelectedImage struct {
	Name        string
	ContentType string
	Data        []byte
}

// CommitFunc performs the actual network upload of a staged image as part
// of a form submit, reporting fractional progress.
type CommitFunc func(ctx context.Context, image *SelectedImage, onProgress func(float64)) error

// UploadSequencer defers committing an image until the surrounding form
// submit passes validation. Selecting a file only stages it locally;
// nothing touches the network until Commit, and Reset before a submit
// leaves no remote trace.
type UploadSequencer struct {
	mu       sync.Mutex
	selected *SelectedImage
	commits  int
}

// NewUploadSequencer creates an empty sequencer.
func NewUploadSequencer() *UploadSequencer {
	return &UploadSequencer{}
}

// Select validates and stages a file. The content type is sniffed from
// the bytes. On rejection the previous selection stays untouched.
func (u *UploadSequencer) Select(name string, data []byte) error {
	if int64(len(data)) > models.MaxImageSize {
		return errors.New("image must be 5 MB or smaller")
	}

	sniff := data
	if len(sniff) > 512 {
		sniff = sniff[:512]
	}
	contentType := http.DetectContentType(sniff)
	if !models.AllowedImageTypes[contentType] {
		return errors.New("only JPEG, PNG, GIF and WebP images are accepted")
	}

	u.mu.Lock()
	u.selected = &SelectedImage{Name: name, ContentType: contentType, Data: data}
	u.mu.Unlock()
	return nil
}

// Selected returns the staged image, or nil when none is staged.
func (u *UploadSequencer) Selected() *SelectedImage {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.selected
}

// Reset discards the staged image. Called on form reset or navigation
// away; since Commit never ran, no remote file exists to orphan.
func (u *UploadSequencer) Reset() {
	u.mu.Lock()
	u.selected = nil
	u.mu.Unlock()
}

// Commit uploads the staged image via fn, guaranteeing the progress
// sequence is monotonically non-decreasing and ends at 1.0 on success.
// The staged image stays selected on failure so the submit can be
// retried. With nothing staged, Commit is a successful no-op (an edit
// that keeps the current image).
func (u *UploadSequencer) Commit(ctx context.Context, fn CommitFunc, onProgress func(float64)) error {
	u.mu.Lock()
	img := u.selected
	u.mu.Unlock()

	if img == nil {
		return nil
	}

	var last float64
	guard := func(pct float64) {
		if pct < last {
			return
		}
		last = pct
		if onProgress != nil {
			onProgress(pct)
		}
	}

	if err := fn(ctx, img, guard); err != nil {
		return err
	}
	if last < 1 {
		guard(1)
	}

	u.mu.Lock()
	u.selected = nil
	u.commits++
	u.mu.Unlock()
	return nil
}

// Commits reports how many uploads this sequencer has performed.
func (u *UploadSequencer) Commits() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.commits
}

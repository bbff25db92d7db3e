package util

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobKeyFromURL(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"absolute url", "http://localhost:8080/uploads/1712-feedback.pdf", "1712-feedback.pdf"},
		{"percent encoded", "http://localhost:8080/uploads/my%20notes.pdf", "my notes.pdf"},
		{"bare key", "1712-feedback.pdf", "1712-feedback.pdf"},
		{"nested path", "/uploads/sub/dir/file.pdf", "file.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := BlobKeyFromURL(tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, key)
		})
	}
}

func TestBlobKeyFromURLRejectsEmptyRefs(t *testing.T) {
	for _, ref := range []string{"", "http://localhost:8080/"} {
		_, err := BlobKeyFromURL(ref)
		assert.ErrorIs(t, err, ErrBadAttachmentRef, "ref %q", ref)
	}
}

func TestUploadFilenameKeepsOriginalName(t *testing.T) {
	name := UploadFilename("report.pdf")
	assert.True(t, strings.HasSuffix(name, "-report.pdf"), name)

	// Path components in the client-supplied name are dropped.
	name = UploadFilename("../../etc/passwd")
	assert.True(t, strings.HasSuffix(name, "-passwd"), name)
	assert.NotContains(t, name, "/")
}

func TestValidateMimeType(t *testing.T) {
	pdf := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte{0x20}, 64)...)
	mime, err := ValidateMimeType(bytes.NewReader(pdf), UploadMimeTypes)
	require.NoError(t, err)
	assert.Equal(t, MimePDF, mime)

	_, err = ValidateMimeType(strings.NewReader("#!/bin/sh\nrm -rf"), UploadMimeTypes)
	assert.Error(t, err)
}

package util

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

const (
	MimeImage = "image/"
	MimePDF   = "application/pdf"
)

// UploadMimeTypes lists what the upload endpoints accept.
var UploadMimeTypes = []string{MimePDF, "image/jpeg", "image/jpg", "image/png"}

// ValidateMimeType sniffs the real MIME type of the stream's first bytes and
// checks it against allowed prefixes or full types.
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	mimeType := http.DetectContentType(buffer[:n])

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return mimeType, nil
		}
	}

	return mimeType, errors.New("invalid file type: " + mimeType)
}

// UploadFilename builds the deterministic storage key for an uploaded file:
// a nanosecond timestamp prefix keeps keys unique, the original name keeps
// them readable.
func UploadFilename(originalName string) string {
	return fmt.Sprintf("%d-%s", time.Now().UnixNano(), path.Base(originalName))
}

// BlobKeyFromURL resolves an attachment reference back to its storage key:
// decode any URL escaping, then take the final path segment. References may
// be absolute URLs or bare keys.
func BlobKeyFromURL(ref string) (string, error) {
	if ref == "" {
		return "", ErrBadAttachmentRef
	}

	p := ref
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		// url.Parse already percent-decodes the path.
		p = u.Path
	} else if unescaped, err := url.PathUnescape(ref); err == nil {
		p = unescaped
	}

	key := path.Base(p)
	if key == "" || key == "." || key == "/" {
		return "", ErrBadAttachmentRef
	}
	return key, nil
}

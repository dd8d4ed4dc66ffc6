// Package media stores uploaded photos and voice notes in an object store
// and returns the public URL recorded on the date.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedType is returned for uploads whose content type does not
// match the kind of media
var ErrUnsupportedType = errors.New("unsupported media type")

// Kind is the type of media attached to a date
type Kind string

const (
	KindPhoto     Kind = "photos"
	KindVoiceNote Kind = "voice-notes"
)

// Store uploads an object and returns its public URL
type Store interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// CheckContentType verifies that contentType fits kind
func CheckContentType(kind Kind, contentType string) error {
	major, _, _ := strings.Cut(contentType, "/")
	switch {
	case kind == KindPhoto && major == "image":
		return nil
	case kind == KindVoiceNote && (major == "audio" || contentType == "video/webm"):
		// browsers record voice notes as video/webm with an audio track
		return nil
	}
	return fmt.Errorf("%w: %q for %s", ErrUnsupportedType, contentType, kind)
}

// ObjectKey builds a unique key: dates/{dateID}/{kind}/{uuid}{ext}
func ObjectKey(kind Kind, dateID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("dates/%s/%s/%s%s", dateID, kind, uuid.New().String(), ext)
}

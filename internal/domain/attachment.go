package domain

import (
	"fmt"
	"strings"
)

// Lifetime decides whether an attachment outlives a passing case
type Lifetime string

const (
	KeepAlways      Lifetime = "keep_always"
	DeleteOnSuccess Lifetime = "delete_on_success"
)

// Attachment is a named artifact retained alongside a test report
type Attachment struct {
	Name      string
	Case      string // Name of the test case that produced the attachment
	MediaType string
	Payload   []byte
	Lifetime  Lifetime
}

// Retain reports whether the attachment survives a case with the given outcome
func (a Attachment) Retain(outcome Outcome) bool {
	return a.Lifetime != DeleteOnSuccess || outcome != OutcomePass
}

// FileName returns a file-system friendly name for the attachment payload
func (a Attachment) FileName() string {
	base := sanitize(a.Case) + "-" + sanitize(a.Name)
	switch a.MediaType {
	case "image/png":
		return base + ".png"
	case "text/plain":
		return base + ".txt"
	case "application/json":
		return base + ".json"
	default:
		return base + ".bin"
	}
}

// AttachmentRecord describes a persisted attachment
type AttachmentRecord struct {
	Name      string   `json:"name"`
	Case      string   `json:"case"`
	MediaType string   `json:"media_type"`
	Lifetime  Lifetime `json:"lifetime"`
	Size      int      `json:"size"`
	Path      string   `json:"path,omitempty"`
}

// Record returns the metadata of the attachment, without payload
func (a Attachment) Record() AttachmentRecord {
	return AttachmentRecord{
		Name:      a.Name,
		Case:      a.Case,
		MediaType: a.MediaType,
		Lifetime:  a.Lifetime,
		Size:      len(a.Payload),
	}
}

func (r AttachmentRecord) String() string {
	return fmt.Sprintf("%s (%s, %d bytes)", r.Name, r.MediaType, r.Size)
}

func sanitize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unnamed"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

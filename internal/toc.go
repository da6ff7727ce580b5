package internal

import "strings"

// TOC (=table of content) lists all attachments of an executable.
// The order of attachments in the TOC reflects the order of attachment data afterwards
// and is the listing order exposed to readers.
// The TOC is embedded as json prior to the first attachment, guarded by a boundary byte-pattern on both sides.
type TOC []Attachment

// Attachment represents a single embedded resource.
type Attachment struct {
	Name string // Resource name
	Size int64  // Resource size in bytes
}

// Names returns the attachment names in TOC order.
func (t TOC) Names() []string {
	names := make([]string, len(t))
	for i, a := range t {
		names[i] = a.Name
	}
	return names
}

// TotalSize returns the summed size of all attachments.
func (t TOC) TotalSize() int64 {
	var size int64
	for _, a := range t {
		size += a.Size
	}
	return size
}

// IsBlankName reports whether name is empty or consists only of whitespace.
// Blank names cannot be looked up and are never embedded.
func IsBlankName(name string) bool {
	return strings.TrimSpace(name) == ""
}

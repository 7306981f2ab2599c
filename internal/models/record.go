// internal/models/record.go
package models

import "strings"

// SourceRecord is one doctor or clinic entity exactly as reported by a
// single source. Attribute names are source-specific; the scoring source
// adapters map them onto the canonical field set. Records are read-only
// inputs owned by the storage layer.
type SourceRecord struct {
	Source     string            `json:"source"`
	RecordID   int64             `json:"recordId,omitempty"`
	Attributes map[string]string `json:"attributes"`
}

// Attr returns the named raw attribute, trimmed, or "" when absent.
func (r SourceRecord) Attr(name string) string {
	if r.Attributes == nil {
		return ""
	}
	return strings.TrimSpace(r.Attributes[name])
}

// Package issues is the client for the BugBoard issue endpoints: listing,
// creation, partial modification and attachment image transfer.
package issues

import (
	"fmt"
	"strings"
	"time"
)

// Issue is one tracked issue as the backend reports it. Unknown response
// fields are ignored so newer backends keep working with this client. All
// identity and bookkeeping fields are server-owned; the client never assigns
// an id.
type Issue struct {
	ID          int64      `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority,omitempty"` // empty means unset, not LOW
	State       string     `json:"state,omitempty"`    // server-defined, treated as opaque
	Type        string     `json:"type,omitempty"`
	Path        string     `json:"path,omitempty"` // attachment reference, relative or absolute
	CreatedAt   *Timestamp `json:"createdAt,omitempty"`
	UpdatedAt   *Timestamp `json:"updatedAt,omitempty"`
	CreatorID   int64      `json:"creatorId,omitempty"`
}

// Timestamp decodes the backend's timestamps, which arrive either as RFC 3339
// or as zone-less "2006-01-02T15:04:05[.fraction]" strings. The zone-less
// form is read as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339) + `"`), nil
}

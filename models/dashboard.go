package models

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"
)

// DashboardSummary is one item of the list endpoint's response. It is used
// for display and for choosing which dashboards to fetch in full; it is
// never written to disk.
type DashboardSummary struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Slug    string   `json:"slug"`
	Labels  []string `json:"labels"`
	System  bool     `json:"system"`
	Enabled bool     `json:"enabled"`
}

// SystemManagedFields are set by the product on every dashboard and are
// stripped from exports, so a backup can be re-imported without carrying
// another instance's bookkeeping.
var SystemManagedFields = []string{
	"id",
	"created",
	"modified",
	"last_visited",
	"favorite",
	"is_homepage",
	"is_default_home",
	"system",
}

// ContentFields are the user-authored fields of a dashboard, in the order
// they appear in an export file.
var ContentFields = []string{
	"enabled",
	"permissions",
	"queries",
	"name",
	"slug",
	"sections",
	"visible",
	"controls",
	"description",
	"labels",
}

// contentDefaults fills content fields the API response lacked. A JSON
// null counts as lacking.
var contentDefaults = map[string]json.RawMessage{
	"enabled":     json.RawMessage(`false`),
	"permissions": json.RawMessage(`[]`),
	"queries":     json.RawMessage(`[]`),
	"name":        json.RawMessage(`""`),
	"slug":        json.RawMessage(`""`),
	"sections":    json.RawMessage(`[]`),
	"visible":     json.RawMessage(`false`),
	"controls":    json.RawMessage(`[]`),
	"description": json.RawMessage(`""`),
	"labels":      json.RawMessage(`[]`),
}

var contentFieldSet = func() map[string]struct{} {
	s := make(map[string]struct{}, len(ContentFields))
	for _, name := range ContentFields {
		s[name] = struct{}{}
	}
	return s
}()

// DashboardDetail is the full dashboard object returned by the detail
// endpoint. Queries, sections and controls are opaque to this tool, so
// every field is kept as raw JSON; fields this tool has never heard of
// survive the round trip untouched.
type DashboardDetail struct {
	fields map[string]json.RawMessage
}

func (d *DashboardDetail) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &d.fields)
}

func (d *DashboardDetail) Slug() string { return stringField(d.fields, "slug") }

func (d *DashboardDetail) Name() string { return stringField(d.fields, "name") }

// Export builds the on-disk representation: system-managed fields removed,
// content defaults filled in.
func (d *DashboardDetail) Export() ExportRecord {
	fields := make(map[string]json.RawMessage, len(d.fields))
	for name, value := range d.fields {
		fields[name] = value
	}
	for _, name := range SystemManagedFields {
		delete(fields, name)
	}
	for name, def := range contentDefaults {
		if value, ok := fields[name]; !ok || isNull(value) {
			fields[name] = def
		}
	}
	return ExportRecord{fields: fields}
}

// ExportRecord is the persisted form of a dashboard: the detail object
// minus SystemManagedFields, serialized with the content fields first.
type ExportRecord struct {
	fields map[string]json.RawMessage
}

func (r ExportRecord) Slug() string { return stringField(r.fields, "slug") }

// FilenameTimeLayout drops the colons from ISO-8601 so names stay safe on
// any filesystem.
const FilenameTimeLayout = "2006-01-02T150405"

// Filename names the export file for a write happening at the given time.
func (r ExportRecord) Filename(at time.Time) string {
	slug := r.Slug()
	if slug == "" {
		slug = "unknown"
	}
	return at.Format(FilenameTimeLayout) + "-" + slug + ".json"
}

// MarshalJSON writes the content fields in ContentFields order, then any
// remaining fields sorted by name.
func (r ExportRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	write := func(name string, value json.RawMessage) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return err
		}
		if value == nil {
			value = json.RawMessage(`null`)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
		return nil
	}

	for _, name := range ContentFields {
		if err := write(name, r.fields[name]); err != nil {
			return nil, err
		}
	}

	rest := make([]string, 0, len(r.fields))
	for name := range r.fields {
		if _, ok := contentFieldSet[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		if err := write(name, r.fields[name]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func stringField(fields map[string]json.RawMessage, name string) string {
	var s string
	if raw, ok := fields[name]; ok {
		// Non-string values are treated as absent.
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

package models

// RawFields maps a field name to every string a path matched. A field whose
// path matched nothing is present with an empty slice.
type RawFields map[string][]string

// Record is one cleaned row. Values are string, float64, time.Time or nil;
// nil means the field was absent or could not be parsed.
type Record map[string]any

// String returns the field as a string, or "" when it is missing or not a string.
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Edge links the channel that posted a forward to the channel it came from.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

const EdgeTypeForward = "forward"

// PlaceholderUser is the user row emitted for a channel that could not be fetched.
func PlaceholderUser(handle string) Record {
	return Record{"name": handle, "handle": handle}
}

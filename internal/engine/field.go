package engine

import "log/slog"

// Field identifies one of the tracked metadata fields an engine fits a
// vector space for.
type Field int

const (
	// FullText is the normalized, synonym-expanded combined corpus (default)
	FullText Field = iota
	// Authors is the lowercase space-joined author names
	Authors
	// Tags is the lowercase space-joined tag list
	Tags
	// Affiliation is the lowercase space-joined author affiliations
	Affiliation
)

// categoricalFields are the fields that also get a free-text search index.
var categoricalFields = []Field{Authors, Tags, Affiliation}

// String returns the wire name of the field.
func (f Field) String() string {
	switch f {
	case FullText:
		return "full_text_corpus"
	case Authors:
		return "authors"
	case Tags:
		return "tags"
	case Affiliation:
		return "affiliation"
	default:
		return "unknown"
	}
}

// ParseField maps a field name to its Field value. Unrecognized names fall
// back to FullText; the fallback is logged, not an error, so callers can
// treat any string as a valid field selector.
func ParseField(name string) Field {
	switch name {
	case "full_text_corpus", "":
		return FullText
	case "authors":
		return Authors
	case "tags":
		return Tags
	case "affiliation":
		return Affiliation
	default:
		slog.Warn("unrecognized field type, using default", "field", name, "default", FullText.String())
		return FullText
	}
}

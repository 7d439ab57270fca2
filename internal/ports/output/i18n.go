package output

// T renders user-facing text for the transport adapters. Keys follow
// "section.name", e.g. "state.pending" or "errors.conflict"; data feeds
// template placeholders and may be nil.
type T interface {
	T(locale, key string, data map[string]any) string
}

package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyPage       = "page"
	KeySlug       = "slug"
	KeySection    = "section"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyOutput     = "output"
	KeyConfig     = "config"
	KeyCount      = "count"
	KeyAddr       = "addr"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Page(p string) slog.Attr         { return slog.String(KeyPage, p) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Section(s string) slog.Attr      { return slog.String(KeySection, s) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Output(o string) slog.Attr       { return slog.String(KeyOutput, o) }
func Config(c string) slog.Attr       { return slog.String(KeyConfig, c) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

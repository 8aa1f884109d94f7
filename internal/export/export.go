// Package export serializes selected conversations to interchange
// formats: a JSON envelope, a standalone HTML page with phrase
// highlighting, CSV (one row per message), and a SQLite database for
// external tooling.
package export

import (
	"fmt"
	"time"
)

// Format names an export serialization.
type Format string

const (
	FormatJSON   Format = "json"
	FormatHTML   Format = "html"
	FormatCSV    Format = "csv"
	FormatSQLite Format = "sqlite"
)

// Ext returns the file extension for a format.
func (f Format) Ext() string {
	if f == FormatSQLite {
		return "db"
	}
	return string(f)
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatHTML, FormatCSV, FormatSQLite:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format %q (json, html, csv, sqlite)", s)
	}
}

// DefaultFilename builds "<base>-YYYY-MM-DD.<ext>".
func DefaultFilename(base string, f Format, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", base, now.Format("2006-01-02"), f.Ext())
}

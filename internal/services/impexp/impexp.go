// Package impexp encodes and decodes journal export documents.
package impexp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// Format is an export encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ErrUnsupportedVersion is returned for documents written by a newer
// version of the exporter.
var ErrUnsupportedVersion = errors.New("impexp: unsupported export version")

// ErrEmptyDocument is returned for documents that carry none of the entity
// keys, such as a truncated upload or a JSON null.
var ErrEmptyDocument = errors.New("impexp: export contains no journal data")

// ParseFormat maps a name (json, msgpack, mp) to a Format. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "msgpack", "mp", "mpk":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("unknown export format %q (supported: json, msgpack)", s)
	}
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatMsgpack {
		return "application/msgpack"
	}
	return "application/json"
}

// FileName returns the download name for an export taken at t, e.g.
// trading-journal-export-2024-03-01.json.
func FileName(t time.Time, f Format) string {
	return fmt.Sprintf("trading-journal-export-%s.%s", t.Format("2006-01-02"), f)
}

// Encode writes doc in format f. JSON output is indented.
func Encode(doc models.ExportDocument, f Format) ([]byte, error) {
	if doc.Version == 0 {
		doc.Version = models.ExportVersion
	}
	switch f {
	case FormatJSON, "":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode export: %w", err)
		}
		return data, nil
	case FormatMsgpack:
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		enc.UseCompactInts(true)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode export: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", f)
	}
}

// Decode parses data in format f. A document without a version is read as
// version 1; a newer version is rejected, as is a document with no entity
// keys at all.
func Decode(data []byte, f Format) (models.ExportDocument, error) {
	var doc models.ExportDocument
	switch f {
	case FormatJSON, "":
		if err := json.Unmarshal(data, &doc); err != nil {
			return models.ExportDocument{}, fmt.Errorf("failed to parse export: %w", err)
		}
	case FormatMsgpack:
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.SetCustomStructTag("json")
		if err := dec.Decode(&doc); err != nil {
			return models.ExportDocument{}, fmt.Errorf("failed to parse export: %w", err)
		}
	default:
		return models.ExportDocument{}, fmt.Errorf("unknown export format %q", f)
	}

	if doc.Version == 0 {
		doc.Version = models.ExportVersion
	}
	if doc.Version > models.ExportVersion {
		return models.ExportDocument{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	if isEmpty(doc) {
		return models.ExportDocument{}, ErrEmptyDocument
	}
	return doc, nil
}

func isEmpty(doc models.ExportDocument) bool {
	return doc.Trades == nil &&
		doc.Assets == nil &&
		doc.Goals == nil &&
		doc.JournalEntries == nil &&
		doc.Portfolio == nil &&
		doc.UserSettings == nil
}

// Detect guesses the format of data: JSON documents start with '{' after
// optional whitespace, anything else is treated as MessagePack.
func Detect(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatMsgpack
}

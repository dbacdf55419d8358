// Package transform maps remote rows to domain entities and back.
//
// Reading a row is fallible: a required field that cannot be coerced yields a
// *ParseError rather than a zero or NaN value. Writing is total.
package transform

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/shopspring/decimal"
)

// ParseError reports a remote value that could not be coerced into its
// domain field.
type ParseError struct {
	Table string
	ID    string
	Field string
	Value any
	Err   error
}

func (e *ParseError) Error() string {
	id := e.ID
	if id == "" {
		id = "?"
	}
	return fmt.Sprintf("transform: %s[%s].%s: cannot parse %#v: %v", e.Table, id, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	errMissing     = errors.New("required field missing")
	errUnsupported = errors.New("unsupported type")
	errNotFinite   = errors.New("not a finite number")
)

// timeLayouts are tried in order when a timestamp arrives as text.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// reader pulls typed values out of a row, keeping the first failure.
type reader struct {
	table string
	row   models.Row
	err   *ParseError
}

func newReader(table string, row models.Row) *reader {
	return &reader{table: table, row: row}
}

func (r *reader) fail(col string, v any, err error) {
	if r.err != nil {
		return
	}
	id, _ := r.row[ColID].(string)
	r.err = &ParseError{Table: r.table, ID: id, Field: col, Value: v, Err: err}
}

// result returns nil or the first ParseError as an error value.
func (r *reader) result() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

func (r *reader) id() string {
	v, ok := r.row[ColID]
	if !ok || v == nil {
		r.fail(ColID, v, errMissing)
		return ""
	}
	s := stringify(v)
	if s == "" {
		r.fail(ColID, v, errMissing)
	}
	return s
}

func (r *reader) str(col string) string {
	v, ok := r.row[col]
	if !ok || v == nil {
		return ""
	}
	return stringify(v)
}

func (r *reader) strOr(col, def string) string {
	if s := r.str(col); s != "" {
		return s
	}
	return def
}

func (r *reader) num(col string) float64 {
	v, ok := r.row[col]
	if !ok || v == nil {
		r.fail(col, v, errMissing)
		return 0
	}
	f, err := toFloat(v)
	if err != nil {
		r.fail(col, v, err)
	}
	return f
}

func (r *reader) numOr(col string, def float64) float64 {
	v, ok := r.row[col]
	if !ok || v == nil {
		return def
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
		return def
	}
	f, err := toFloat(v)
	if err != nil {
		r.fail(col, v, err)
		return def
	}
	return f
}

func (r *reader) optNum(col string) *float64 {
	v, ok := r.row[col]
	if !ok || v == nil {
		return nil
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
		return nil
	}
	f, err := toFloat(v)
	if err != nil {
		r.fail(col, v, err)
		return nil
	}
	return &f
}

func (r *reader) boolOr(col string, def bool) bool {
	v, ok := r.row[col]
	if !ok || v == nil {
		return def
	}
	b, err := toBool(v)
	if err != nil {
		r.fail(col, v, err)
		return def
	}
	return b
}

func (r *reader) strings(col string) []string {
	v, ok := r.row[col]
	if !ok || v == nil {
		return []string{}
	}
	out, err := toStrings(v)
	if err != nil {
		r.fail(col, v, err)
		return []string{}
	}
	return out
}

func (r *reader) time(col string) time.Time {
	v, ok := r.row[col]
	if !ok || v == nil {
		return time.Time{}
	}
	t, err := toTime(v)
	if err != nil {
		r.fail(col, v, err)
	}
	return t
}

// object decodes a nested object column into dst. It reports false when the
// column is absent so the caller can keep its default.
func (r *reader) object(col string, dst any) bool {
	v, ok := r.row[col]
	if !ok || v == nil {
		return false
	}
	var data []byte
	switch x := v.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return false
		}
		data = []byte(x)
	case []byte:
		data = x
	default:
		b, err := json.Marshal(x)
		if err != nil {
			r.fail(col, v, err)
			return false
		}
		data = b
	}
	if err := json.Unmarshal(data, dst); err != nil {
		r.fail(col, v, err)
		return false
	}
	return true
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// toFloat coerces the numeric representations remote stores return: native
// numbers, json.Number and decimal text.
func toFloat(v any) (float64, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case decimal.Decimal:
		f = x.InexactFloat64()
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		if err != nil {
			return 0, err
		}
		f = d.InexactFloat64()
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return 0, err
		}
		f = d.InexactFloat64()
	case []byte:
		d, err := decimal.NewFromString(strings.TrimSpace(string(x)))
		if err != nil {
			return 0, err
		}
		f = d.InexactFloat64()
	default:
		return 0, errUnsupported
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return f, nil
}

func toBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case int64:
		return x != 0, nil
	case int:
		return x != 0, nil
	case uint64:
		return x != 0, nil
	case float64:
		return x != 0, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(x))
	case []byte:
		return strconv.ParseBool(strings.TrimSpace(string(x)))
	default:
		return false, errUnsupported
	}
}

func toStrings(v any) ([]string, error) {
	switch x := v.(type) {
	case []string:
		return append([]string{}, x...), nil
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, errUnsupported
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		return decodeStringList([]byte(x))
	case []byte:
		return decodeStringList(x)
	default:
		return nil, errUnsupported
	}
}

func decodeStringList(data []byte) ([]string, error) {
	if strings.TrimSpace(string(data)) == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func toTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x.UTC(), nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, nil
		}
		var lastErr error
		for _, layout := range timeLayouts {
			t, err := time.Parse(layout, s)
			if err == nil {
				return t.UTC(), nil
			}
			lastErr = err
		}
		return time.Time{}, lastErr
	default:
		return time.Time{}, errUnsupported
	}
}

// optString maps an empty optional string to a remote null.
func optString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// optFloat maps a nil optional number to a remote null.
func optFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func stringList(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string{}, s...)
}

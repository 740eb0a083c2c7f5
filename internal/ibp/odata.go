package ibp

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/gjson"
)

// resultsPath locates the row list inside an OData v2 JSON envelope.
const resultsPath = "d.results"

// Row is one OData result entry. Values are JSON literals as IBP sent them;
// a nil value means the attribute was null.
type Row map[string]json.RawMessage

// Value returns the attribute value, or nil when it is null or absent.
// A nil RawMessage marshals as null.
func (r Row) Value(attribute string) json.RawMessage {
	return r[attribute]
}

// StringValue encodes s as a JSON string literal without HTML escaping.
func StringValue(s string) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n"))
}

type Response struct {
	StatusCode int
	StatusText string
	Rows       []Row
}

// OK reports whether the remote answered with a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// parseResults extracts d.results. Malformed bodies and a missing results
// array both yield no rows.
func parseResults(body []byte) []Row {
	if !gjson.ValidBytes(body) {
		return nil
	}
	results := gjson.GetBytes(body, resultsPath)
	if !results.IsArray() {
		return nil
	}
	var rows []Row
	results.ForEach(func(_, item gjson.Result) bool {
		row := Row{}
		if item.IsObject() {
			item.ForEach(func(key, value gjson.Result) bool {
				row[key.Str] = scalar(value)
				return true
			})
		}
		rows = append(rows, row)
		return true
	})
	return rows
}

// scalar keeps numbers and booleans as sent. Strings are re-encoded so
// escapes in the source body do not leak into the output.
func scalar(value gjson.Result) json.RawMessage {
	switch value.Type {
	case gjson.Null:
		return nil
	case gjson.String:
		return StringValue(value.Str)
	default:
		return json.RawMessage(value.Raw)
	}
}

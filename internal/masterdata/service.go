package masterdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/roivaz/ibp-masterdata-mcp/internal/ibp"
	"github.com/roivaz/ibp-masterdata-mcp/internal/logging"
)

// DefaultMaxResults caps every returned value list.
const DefaultMaxResults = 30

// Querier performs one IBP query for the given attribute selection.
type Querier interface {
	Query(ctx context.Context, attributes []string) (*ibp.Response, error)
}

// Status classifies a fetch outcome. Only StatusOK carries JSON data.
type Status int

const (
	StatusOK Status = iota
	StatusRemoteError
	StatusNoData
)

// Result is the text shown to the caller plus how it was produced.
type Result struct {
	Status Status
	Text   string
}

// Service answers master data requests with one IBP query each.
type Service struct {
	attributes *AttributeMap
	querier    Querier
	maxResults int
	log        logging.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithMaxResults caps every returned value list at n. Non-positive values
// keep the default.
func WithMaxResults(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxResults = n
		}
	}
}

// NewService builds a Service. A nil attribute map means the builtin one.
func NewService(attributes *AttributeMap, querier Querier, log logging.Logger, opts ...Option) *Service {
	if attributes == nil {
		attributes = DefaultAttributeMap()
	}
	s := &Service{
		attributes: attributes,
		querier:    querier,
		maxResults: DefaultMaxResults,
		log:        log.WithName("masterdata.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attributes exposes the map the service resolves against.
func (s *Service) Attributes() *AttributeMap {
	return s.attributes
}

// FetchSingle returns the values of one master data type as a JSON array.
func (s *Service) FetchSingle(ctx context.Context, typ string) (Result, error) {
	attribute := s.attributes.Resolve(typ)
	s.log.Debug("fetching master data", "type", typ, "attribute", attribute)

	resp, err := s.querier.Query(ctx, []string{attribute})
	if err != nil {
		return Result{}, err
	}
	if res, done := s.checkResponse(resp, "No data found for "+typ); done {
		return res, nil
	}

	text, err := renderJSON(s.project(resp.Rows, attribute))
	if err != nil {
		return Result{}, err
	}
	return Result{Status: StatusOK, Text: text}, nil
}

// FetchMultiple queries every requested type with a single request and
// returns a JSON object keyed by type. Repeated types collapse into one key
// that keeps its first position.
func (s *Service) FetchMultiple(ctx context.Context, types []string) (Result, error) {
	attributes := s.attributes.ResolveAll(types)
	s.log.Debug("fetching master data", "types", types, "attributes", attributes)

	resp, err := s.querier.Query(ctx, attributes)
	if err != nil {
		return Result{}, err
	}
	if res, done := s.checkResponse(resp, "No data found for requested master data types"); done {
		return res, nil
	}

	values := orderedmap.New[string, []json.RawMessage](orderedmap.WithCapacity[string, []json.RawMessage](len(types)))
	for i, typ := range types {
		values.Set(typ, s.project(resp.Rows, attributes[i]))
	}
	text, err := renderObject(values)
	if err != nil {
		return Result{}, err
	}
	return Result{Status: StatusOK, Text: text}, nil
}

// ListAttributes renders the configured entries, never the default.
func (s *Service) ListAttributes() (Result, error) {
	text, err := renderJSON(s.attributes.Entries())
	if err != nil {
		return Result{}, err
	}
	return Result{Status: StatusOK, Text: text}, nil
}

func (s *Service) checkResponse(resp *ibp.Response, noData string) (Result, bool) {
	if !resp.OK() {
		s.log.Info("IBP request unsuccessful", "status", resp.StatusCode)
		return Result{Status: StatusRemoteError, Text: "Error fetching data from IBP: " + resp.StatusText}, true
	}
	if len(resp.Rows) == 0 {
		return Result{Status: StatusNoData, Text: noData}, true
	}
	return Result{}, false
}

// project keeps row order; rows lacking the attribute contribute a null.
func (s *Service) project(rows []ibp.Row, attribute string) []json.RawMessage {
	n := min(len(rows), s.maxResults)
	out := make([]json.RawMessage, n)
	for i := range n {
		out[i] = rows[i].Value(attribute)
	}
	return out
}

// renderObject writes the pairs in insertion order. orderedmap's own
// MarshalJSON escapes HTML characters, which would diverge from renderJSON.
func renderObject(values *orderedmap.OrderedMap[string, []json.RawMessage]) (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for pair := values.Oldest(); pair != nil; pair = pair.Next() {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		key, err := marshalCompact(pair.Key)
		if err != nil {
			return "", err
		}
		value, err := marshalCompact(pair.Value)
		if err != nil {
			return "", err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return renderJSON(json.RawMessage(buf.Bytes()))
}

func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func renderJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

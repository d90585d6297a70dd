package core

import (
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"strconv"
)

// Params holds query parameters keyed by their wire name.
type Params map[string]any

// Request describes one exchange call before it is signed. GET requests carry Query,
// POST requests carry Body; never both.
type Request struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Query  Params `json:"query,omitempty"`
	Body   any    `json:"body,omitempty"`
}

func NewRequest(method, path string) *Request {
	return &Request{
		Method: method,
		Path:   path,
		Query:  make(Params),
	}
}

func (r *Request) SetQuery(key string, value any) *Request {
	if r.Query == nil {
		r.Query = make(Params)
	}
	r.Query[key] = value
	return r
}

func (r *Request) SetQueryParams(params Params) *Request {
	if r.Query == nil {
		r.Query = make(Params)
	}
	maps.Copy(r.Query, params)
	return r
}

func (r *Request) SetBody(body any) *Request {
	r.Body = body
	return r
}

// Validate enforces that exactly one of query and body is used, matching the method.
func (r *Request) Validate() error {
	if r.Path == "" || r.Path[0] != '/' {
		return fmt.Errorf("%w: path %q must start with /", ErrInvalidRequest, r.Path)
	}
	switch r.Method {
	case http.MethodGet, http.MethodDelete:
		if r.Body != nil {
			return fmt.Errorf("%w: %s request cannot carry a body", ErrInvalidRequest, r.Method)
		}
	case http.MethodPost:
		if len(r.Query) > 0 {
			return fmt.Errorf("%w: POST request cannot carry query parameters", ErrInvalidRequest)
		}
	default:
		return fmt.Errorf("%w: unsupported method %q", ErrInvalidRequest, r.Method)
	}
	return nil
}

// QueryString renders Query in canonical form: keys sorted, values escaped, with a
// leading "?". It returns "" when there are no parameters. The result is both signed
// and sent, so it must not be re-encoded afterwards.
func (r *Request) QueryString() string {
	if len(r.Query) == 0 {
		return ""
	}
	values := make(url.Values, len(r.Query))
	for k, v := range r.Query {
		values.Set(k, formatParam(v))
	}
	return "?" + values.Encode()
}

func formatParam(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

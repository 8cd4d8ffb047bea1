package clinicsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/aussiebroadwan/clinic/pkg/idx"
	"github.com/aussiebroadwan/clinic/pkg/validate"
)

// ============================================================================
// Error kinds
// ============================================================================

// ErrorKind classifies a failed API call.
type ErrorKind int

const (
	KindUnknown      ErrorKind = iota
	KindUnauthorized           // 401
	KindForbidden              // 403
	KindNotFound               // 404
	KindServer                 // 5xx
	KindNetwork                // no response
	KindValidation             // 4xx with field errors
	KindClient                 // any other 4xx
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindClient:
		return "client"
	default:
		return "unknown"
	}
}

var (
	ErrUnauthorized = errors.New("clinicsdk: unauthorized")
	ErrForbidden    = errors.New("clinicsdk: forbidden")
	ErrNotFound     = errors.New("clinicsdk: not found")
	ErrServer       = errors.New("clinicsdk: server error")
	ErrNetwork      = errors.New("clinicsdk: network error")
	ErrClient       = errors.New("clinicsdk: request rejected")

	// ErrValidation matches both server-side validation failures and the
	// *validate.ValidationError returned before a request is sent.
	ErrValidation = validate.ErrInvalid
)

// Display notices shown to the user for each kind of failure.
const (
	NoticeSessionExpired = "Session expired. Please login again."
	NoticeForbidden      = "You do not have permission to perform this action"
	NoticeNotFound       = "Resource not found"
	NoticeServer         = "Server error. Please try again later."
	NoticeNetwork        = "Network error. Please check your connection."
	NoticeGeneric        = "Something went wrong. Please try again."
)

// ============================================================================
// APIError
// ============================================================================

// APIError is returned by Send for every non-2xx response and for requests
// that never got a response.
type APIError struct {
	Kind       ErrorKind
	StatusCode int // 0 for KindNetwork

	// Message is the server's explanation, if it gave one.
	Message string

	// Fields maps field names to messages for validation failures.
	Fields map[string][]string

	Method    string
	Path      string
	RequestID idx.ID

	// Err is the transport error for KindNetwork.
	Err error
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString("clinicsdk: ")
	if e.Method != "" {
		fmt.Fprintf(&b, "%s %s: ", e.Method, e.Path)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, "%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	} else {
		b.WriteString(e.Kind.String())
	}
	if msg := e.detail(); msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	}
	return b.String()
}

func (e *APIError) Unwrap() error { return e.Err }

// Is matches the package sentinels by kind.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Kind == KindUnauthorized
	case ErrForbidden:
		return e.Kind == KindForbidden
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrServer:
		return e.Kind == KindServer
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrClient:
		return e.Kind == KindClient
	}
	return false
}

// Notice returns the message to show the user for this failure.
func (e *APIError) Notice() string {
	switch e.Kind {
	case KindUnauthorized:
		return NoticeSessionExpired
	case KindForbidden:
		return NoticeForbidden
	case KindNotFound:
		return NoticeNotFound
	case KindServer:
		return NoticeServer
	case KindNetwork:
		return NoticeNetwork
	}
	if msg := e.detail(); msg != "" {
		return msg
	}
	return NoticeGeneric
}

// FieldError returns the first message for field, or "".
func (e *APIError) FieldError(field string) string {
	if msgs := e.Fields[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func (e *APIError) detail() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) == 0 {
		return ""
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], " ")))
	}
	return strings.Join(parts, "; ")
}

// Notice returns the user-facing message for any error returned by the SDK.
func Notice(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Notice()
	}

	var verr *validate.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}

	return err.Error()
}

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// Keys that carry a message rather than a field error.
var messageKeys = map[string]bool{
	"error":            true,
	"detail":           true,
	"message":          true,
	"details":          true,
	"non_field_errors": true,
}

// parseErrorResponse classifies a non-2xx response. Bodies follow the
// REST framework conventions: {"detail": "..."}, {"error": "..."},
// {"non_field_errors": [...]} or {"field": ["msg", ...]}, possibly nested
// under "details".
func parseErrorResponse(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err == nil {
		apiErr.Message = extractMessage(raw)
		apiErr.Fields = extractFields(raw)
	}

	switch {
	case status == http.StatusUnauthorized:
		apiErr.Kind = KindUnauthorized
	case status == http.StatusForbidden:
		apiErr.Kind = KindForbidden
	case status == http.StatusNotFound:
		apiErr.Kind = KindNotFound
	case status >= 500:
		apiErr.Kind = KindServer
	case status >= 400 && len(apiErr.Fields) > 0:
		apiErr.Kind = KindValidation
	case status >= 400:
		apiErr.Kind = KindClient
	default:
		apiErr.Kind = KindUnknown
	}

	return apiErr
}

// extractMessage picks error, then non_field_errors, then detail.
func extractMessage(raw map[string]json.RawMessage) string {
	if s := stringValue(raw["error"]); s != "" {
		return s
	}

	if details, ok := raw["details"]; ok {
		var nested map[string]json.RawMessage
		if json.Unmarshal(details, &nested) == nil {
			if msgs := stringsValue(nested["non_field_errors"]); len(msgs) > 0 {
				return msgs[0]
			}
		} else if s := stringValue(details); s != "" {
			return s
		}
	}

	if msgs := stringsValue(raw["non_field_errors"]); len(msgs) > 0 {
		return msgs[0]
	}

	if s := stringValue(raw["detail"]); s != "" {
		return s
	}
	return stringValue(raw["message"])
}

func extractFields(raw map[string]json.RawMessage) map[string][]string {
	fields := make(map[string][]string)
	collectFields(raw, fields)

	if details, ok := raw["details"]; ok {
		var nested map[string]json.RawMessage
		if json.Unmarshal(details, &nested) == nil {
			collectFields(nested, fields)
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

func collectFields(raw map[string]json.RawMessage, into map[string][]string) {
	for key, val := range raw {
		if messageKeys[key] {
			continue
		}
		if msgs := stringsValue(val); len(msgs) > 0 {
			into[key] = msgs
		}
	}
}

func stringValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// stringsValue accepts either a string or a list of strings.
func stringsValue(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	if s := stringValue(raw); s != "" {
		return []string{s}
	}
	return nil
}

package apiclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	msgRequestProcessed = "Request processed."
)

// Result is an interpreted backend response. Body always holds an object;
// non-JSON responses are wrapped as {"message": text}.
type Result struct {
	OK     bool           `json:"ok"`
	Status int            `json:"status"`
	Body   map[string]any `json:"body"`
	Raw    []byte         `json:"-"`
}

// Interpret reads and closes resp.Body. JSON content types are decoded;
// anything else is treated as a plain-text message. A body that cannot be read
// or decoded yields a failed Result carrying the real status.
func Interpret(resp *http.Response) Result {
	defer resp.Body.Close()
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return parseFailure(resp.StatusCode, nil)
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(strings.ToLower(contentType), "application/json") {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return parseFailure(resp.StatusCode, raw)
		}
		body, isObject := decoded.(map[string]any)
		if !isObject {
			body = map[string]any{}
		}
		return Result{OK: ok, Status: resp.StatusCode, Body: body, Raw: raw}
	}

	text := string(raw)
	if text == "" {
		if ok {
			text = msgRequestProcessed
		} else {
			text = "Server error: " + http.StatusText(resp.StatusCode)
		}
	}
	return Result{OK: ok, Status: resp.StatusCode, Body: map[string]any{"message": text}, Raw: raw}
}

func parseFailure(status int, raw []byte) Result {
	return Result{
		OK:     false,
		Status: status,
		Body:   map[string]any{"message": fmt.Sprintf("Error parsing server response. Status: %d", status)},
		Raw:    raw,
	}
}

// Message returns body.message when it is a non-empty string.
func (r Result) Message() string {
	s, _ := r.String("message")
	return s
}

func (r Result) String(key string) (string, bool) {
	v, ok := r.Body[key]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return "", false
		}
		return t, true
	case float64, bool:
		return fmt.Sprint(t), true
	default:
		return "", false
	}
}

// Number returns a numeric body field. A present-but-null field counts as
// absent, matching how the console decides which success message to show.
func (r Result) Number(key string) (float64, bool) {
	v, ok := r.Body[key]
	if !ok || v == nil {
		return 0, false
	}
	n, ok := v.(float64)
	return n, ok
}

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"recruit-console/internal/logging"
)

const (
	PathLoadJobsCSV    = "/api/jobs/load-csv"
	PathUploadCV       = "/api/candidates/upload"
	PathJobs           = "/api/jobs"
	PathCandidates     = "/api/candidates"
	PathApplications   = "/api/applications"
	PathMatchAll       = "/api/workflow/match-all"
	PathShortlist      = "/api/workflow/shortlist"
	PathSendInterviews = "/api/workflow/send-interviews"

	// FileField is the multipart field name both upload endpoints expect.
	FileField = "file"

	HeaderRequestID = "X-Request-ID"
)

type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout; zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{},
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Do sends one request and interprets the response. The returned error is
// always a *TransportError; HTTP-level failures come back as Result.OK=false.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (Result, error) {
	target := c.endpoint(path, query)
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return Result{}, &TransportError{Method: method, URL: target, Err: fmt.Errorf("create request: %w", err)}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json, text/plain;q=0.9")
	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)

	entry := c.log.WithFields(logrus.Fields{
		"method":     method,
		"endpoint":   target,
		"request_id": requestID,
	})
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		entry.WithError(err).Error("request failed before a response was received")
		return Result{}, &TransportError{Method: method, URL: target, Err: err}
	}

	res := Interpret(resp)
	entry = entry.WithFields(logrus.Fields{
		"status":  res.Status,
		"elapsed": time.Since(start).Round(time.Millisecond),
	})
	if res.OK {
		entry.Debug("request completed")
	} else {
		entry.WithField("message", res.Message()).Warn("request returned an error response")
	}
	return res, nil
}

// Post issues a bodiless POST, the shape every workflow action uses.
func (c *Client) Post(ctx context.Context, path string, query url.Values) (Result, error) {
	return c.Do(ctx, http.MethodPost, path, query, nil, "")
}

// UploadFile posts exactly one file under FileField as multipart form data.
// Local read failures are returned as plain errors, not TransportErrors.
func (c *Client) UploadFile(ctx context.Context, path, filePath string) (Result, error) {
	body, contentType, err := buildFilePayload(filePath)
	if err != nil {
		return Result{}, err
	}
	return c.Do(ctx, http.MethodPost, path, nil, body, contentType)
}

func buildFilePayload(filePath string) (*bytes.Buffer, string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", filePath, err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FileField, filepath.Base(filePath)))
	h.Set("Content-Type", partContentType(filePath, data))
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("write multipart part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// partContentType sniffs the payload; the backend rejects CVs that are not
// declared as application/pdf. CSV is recognised by extension because it
// sniffs as plain text.
func partContentType(filePath string, data []byte) string {
	if strings.EqualFold(filepath.Ext(filePath), ".csv") {
		return "text/csv"
	}
	mt := mimetype.Detect(data)
	if mt.Is("application/pdf") {
		return "application/pdf"
	}
	return strings.SplitN(mt.String(), ";", 2)[0]
}

func (c *Client) LoadJobsCSV(ctx context.Context, filePath string) (Result, error) {
	return c.UploadFile(ctx, PathLoadJobsCSV, filePath)
}

func (c *Client) UploadCV(ctx context.Context, filePath string) (Result, error) {
	return c.UploadFile(ctx, PathUploadCV, filePath)
}

// getJSON decodes a successful response into out; non-2xx becomes *HTTPError.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	res, err := c.Do(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return err
	}
	if !res.OK {
		return &HTTPError{Status: res.Status, Message: res.Message(), URL: c.endpoint(path, query)}
	}
	if err := json.Unmarshal(res.Raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

package upload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruit-console/internal/apiclient"
	"recruit-console/internal/model"
)

type fakeUploader struct {
	calls atomic.Int64
	fn    func(filePath string) (apiclient.Result, error)
}

func (f *fakeUploader) UploadFile(_ context.Context, _ string, filePath string) (apiclient.Result, error) {
	f.calls.Add(1)
	return f.fn(filePath)
}

func okResult(msg string) apiclient.Result {
	return apiclient.Result{OK: true, Status: 202, Body: map[string]any{"message": msg}}
}

type recordingProcessing struct {
	mu     sync.Mutex
	events []string
	report model.BatchReport
	calls  *atomic.Int64
}

func (r *recordingProcessing) Begin(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "begin")
	if r.calls != nil && r.calls.Load() != 0 {
		r.events = append(r.events, "requests-before-begin")
	}
}

func (r *recordingProcessing) End(report model.BatchReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "end")
	r.report = report
}

func TestUploadAllEmptySelectionSendsNothing(t *testing.T) {
	u := &fakeUploader{fn: func(string) (apiclient.Result, error) { return okResult("x"), nil }}
	p := &recordingProcessing{}

	report, err := NewAggregator(u, apiclient.PathUploadCV).UploadAll(context.Background(), nil, p)
	require.ErrorIs(t, err, ErrNoFiles)
	var ve *model.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, int64(0), u.calls.Load())
	assert.Empty(t, p.events, "processing state must not be entered")
	assert.Zero(t, report.SuccessCount+report.ErrorCount)
}

func TestUploadAllEverySuccess(t *testing.T) {
	for _, n := range []int{1, 3, 12} {
		files := make([]string, n)
		for i := range files {
			files[i] = filepath.Join("cvs", "cv"+string(rune('a'+i))+".pdf")
		}
		u := &fakeUploader{fn: func(string) (apiclient.Result, error) { return okResult("CV upload accepted. Parsing initiated."), nil }}

		report, err := NewAggregator(u, apiclient.PathUploadCV).UploadAll(context.Background(), files, nil)
		require.NoError(t, err)
		assert.Equal(t, n, report.SuccessCount)
		assert.Equal(t, 0, report.ErrorCount)
		assert.Len(t, report.Outcomes, n)
		assert.Len(t, report.Lines, n)
	}
}

func TestUploadAllMixedFailuresCountedOnce(t *testing.T) {
	files := []string{"a.pdf", "net.pdf", "b.pdf", "reject.pdf", "missing.pdf", "garbled.pdf"}
	u := &fakeUploader{fn: func(p string) (apiclient.Result, error) {
		switch filepath.Base(p) {
		case "net.pdf":
			return apiclient.Result{}, &apiclient.TransportError{Method: "POST", URL: "x", Err: errors.New("connection refused")}
		case "reject.pdf":
			return apiclient.Result{OK: false, Status: 415, Body: map[string]any{"message": "Invalid file type. Please upload a PDF file."}}, nil
		case "missing.pdf":
			return apiclient.Result{}, os.ErrNotExist
		case "garbled.pdf":
			return apiclient.Result{OK: false, Status: 200, Body: map[string]any{"message": "Error parsing server response. Status: 200"}}, nil
		default:
			return okResult("CV upload accepted. Parsing initiated."), nil
		}
	}}

	report, err := NewAggregator(u, apiclient.PathUploadCV).UploadAll(context.Background(), files, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, report.SuccessCount)
	assert.Equal(t, 4, report.ErrorCount)
	assert.Equal(t, int64(len(files)), u.calls.Load())
	require.Len(t, report.Outcomes, len(files))

	assert.Equal(t, "OK: a.pdf - CV upload accepted. Parsing initiated.", report.Lines[0])
	assert.Equal(t, "Failed: net.pdf - Network error or server unreachable. (Status: 0)", report.Lines[1])
	assert.Equal(t, "Failed: reject.pdf - Invalid file type. Please upload a PDF file. (Status: 415)", report.Lines[3])
	assert.True(t, strings.HasPrefix(report.Lines[4], "Failed: missing.pdf - Could not read file:"))
	assert.Equal(t, "Failed: garbled.pdf - Error parsing server response. Status: 200 (Status: 200)", report.Lines[5])
}

func TestUploadAllMissingMessageDefaultsToProcessing(t *testing.T) {
	u := &fakeUploader{fn: func(string) (apiclient.Result, error) {
		return apiclient.Result{OK: true, Status: 200, Body: map[string]any{}}, nil
	}}
	report, err := NewAggregator(u, apiclient.PathUploadCV).UploadAll(context.Background(), []string{"dir/ana.pdf"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "OK: ana.pdf - Processing ana.pdf", report.Lines[0])
}

func TestUploadAllPanickingTaskStillSettles(t *testing.T) {
	u := &fakeUploader{fn: func(p string) (apiclient.Result, error) {
		if strings.Contains(p, "boom") {
			panic("transport exploded")
		}
		return okResult("ok"), nil
	}}
	report, err := NewAggregator(u, apiclient.PathUploadCV).UploadAll(context.Background(), []string{"boom.pdf", "fine.pdf"}, nil)
	require.NoError(t, err)
	assert.Len(t, report.Outcomes, 2)
	assert.Equal(t, 1, report.ErrorCount)
	assert.Equal(t, "Failed: boom.pdf - Network error during upload. (Status: 0)", report.Lines[0])
}

func TestUploadAllDispatchesConcurrently(t *testing.T) {
	const n = 5
	var started sync.WaitGroup
	started.Add(n)
	allStarted := make(chan struct{})
	go func() {
		started.Wait()
		close(allStarted)
	}()

	u := &fakeUploader{fn: func(string) (apiclient.Result, error) {
		started.Done()
		select {
		case <-allStarted:
			return okResult("ok"), nil
		case <-time.After(5 * time.Second):
			return apiclient.Result{OK: false, Body: map[string]any{"message": "sequential dispatch"}}, nil
		}
	}}
	files := []string{"1.pdf", "2.pdf", "3.pdf", "4.pdf", "5.pdf"}

	report, err := NewAggregator(u, apiclient.PathUploadCV).UploadAll(context.Background(), files, nil)
	require.NoError(t, err)
	assert.Equal(t, n, report.SuccessCount, "every request should be in flight at the same time")
}

func TestUploadAllLinesKeepSubmissionOrder(t *testing.T) {
	files := []string{"slow.pdf", "medium.pdf", "fast.pdf"}
	delays := map[string]time.Duration{"slow.pdf": 60 * time.Millisecond, "medium.pdf": 30 * time.Millisecond, "fast.pdf": 0}

	var mu sync.Mutex
	var settledOrder []int
	u := &fakeUploader{fn: func(p string) (apiclient.Result, error) {
		time.Sleep(delays[filepath.Base(p)])
		return okResult("done " + filepath.Base(p)), nil
	}}
	agg := NewAggregator(u, apiclient.PathUploadCV, WithSettled(func(i int, _ model.UploadOutcome) {
		mu.Lock()
		settledOrder = append(settledOrder, i)
		mu.Unlock()
	}))

	report, err := agg.UploadAll(context.Background(), files, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 0}, settledOrder)
	assert.Equal(t, []string{
		"OK: slow.pdf - done slow.pdf",
		"OK: medium.pdf - done medium.pdf",
		"OK: fast.pdf - done fast.pdf",
	}, report.Lines)
}

func TestUploadAllProcessingBracketsRequests(t *testing.T) {
	u := &fakeUploader{fn: func(string) (apiclient.Result, error) {
		time.Sleep(10 * time.Millisecond)
		return okResult("ok"), nil
	}}
	p := &recordingProcessing{calls: &u.calls}

	report, err := NewAggregator(u, apiclient.PathUploadCV).UploadAll(context.Background(), []string{"a.pdf", "b.pdf", "c.pdf"}, p)
	require.NoError(t, err)
	assert.Equal(t, []string{"begin", "end"}, p.events)
	assert.Equal(t, report, p.report)
	assert.Len(t, p.report.Outcomes, 3, "End must see every outcome")
}

func TestUploadAllWithLimitStillSettlesEverything(t *testing.T) {
	var inFlight, peak atomic.Int64
	u := &fakeUploader{fn: func(string) (apiclient.Result, error) {
		cur := inFlight.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return okResult("ok"), nil
	}}
	files := make([]string, 10)
	for i := range files {
		files[i] = "f.pdf"
	}

	report, err := NewAggregator(u, apiclient.PathUploadCV, WithLimit(2)).UploadAll(context.Background(), files, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, report.SuccessCount)
	assert.LessOrEqual(t, peak.Load(), int64(2))
}

func TestUploadAllAgainstHTTPServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fh := r.MultipartForm.File[apiclient.FileField][0]
		if strings.HasPrefix(fh.Filename, "bad") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"message":"failed to store file: disk full"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = io.WriteString(w, `{"message":"CV upload accepted. Parsing initiated.","fileName":"`+fh.Filename+`"}`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	var files []string
	for _, name := range []string{"ana.pdf", "bad-scan.pdf", "ben.pdf"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("%PDF-1.4\n%%EOF\n"), 0o644))
		files = append(files, p)
	}

	client := apiclient.New(srv.URL)
	report, err := NewAggregator(client, apiclient.PathUploadCV).UploadAll(context.Background(), files, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, report.SuccessCount)
	assert.Equal(t, 1, report.ErrorCount)
	assert.Equal(t, "Failed: bad-scan.pdf - failed to store file: disk full (Status: 500)", report.Lines[1])
}

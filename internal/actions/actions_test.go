package actions

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruit-console/internal/apiclient"
	"recruit-console/internal/model"
)

type fakePoster struct {
	calls []string
	res   apiclient.Result
	err   error
}

func (f *fakePoster) Post(_ context.Context, path string, query url.Values) (apiclient.Result, error) {
	target := path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	f.calls = append(f.calls, target)
	return f.res, f.err
}

type countingControl struct {
	disabled, restored int
}

func (c *countingControl) Disable() { c.disabled++ }
func (c *countingControl) Restore() { c.restored++ }

func okBody(body map[string]any) apiclient.Result {
	return apiclient.Result{OK: true, Status: 200, Body: body}
}

func TestKindFromMarkers(t *testing.T) {
	k, ok := KindFromMarkers("btn", "btn-sm", "shortlist-btn")
	require.True(t, ok)
	assert.Equal(t, KindShortlist, k)

	_, ok = KindFromMarkers("btn", "view-details")
	assert.False(t, ok)

	k, ok = ParseKind("send-invites")
	require.True(t, ok)
	assert.Equal(t, MarkerSendInvites, k.Marker())
}

func TestBuildEndpoints(t *testing.T) {
	cases := []struct {
		kind Kind
		want string
	}{
		{KindSummarize, "/api/jobs/7/summarize"},
		{KindMatchAll, "/api/workflow/match-all?jobId=7"},
		{KindShortlist, "/api/workflow/shortlist?jobId=7&threshold=80"},
		{KindSendInvites, "/api/workflow/send-interviews?jobId=7"},
	}
	for _, tc := range cases {
		req, err := Build(tc.kind, "7", "80")
		require.NoError(t, err)
		assert.Equal(t, tc.want, req.URL())
		assert.Equal(t, http.MethodPost, req.Method)
		assert.NotEmpty(t, req.InFlight)
		assert.NotEmpty(t, req.Success)
		assert.NotEmpty(t, req.Failure)
	}
	_, err := Build(Kind("archive"), "7", "")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestParseThreshold(t *testing.T) {
	for _, bad := range []string{"abc", "-5", "150", "", "NaN", "100.01"} {
		_, err := ParseThreshold(bad)
		assert.ErrorIs(t, err, ErrInvalidThreshold, "input %q", bad)
	}
	for _, good := range []string{"80", "0", "100", "72.5"} {
		got, err := ParseThreshold(good)
		require.NoError(t, err)
		assert.Equal(t, good, got)
	}
	got, err := ParseThreshold(" 80 ")
	require.NoError(t, err)
	assert.Equal(t, "80", got)
}

func TestDispatchInvalidThresholdSendsNothing(t *testing.T) {
	for _, bad := range []string{"abc", "-5", "150"} {
		p := &fakePoster{}
		ctrl := &countingControl{}
		out, err := NewDispatcher(p).Dispatch(context.Background(), Trigger{Markers: []string{MarkerShortlist}, JobID: "3", Threshold: bad}, ctrl)

		var ve *model.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, LevelWarning, out.Feedback.Level)
		assert.Equal(t, "Invalid threshold value.", out.Feedback.Message)
		assert.Empty(t, p.calls)
		assert.Zero(t, ctrl.disabled)
	}
}

func TestDispatchForwardsThresholdUnchanged(t *testing.T) {
	p := &fakePoster{res: okBody(map[string]any{"message": "ok"})}
	_, err := NewDispatcher(p).Dispatch(context.Background(), Trigger{Markers: []string{MarkerShortlist}, JobID: "3", Threshold: "80"}, nil)
	require.NoError(t, err)
	require.Len(t, p.calls, 1)
	assert.Equal(t, "/api/workflow/shortlist?jobId=3&threshold=80", p.calls[0])
}

func TestDispatchUnknownMarkerIsIgnored(t *testing.T) {
	p := &fakePoster{}
	ctrl := &countingControl{}
	_, err := NewDispatcher(p).Dispatch(context.Background(), Trigger{Markers: []string{"edit-btn"}, JobID: "3"}, ctrl)
	assert.ErrorIs(t, err, ErrUnknownAction)
	assert.Empty(t, p.calls)
	assert.Zero(t, ctrl.disabled+ctrl.restored)
}

func TestDispatchRestoresControlExactlyOnce(t *testing.T) {
	cases := map[string]*fakePoster{
		"success":   {res: okBody(map[string]any{"message": "done"})},
		"http":      {res: apiclient.Result{OK: false, Status: 500, Body: map[string]any{"message": "boom"}}},
		"transport": {err: &apiclient.TransportError{Method: "POST", URL: "x", Err: errors.New("refused")}},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			ctrl := &countingControl{}
			_, _ = NewDispatcher(p).Dispatch(context.Background(), Trigger{Markers: []string{MarkerMatchAll}, JobID: "9"}, ctrl)
			assert.Equal(t, 1, ctrl.disabled)
			assert.Equal(t, 1, ctrl.restored)
		})
	}
}

func TestDispatchSuccessMessages(t *testing.T) {
	cases := []struct {
		name   string
		marker string
		body   map[string]any
		want   string
	}{
		{"summarize status", MarkerSummarize, map[string]any{"message": "x", "status": "SUMMARIZED"}, "Job 4 status updated to SUMMARIZED."},
		{"summarize no status", MarkerSummarize, map[string]any{"message": "Summarization started."}, "Summarization started."},
		{"summarize template", MarkerSummarize, map[string]any{}, "Job 4 submitted for summarization."},
		{"shortlist count", MarkerShortlist, map[string]any{"shortlistedCount": float64(2)}, "Shortlisting complete for Job 4. Count: 2. View job details for status changes."},
		{"shortlist zero", MarkerShortlist, map[string]any{"shortlistedCount": float64(0), "message": "none"}, "Shortlisting complete for Job 4. Count: 0. View job details for status changes."},
		{"invites", MarkerSendInvites, map[string]any{"invitationsProcessed": float64(5)}, "Interview sending process completed for Job 4. Processed: 5. Check logs for details."},
		{"match backend", MarkerMatchAll, map[string]any{"message": "Matching started for 3 candidates."}, "Matching started for 3 candidates."},
		{"match template", MarkerMatchAll, map[string]any{}, "Matching initiated for Job 4. Check details page later."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &fakePoster{res: okBody(tc.body)}
			out, err := NewDispatcher(p).Dispatch(context.Background(), Trigger{Markers: []string{tc.marker}, JobID: "4", Threshold: "50"}, nil)
			require.NoError(t, err)
			assert.Equal(t, LevelSuccess, out.Feedback.Level)
			assert.Equal(t, tc.want, out.Feedback.Message)
		})
	}
}

func TestDispatchSummarizeReportsStatus(t *testing.T) {
	p := &fakePoster{res: okBody(map[string]any{"status": "SUMMARIZING"})}
	out, err := NewDispatcher(p).Dispatch(context.Background(), Trigger{Markers: []string{MarkerSummarize}, JobID: "4"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "SUMMARIZING", out.Status)
}

func TestDispatchErrorMessages(t *testing.T) {
	p := &fakePoster{res: apiclient.Result{OK: false, Status: 409, Body: map[string]any{"message": "Job is already being summarized."}}}
	out, err := NewDispatcher(p).Dispatch(context.Background(), Trigger{Markers: []string{MarkerSummarize}, JobID: "4"}, nil)
	var he *apiclient.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, 409, he.Status)
	assert.Equal(t, LevelError, out.Feedback.Level)
	assert.Equal(t, "Error summarizing Job 4. Job is already being summarized.", out.Feedback.Message)

	p = &fakePoster{err: &apiclient.TransportError{Method: "POST", URL: "x", Err: errors.New("refused")}}
	out, err = NewDispatcher(p).Dispatch(context.Background(), Trigger{Markers: []string{MarkerSendInvites}, JobID: "4"}, nil)
	var te *apiclient.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "Network error performing action for Job 4. Check application logs.", out.Feedback.Message)
}

func TestDispatchNotifiesInFlightBeforeRequest(t *testing.T) {
	p := &fakePoster{res: okBody(map[string]any{})}
	var seen []Feedback
	var callsAtNotify int
	d := NewDispatcher(p, WithNotify(func(f Feedback) {
		seen = append(seen, f)
		callsAtNotify = len(p.calls)
	}))
	_, err := d.Dispatch(context.Background(), Trigger{Markers: []string{MarkerMatchAll}, JobID: "2"}, nil)
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, LevelInfo, seen[0].Level)
	assert.Equal(t, "Initiating matching for Job 2...", seen[0].Message)
	assert.Zero(t, callsAtNotify)
}

func TestDispatchMissingJobID(t *testing.T) {
	p := &fakePoster{}
	_, err := NewDispatcher(p).Dispatch(context.Background(), Trigger{Markers: []string{MarkerMatchAll}, JobID: "  "}, nil)
	assert.ErrorIs(t, err, ErrMissingJobID)
	assert.Empty(t, p.calls)
}

func TestDispatchAgainstHTTPServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/jobs/12/summarize" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"message":"Summarization complete.","status":"SUMMARIZED"}`)
	}))
	defer srv.Close()

	out, err := NewDispatcher(apiclient.New(srv.URL)).Dispatch(context.Background(), Trigger{Markers: []string{MarkerSummarize}, JobID: "12"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Job 12 status updated to SUMMARIZED.", out.Feedback.Message)
	assert.Equal(t, model.JobStatusSummarized, out.Status)
}

func TestBadgeFor(t *testing.T) {
	cases := []struct {
		status        string
		text          string
		tone          Tone
		spinner       bool
		showSummarize bool
	}{
		{"SUMMARIZED", "SUMMARIZED", ToneSuccess, false, false},
		{"SUMMARIZING", "Sum...", ToneWarning, true, false},
		{"ERROR_SUMMARIZING", "ERROR_SUMMARIZING", ToneDanger, false, true},
		{"ERROR", "ERROR", ToneDanger, false, true},
		{"NEW", "NEW", ToneSecondary, false, true},
		{"ARCHIVED", "ARCHIVED", ToneSecondary, false, false},
		{"", "UNKNOWN", ToneSecondary, false, false},
	}
	for _, tc := range cases {
		b := BadgeFor(tc.status)
		assert.Equal(t, tc.text, b.Text, tc.status)
		assert.Equal(t, tc.tone, b.Tone, tc.status)
		assert.Equal(t, tc.spinner, b.Spinner, tc.status)
		assert.Equal(t, tc.showSummarize, b.ShowSummarize, tc.status)
	}
	assert.Contains(t, BadgeFor("SUMMARIZING").Render("⠋"), "⠋ Sum...")
}

package actions

import (
	"fmt"
	"net/http"
	"net/url"

	"recruit-console/internal/apiclient"
)

type Kind string

const (
	KindSummarize   Kind = "summarize"
	KindMatchAll    Kind = "match-all"
	KindShortlist   Kind = "shortlist"
	KindSendInvites Kind = "send-invites"
)

// Control markers, checked in this order when a control carries several.
const (
	MarkerSummarize   = "summarize-job-btn"
	MarkerMatchAll    = "match-all-btn"
	MarkerShortlist   = "shortlist-btn"
	MarkerSendInvites = "send-invites-btn"
)

var markerOrder = []struct {
	marker string
	kind   Kind
}{
	{MarkerSummarize, KindSummarize},
	{MarkerMatchAll, KindMatchAll},
	{MarkerShortlist, KindShortlist},
	{MarkerSendInvites, KindSendInvites},
}

// KindFromMarkers selects the action for a control's markers. Controls with
// no recognised marker are not actions.
func KindFromMarkers(markers ...string) (Kind, bool) {
	for _, m := range markerOrder {
		for _, got := range markers {
			if got == m.marker {
				return m.kind, true
			}
		}
	}
	return "", false
}

func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindSummarize, KindMatchAll, KindShortlist, KindSendInvites:
		return Kind(s), true
	}
	return KindFromMarkers(s)
}

func (k Kind) Marker() string {
	for _, m := range markerOrder {
		if m.kind == k {
			return m.marker
		}
	}
	return ""
}

// Request is one resolved action: where it goes and what to say about it.
type Request struct {
	Kind   Kind
	JobID  string
	Method string
	Path   string
	Query  url.Values

	InFlight string
	Success  string
	Failure  string
}

// URL is the request target relative to the backend base URL.
func (r Request) URL() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query.Encode()
}

// Build resolves kind for jobID. threshold is used only by shortlist and must
// already be validated.
func Build(kind Kind, jobID, threshold string) (Request, error) {
	req := Request{Kind: kind, JobID: jobID, Method: http.MethodPost}
	jobQuery := url.Values{"jobId": {jobID}}

	switch kind {
	case KindSummarize:
		req.Path = apiclient.PathJobs + "/" + url.PathEscape(jobID) + "/summarize"
		req.Success = fmt.Sprintf("Job %s submitted for summarization.", jobID)
		req.Failure = fmt.Sprintf("Error summarizing Job %s.", jobID)
		req.InFlight = fmt.Sprintf("Summarizing Job %s...", jobID)
	case KindMatchAll:
		req.Path = apiclient.PathMatchAll
		req.Query = jobQuery
		req.Success = fmt.Sprintf("Matching initiated for Job %s. Check details page later.", jobID)
		req.Failure = fmt.Sprintf("Error initiating matching for Job %s.", jobID)
		req.InFlight = fmt.Sprintf("Initiating matching for Job %s...", jobID)
	case KindShortlist:
		req.Path = apiclient.PathShortlist
		req.Query = jobQuery
		req.Query.Set("threshold", threshold)
		req.Success = fmt.Sprintf("Shortlisting request sent for Job %s.", jobID)
		req.Failure = fmt.Sprintf("Error during shortlisting for Job %s.", jobID)
		req.InFlight = fmt.Sprintf("Processing shortlist for Job %s...", jobID)
	case KindSendInvites:
		req.Path = apiclient.PathSendInterviews
		req.Query = jobQuery
		req.Success = fmt.Sprintf("Successfully processed 'Send Invites' request for Job %s.", jobID)
		req.Failure = fmt.Sprintf("Error processing 'Send Invites' for Job %s.", jobID)
		req.InFlight = fmt.Sprintf("Attempting to send invites for Job %s...", jobID)
	default:
		return Request{}, fmt.Errorf("%w: %q", ErrUnknownAction, kind)
	}
	return req, nil
}

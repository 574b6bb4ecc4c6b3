package actions

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"recruit-console/internal/apiclient"
	"recruit-console/internal/logging"
	"recruit-console/internal/model"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrMissingJobID  = &model.ValidationError{Message: "Missing job id."}
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Feedback is one message for the feedback region that owns the action.
type Feedback struct {
	Level   Level
	Message string
}

// Outcome is what a dispatched action reports back. Status is the job status
// the backend returned for summarize, empty otherwise.
type Outcome struct {
	Request  Request
	Feedback Feedback
	Status   string
	Result   apiclient.Result
}

// Poster sends a bodiless POST. *apiclient.Client implements it.
type Poster interface {
	Post(ctx context.Context, path string, query url.Values) (apiclient.Result, error)
}

// Control is the trigger of an action. Disable is called before the request
// and Restore exactly once after it, whatever the outcome.
type Control interface {
	Disable()
	Restore()
}

type Dispatcher struct {
	poster Poster
	log    *logrus.Logger
	notify func(Feedback)
}

type Option func(*Dispatcher)

func WithLogger(l *logrus.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l
		}
	}
}

// WithNotify receives the in-flight message before the request is sent.
func WithNotify(fn func(Feedback)) Option {
	return func(d *Dispatcher) {
		d.notify = fn
	}
}

func NewDispatcher(p Poster, opts ...Option) *Dispatcher {
	d := &Dispatcher{poster: p, log: logging.Discard()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Trigger identifies a control activation: its markers, the job it belongs
// to and, for shortlist, the threshold the user entered.
type Trigger struct {
	Markers   []string
	JobID     string
	Threshold string
}

// Dispatch runs the action selected by t. A trigger without a known marker
// returns ErrUnknownAction and sends nothing; invalid input returns a
// *model.ValidationError with a warning Feedback and sends nothing. Backend
// failures return the error alongside an error-level Feedback.
func (d *Dispatcher) Dispatch(ctx context.Context, t Trigger, ctrl Control) (Outcome, error) {
	kind, ok := KindFromMarkers(t.Markers...)
	if !ok {
		return Outcome{}, ErrUnknownAction
	}
	jobID := strings.TrimSpace(t.JobID)
	if jobID == "" {
		return warn(ErrMissingJobID)
	}
	threshold := ""
	if kind == KindShortlist {
		var err error
		if threshold, err = ParseThreshold(t.Threshold); err != nil {
			return warn(err)
		}
	}
	req, err := Build(kind, jobID, threshold)
	if err != nil {
		return Outcome{}, err
	}
	return d.Run(ctx, req, ctrl)
}

// Run sends an already built request.
func (d *Dispatcher) Run(ctx context.Context, req Request, ctrl Control) (Outcome, error) {
	if ctrl != nil {
		ctrl.Disable()
		defer ctrl.Restore()
	}
	entry := d.log.WithFields(logrus.Fields{"action": req.Kind, "job_id": req.JobID, "endpoint": req.URL()})
	entry.Info("action triggered")
	if d.notify != nil && req.InFlight != "" {
		d.notify(Feedback{Level: LevelInfo, Message: req.InFlight})
	}

	res, err := d.poster.Post(ctx, req.Path, req.Query)
	if err != nil {
		entry.WithError(err).Error("action request failed")
		return Outcome{
			Request:  req,
			Feedback: Feedback{Level: LevelError, Message: fmt.Sprintf("Network error performing action for Job %s. Check application logs.", req.JobID)},
		}, err
	}

	out := Outcome{Request: req, Result: res}
	backendMessage := res.Message()
	if !res.OK {
		entry.WithFields(logrus.Fields{"status": res.Status, "message": backendMessage}).Error("action returned an error response")
		out.Feedback = Feedback{Level: LevelError, Message: strings.TrimSpace(req.Failure + " " + backendMessage)}
		return out, &apiclient.HTTPError{Status: res.Status, Message: backendMessage, URL: req.URL()}
	}

	entry.WithField("status", res.Status).Info("action succeeded")
	out.Feedback = Feedback{Level: LevelSuccess, Message: successMessage(req, res, backendMessage)}
	if req.Kind == KindSummarize {
		out.Status, _ = res.String("status")
	}
	return out, nil
}

func successMessage(req Request, res apiclient.Result, backendMessage string) string {
	if req.Kind == KindSummarize {
		if status, ok := res.String("status"); ok {
			return fmt.Sprintf("Job %s status updated to %s.", req.JobID, status)
		}
	}
	if req.Kind == KindShortlist {
		if count, ok := res.String("shortlistedCount"); ok {
			return fmt.Sprintf("Shortlisting complete for Job %s. Count: %s. View job details for status changes.", req.JobID, count)
		}
	}
	if req.Kind == KindSendInvites {
		if n, ok := res.String("invitationsProcessed"); ok {
			return fmt.Sprintf("Interview sending process completed for Job %s. Processed: %s. Check logs for details.", req.JobID, n)
		}
	}
	if backendMessage != "" {
		return backendMessage
	}
	return req.Success
}

func warn(err error) (Outcome, error) {
	return Outcome{Feedback: Feedback{Level: LevelWarning, Message: err.Error()}}, err
}

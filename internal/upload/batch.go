package upload

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"recruit-console/internal/apiclient"
	"recruit-console/internal/logging"
	"recruit-console/internal/model"
)

const (
	msgNetworkError  = "Network error or server unreachable."
	msgTaskAbandoned = "Network error during upload."
)

// ErrNoFiles is returned, before any request is issued, for an empty selection.
var ErrNoFiles = &model.ValidationError{Message: "Please select at least one PDF file."}

// Uploader sends one file to an endpoint. *apiclient.Client implements it.
type Uploader interface {
	UploadFile(ctx context.Context, path, filePath string) (apiclient.Result, error)
}

// Processing is the caller-visible busy state. Begin runs before the first
// request is issued; End runs once every outcome is part of the report.
type Processing interface {
	Begin(total int)
	End(report model.BatchReport)
}

type Aggregator struct {
	uploader  Uploader
	endpoint  string
	limit     int
	log       *logrus.Logger
	onSettled func(index int, outcome model.UploadOutcome)
}

type Option func(*Aggregator)

// WithLimit caps in-flight uploads; zero or less means all at once.
func WithLimit(n int) Option {
	return func(a *Aggregator) {
		a.limit = n
	}
}

func WithLogger(l *logrus.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.log = l
		}
	}
}

// WithSettled registers a callback invoked as each upload settles, in
// completion order and possibly concurrently.
func WithSettled(fn func(index int, outcome model.UploadOutcome)) Option {
	return func(a *Aggregator) {
		a.onSettled = fn
	}
}

func NewAggregator(u Uploader, endpoint string, opts ...Option) *Aggregator {
	a := &Aggregator{
		uploader: u,
		endpoint: endpoint,
		log:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// UploadAll issues one request per file concurrently and waits for all of
// them to settle. Individual failures never abort the batch; the only error
// returned is ErrNoFiles.
func (a *Aggregator) UploadAll(ctx context.Context, files []string, p Processing) (model.BatchReport, error) {
	if len(files) == 0 {
		return model.BatchReport{}, ErrNoFiles
	}
	if p != nil {
		p.Begin(len(files))
	}

	outcomes := make([]model.UploadOutcome, len(files))
	var g errgroup.Group
	if a.limit > 0 {
		g.SetLimit(a.limit)
	}
	for i, file := range files {
		g.Go(func() error {
			outcomes[i] = a.settle(ctx, file)
			if a.onSettled != nil {
				a.onSettled(i, outcomes[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	report := Summarize(outcomes)
	if p != nil {
		p.End(report)
	}
	return report, nil
}

// settle always yields an outcome, including when the upload panics.
func (a *Aggregator) settle(ctx context.Context, file string) (out model.UploadOutcome) {
	name := filepath.Base(file)
	defer func() {
		if r := recover(); r != nil {
			a.log.WithFields(logrus.Fields{"file": name, "panic": r}).Error("upload task aborted")
			out = model.UploadOutcome{FileName: name, Message: msgTaskAbandoned}
		}
	}()

	res, err := a.uploader.UploadFile(ctx, a.endpoint, file)
	if err != nil {
		msg := msgNetworkError
		var te *apiclient.TransportError
		if !errors.As(err, &te) {
			msg = fmt.Sprintf("Could not read file: %v", err)
		}
		a.log.WithFields(logrus.Fields{"file": name, "endpoint": a.endpoint}).WithError(err).Error("CV upload failed")
		return model.UploadOutcome{FileName: name, Message: msg}
	}

	msg := res.Message()
	if msg == "" {
		msg = "Processing " + name
	}
	return model.UploadOutcome{
		FileName:   name,
		Succeeded:  res.OK,
		HTTPStatus: res.Status,
		Message:    msg,
	}
}

// Summarize derives a report from outcomes, keeping their order.
func Summarize(outcomes []model.UploadOutcome) model.BatchReport {
	report := model.BatchReport{
		Lines:    make([]string, 0, len(outcomes)),
		Outcomes: outcomes,
	}
	for _, o := range outcomes {
		if o.Succeeded {
			report.SuccessCount++
		} else {
			report.ErrorCount++
		}
		report.Lines = append(report.Lines, FormatLine(o))
	}
	return report
}

func FormatLine(o model.UploadOutcome) string {
	if o.Succeeded {
		return fmt.Sprintf("OK: %s - %s", o.FileName, o.Message)
	}
	return fmt.Sprintf("Failed: %s - %s (Status: %d)", o.FileName, o.Message, o.HTTPStatus)
}

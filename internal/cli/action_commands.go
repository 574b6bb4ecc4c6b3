package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"recruit-console/internal/actions"
	"recruit-console/internal/model"
	"recruit-console/internal/runstore"
)

type actionSummary struct {
	Action     actions.Kind  `json:"action"`
	JobID      string        `json:"job_id"`
	Level      actions.Level `json:"level"`
	Message    string        `json:"message"`
	JobStatus  string        `json:"job_status,omitempty"`
	HTTPStatus int           `json:"http_status,omitempty"`
}

func runAction(kind actions.Kind, args []string) error {
	fs := flag.NewFlagSet(string(kind), flag.ContinueOnError)
	jobID := fs.String("job", "", "job id")
	threshold := fs.String("threshold", "", "shortlist score threshold (0-100)")
	rf := addRuntimeFlags(fs)
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*jobID) == "" {
		v, err := promptRequired("Job ID")
		if err != nil {
			return errors.New("--job is required")
		}
		*jobID = v
	}

	t := actions.Trigger{Markers: []string{kind.Marker()}, JobID: *jobID, Threshold: *threshold}
	if kind == actions.KindShortlist && strings.TrimSpace(t.Threshold) == "" {
		if !stdinIsTTY() {
			return errors.New("--threshold is required in non-interactive mode")
		}
		v, err := promptDefault(actions.ThresholdPrompt, actions.DefaultThreshold)
		if err != nil {
			return err
		}
		t.Threshold = v
	}
	// Threshold is checked before the lock is taken.
	if kind == actions.KindShortlist {
		if _, err := actions.ParseThreshold(t.Threshold); err != nil {
			return err
		}
	}

	rt, err := rf.load()
	if err != nil {
		return err
	}
	lockName := fmt.Sprintf("%s-job-%s", kind, strings.TrimSpace(*jobID))
	lock, err := runstore.AcquireLock(rt.settings.StateDir, lockName)
	if err != nil {
		return err
	}
	ctrl := &lockControl{name: lockName, lock: lock, log: rt.log}
	defer ctrl.Restore()

	notify := func(f actions.Feedback) {
		if !*rf.jsonOut {
			fmt.Println(f.Message)
		}
	}
	d := actions.NewDispatcher(rt.client, actions.WithLogger(rt.log), actions.WithNotify(notify))
	out, err := d.Dispatch(context.Background(), t, ctrl)

	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return err
	}
	if *rf.jsonOut {
		if jerr := printJSON(actionSummary{
			Action:     kind,
			JobID:      out.Request.JobID,
			Level:      out.Feedback.Level,
			Message:    out.Feedback.Message,
			JobStatus:  out.Status,
			HTTPStatus: out.Result.Status,
		}); jerr != nil {
			return jerr
		}
		return err
	}
	fmt.Println(out.Feedback.Message)
	if out.Status != "" {
		fmt.Printf("status: %s\n", actions.BadgeFor(out.Status).Render(""))
	}
	return err
}

// lockControl is the CLI form of a disabled trigger: the per-job lock taken
// before dispatch is released when the dispatcher restores the control.
type lockControl struct {
	name     string
	lock     runstore.Lock
	log      *logrus.Logger
	released bool
}

func (c *lockControl) Disable() {
	c.log.WithField("lock", c.name).Debug("trigger disabled")
}

func (c *lockControl) Restore() {
	if c.released {
		return
	}
	c.released = true
	if err := c.lock.Release(); err != nil {
		c.log.WithField("lock", c.name).WithError(err).Warn("release lock")
	}
}

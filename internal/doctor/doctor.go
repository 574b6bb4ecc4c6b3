package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"recruit-console/internal/model"
	"recruit-console/internal/settings"
)

// JobLister is the read call used to probe the backend.
type JobLister interface {
	ListJobs(ctx context.Context) ([]model.Job, error)
}

type Options struct {
	ConfigPath string
	Settings   settings.Settings
	Backend    JobLister
}

type Result struct {
	OK     bool    `json:"ok"`
	Checks []Check `json:"checks"`
}

type Check struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func Run(ctx context.Context, opts Options) Result {
	checks := make([]Check, 0, 4)

	if err := settings.Validate(opts.Settings); err != nil {
		checks = append(checks, Check{Name: "settings", OK: false, Message: err.Error()})
	} else {
		checks = append(checks, Check{Name: "settings", OK: true, Message: "base_url " + opts.Settings.BaseURL})
	}

	stateOK, stateMessage := ensureWritableDir(opts.Settings.StateDir)
	checks = append(checks, Check{Name: "directory:state", OK: stateOK, Message: stateMessage})

	cfgOK, cfgMessage := ensureWritableDir(filepath.Dir(strings.TrimSpace(opts.ConfigPath)))
	checks = append(checks, Check{Name: "directory:config", OK: cfgOK, Message: cfgMessage})

	if opts.Backend != nil {
		jobs, err := opts.Backend.ListJobs(ctx)
		if err != nil {
			checks = append(checks, Check{Name: "backend", OK: false, Message: err.Error()})
		} else {
			checks = append(checks, Check{Name: "backend", OK: true, Message: fmt.Sprintf("reachable, %d job(s)", len(jobs))})
		}
	}

	ok := true
	for _, c := range checks {
		if !c.OK {
			ok = false
			break
		}
	}
	return Result{OK: ok, Checks: checks}
}

func ensureWritableDir(path string) (bool, string) {
	if strings.TrimSpace(path) == "" {
		return false, "empty path"
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return false, err.Error()
	}
	f, err := os.CreateTemp(path, "recruit-console-check-*.tmp")
	if err != nil {
		return false, err.Error()
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	return true, "writable"
}

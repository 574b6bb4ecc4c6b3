package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSettingsSetThenShow(t *testing.T) {
	_, cfg := isolate(t)

	out := captureStdout(t, func() {
		if err := Run([]string{"settings", "set", "--config", cfg, "--base-url", "https://recruit.example.com/", "--upload-workers", "4"}); err != nil {
			t.Errorf("settings set failed: %v", err)
		}
	})
	if !strings.Contains(out, "base_url: https://recruit.example.com") || !strings.Contains(out, "upload_workers: 4") {
		t.Fatalf("unexpected set output:\n%s", out)
	}

	out = captureStdout(t, func() {
		if err := Run([]string{"settings", "show", "--config", cfg, "--json"}); err != nil {
			t.Errorf("settings show failed: %v", err)
		}
	})
	var decoded struct {
		Settings struct {
			BaseURL       string `json:"base_url"`
			UploadWorkers int    `json:"upload_workers"`
		} `json:"settings"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if decoded.Settings.BaseURL != "https://recruit.example.com" || decoded.Settings.UploadWorkers != 4 {
		t.Fatalf("unexpected settings: %+v", decoded.Settings)
	}
}

func TestSettingsSetRejectsBadBaseURL(t *testing.T) {
	_, cfg := isolate(t)
	if err := Run([]string{"settings", "set", "--config", cfg, "--base-url", "ftp://nope"}); err == nil {
		t.Fatal("expected validation error for non-http base url")
	}
}

func TestSettingsShowEffectiveAppliesEnv(t *testing.T) {
	_, cfg := isolate(t)
	t.Setenv("RECRUIT_BASE_URL", "http://env.example:9000")

	out := captureStdout(t, func() {
		if err := Run([]string{"settings", "show", "--config", cfg, "--effective"}); err != nil {
			t.Errorf("settings show failed: %v", err)
		}
	})
	if !strings.Contains(out, "base_url: http://env.example:9000") {
		t.Fatalf("expected env override in output:\n%s", out)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	var err error
	captureStdout(t, func() {
		err = Run([]string{"archive"})
	})
	if err == nil || !strings.Contains(err.Error(), `unknown command "archive"`) {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestDoctorAgainstBackend(t *testing.T) {
	_, cfg := isolate(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":1,"jobTitle":"Dev","status":"NEW"}]`)
	}))
	defer srv.Close()
	t.Setenv("RECRUIT_BASE_URL", srv.URL)

	var runErr error
	out := captureStdout(t, func() {
		runErr = Run([]string{"doctor", "--config", cfg})
	})
	if runErr != nil {
		t.Fatalf("doctor failed: %v\n%s", runErr, out)
	}
	if !strings.Contains(out, "backend: ok (reachable, 1 job(s))") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

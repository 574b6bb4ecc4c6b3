package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = oldStdout
	}()
	defer r.Close()

	done := make(chan []byte)
	go func() {
		b, _ := io.ReadAll(r)
		done <- b
	}()

	fn()

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return string(<-done)
}

// isolate runs the test from an empty directory with its own state dir so
// no .env file or lock from the developer's checkout leaks in.
func isolate(t *testing.T) (tmp, configPath string) {
	t.Helper()
	tmp = t.TempDir()
	t.Chdir(tmp)
	t.Setenv("RECRUIT_STATE_DIR", filepath.Join(tmp, "state"))
	t.Setenv("RECRUIT_LOG_LEVEL", "error")
	return tmp, filepath.Join(tmp, "console.json")
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

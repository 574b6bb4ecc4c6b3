package runstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const lockOwnerFile = "owner.json"

// ErrLocked is returned when another process holds the operation lock.
var ErrLocked = errors.New("operation already in progress")

// Lock guards one named operation (for example a CV batch upload) so a second
// trigger cannot start while the first is still in flight.
type Lock struct {
	lockDir string
}

type lockOwner struct {
	Operation string `json:"operation"`
	PID       int    `json:"pid"`
	CreatedAt string `json:"created_at"`
	Hostname  string `json:"hostname,omitempty"`
}

func LockPath(stateDir, operation string) string {
	return filepath.Join(stateDir, "."+operation+".lock")
}

func AcquireLock(stateDir, operation string) (Lock, error) {
	dir := strings.TrimSpace(stateDir)
	op := strings.TrimSpace(operation)
	if dir == "" {
		return Lock{}, fmt.Errorf("state directory is required")
	}
	if op == "" {
		return Lock{}, fmt.Errorf("operation name is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Lock{}, fmt.Errorf("create state directory %s: %w", dir, err)
	}

	lockDir := LockPath(dir, op)
	if err := os.Mkdir(lockDir, 0o755); err != nil {
		if !os.IsExist(err) {
			return Lock{}, fmt.Errorf("acquire %s lock: %w", op, err)
		}
		owner, stale := staleOwner(lockDir)
		if !stale {
			if owner.PID > 0 {
				return Lock{}, fmt.Errorf("%w: %s (pid=%d created_at=%s host=%s, lock %s)",
					ErrLocked, op, owner.PID, owner.CreatedAt, owner.Hostname, lockDir)
			}
			return Lock{}, fmt.Errorf("%w: %s (lock %s)", ErrLocked, op, lockDir)
		}
		// Previous owner died without releasing; reclaim its directory.
		_ = os.Remove(filepath.Join(lockDir, lockOwnerFile))
		if err := os.Remove(lockDir); err != nil && !os.IsNotExist(err) {
			return Lock{}, fmt.Errorf("reclaim stale %s lock %s: %w", op, lockDir, err)
		}
		if err := os.Mkdir(lockDir, 0o755); err != nil {
			if os.IsExist(err) {
				return Lock{}, fmt.Errorf("%w: %s (lock %s)", ErrLocked, op, lockDir)
			}
			return Lock{}, fmt.Errorf("acquire %s lock: %w", op, err)
		}
	}

	owner := lockOwner{
		Operation: op,
		PID:       os.Getpid(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Hostname:  hostnameOrUnknown(),
	}
	if err := WriteJSON(filepath.Join(lockDir, lockOwnerFile), owner); err != nil {
		_ = os.Remove(lockDir)
		return Lock{}, fmt.Errorf("write %s lock owner: %w", op, err)
	}
	return Lock{lockDir: lockDir}, nil
}

func (l Lock) Release() error {
	if strings.TrimSpace(l.lockDir) == "" {
		return nil
	}
	_ = os.Remove(filepath.Join(l.lockDir, lockOwnerFile))
	if err := os.Remove(l.lockDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release lock %s: %w", l.lockDir, err)
	}
	return nil
}

// staleOwner reports whether the lock at lockDir belongs to a process on this
// host that no longer exists. A missing or unreadable owner file is never
// stale: the holder may still be between Mkdir and writing it.
func staleOwner(lockDir string) (lockOwner, bool) {
	var owner lockOwner
	if err := ReadJSON(filepath.Join(lockDir, lockOwnerFile), &owner); err != nil || owner.PID <= 0 {
		return owner, false
	}
	if owner.Hostname != hostnameOrUnknown() {
		return owner, false
	}
	return owner, !processAlive(owner.PID)
}

func hostnameOrUnknown() string {
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return "unknown"
	}
	return host
}

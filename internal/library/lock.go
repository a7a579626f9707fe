package library

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Lock guards the library directory against concurrent repocast processes
// interleaving downloads and database writes.
type Lock struct {
	fl *flock.Flock
}

// AcquireLock takes an exclusive lock on the library directory. It fails
// immediately when another process holds the lock.
func AcquireLock(dir string) (*Lock, error) {
	fl := flock.New(filepath.Join(dir, ".repocast.lock"))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire library lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("library %s is in use by another repocast process", dir)
	}
	return &Lock{fl: fl}, nil
}

// Release drops the lock.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}

package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// parseError separates "file exists but is not valid JSON" from real I/O
// failures; only the former is recoverable.
type parseError struct {
	err error
}

func (e *parseError) Error() string {
	return fmt.Sprintf("%v: parse: %v", ErrExternalIO, e.err)
}

func (e *parseError) Unwrap() error {
	return ErrExternalIO
}

// readJSONFile reads path into out. It returns (false, nil) when the file
// does not exist, and a *parseError when the content is not valid JSON.
func readJSONFile(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: read %s: %v", ErrExternalIO, path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, &parseError{err: err}
	}
	return true, nil
}

// writeJSONAtomic writes v to path via a temp file in the same directory
// followed by a rename, so a crash mid-write never truncates the target.
func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrExternalIO, path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrExternalIO, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp for %s: %v", ErrExternalIO, path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %v", ErrExternalIO, path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync %s: %v", ErrExternalIO, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrExternalIO, path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: replace %s: %v", ErrExternalIO, path, err)
	}
	return nil
}

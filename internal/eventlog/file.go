package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileSink is the durable sink: a plain text file, one line per event.
// Every call opens, writes, syncs and closes the file, so a line is on
// stable storage before WriteLine returns. Nothing is buffered across calls.
type FileSink struct {
	mu   sync.Mutex
	path string
}

// OpenFileSink creates the parent directory and the file if needed and
// checks that the file can be opened for appending
func OpenFileSink(path string) (*FileSink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close log file: %w", err)
	}

	return &FileSink{path: path}, nil
}

// Path returns the file location
func (s *FileSink) Path() string {
	return s.path
}

// WriteLine appends line and a newline to the file
func (s *FileSink) WriteLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rewrite(os.O_APPEND, line+"\n")
}

// Clear truncates the file to zero length
func (s *FileSink) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rewrite(os.O_TRUNC, "")
}

// ReadAll returns the whole file; a missing file reads as empty
func (s *FileSink) ReadAll() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []byte{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}
	return data, nil
}

// rewrite runs one open/write/sync/close cycle with the given mode flag
func (s *FileSink) rewrite(mode int, text string) (err error) {
	f, err := os.OpenFile(s.path, mode|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close log file: %w", cerr)
		}
	}()

	if text != "" {
		if _, err := f.WriteString(text); err != nil {
			return fmt.Errorf("write log file: %w", err)
		}
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync log file: %w", err)
	}
	return nil
}

package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fwojciec/websift"
)

// Encode writes v as JSON with four-space indentation. HTML and non-ASCII
// characters are written as is.
func Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// WriteReport writes a report or error report to path, creating parent
// directories as needed. The file is replaced atomically.
func WriteReport(path string, v any) error {
	var buf bytes.Buffer
	if err := Encode(&buf, v); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".report-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReadReport loads a report written by WriteReport.
// Returns ENOTFOUND if the file does not exist and EINVALID if it does not
// hold a valid report.
func ReadReport(path string) (*websift.Report, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, websift.Errorf(websift.ENOTFOUND, "report not found: %s", path)
	} else if err != nil {
		return nil, err
	}

	var report websift.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, websift.Errorf(websift.EINVALID, "invalid report %s: %v", path, err)
	}
	if err := report.Validate(); err != nil {
		return nil, err
	}
	return &report, nil
}

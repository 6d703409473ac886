// Package legacy upgrades legacy binary .ppt presentations to .pptx with an
// external LibreOffice process.
package legacy

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTimeout bounds a single conversion.
const DefaultTimeout = 60 * time.Second

// DefaultBinaries are the converter executables tried in order.
var DefaultBinaries = []string{"soffice", "libreoffice"}

// ErrToolUnavailable indicates no converter executable was found.
var ErrToolUnavailable = errors.New("legacy presentation converter not available")

// ErrConversionFailed indicates the converter ran but produced no usable output.
var ErrConversionFailed = errors.New("legacy presentation conversion failed")

// Upgrader turns legacy presentation bytes into .pptx bytes.
type Upgrader interface {
	Upgrade(ctx context.Context, ppt []byte) ([]byte, error)
}

// executor abstracts process execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// osExecutor runs real processes.
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Soffice converts with LibreOffice in headless mode. Each conversion runs in
// its own temporary directory with a private user profile, so concurrent
// conversions do not share state.
type Soffice struct {
	// Binaries are tried in order; an absolute path is used as is.
	Binaries []string
	// Timeout bounds each conversion (DefaultTimeout when zero).
	Timeout time.Duration
	// TempDir is the parent of the per-conversion work directory (os.TempDir when empty).
	TempDir string

	exec executor
}

// NewSoffice returns a converter for binary, or for DefaultBinaries when binary is empty.
func NewSoffice(binary string, timeout time.Duration) *Soffice {
	bins := DefaultBinaries
	if binary != "" {
		bins = []string{binary}
	}
	return &Soffice{Binaries: bins, Timeout: timeout, exec: osExecutor{}}
}

func (s *Soffice) runner() executor {
	if s.exec == nil {
		return osExecutor{}
	}
	return s.exec
}

// Binary returns the path of the first available converter executable.
func (s *Soffice) Binary() (string, error) {
	bins := s.Binaries
	if len(bins) == 0 {
		bins = DefaultBinaries
	}
	for _, bin := range bins {
		if path, err := s.runner().LookPath(bin); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrToolUnavailable, strings.Join(bins, ", "))
}

// Available reports whether a converter executable is on PATH.
func (s *Soffice) Available() bool {
	_, err := s.Binary()
	return err == nil
}

// Upgrade writes ppt to a temporary file, converts it and returns the .pptx bytes.
func (s *Soffice) Upgrade(ctx context.Context, ppt []byte) ([]byte, error) {
	bin, err := s.Binary()
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp(s.TempDir, "qamatrix-ppt-")
	if err != nil {
		return nil, fmt.Errorf("create work directory: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.ppt")
	if err := os.WriteFile(input, ppt, 0o600); err != nil {
		return nil, fmt.Errorf("write input: %w", err)
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	profile := "file://" + filepath.ToSlash(filepath.Join(dir, "profile"))
	out, err := s.runner().Run(ctx, bin,
		"-env:UserInstallation="+profile,
		"--headless",
		"--convert-to", "pptx",
		"--outdir", dir,
		input,
	)
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: timed out after %s", ErrConversionFailed, timeout)
	}
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return nil, fmt.Errorf("%w: %v: %s", ErrConversionFailed, err, msg)
		}
		return nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "input.pptx"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: converter produced no output", ErrConversionFailed)
	}
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}
	return data, nil
}

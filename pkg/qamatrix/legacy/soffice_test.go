package legacy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecutor resolves binaries from a fixed set and runs a stub conversion.
type fakeExecutor struct {
	available map[string]bool
	run       func(ctx context.Context, outdir string) ([]byte, error)
	name      string
	args      []string
}

func (f *fakeExecutor) LookPath(file string) (string, error) {
	if f.available[file] {
		return "/opt/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (f *fakeExecutor) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.name = name
	f.args = args
	outdir := ""
	for i, a := range args {
		if a == "--outdir" && i+1 < len(args) {
			outdir = args[i+1]
		}
	}
	return f.run(ctx, outdir)
}

func writeOutput(content string) func(context.Context, string) ([]byte, error) {
	return func(_ context.Context, outdir string) ([]byte, error) {
		return nil, os.WriteFile(filepath.Join(outdir, "input.pptx"), []byte(content), 0o600)
	}
}

func TestUpgrade(t *testing.T) {
	fe := &fakeExecutor{
		available: map[string]bool{"libreoffice": true},
		run:       writeOutput("PK converted"),
	}
	s := &Soffice{Binaries: DefaultBinaries, TempDir: t.TempDir(), exec: fe}

	out, err := s.Upgrade(context.Background(), []byte("legacy"))
	require.NoError(t, err)
	assert.Equal(t, "PK converted", string(out))
	assert.Equal(t, "/opt/bin/libreoffice", fe.name)
	assert.Contains(t, fe.args, "--headless")
	assert.Contains(t, fe.args, "pptx")
	assert.Equal(t, "input.ppt", filepath.Base(fe.args[len(fe.args)-1]))

	entries, err := os.ReadDir(s.TempDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "work directory is removed")
}

func TestUpgradeToolUnavailable(t *testing.T) {
	s := &Soffice{exec: &fakeExecutor{}}

	_, err := s.Upgrade(context.Background(), []byte("legacy"))
	assert.ErrorIs(t, err, ErrToolUnavailable)
	assert.False(t, s.Available())
}

func TestUpgradeFailures(t *testing.T) {
	tests := []struct {
		name string
		run  func(context.Context, string) ([]byte, error)
	}{
		{
			name: "non-zero exit",
			run: func(context.Context, string) ([]byte, error) {
				return []byte("Error: source file could not be loaded"), errors.New("exit status 1")
			},
		},
		{
			name: "no output file",
			run: func(context.Context, string) ([]byte, error) {
				return nil, nil
			},
		},
		{
			name: "timeout",
			run: func(ctx context.Context, _ string) ([]byte, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Soffice{
				Binaries: []string{"soffice"},
				Timeout:  20 * time.Millisecond,
				TempDir:  t.TempDir(),
				exec:     &fakeExecutor{available: map[string]bool{"soffice": true}, run: tt.run},
			}
			_, err := s.Upgrade(context.Background(), []byte("legacy"))
			assert.ErrorIs(t, err, ErrConversionFailed)
			assert.NotErrorIs(t, err, ErrToolUnavailable)
		})
	}
}

func TestNewSoffice(t *testing.T) {
	s := NewSoffice("", 0)
	assert.Equal(t, DefaultBinaries, s.Binaries)

	s = NewSoffice("/usr/lib/libreoffice/program/soffice", time.Second)
	assert.Equal(t, []string{"/usr/lib/libreoffice/program/soffice"}, s.Binaries)
	assert.Equal(t, time.Second, s.Timeout)
}

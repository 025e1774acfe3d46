// Package artifact decouples the CSV codec and the report renderer from the
// way their output reaches the user: a directory, a stream, or a store the
// HTTP API serves downloads from.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// ErrNotFound is returned by stores when an id is unknown or expired.
var ErrNotFound = errors.New("artifact not found")

// Artifact is a named, typed blob ready for delivery.
type Artifact struct {
	Name      string `json:"name"`
	MediaType string `json:"mediaType"`
	Data      []byte `json:"data"`
}

// Emitter delivers an artifact.
type Emitter interface {
	Emit(ctx context.Context, a Artifact) error
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(ctx context.Context, a Artifact) error

// Emit calls f.
func (f EmitterFunc) Emit(ctx context.Context, a Artifact) error {
	return f(ctx, a)
}

// DirEmitter writes artifacts as files under Dir.
type DirEmitter struct {
	Dir    string
	logger *zap.Logger

	lastPath string
}

// NewDirEmitter returns an emitter rooted at dir, creating it on first use.
func NewDirEmitter(logger *zap.Logger, dir string) *DirEmitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir == "" {
		dir = "."
	}
	return &DirEmitter{Dir: dir, logger: logger}
}

// Emit writes a.Data to Dir/a.Name.
func (e *DirEmitter) Emit(ctx context.Context, a Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := filepath.Base(a.Name)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return fmt.Errorf("invalid artifact name %q", a.Name)
	}
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", e.Dir, err)
	}
	path := filepath.Join(e.Dir, name)
	if err := os.WriteFile(path, a.Data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	e.lastPath = path
	e.logger.Info("artifact written",
		zap.String("op", "artifact.DirEmitter.Emit"),
		zap.String("path", path),
		zap.String("mediaType", a.MediaType),
		zap.Int("bytes", len(a.Data)),
	)
	return nil
}

// LastPath returns the path of the most recently written artifact.
func (e *DirEmitter) LastPath() string {
	return e.lastPath
}

// WriterEmitter streams the artifact body to W, ignoring its name.
type WriterEmitter struct {
	W io.Writer
}

// Emit copies a.Data to the writer.
func (e WriterEmitter) Emit(ctx context.Context, a Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := e.W.Write(a.Data); err != nil {
		return fmt.Errorf("failed to write %s: %w", a.Name, err)
	}
	return nil
}

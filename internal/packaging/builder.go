// Package packaging compiles the function project and archives the publish
// output into a deployment package. Every run starts from a clean slate: stale
// publish output and packages are removed before anything is produced.
package packaging

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/DangerousDarlow/AzureFunctionsApp/internal/errors"
)

// DefaultTool is the build tool used when none is configured.
const DefaultTool = "dotnet"

// Option is a function that configures the package builder.
type Option func(*Builder)

// WithRunner overrides the command runner.
func WithRunner(runner CommandRunner) Option {
	return func(b *Builder) {
		b.runner = runner
	}
}

// WithTool overrides the build tool executable.
func WithTool(tool string) Option {
	return func(b *Builder) {
		if tool != "" {
			b.tool = tool
		}
	}
}

// Builder produces deployment packages from a function project.
type Builder struct {
	runner CommandRunner
	tool   string
}

// NewBuilder creates a Builder that invokes the build tool directly.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		runner: execRunner{},
		tool:   DefaultTool,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Tool returns the build tool executable this builder invokes.
func (b *Builder) Tool() string {
	return b.tool
}

// Build publishes the project into outputDir. Previous publish output is
// removed first so every run produces a fresh artifact.
func (b *Builder) Build(ctx context.Context, project, configuration, outputDir string) error {
	logger := zerolog.Ctx(ctx)

	if err := os.RemoveAll(outputDir); err != nil {
		return fmt.Errorf("failed to clean output directory: %w", err)
	}

	logger.Info().
		Str("project", project).
		Str("configuration", configuration).
		Str("output", outputDir).
		Msg("Building project")

	if err := b.runner.Run(ctx, b.tool, "publish", project, "-c", configuration, "-o", outputDir); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrBuildFailed, err)
	}
	return nil
}

// Archive zips the publish output into packagePath, replacing any previous
// package. Entry names use forward slashes regardless of platform.
func (b *Builder) Archive(ctx context.Context, outputDir, packagePath string) (err error) {
	logger := zerolog.Ctx(ctx)

	defer func(begin time.Time) {
		logger.Info().
			Interface("error", err).
			Str("package", packagePath).
			Dur("duration", time.Since(begin)).
			Msg("Archived deployment package")
	}(time.Now())

	if err := os.Remove(packagePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove previous package: %w", err)
	}

	f, err := os.Create(packagePath)
	if err != nil {
		return fmt.Errorf("failed to create package file: %w", err)
	}

	w := zip.NewWriter(f)
	walkErr := filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(outputDir, path)
		if err != nil {
			return err
		}
		entry, err := w.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		//goland:noinspection GoUnhandledErrorResult
		defer src.Close()

		_, err = io.Copy(entry, src)
		return err
	})
	if walkErr != nil {
		_ = w.Close()
		_ = f.Close()
		return fmt.Errorf("failed to archive %s: %w", outputDir, walkErr)
	}

	if err := w.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to finalize package: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close package file: %w", err)
	}
	return nil
}

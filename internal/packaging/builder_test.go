package packaging

import (
	"archive/zip"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DangerousDarlow/AzureFunctionsApp/internal/errors"
)

type recordRunner struct {
	calls [][]string
	err   error
	onRun func(name string, args ...string) error
}

func (r *recordRunner) Run(_ context.Context, name string, args ...string) error {
	r.calls = append(r.calls, append([]string{name}, args...))
	if r.onRun != nil {
		return r.onRun(name, args...)
	}
	return r.err
}

func TestBuilder_Build(t *testing.T) {
	runner := &recordRunner{}
	builder := NewBuilder(WithRunner(runner))
	outputDir := filepath.Join(t.TempDir(), "publish")

	err := builder.Build(context.Background(), "./src/App", "Release", outputDir)
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"dotnet", "publish", "./src/App", "-c", "Release", "-o", outputDir}, runner.calls[0])
}

func TestBuilder_Build_CustomTool(t *testing.T) {
	runner := &recordRunner{}
	builder := NewBuilder(WithRunner(runner), WithTool("func"))

	err := builder.Build(context.Background(), ".", "Debug", t.TempDir())
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "func", runner.calls[0][0])
	assert.Equal(t, "func", builder.Tool())
}

func TestBuilder_Build_RemovesPreviousOutput(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "publish")
	require.NoError(t, os.MkdirAll(outputDir, 0o755))
	stale := filepath.Join(outputDir, "stale.dll")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	runner := &recordRunner{
		onRun: func(string, ...string) error {
			// the previous artifact must be gone before the build runs
			_, err := os.Stat(stale)
			assert.True(t, os.IsNotExist(err))
			return nil
		},
	}
	builder := NewBuilder(WithRunner(runner))

	err := builder.Build(context.Background(), ".", "Release", outputDir)
	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
}

func TestBuilder_Build_Failure(t *testing.T) {
	runner := &recordRunner{err: stderrors.New("exit status 1")}
	builder := NewBuilder(WithRunner(runner))

	err := builder.Build(context.Background(), ".", "Release", t.TempDir())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrBuildFailed))
}

func TestBuilder_Archive(t *testing.T) {
	outputDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "App.dll"), []byte("binary"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(outputDir, ".azurefunctions"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, ".azurefunctions", "function.metadata"), []byte("{}"), 0o644))

	packagePath := filepath.Join(t.TempDir(), "app.zip")
	builder := NewBuilder(WithRunner(&recordRunner{}))

	err := builder.Archive(context.Background(), outputDir, packagePath)
	require.NoError(t, err)

	reader, err := zip.OpenReader(packagePath)
	require.NoError(t, err)
	defer func() { require.NoError(t, reader.Close()) }()

	names := map[string]bool{}
	for _, f := range reader.File {
		names[f.Name] = true
	}
	assert.True(t, names["App.dll"])
	assert.True(t, names[".azurefunctions/function.metadata"], "entry names use forward slashes")
	assert.Len(t, names, 2)
}

func TestBuilder_Archive_ReplacesPreviousPackage(t *testing.T) {
	outputDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "host.json"), []byte("{}"), 0o644))

	packagePath := filepath.Join(t.TempDir(), "app.zip")
	require.NoError(t, os.WriteFile(packagePath, []byte("not a zip"), 0o644))

	builder := NewBuilder(WithRunner(&recordRunner{}))
	err := builder.Archive(context.Background(), outputDir, packagePath)
	require.NoError(t, err)

	reader, err := zip.OpenReader(packagePath)
	require.NoError(t, err)
	defer func() { require.NoError(t, reader.Close()) }()

	require.Len(t, reader.File, 1)
	assert.Equal(t, "host.json", reader.File[0].Name)
}

func TestBuilder_Archive_MissingOutputDir(t *testing.T) {
	builder := NewBuilder(WithRunner(&recordRunner{}))
	err := builder.Archive(context.Background(), filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "app.zip"))
	require.Error(t, err)
}

package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/luascript/internal/pipeline"
)

func TestNewFileProcessor(t *testing.T) {
	processor := NewFileProcessor()
	require.NotNil(t, processor)
	assert.NotNil(t, processor.walker)
	assert.NotNil(t, processor.atomicWriter)
	assert.True(t, processor.safetyEnabled)
}

func TestNewFileProcessorWithSafety(t *testing.T) {
	processor := NewFileProcessorWithSafety(false, DefaultAtomicConfig())
	require.NotNil(t, processor)
	assert.False(t, processor.IsSafetyEnabled())
}

func TestFileProcessor_CompileFiles_DryRun(t *testing.T) {
	dir := t.TempDir()
	source := "let x = 1 + 2;\nconsole.log(x);"
	srcPath := filepath.Join(dir, "main.ljs")
	require.NoError(t, os.WriteFile(srcPath, []byte(source), 0o644))

	processor := NewFileProcessorWithSafety(false, DefaultAtomicConfig())
	op := FileTranspileOp{
		Scope:  FileScope{Path: dir, Include: []string{"*.ljs"}},
		OutExt: ".lua",
		DryRun: true,
	}

	result, err := processor.CompileFiles(context.Background(), op)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesScanned)
	assert.Equal(t, 0, result.FilesWritten, "dry run must not write files")
	assert.Equal(t, 0, result.FilesWithErrors)

	_, statErr := os.Stat(filepath.Join(dir, "main.lua"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileProcessor_CompileFiles_WritesOutput(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "main.ljs")
	require.NoError(t, os.WriteFile(srcPath, []byte("let x = 1;"), 0o644))

	processor := NewFileProcessorWithSafety(false, DefaultAtomicConfig())
	op := FileTranspileOp{
		Scope:  FileScope{Path: dir, Include: []string{"*.ljs"}},
		OutExt: ".lua",
	}

	result, err := processor.CompileFiles(context.Background(), op)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesWritten)
	assert.Equal(t, 0, result.FilesWithErrors)

	out, err := os.ReadFile(filepath.Join(dir, "main.lua"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "local")
}

func TestFileProcessor_CompileFiles_TransactionRollbackOnError(t *testing.T) {
	dir := t.TempDir()
	// A syntax error guarantees a fatal diagnostic and thus no write.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.ljs"), []byte("let x = ;;;"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.ljs"), []byte("let y = 1;"), 0o644))

	processor := NewFileProcessor()
	op := FileTranspileOp{
		Scope:  FileScope{Path: dir, Include: []string{"*.ljs"}},
		OutExt: ".lua",
	}

	result, err := processor.CompileFiles(context.Background(), op)
	require.NoError(t, err)
	assert.Equal(t, 2, result.FilesScanned)
	assert.Greater(t, result.FilesWithErrors, 0)
	// the transaction should have rolled back, so even the good file's
	// output must not have been left on disk.
	_, statErr := os.Stat(filepath.Join(dir, "good.lua"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileProcessor_CompileFiles_WithCache(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.ljs"), []byte("let x = 1;"), 0o644))

	processor := NewFileProcessorWithSafety(false, DefaultAtomicConfig())
	cache := pipeline.NewMemoryCache()
	processor.SetCache(cache)

	op := FileTranspileOp{
		Scope:  FileScope{Path: dir, Include: []string{"*.ljs"}},
		OutExt: ".lua",
	}

	result, err := processor.CompileFiles(context.Background(), op)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesWritten)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "app.lua", outputPath("app.ljs", ".lua"))
	assert.Equal(t, filepath.Join("sub", "app.lua"), outputPath(filepath.Join("sub", "app.ljs"), ".lua"))
}

func TestFileProcessor_GenerateChecksum(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.ljs")
	require.NoError(t, os.WriteFile(path, []byte("let x = 1;"), 0o644))

	processor := NewFileProcessor()
	checksum, err := processor.GenerateChecksum(path)
	require.NoError(t, err)
	assert.Len(t, checksum, 64)
}

func TestFileProcessor_EnableSafety(t *testing.T) {
	processor := NewFileProcessor()
	assert.True(t, processor.IsSafetyEnabled())
	processor.EnableSafety(false)
	assert.False(t, processor.IsSafetyEnabled())
}

func TestFileProcessor_Cleanup(t *testing.T) {
	processor := NewFileProcessor()
	processor.Cleanup() // should not panic
}

func TestFileProcessor_SetWorkers(t *testing.T) {
	processor := NewFileProcessor()
	original := processor.workers

	processor.SetWorkers(0)
	assert.Equal(t, original, processor.workers, "non-positive override is ignored")

	processor.SetWorkers(-3)
	assert.Equal(t, original, processor.workers, "negative override is ignored")

	processor.SetWorkers(4)
	assert.Equal(t, 4, processor.workers)
}

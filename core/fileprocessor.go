package core

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oxhq/luascript/internal/parser"
	"github.com/oxhq/luascript/internal/pipeline"
)

// FileProcessor walks a directory tree and runs every discovered source
// file through the compile pipeline, writing results to disk inside one
// transaction. Grounded on the teacher's FileProcessor (QueryFiles/
// TransformFiles over a ProviderRegistry): same walk-dispatch-collect shape,
// generalized from "ask a language provider to query/transform text" to
// "run the one compile pipeline, there being only one source language."
type FileProcessor struct {
	walker        *FileWalker
	workers       int
	atomicWriter  *AtomicWriter
	safetyEnabled bool
	txLogDir      string
	cache         pipeline.Cache
}

// NewFileProcessor creates a file processor with safety (transactions,
// atomic writes) enabled by default.
func NewFileProcessor() *FileProcessor {
	atomicConfig := DefaultAtomicConfig()
	return &FileProcessor{
		walker:        NewFileWalker(),
		workers:       resolveWorkerCount(8),
		atomicWriter:  NewAtomicWriter(atomicConfig),
		safetyEnabled: true,
		txLogDir:      ".luascript/transactions",
	}
}

// NewFileProcessorWithSafety creates a processor with configurable safety
// settings, for callers that want to skip backups/locking for throughput.
func NewFileProcessorWithSafety(safetyEnabled bool, atomicConfig AtomicWriteConfig) *FileProcessor {
	return &FileProcessor{
		walker:        NewFileWalker(),
		workers:       resolveWorkerCount(8),
		atomicWriter:  NewAtomicWriter(atomicConfig),
		safetyEnabled: safetyEnabled,
		txLogDir:      ".luascript/transactions",
	}
}

// SetCache attaches a compilation cache (in-memory or gorm-backed); nil
// disables caching and every file is recompiled.
func (fp *FileProcessor) SetCache(cache pipeline.Cache) {
	fp.cache = cache
}

// SetWorkers overrides the concurrent-compile worker count; n <= 0 is
// ignored, leaving the constructor's default (or LUASCRIPT_WORKERS) in
// place.
func (fp *FileProcessor) SetWorkers(n int) {
	if n > 0 {
		fp.workers = n
	}
}

// CompileFiles discovers every file in op.Scope, compiles each with the
// pipeline façade, and writes the emitted Lua next to the source (same
// basename, op.OutExt extension) unless op.DryRun is set.
func (fp *FileProcessor) CompileFiles(ctx context.Context, op FileTranspileOp) (*FileTranspileResult, error) {
	start := time.Now()
	outExt := op.OutExt
	if outExt == "" {
		outExt = ".lua"
	}

	var (
		txManager *TransactionManager
		tx        *TransactionLog
		txActive  bool
		txID      string
	)

	if fp.safetyEnabled && !op.DryRun {
		txManager = NewTransactionManager(fp.txLogDir, fp.atomicWriter)
		var err error
		tx, err = txManager.BeginTransaction(fmt.Sprintf("Compile files under %s", op.Scope.Path))
		if err != nil {
			return nil, fmt.Errorf("failed to begin transaction: %w", err)
		}
		txID = tx.ID
		txActive = true

		defer func() {
			if txActive && txManager != nil {
				txManager.RollbackTransaction()
			}
		}()
	}

	walkResults, err := fp.walker.Walk(ctx, op.Scope)
	if err != nil {
		return nil, fmt.Errorf("failed to walk files: %w", err)
	}

	var (
		files      []WalkResult
		walkErrors []string
	)
	for result := range walkResults {
		if result.Error != nil {
			errMsg := result.Error.Error()
			if result.Path != "" {
				errMsg = fmt.Sprintf("%s: %v", result.Path, result.Error)
			}
			walkErrors = append(walkErrors, errMsg)
			continue
		}
		files = append(files, result)
	}

	scanDuration := time.Since(start)
	compileStart := time.Now()

	resultChan := make(chan FileTranspileDetail, len(files))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, fp.workers)

	for _, wr := range files {
		wg.Add(1)
		go func(wr WalkResult) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			detail := fp.compileFile(wr, op, outExt, tx, txManager)
			resultChan <- detail
		}(wr)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var (
		details       []FileTranspileDetail
		filesWritten  int
		filesWithErr  int
	)
	for detail := range resultChan {
		details = append(details, detail)
		if detail.Written {
			filesWritten++
		}
		if detail.Error != "" {
			filesWithErr++
		}
	}

	compileDuration := time.Since(compileStart)
	hasErrors := filesWithErr > 0 || len(walkErrors) > 0

	if fp.safetyEnabled && !op.DryRun && txManager != nil && tx != nil {
		if hasErrors {
			if err := txManager.RollbackTransaction(); err != nil {
				return nil, fmt.Errorf("failed to rollback transaction: %w", err)
			}
		} else {
			if err := txManager.CommitTransaction(); err != nil {
				return nil, fmt.Errorf("failed to commit transaction: %w", err)
			}
			txActive = false
			tx = nil
		}
	}

	return &FileTranspileResult{
		FilesScanned:      len(files),
		FilesWritten:      filesWritten,
		FilesWithErrors:   filesWithErr,
		ScanDurationMs:    scanDuration.Milliseconds(),
		CompileDurationMs: compileDuration.Milliseconds(),
		Files:             details,
		TransactionID:     txID,
		Errors:            walkErrors,
	}, nil
}

// compileFile reads, compiles and (unless dry-run) writes one source file.
func (fp *FileProcessor) compileFile(
	wr WalkResult,
	op FileTranspileOp,
	outExt string,
	tx *TransactionLog,
	txManager *TransactionManager,
) FileTranspileDetail {
	detail := FileTranspileDetail{
		FilePath:     wr.Path,
		OriginalSize: wr.Info.Size(),
	}

	content, err := os.ReadFile(wr.Path)
	if err != nil {
		detail.Error = fmt.Sprintf("failed to read file: %v", err)
		return detail
	}

	dialect := parser.DialectScript
	if wr.Dialect == "module" {
		dialect = parser.DialectModule
	}

	opts := pipeline.Options{
		Dialect:  dialect,
		Strict:   op.Strict,
		MaxNodes: pipeline.DefaultOptions().MaxNodes,
	}

	var result pipeline.Result
	if fp.cache != nil {
		result = pipeline.TranspileCached(fp.cache, string(content), opts)
	} else {
		result = pipeline.Transpile(string(content), opts)
	}

	detail.NodeCount = result.NodeCount
	for _, d := range result.Diagnostics {
		detail.Diagnostics = append(detail.Diagnostics, fmt.Sprintf("[%s] %s: %s", d.Severity, d.Code, d.Message))
	}

	if result.Fatal {
		detail.Error = "compilation failed"
		return detail
	}

	detail.OutputPath = outputPath(wr.Path, outExt)
	detail.OutputSize = int64(len(result.Lua))

	if op.DryRun {
		return detail
	}

	if op.Backup {
		if _, statErr := os.Stat(detail.OutputPath); statErr == nil {
			backupPath := detail.OutputPath + ".bak"
			if err := fp.createBackup(detail.OutputPath, backupPath); err != nil {
				detail.Error = fmt.Sprintf("failed to create backup: %v", err)
				return detail
			}
			detail.BackupPath = backupPath
		}
	}

	if fp.safetyEnabled && tx != nil && txManager != nil {
		opType := "create"
		if _, statErr := os.Stat(detail.OutputPath); statErr == nil {
			opType = "modify"
		}
		txOp, err := txManager.AddOperation(opType, detail.OutputPath)
		if err != nil {
			detail.Error = fmt.Sprintf("failed to register transaction operation: %v", err)
			return detail
		}
		if detail.BackupPath == "" {
			detail.BackupPath = txOp.BackupPath
		}
	}

	var writeErr error
	if fp.safetyEnabled {
		writeErr = fp.atomicWriter.WriteFile(detail.OutputPath, result.Lua)
	} else {
		writeErr = os.WriteFile(detail.OutputPath, []byte(result.Lua), 0o644)
	}

	if writeErr != nil {
		detail.Error = fmt.Sprintf("failed to write file: %v", writeErr)
		if fp.safetyEnabled && tx != nil && txManager != nil {
			txManager.CompleteOperation(detail.OutputPath, writeErr)
		}
		return detail
	}

	if fp.safetyEnabled && tx != nil && txManager != nil {
		if err := txManager.CompleteOperation(detail.OutputPath, nil); err != nil {
			detail.Error = fmt.Sprintf("failed to complete transaction operation: %v", err)
			return detail
		}
	}

	detail.Written = true
	return detail
}

// outputPath swaps the source extension for outExt (e.g. "app.ljs" -> "app.lua").
func outputPath(sourcePath, outExt string) string {
	ext := filepath.Ext(sourcePath)
	base := strings.TrimSuffix(sourcePath, ext)
	return base + outExt
}

// createBackup creates a backup copy of the file.
func (fp *FileProcessor) createBackup(originalPath, backupPath string) error {
	info, err := os.Stat(originalPath)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(originalPath)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}

	if err := os.WriteFile(backupPath, content, mode); err != nil {
		return err
	}
	return os.Chmod(backupPath, mode)
}

// GenerateChecksum creates a SHA256 hash of file content for integrity checking.
func (fp *FileProcessor) GenerateChecksum(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(content)
	return fmt.Sprintf("%x", hash), nil
}

// EnableSafety enables/disables safety features at runtime.
func (fp *FileProcessor) EnableSafety(enabled bool) {
	fp.safetyEnabled = enabled
}

// IsSafetyEnabled returns current safety status.
func (fp *FileProcessor) IsSafetyEnabled() bool {
	return fp.safetyEnabled
}

// Cleanup releases all resources and locks.
func (fp *FileProcessor) Cleanup() {
	if fp.atomicWriter != nil {
		fp.atomicWriter.Cleanup()
	}
}

func resolveWorkerCount(defaultWorkers int) int {
	value := os.Getenv("LUASCRIPT_WORKERS")
	if value == "" {
		return defaultWorkers
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultWorkers
	}
	return n
}

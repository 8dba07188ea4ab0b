package core

// FileScope describes the directory tree a batch compile walks: the root
// path, include/exclude glob patterns, and traversal limits.
type FileScope struct {
	Path           string   `json:"path"`
	Include        []string `json:"include,omitempty"`
	Exclude        []string `json:"exclude,omitempty"`
	MaxDepth       int      `json:"max_depth,omitempty"`
	MaxFiles       int      `json:"max_files,omitempty"`
	FollowSymlinks bool     `json:"follow_symlinks,omitempty"`
}

// FileTranspileOp is one batch-compile request: the scope to walk, the
// pipeline options to apply to every discovered source file, the output
// file extension, and whether to actually write results to disk.
type FileTranspileOp struct {
	Scope     FileScope `json:"scope"`
	Strict    bool      `json:"strict"`
	EmitDebug bool      `json:"emit_debug"`
	OutExt    string    `json:"out_ext"`
	DryRun    bool      `json:"dry_run"`
	Backup    bool      `json:"backup"`
}

// FileTranspileDetail is the outcome of compiling a single source file.
type FileTranspileDetail struct {
	FilePath     string   `json:"file_path"`
	OutputPath   string   `json:"output_path"`
	OriginalSize int64    `json:"original_size"`
	OutputSize   int64    `json:"output_size"`
	NodeCount    int      `json:"node_count"`
	Written      bool     `json:"written"`
	Diagnostics  []string `json:"diagnostics,omitempty"`
	Error        string   `json:"error,omitempty"`
	BackupPath   string   `json:"backup_path,omitempty"`
	// Checksum is the source content's SHA1, recorded so a second batch run
	// can tell "file unchanged since last compile" apart from "recompiled."
	Checksum string `json:"checksum,omitempty"`
}

// FileTranspileResult aggregates a batch compile run across every
// discovered file.
type FileTranspileResult struct {
	FilesScanned      int                   `json:"files_scanned"`
	FilesWritten      int                   `json:"files_written"`
	FilesWithErrors   int                   `json:"files_with_errors"`
	ScanDurationMs    int64                 `json:"scan_duration_ms"`
	CompileDurationMs int64                 `json:"compile_duration_ms"`
	Files             []FileTranspileDetail `json:"files"`
	TransactionID     string                `json:"transaction_id,omitempty"`
	Errors            []string              `json:"errors,omitempty"`
}

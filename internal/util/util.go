// Package util holds the small, dependency-light helpers shared by the
// pipeline façade, the CLI batch runner and the compilation cache: glob
// expansion, content hashing for cache fingerprints, atomic file writes and
// unified diff rendering.
package util

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// ExpandGlobs expands a list of file arguments, resolving glob patterns via
// filepath.Glob. "-" (stdin) passes through unchanged.
func ExpandGlobs(files []string) []string {
	var out []string
	for _, f := range files {
		if f == "-" {
			out = append(out, f)
			continue
		}
		if strings.ContainsAny(f, "*?[") {
			matches, _ := filepath.Glob(f)
			out = append(out, matches...)
		} else {
			out = append(out, f)
		}
	}
	return out
}

// SHA1Hex computes the SHA1 hash of a byte slice as a hex string.
func SHA1Hex(b []byte) string {
	h := sha1.Sum(b)
	return hex.EncodeToString(h[:])
}

// SHA1FileHex computes the SHA1 hash of a file's content.
func SHA1FileHex(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return SHA1Hex(b)
}

// SourceFingerprint is the (sourceHash, optionsHash) cache key component
// described in §3.4: a SHA-256 of the source text, stable across runs.
func SourceFingerprint(source string) string {
	h := sha256.Sum256([]byte(source))
	return hex.EncodeToString(h[:])
}

// RaceDetected reports whether a file changed on disk between two os.Stat
// snapshots, guarding the batch runner's read-transpile-write cycle against
// concurrent external edits.
func RaceDetected(before, after os.FileInfo) bool {
	if before == nil || after == nil {
		return false
	}
	return !before.ModTime().Equal(after.ModTime()) || before.Size() != after.Size()
}

// WriteFileAtomic writes data to path via a temp file plus rename so a
// reader never observes a partially-written .lua output.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()
	defer func() { _ = tmp.Close() }()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

const (
	colorReset = "\x1b[0m"
	colorRed   = "\x1b[31m"
	colorGreen = "\x1b[32m"
	colorCyan  = "\x1b[36m"
)

// UnifiedDiff renders a unified diff between orig and mod, optionally ANSI
// colorized, for the interactive writer behind the CLI's --interactive flag.
func UnifiedDiff(orig, mod, filename string, context int, color bool) string {
	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(orig),
		B:        difflib.SplitLines(mod),
		FromFile: filename,
		ToFile:   filename + " (transpiled)",
		Context:  context,
	}
	text, err := difflib.GetUnifiedDiffString(d)
	if err != nil {
		return "(diff error: " + err.Error() + ")"
	}
	if !color {
		return text
	}

	var sb strings.Builder
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if i == len(lines)-1 && l == "" {
			continue
		}
		switch {
		case strings.HasPrefix(l, "+"):
			sb.WriteString(colorGreen + l + colorReset + "\n")
		case strings.HasPrefix(l, "-"):
			sb.WriteString(colorRed + l + colorReset + "\n")
		case strings.HasPrefix(l, "@"):
			sb.WriteString(colorCyan + l + colorReset + "\n")
		default:
			sb.WriteString(l + "\n")
		}
	}
	return sb.String()
}

// Package extract implements the Extractor: ZIP detection and expansion,
// with an extension-filtered payload pick.
//
// Grounded on original_source's unzip_if_needed: a non-zip file passes
// through unchanged, a zip is fully expanded to a sibling directory, and
// when target extensions are given, the first extracted file matching one
// of them is the payload; everything extracted (plus the zip itself) is
// reported back as a cleanup set so the caller can delete it once done.
package extract

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoPayload is returned when a zip was expanded but none of its entries
// matched any of the requested target extensions.
var ErrNoPayload = errors.New("extract: no file with a target extension found in archive")

// Result is the outcome of an extraction pass: Payload is the file to
// parse, CleanupPaths is every file/directory that must be removed once
// processing of Payload finishes (the zip itself, plus everything it
// expanded to, even entries that were not selected as Payload).
type Result struct {
	Payload      string
	CleanupPaths []string
}

// Extract inspects filePath: if it isn't a zip archive, it is returned as
// its own payload with itself as the only cleanup path. If it is a zip, it
// is expanded into a sibling "<name>_extracted" directory and the first
// entry whose extension is in targetExtensions (case-insensitive; nil
// means "any file") is chosen as Payload.
func Extract(filePath string, targetExtensions []string) (*Result, error) {
	ok, err := isZipFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("extract: inspecting %s: %w", filePath, err)
	}
	if !ok {
		return &Result{Payload: filePath, CleanupPaths: []string{filePath}}, nil
	}

	extractDir := filePath + "_extracted"
	extractedPaths, err := unzipTo(filePath, extractDir)
	if err != nil {
		return nil, fmt.Errorf("extract: expanding %s: %w", filePath, err)
	}

	cleanup := append([]string{filePath, extractDir}, extractedPaths...)

	if len(targetExtensions) == 0 {
		if len(extractedPaths) == 0 {
			return nil, fmt.Errorf("extract: %s: %w", filePath, ErrNoPayload)
		}
		return &Result{Payload: extractedPaths[0], CleanupPaths: cleanup}, nil
	}

	for _, p := range extractedPaths {
		if hasAnyExt(p, targetExtensions) {
			info, err := os.Stat(p)
			if err != nil || info.IsDir() {
				continue
			}
			return &Result{Payload: p, CleanupPaths: cleanup}, nil
		}
	}
	return nil, fmt.Errorf("extract: %s: %w", filePath, ErrNoPayload)
}

func isZipFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	var sig [4]byte
	n, err := f.Read(sig[:])
	if err != nil && err != io.EOF {
		return false, err
	}
	if n < 4 {
		return false, nil
	}
	// PK\x03\x04 (local file header) or PK\x05\x06 (empty archive).
	return sig[0] == 'P' && sig[1] == 'K' && (sig[2] == 0x03 || sig[2] == 0x05), nil
}

func unzipTo(zipPath, destDir string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, err
	}

	var extracted []string
	for _, f := range r.File {
		destPath := filepath.Join(destDir, f.Name)
		// Guard against zip-slip: the entry must resolve inside destDir.
		if !strings.HasPrefix(destPath, filepath.Clean(destDir)+string(os.PathSeparator)) && destPath != filepath.Clean(destDir) {
			return extracted, fmt.Errorf("illegal file path in archive: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, 0o755); err != nil {
				return extracted, err
			}
			extracted = append(extracted, destPath)
			continue
		}

		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return extracted, err
		}
		if err := extractEntry(f, destPath); err != nil {
			return extracted, err
		}
		extracted = append(extracted, destPath)
	}
	return extracted, nil
}

func extractEntry(f *zip.File, destPath string) error {
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

func hasAnyExt(path string, exts []string) bool {
	lower := strings.ToLower(path)
	for _, ext := range exts {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

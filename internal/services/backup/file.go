// Package backup writes scheduled journal exports to a directory or an S3
// bucket.
package backup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bobmcallan/tradejournal/internal/common"
	"github.com/bobmcallan/tradejournal/internal/interfaces"
)

// FileSink writes backups under a base directory.
// Name format: "<owner>/trading-journal-export-2024-03-01.json" ->
// "{dir}/<owner>/trading-journal-export-2024-03-01.json"
type FileSink struct {
	dir    string
	logger *common.Logger
}

var _ interfaces.BackupSink = (*FileSink)(nil)

// NewFileSink creates dir if needed and returns a sink writing into it.
func NewFileSink(logger *common.Logger, dir string) (*FileSink, error) {
	if dir == "" {
		return nil, fmt.Errorf("backup dir is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory %s: %w", dir, err)
	}
	return &FileSink{dir: dir, logger: logger}, nil
}

func (s *FileSink) Name() string { return "file:" + s.dir }

// sanitizeName keeps names inside the base directory while allowing "/"
// for per-owner subdirectories.
func sanitizeName(name string) string {
	clean := filepath.Clean("/" + name)
	clean = strings.TrimPrefix(clean, "/")
	return strings.ReplaceAll(clean, "..", "__")
}

// Put writes data atomically using temp file + rename.
func (s *FileSink) Put(ctx context.Context, name string, data []byte) error {
	path := filepath.Join(s.dir, sanitizeName(name))
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := io.Copy(tmpFile, bytes.NewReader(data)); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	s.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("Backup written")
	return nil
}

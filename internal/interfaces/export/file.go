package export

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"hdvtrack/internal/application/port"
)

// FileSink drops export artifacts into a directory on disk, standing in
// for the host's download/save dialog.
type FileSink struct {
	dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

func (s *FileSink) Deliver(_ context.Context, filename string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	log.Info().Str("path", path).Int("bytes", len(data)).Msg("export written")
	return nil
}

var _ port.ExportSink = (*FileSink)(nil)

package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hdvtrack/internal/domain"
)

// ExportDoc is the portable form of one partition's record set.
type ExportDoc struct {
	Server    string                `json:"server"`
	Timestamp int64                 `json:"timestamp"`
	Items     []domain.MarketRecord `json:"items"`
}

// BuildExport serializes the current book into an export document and a
// suggested filename encoding the partition and the export date.
func (s *Service) BuildExport(now time.Time) (filename string, data []byte, err error) {
	doc := ExportDoc{
		Server:    s.deps.Server,
		Timestamp: now.UnixMilli(),
		Items:     s.book.All(),
	}
	data, err = json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("marshal export: %w", err)
	}
	filename = fmt.Sprintf("%s-%s-%s.json", s.deps.Namespace, s.deps.Server, now.Format("2006-01-02"))
	return filename, data, nil
}

// export builds the artifact and hands it to the sink. One-shot,
// best-effort: delivery failure is logged and forgotten.
func (s *Service) export(ctx context.Context) {
	name, data, err := s.BuildExport(s.now())
	if err != nil {
		log.Error().Err(err).Msg("export build failed")
		return
	}
	if s.deps.Sink == nil {
		log.Warn().Msg("no export sink configured")
		return
	}
	if err := s.deps.Sink.Deliver(ctx, name, data); err != nil {
		log.Error().Str("file", name).Err(err).Msg("export delivery failed")
		return
	}
	log.Info().Str("file", name).Int("items", s.book.Len()).Msg("export delivered")
}

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/officina/workshop-system/internal/core/domain"
	"github.com/officina/workshop-system/internal/core/ports"
	"github.com/officina/workshop-system/internal/export"
)

const (
	contentTypeJSON = "application/json; charset=UTF-8"
	contentTypeCSV  = "text/csv; charset=utf-8"
)

type reportService struct {
	snapshots  ports.SnapshotProvider
	aggregator *ReportAggregator
	cache      ports.ReportCache
	ttl        time.Duration
	log        zerolog.Logger
}

// NewReportService renders reports and caches the bodies per snapshot
// content. cache may be nil.
func NewReportService(snapshots ports.SnapshotProvider, aggregator *ReportAggregator, cache ports.ReportCache, ttl time.Duration, log zerolog.Logger) ports.ReportService {
	if aggregator == nil {
		aggregator = NewReportAggregator(nil)
	}
	return &reportService{snapshots: snapshots, aggregator: aggregator, cache: cache, ttl: ttl, log: log}
}

func (s *reportService) Types() []domain.ReportDescriptor {
	return s.aggregator.Types()
}

func (s *reportService) Render(ctx context.Context, req ports.ReportRequest) (*ports.RenderedReport, error) {
	if req.Format != ports.FormatCSV {
		req.Format = ports.FormatJSON
	}

	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	var key string
	if fp := snap.Fingerprint(); fp != "" && s.cache != nil {
		key = ReportCacheKey(fp, s.aggregator.billing.Policy(), req)
	}
	if key != "" {
		body, hit, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("report cache read failed")
		} else if hit {
			return rendered(req, body, true), nil
		}
	}

	rep, err := s.aggregator.Generate(req.Type, snap, req.Range)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	var body []byte
	switch req.Format {
	case ports.FormatCSV:
		var buf bytes.Buffer
		if err := export.WriteReport(&buf, rep); err != nil {
			return nil, fmt.Errorf("render report: csv: %w", err)
		}
		body = buf.Bytes()
	default:
		body, err = json.Marshal(rep)
		if err != nil {
			return nil, fmt.Errorf("render report: json: %w", err)
		}
	}

	if key != "" {
		if err := s.cache.Set(ctx, key, body, s.ttl); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("report cache write failed")
		}
	}

	s.log.Debug().
		Str("type", string(req.Type)).
		Str("format", string(req.Format)).
		Uint64("snapshot_version", snap.Version()).
		Int("rows", len(rep.Rows)).
		Msg("report generated")

	return rendered(req, body, false), nil
}

func rendered(req ports.ReportRequest, body []byte, cached bool) *ports.RenderedReport {
	out := &ports.RenderedReport{Body: body, Cached: cached, ContentType: contentTypeJSON}
	if req.Format == ports.FormatCSV {
		out.ContentType = contentTypeCSV
		out.Filename = export.Filename(req.Type)
	}
	return out
}

// ReportCacheKey identifies one rendering of one snapshot content. The
// fingerprint is shared by every process that loaded the same data.
// Key format: report:<fingerprint>:<policy>:<type>:<from>:<to>:<format>
func ReportCacheKey(fingerprint string, policy PricingPolicy, req ports.ReportRequest) string {
	from, to := "-", "-"
	if req.Range != nil {
		if !req.Range.From.IsZero() {
			from = req.Range.From.Format(time.DateOnly)
		}
		if !req.Range.To.IsZero() {
			to = req.Range.To.Format(time.DateOnly)
		}
	}
	return fmt.Sprintf("report:%s:%s:%s:%s:%s:%s", fingerprint, policy, req.Type, from, to, req.Format)
}

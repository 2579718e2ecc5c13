// Package ingest turns a destination CSV into validated catalog entries.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/okian/jelajah/internal/domain/catalog"
	"github.com/okian/jelajah/internal/domain/model"
	"github.com/okian/jelajah/pkg/logger"
	"github.com/okian/jelajah/pkg/metrics"
)

const utf8BOM = "\ufeff"

// Report summarizes one ingestion run.
type Report struct {
	Rows     int
	Loaded   int
	Rejected int
	Sample   bool
}

// Parse reads CSV rows from r. Rows failing validation are skipped and
// counted in the report; a missing required column fails the whole read.
func Parse(ctx context.Context, r io.Reader, opts ...Option) ([]model.Destination, Report, error) {
	s := defaults()
	for _, o := range opts {
		o(&s)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, Report{}, nil
	}
	if err != nil {
		return nil, Report{}, fmt.Errorf("%w: header: %w", ErrReadCatalog, err)
	}
	index := headerIndex(header)
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, Report{}, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var (
		out []model.Destination
		rep Report
		v   = rowValidator()
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, rep, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, rep, fmt.Errorf("%w: %w", ErrReadCatalog, err)
		}
		if blank(record) {
			continue
		}
		rep.Rows++
		line, _ := reader.FieldPos(0)

		rw := newRow(cells(index, record))
		if err := v.Struct(rw); err != nil {
			rep.Rejected++
			s.log.Warn(ctx, "catalog row rejected",
				logger.Int("line", line),
				logger.String("name", rw.Name),
				logger.Error(err))
			continue
		}
		out = append(out, rw.destination())
	}
	rep.Loaded = len(out)
	return out, rep, nil
}

// Load reads the catalog file at path.
func Load(ctx context.Context, path string, opts ...Option) ([]model.Destination, Report, error) {
	f, err := os.Open(path) //nolint:gosec // operator supplied path
	if err != nil {
		return nil, Report{}, fmt.Errorf("%w: open %s: %w", ErrReadCatalog, path, err)
	}
	defer func() { _ = f.Close() }()
	return Parse(ctx, f, opts...)
}

// LoadCatalog builds the immutable catalog served by the service. On failure
// it returns an empty catalog together with the error so the caller can
// report it once and keep serving NoCatalogData.
func LoadCatalog(ctx context.Context, path string, opts ...Option) (*catalog.Catalog, Report, error) {
	s := defaults()
	for _, o := range opts {
		o(&s)
	}

	dests, rep, err := Load(ctx, path, opts...)
	if err != nil && s.sampleFallback && errors.Is(err, fs.ErrNotExist) {
		s.log.Warn(ctx, "catalog file missing, serving sample catalog", logger.String("path", path))
		dests = Sample()
		rep = Report{Rows: len(dests), Loaded: len(dests), Sample: true}
		err = nil
	}
	if err != nil {
		metrics.UpdateCatalogSize(0)
		return catalog.New(nil), rep, err
	}

	s.log.Info(ctx, "catalog loaded",
		logger.String("path", path),
		logger.Int("rows", rep.Rows),
		logger.Int("loaded", rep.Loaded),
		logger.Int("rejected", rep.Rejected),
		logger.Bool("sample", rep.Sample))
	metrics.UpdateCatalogSize(len(dests))
	return catalog.New(dests), rep, nil
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	return index
}

func cells(index map[string]int, record []string) map[string]string {
	out := make(map[string]string, len(index))
	for name, i := range index {
		if i < len(record) {
			out[name] = strings.TrimSpace(record[i])
		}
	}
	return out
}

func blank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/AnTengye/casebrief/model"
)

// Positional columns of the dataset. Column names are never consulted.
const (
	colOriginalText = 0
	colSourceURL    = 1
	colBrief        = 2
)

// LoadOptions controls CSV decoding.
type LoadOptions struct {
	HasHeader bool
}

// LoadDataset opens src and decodes every row into an OpinionRecord.
func LoadDataset(ctx context.Context, src Source, opts LoadOptions) ([]model.OpinionRecord, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	records, err := ReadRecords(rc, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", src.Location(), err)
	}
	return records, nil
}

// ReadRecords decodes CSV rows from r. A brief cell that is missing or not
// valid JSON does not fail the load: the record keeps its text and URL and
// carries the decode error instead.
func ReadRecords(r io.Reader, opts LoadOptions) ([]model.OpinionRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records []model.OpinionRecord
	first := true
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if first {
			first = false
			if len(row) > 0 {
				row[0] = strings.TrimPrefix(row[0], "\ufeff")
			}
			if opts.HasHeader {
				continue
			}
		}

		records = append(records, decodeRow(len(records), row))
	}

	return records, nil
}

func decodeRow(index int, row []string) model.OpinionRecord {
	record := model.OpinionRecord{
		Index:        index,
		OriginalText: column(row, colOriginalText),
		SourceURL:    strings.TrimSpace(column(row, colSourceURL)),
	}

	raw := strings.TrimSpace(column(row, colBrief))
	if raw == "" {
		record.BriefError = "brief column is empty"
		slog.Warn("dataset row has no brief", "index", index)
		return record
	}

	brief, err := model.ParseBrief(raw)
	if err != nil {
		record.BriefError = err.Error()
		slog.Warn("failed to parse brief", "index", index, "error", err)
		return record
	}
	if len(brief.Skipped) > 0 {
		slog.Warn("brief sections left empty", "index", index, "sections", brief.Skipped)
	}
	record.Brief = brief
	return record
}

func column(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

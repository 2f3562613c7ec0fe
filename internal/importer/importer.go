package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"luxe-atelier/internal/cartstore"
	"luxe-atelier/internal/domain"
)

// SnapshotWriter is where imported carts are written.
type SnapshotWriter interface {
	Set(ctx context.Context, key string, value []byte) error
}

// CSVImporter reads browser cart exports, one row per session, and rewrites
// each as a current-version snapshot. Expected headers: cart_key, snapshot.
// The snapshot column holds the raw localStorage value.
type CSVImporter struct {
	reader *csv.Reader
	writer SnapshotWriter
	prefix string
	logger *log.Logger
}

// Result counts what Run did.
type Result struct {
	Imported int
	Skipped  int
}

func NewCSVImporter(r io.Reader, w SnapshotWriter, prefix string, logger *log.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	csvr.LazyQuotes = true
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &CSVImporter{reader: csvr, writer: w, prefix: prefix, logger: logger}
}

// Run converts every row. Rows whose snapshot cannot be decoded are skipped
// and logged; write failures abort the run.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result

	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	keyCol, ok := index["cart_key"]
	if !ok {
		return res, errors.New("missing cart_key column")
	}
	docCol, ok := index["snapshot"]
	if !ok {
		return res, errors.New("missing snapshot column")
	}

	for line := 2; ; line++ {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read row %d: %w", line, err)
		}

		key := strings.TrimSpace(field(record, keyCol))
		raw := strings.TrimSpace(field(record, docCol))
		if key == "" || raw == "" {
			res.Skipped++
			continue
		}
		if err := domain.ValidateCartKey(key); err != nil {
			i.logger.Printf("row %d: skip: %v", line, err)
			res.Skipped++
			continue
		}

		state, err := cartstore.DecodeSnapshot([]byte(raw))
		if err != nil {
			i.logger.Printf("row %d (%s): skip: %v", line, key, err)
			res.Skipped++
			continue
		}
		doc, err := cartstore.EncodeSnapshot(state)
		if err != nil {
			return res, fmt.Errorf("row %d: %w", line, err)
		}
		if err := i.writer.Set(ctx, i.persistKey(key), doc); err != nil {
			return res, fmt.Errorf("write %s: %w", key, err)
		}
		res.Imported++
	}

	return res, nil
}

func (i *CSVImporter) persistKey(key string) string {
	if i.prefix == "" {
		return key
	}
	return i.prefix + ":" + key
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

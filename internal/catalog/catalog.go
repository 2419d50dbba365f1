package catalog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"storefront/internal/model"
)

// Loader defines the interface for loading product catalog files.
type Loader interface {
	// Load reads a gzipped NDJSON catalog and returns its product entries.
	Load(ctx context.Context, path string) ([]model.ProductRequest, error)
}

// maxLineBytes bounds a single catalog entry.
const maxLineBytes = 1024 * 1024

// Decode reads a gzipped stream holding one JSON product per line.
// Blank lines are skipped.
func Decode(ctx context.Context, r io.Reader) ([]model.ProductRequest, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var products []model.ProductRequest
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var p model.ProductRequest
		if err := json.Unmarshal([]byte(line), &p); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		products = append(products, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	return products, nil
}

// Encode writes products to w as gzipped NDJSON, the format Decode reads.
func Encode(w io.Writer, products []model.ProductRequest) error {
	gzipWriter := gzip.NewWriter(w)
	enc := json.NewEncoder(gzipWriter)

	for i := range products {
		if err := enc.Encode(&products[i]); err != nil {
			gzipWriter.Close()
			return fmt.Errorf("failed to encode product %d: %w", i, err)
		}
	}

	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush catalog: %w", err)
	}
	return nil
}

// cmd/sheets.go
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/xkilldash9x/termrender/internal/browser/dom"
	"github.com/xkilldash9x/termrender/internal/browser/parser"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentReads bounds how many stylesheet files are read at once.
const maxConcurrentReads = 8

// loadStyleSheets reads and parses the stylesheet files concurrently. The
// result keeps the order of paths, which is the cascade order.
func loadStyleSheets(ctx context.Context, paths []string) ([]parser.StyleSheet, error) {
	sheets := make([]parser.StyleSheet, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read stylesheet %s: %w", path, err)
			}
			sheets[i] = parser.Parse(string(data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sheets, nil
}

// loadDocument parses the HTML at path. An empty path or "-" reads stdin.
func loadDocument(path string, stdin io.Reader) (*dom.Document, error) {
	if path == "" || path == "-" {
		doc, err := dom.Parse(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to parse document from stdin: %w", err)
		}
		return doc, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	doc, err := dom.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document %s: %w", path, err)
	}
	return doc, nil
}

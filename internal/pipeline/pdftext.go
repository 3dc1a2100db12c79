package pipeline

import (
	"bytes"
	"fmt"
	"runtime"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"
)

// extractPDFText pulls plain text from a PDF, page by page with bounded
// parallelism, and joins the pages in document order truncated to budget.
// The document is validated with a page count probe before any page work
// starts so malformed files fail in one place.
func extractPDFText(data []byte, budget int) (string, error) {
	pageCount, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	if pageCount == 0 {
		return "", nil
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	pages := make([]string, pageCount)

	g := new(errgroup.Group)
	g.SetLimit(pageWorkers(pageCount))

	for i := range pageCount {
		g.Go(func() error {
			page := reader.Page(i + 1)
			if page.V.IsNull() {
				return nil
			}

			text, err := page.GetPlainText(nil)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}

			pages[i] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var sb strings.Builder
	for _, text := range pages {
		sb.WriteString(text)
		if sb.Len() >= budget {
			break
		}
	}

	return truncate(sb.String(), budget), nil
}

func pageWorkers(pageCount int) int {
	return max(min(runtime.NumCPU(), pageCount), 1)
}

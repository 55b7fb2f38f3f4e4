package crawler

import (
	"context"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// fetchPDF downloads a PDF and extracts its page text with go-fitz.
// Only reached when the pdf extra loader is enabled.
func (c *Crawler) fetchPDF(ctx context.Context, pageURL string) (Document, error) {
	body, _, err := c.get(ctx, pageURL)
	if err != nil {
		return Document{}, err
	}

	doc, err := fitz.NewFromMemory(body)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var text strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			// Skip pages that cannot be extracted
			continue
		}
		text.WriteString(pageText)
		text.WriteString("\n\n")
	}

	return Document{URL: pageURL, Content: text.String()}, nil
}

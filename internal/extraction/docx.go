package extraction

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nguyenthenguyen/docx"
)

// paragraphBreaks maps WordprocessingML layout elements to the whitespace they
// render as, so the markup can be stripped without gluing words together.
var paragraphBreaks = strings.NewReplacer(
	"</w:p>", "\n",
	"<w:br/>", "\n",
	"<w:tab/>", "\t",
)

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}
	defer func() { _ = doc.Close() }()

	content := paragraphBreaks.Replace(doc.Editable().GetContent())
	return stripMarkup(content)
}

func stripMarkup(content string) (string, error) {
	root, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse document markup: %w", err)
	}
	return root.Text(), nil
}

// Package extract converts HTML dataset landing pages into clean Markdown
// descriptions. It backs the import workflow (seeding a dataset description
// from a web page) and terminal rendering of stored descriptions.
package extract

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// Description extracts the main content from an HTML page and converts it to
// Markdown, suitable for storing as a dataset description.
//
// Parameters:
//   - content: io.Reader containing HTML
//   - selector: optional CSS selector restricting extraction to matching
//     elements; when empty, readability-based main-content extraction is used
//   - baseURL: optional page URL for context during readability extraction
//
// Returns clean Markdown or an error if extraction/conversion fails.
func Description(content io.Reader, selector string, baseURL *url.URL) (string, error) {
	if selector != "" {
		return descriptionFromSelector(content, selector)
	}

	if baseURL == nil {
		baseURL = &url.URL{}
	}

	article, err := readability.FromReader(content, baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract main content: %w", err)
	}

	return Render(article.Content)
}

// descriptionFromSelector extracts the elements matching a CSS selector and
// converts them to Markdown.
func descriptionFromSelector(content io.Reader, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	selection := doc.Find(selector)
	if selection.Length() == 0 {
		return "", fmt.Errorf("no elements found matching selector: %s", selector)
	}

	var htmlParts []string
	selection.Each(func(i int, s *goquery.Selection) {
		html, err := s.Html()
		if err == nil {
			// wrap each element to preserve structure
			tagName := goquery.NodeName(s)
			htmlParts = append(htmlParts, fmt.Sprintf("<%s>%s</%s>", tagName, html, tagName))
		}
	})

	if len(htmlParts) == 0 {
		return "", fmt.Errorf("failed to extract HTML from selection")
	}

	return Render(strings.Join(htmlParts, "\n"))
}

// Render converts an HTML fragment (such as a stored dataset description) to
// clean Markdown for terminal display.
func Render(htmlString string) (string, error) {
	converter := md.NewConverter("", true, nil)

	// tidy up excessive whitespace in converted elements
	converter.Use(md.Plugin(func(c *md.Converter) []md.Rule {
		return []md.Rule{
			{
				Filter: []string{"*"},
				Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
					cleaned := strings.TrimSpace(content)
					result := strings.ReplaceAll(cleaned, "\n\n\n", "\n\n")
					return &result
				},
			},
		}
	}))

	markdown, err := converter.ConvertString(htmlString)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}

	cleaned := strings.TrimSpace(markdown)
	cleaned = strings.ReplaceAll(cleaned, "\n\n\n", "\n\n")

	return cleaned, nil
}

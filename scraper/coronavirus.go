package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	homepageArticleSelector = `article[about="/reopening-during-covid-19-boston"]`
	homepageTextSelector    = "div.field-type-text-long"
	detailColumnSelector    = "div.field.field-label-hidden.field-name-field-left-column.field-type-text-long.field-items"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

var ssmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// CoronavirusUpdate тексты обновления с главной и детальной страниц
type CoronavirusUpdate struct {
	HomepageText string `json:"homepage_text"`
	DetailText   string `json:"detail_text"`
}

// CoronavirusUpdate загружает обе страницы и извлекает текст обновления.
// Тексты уже экранированы для SSML.
func (c *Client) CoronavirusUpdate(ctx context.Context) (*CoronavirusUpdate, error) {
	homepage, err := c.fetchDocument(ctx, c.homepageURL)
	if err != nil {
		return nil, err
	}
	homepageText, err := ExtractHomepageText(homepage)
	if err != nil {
		return nil, err
	}

	detail, err := c.fetchDocument(ctx, c.detailURL)
	if err != nil {
		return nil, err
	}
	detailText, err := ExtractDetailText(detail)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Coronavirus update scraped",
		"homepage_chars", len(homepageText),
		"detail_chars", len(detailText))

	return &CoronavirusUpdate{
		HomepageText: EscapeSSML(homepageText),
		DetailText:   EscapeSSML(detailText),
	}, nil
}

// ExtractHomepageText текст статьи о коронавирусе на главной странице
func ExtractHomepageText(doc *goquery.Document) (string, error) {
	article := doc.Find(homepageArticleSelector).First()
	if article.Length() == 0 {
		return "", fmt.Errorf("%w: homepage article not found", ErrParse)
	}

	textDiv := article.Find(homepageTextSelector).First()
	if textDiv.Length() == 0 {
		return "", fmt.Errorf("%w: homepage article text not found", ErrParse)
	}

	return cleanText(textDiv.Text()), nil
}

// ExtractDetailText текст списков из левой колонки детальной страницы
func ExtractDetailText(doc *goquery.Document) (string, error) {
	column := doc.Find(detailColumnSelector).First()
	if column.Length() == 0 {
		return "", fmt.Errorf("%w: detail column not found", ErrParse)
	}

	var parts []string
	for node := column.Get(0).FirstChild; node != nil; node = node.NextSibling {
		if node.Type == html.ElementNode && node.DataAtom == atom.Ul {
			parts = append(parts, goquery.NewDocumentFromNode(node).Text())
		}
	}

	return cleanText(strings.Join(parts, " ")), nil
}

// EscapeSSML экранирует спецсимволы XML для SSML-ответа
func EscapeSSML(text string) string {
	return ssmlReplacer.Replace(text)
}

func cleanText(text string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

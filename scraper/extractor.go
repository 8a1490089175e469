package scraper

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

type ExtractMode string

const (
	ModeBasic       ExtractMode = "basic"
	ModeReadability ExtractMode = "readability"
	ModeTrafilatura ExtractMode = "trafilatura"
)

func ParseExtractMode(s string) (ExtractMode, error) {
	switch mode := ExtractMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case ModeBasic, ModeReadability, ModeTrafilatura:
		return mode, nil
	case "":
		return ModeBasic, nil
	default:
		return "", fmt.Errorf("unknown extract mode %q", s)
	}
}

var (
	unwantedTags    = "script, style, nav, header, footer, aside, iframe, noscript"
	unwantedClasses = []string{"advertisement", "ads", "banner", "popup", "modal", "cookie", "privacy"}
)

type Content struct {
	Title    string
	Text     string
	Markdown string
}

const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Body returns the representation handed to cleaning and compression. Markdown
// keeps headings and list structure, so it wins when the extractor produced it.
func (c *Content) Body() (string, string) {
	if strings.TrimSpace(c.Markdown) != "" {
		return c.Markdown, FormatMarkdown
	}
	return c.Text, FormatText
}

type Extractor struct {
	mode   ExtractMode
	logger *zap.Logger
}

func NewExtractor(mode ExtractMode, logger *zap.Logger) *Extractor {
	return &Extractor{mode: mode, logger: logger}
}

// Extract pulls the readable text out of an HTML page.
func (e *Extractor) Extract(body []byte, pageURL string) (*Content, error) {
	switch e.mode {
	case ModeReadability:
		return e.ExtractWithReadability(body, pageURL)
	case ModeTrafilatura:
		return e.ExtractWithTrafilatura(body, pageURL)
	default:
		return e.ExtractBasic(body)
	}
}

// ExtractBasic drops layout and advertising elements and returns the body text.
func (e *Extractor) ExtractBasic(body []byte) (*Content, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(unwantedTags).Remove()
	doc.Find("[class]").Each(func(_ int, s *goquery.Selection) {
		class := strings.ToLower(s.AttrOr("class", ""))
		for _, name := range unwantedClasses {
			if strings.Contains(class, name) {
				s.Remove()
				return
			}
		}
	})

	title := strings.TrimSpace(doc.Find("title").First().Text())
	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	text := nodeText(root)
	e.logger.Info("basic_extraction_result",
		zap.String("title", title),
		zap.Int("text_length", len(text)))

	return &Content{Title: title, Text: text}, nil
}

func (e *Extractor) ExtractWithReadability(body []byte, pageURL string) (*Content, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		e.logger.Error("readability: failed to parse URL", zap.Error(err))
		return nil, err
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		e.logger.Error("readability: extraction failed", zap.Error(err))
		return nil, fmt.Errorf("readability extraction failed: %w", err)
	}

	e.logger.Info("readability_extraction_result",
		zap.String("url", pageURL),
		zap.String("title", article.Title),
		zap.Int("text_length", len(article.TextContent)))

	return &Content{Title: article.Title, Text: article.TextContent}, nil
}

func (e *Extractor) ExtractWithTrafilatura(body []byte, pageURL string) (*Content, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		e.logger.Error("trafilatura: failed to parse URL", zap.Error(err))
		return nil, err
	}

	result, err := trafilatura.Extract(bytes.NewReader(body), trafilatura.Options{OriginalURL: parsedURL})
	if err != nil {
		e.logger.Error("trafilatura: extraction failed", zap.Error(err))
		return nil, fmt.Errorf("trafilatura extraction failed: %w", err)
	}

	content := &Content{
		Title: result.Metadata.Title,
		Text:  result.ContentText,
	}

	if result.ContentNode != nil {
		htmlStr, err := renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
		markdown, err := htmltomarkdown.ConvertString(htmlStr)
		if err != nil {
			return nil, fmt.Errorf("failed to convert content to markdown: %w", err)
		}
		content.Markdown = markdown
	}

	e.logger.Info("trafilatura_extraction_result",
		zap.String("url", pageURL),
		zap.String("title", content.Title),
		zap.String("language", result.Metadata.Language),
		zap.Int("text_length", len(content.Text)),
		zap.Int("markdown_length", len(content.Markdown)))

	return content, nil
}

// nodeText joins text nodes with spaces so adjacent block elements do not run together.
func nodeText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		collectText(n, &b)
	}
	return b.String()
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

package extractor

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-product/parser"
)

// HTMLDocument is a Document backed by a parsed goquery tree.
type HTMLDocument struct {
	doc *goquery.Document
}

// NewHTMLDocument parses the page HTML read from r.
func NewHTMLDocument(r io.Reader) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &HTMLDocument{doc: doc}, nil
}

// FindFirst returns the first element matching the locator. An invalid
// selector matches nothing.
func (d *HTMLDocument) FindFirst(kind LocatorKind, value string) (Element, bool) {
	if value == "" {
		return nil, false
	}

	var selector string
	switch kind {
	case ByID:
		selector = fmt.Sprintf("[id=%q]", value)
	case ByClass:
		selector = fmt.Sprintf("[class~=%q]", value)
	case ByCSS:
		selector = value
	default:
		return nil, false
	}

	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return htmlElement{sel: sel}, true
}

type htmlElement struct {
	sel *goquery.Selection
}

func (e htmlElement) Text() string {
	return parser.CleanText(e.sel.Text())
}

func (e htmlElement) Attribute(name string) (string, bool) {
	switch name {
	case "innerHTML":
		html, err := e.sel.Html()
		if err != nil {
			return "", false
		}
		return html, true
	case "outerHTML":
		html, err := goquery.OuterHtml(e.sel)
		if err != nil {
			return "", false
		}
		return html, true
	}
	return e.sel.Attr(name)
}

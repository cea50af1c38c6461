package extract

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// HTMLDocument is a Document over static markup, such as a saved search page.
// Intrinsic sizes come from the width/height attributes, or data-width and
// data-height when those are missing.
type HTMLDocument struct {
	doc *goquery.Document
}

// ParseHTML reads a static page.
func ParseHTML(r io.Reader) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &HTMLDocument{doc: doc}, nil
}

// ParseHTMLBytes is ParseHTML over a byte slice.
func ParseHTMLBytes(b []byte) (*HTMLDocument, error) {
	return ParseHTML(bytes.NewReader(b))
}

func (d *HTMLDocument) Images() []Element {
	var out []Element
	d.doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		out = append(out, htmlImage{s: s})
	})
	return out
}

type htmlImage struct {
	s *goquery.Selection
}

func (h htmlImage) Attr(name string) (string, bool) {
	return h.s.Attr(name)
}

func (h htmlImage) NaturalSize() (int, int) {
	return h.dimension("width"), h.dimension("height")
}

func (h htmlImage) dimension(name string) int {
	for _, attr := range []string{name, "data-" + name} {
		v, ok := h.s.Attr(attr)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err == nil && n > 0 {
			return n
		}
	}
	return 0
}

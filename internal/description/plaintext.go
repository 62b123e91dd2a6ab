package description

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// PlainText unescapes HTML entities, drops all markup and returns the text
// content in Unicode NFC form. Leading and trailing whitespace is preserved.
// It never fails: input the HTML parser cannot handle is returned unescaped.
func PlainText(s string) string {
	if s == "" {
		return ""
	}

	unescaped := html.UnescapeString(s)
	if !strings.ContainsAny(unescaped, "<&\r\x00") {
		return norm.NFC.String(unescaped)
	}

	// Parsed as the children of <body> so that leading whitespace, which the
	// document parser discards before <html>, survives.
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(unescaped), context)
	if err != nil {
		return norm.NFC.String(unescaped)
	}

	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(goquery.NewDocumentFromNode(n).Text())
	}
	return norm.NFC.String(b.String())
}

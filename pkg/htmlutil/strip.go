// Package htmlutil turns HTML fragments, such as pasted book summaries, into
// plain text.
package htmlutil

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockTags end a line of text when they close.
var blockTags = map[atom.Atom]bool{
	atom.P:   true,
	atom.Div: true,
	atom.Li:  true,
	atom.H1:  true,
	atom.H2:  true,
	atom.H3:  true,
	atom.H4:  true,
	atom.H5:  true,
	atom.H6:  true,
	atom.Tr:  true,
}

// skippedTags have content that is never shown as text.
var skippedTags = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
}

// StripTags removes all HTML tags from a string and normalizes whitespace.
// Entities are decoded. Block-level elements and <br> become line breaks, and
// runs of spaces within a line collapse to one.
func StripTags(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	skipping := 0
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF, or a malformed tail that can't be tokenized further.
			break
		}

		tok := z.Token()
		//exhaustive:ignore
		switch tt {
		case html.TextToken:
			if skipping == 0 {
				b.WriteString(tok.Data)
			}
		case html.StartTagToken:
			if skippedTags[tok.DataAtom] {
				skipping++
			}
			if tok.DataAtom == atom.Br {
				b.WriteByte('\n')
			}
		case html.SelfClosingTagToken:
			if tok.DataAtom == atom.Br {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			if skippedTags[tok.DataAtom] && skipping > 0 {
				skipping--
			}
			if blockTags[tok.DataAtom] {
				b.WriteByte('\n')
			}
		}
	}

	lines := strings.Split(b.String(), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		// strings.Fields also splits on non-breaking spaces from &nbsp;.
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

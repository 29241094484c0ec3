package ui

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// renderMarkdown converts an assistant answer (the provider responds in
// markdown with bold headings and numbered lists) to HTML.
func renderMarkdown(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return string(markdown.ToHTML([]byte(md), p, renderer))
}

// handleSessionHistoryHTML renders one session transcript as a minimal HTML
// page, with assistant markdown converted and user text escaped.
func (a *App) handleSessionHistoryHTML(w http.ResponseWriter, r *http.Request) {
	transcript, err := a.sessionFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><title>")
	b.WriteString(html.EscapeString(transcript.Title))
	b.WriteString("</title></head><body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(transcript.Title))
	for _, m := range transcript.Messages {
		if m.IsUserMessage {
			fmt.Fprintf(&b, "<div class=\"user\"><strong>User:</strong> %s</div>\n", html.EscapeString(m.Content))
		} else {
			fmt.Fprintf(&b, "<div class=\"assistant\">%s</div>\n", renderMarkdown(m.Content))
		}
	}
	b.WriteString("</body></html>\n")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(b.String()))
}

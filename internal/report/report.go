// Package report builds the relationship status document and renders it for
// terminals. The document is static text and emoji shaped like a software
// status report: an issue tracker, a roadmap, a tech stack. It never contains
// code blocks.
package report

import (
	"bytes"
	"strconv"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/nao1215/markdown"

	"heartrain/internal/store"
	"heartrain/internal/theme"
)

// DefaultWidth is the word-wrap width used when the caller does not know the
// terminal size.
const DefaultWidth = 80

// BuildOptions selects the variable parts of the document. Zero values give
// the stock report.
type BuildOptions struct {
	// GeneratedAt stamps the footer. Zero means time.Now().
	GeneratedAt time.Time

	// Theme supplies the message pool for the tech stack section. Nil means
	// the built-in theme.
	Theme *theme.Theme

	// Totals, when non-nil with at least one session, adds a session metrics
	// section.
	Totals *store.Totals
}

// Build constructs the status document as markdown bytes.
func Build(opts BuildOptions) ([]byte, error) {
	th := opts.Theme
	if th == nil {
		th = theme.Default()
	}
	generated := opts.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	md.H1("Relationship Status 💚")
	md.PlainText("")
	md.PlainText("A status report from production. The metrics are made up; the feelings are real.")
	md.PlainText("")

	md.H2("Current Status")
	md.PlainText("")
	md.BulletList(
		"Overall: "+markdown.Bold("Beta")+" (works on my heart)",
		"Ex-partner service: "+markdown.Bold("404 Error")+" (decommissioned)",
		"Commitment module: "+markdown.Bold("Loading...")+" (do not refresh)",
	)
	md.PlainText("")

	md.H2("Known Issues")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Report", "Severity", "Resolution"},
		Rows: [][]string{
			{"#12", "Forgot anniversary", "critical", "hotfixed with flowers 💐"},
			{"#23", "Says \"I'm fine\" under load", "high", "cannot reproduce"},
			{"#31", "Hogs the blanket at night", "medium", "wontfix 💤"},
			{"#47", "Replies \"k\" to paragraphs", "high", "in review"},
			{"#58", "Eats fries off shared plate", "low", "working as intended 🍟"},
		},
	})
	md.PlainText("")

	md.H2("Roadmap")
	md.PlainText("")
	md.CheckBox([]markdown.CheckBoxSet{
		{Checked: true, Text: "First date handshake"},
		{Checked: true, Text: "Meet-the-parents integration"},
		{Checked: false, Text: "Shared apartment deployment"},
		{Checked: false, Text: "Ring delivery 💍 (v2.0.0)"},
	})
	md.PlainText("")

	md.H2("Tech Stack")
	md.PlainText("")
	md.PlainText("Long-running services:")
	md.PlainText("")
	md.BulletList(th.Messages...)
	md.PlainText("")

	if t := opts.Totals; t != nil && t.Sessions > 0 {
		md.H2("Session Metrics")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Metric", "Value"},
			Rows: [][]string{
				{"Animation sessions", strconv.FormatInt(t.Sessions, 10)},
				{"Hearts rained", strconv.FormatInt(t.TotalHearts, 10)},
				{"Peak hearts on screen", strconv.Itoa(t.MaxPeak)},
				{"Time spent watching", t.TotalDuration.Round(time.Second).String()},
				{"Longest session", t.Longest.Round(time.Second).String()},
			},
		})
		md.PlainText("")
	}

	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated %s. No relationships were harmed in the rendering of this document.*",
		generated.Format("2006-01-02"))

	if err := md.Build(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderTerminal renders the document with terminal styling. A non-positive
// width falls back to DefaultWidth. Rendering failures fall back to the raw
// markdown so the report always prints.
func RenderTerminal(doc []byte, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil || renderer == nil {
		return string(doc)
	}
	return safeRender(renderer, string(doc))
}

// safeRender renders markdown with panic recovery.
func safeRender(r *glamour.TermRenderer, content string) (result string) {
	defer func() {
		if rec := recover(); rec != nil {
			// If glamour panics, return plain text
			result = content
		}
	}()

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

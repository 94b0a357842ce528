// Package doccheck validates that a status document keeps the promises a
// README of this kind makes: it parses as markdown, it holds static text and
// emoji only, and it carries no executable code blocks.
package doccheck

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/forPelevin/gomoji"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Check names a single document property.
type Check string

const (
	CheckParses     Check = "parses-as-markdown"
	CheckNonEmpty   Check = "non-empty"
	CheckNoCode     Check = "no-code-blocks"
	CheckStaticText Check = "static-text-and-emoji"
	CheckIdempotent Check = "idempotent-render"
)

// Result is the outcome of one check against one document.
type Result struct {
	Check  Check  `json:"check"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// Report collects the results of all checks for a document, along with the
// emoji census the static-text check counts against.
type Report struct {
	Path    string   `json:"path,omitempty"`
	Results []Result `json:"results"`
	Census  Census   `json:"census"`
}

// OK reports whether every check passed.
func (r Report) OK() bool {
	for _, res := range r.Results {
		if !res.Passed {
			return false
		}
	}
	return true
}

// Failures returns the failed results in check order.
func (r Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed {
			out = append(out, res)
		}
	}
	return out
}

// String renders the report one check per line, details on failures, with
// the emoji census on the last line.
func (r Report) String() string {
	var sb strings.Builder
	if r.Path != "" {
		fmt.Fprintf(&sb, "%s:\n", r.Path)
	}
	for _, res := range r.Results {
		verdict := "ok"
		if !res.Passed {
			verdict = "FAIL"
		}
		fmt.Fprintf(&sb, "  %-24s %s", string(res.Check), verdict)
		if res.Detail != "" && !res.Passed {
			fmt.Fprintf(&sb, "  (%s)", res.Detail)
		}
		sb.WriteByte('\n')
	}
	if r.Census.Total > 0 {
		fmt.Fprintf(&sb, "  %-24s %d total, %d distinct: %s\n",
			"emoji census", r.Census.Total, len(r.Census.Distinct),
			strings.Join(r.Census.Distinct, " "))
	} else {
		fmt.Fprintf(&sb, "  %-24s none\n", "emoji census")
	}
	return sb.String()
}

// engine is stateless, so a single instance serves all checks.
var engine = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Run executes every check against src and takes the emoji census. Checks
// are independent; a failed parse does not stop the remaining checks.
func Run(src []byte) Report {
	return Report{
		Results: []Result{
			checkParses(src),
			checkNonEmpty(src),
			checkNoCodeBlocks(src),
			checkStaticText(src),
			checkIdempotentRender(src),
		},
		Census: TakeCensus(src),
	}
}

// renderHTML converts markdown to HTML, turning renderer panics into errors
// so a hostile document cannot take the process down.
func renderHTML(src []byte) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("markdown render panicked: %v", r)
		}
	}()

	var buf bytes.Buffer
	if err := engine.Convert(src, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// checkParses parses the document and walks the tree, verifying the
// structural nodes are well formed: heading levels 1-6, emphasis levels 1-2,
// list markers the renderer understands, and a traversal that completes.
func checkParses(src []byte) Result {
	if !utf8.Valid(src) {
		return Result{Check: CheckParses, Detail: "document is not valid UTF-8"}
	}

	doc := engine.Parser().Parse(text.NewReader(src))
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Heading:
			if v.Level < 1 || v.Level > 6 {
				return ast.WalkStop, fmt.Errorf("heading level %d out of range", v.Level)
			}
		case *ast.Emphasis:
			if v.Level < 1 || v.Level > 2 {
				return ast.WalkStop, fmt.Errorf("emphasis level %d out of range", v.Level)
			}
		case *ast.List:
			switch v.Marker {
			case '-', '+', '*', '.', ')':
			default:
				return ast.WalkStop, fmt.Errorf("list marker %q unrecognized", v.Marker)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return Result{Check: CheckParses, Detail: err.Error()}
	}

	if _, err := renderHTML(src); err != nil {
		return Result{Check: CheckParses, Detail: err.Error()}
	}
	return Result{Check: CheckParses, Passed: true}
}

func checkNonEmpty(src []byte) Result {
	if len(bytes.TrimSpace(src)) == 0 {
		return Result{Check: CheckNonEmpty, Detail: "document has no content"}
	}
	return Result{Check: CheckNonEmpty, Passed: true}
}

func checkNoCodeBlocks(src []byte) Result {
	doc := engine.Parser().Parse(text.NewReader(src))

	blocks := 0
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			blocks++
		}
		return ast.WalkContinue, nil
	})

	if blocks > 0 {
		return Result{
			Check:  CheckNoCode,
			Detail: fmt.Sprintf("found %d code block(s); expected none", blocks),
		}
	}
	return Result{Check: CheckNoCode, Passed: true}
}

func checkStaticText(src []byte) Result {
	if !utf8.Valid(src) {
		return Result{Check: CheckStaticText, Detail: "document is not valid UTF-8"}
	}

	stripped := gomoji.RemoveEmojis(string(src))
	for _, r := range stripped {
		if r == '\n' || r == '\t' || r == '\r' {
			continue
		}
		if unicode.IsControl(r) {
			return Result{
				Check:  CheckStaticText,
				Detail: fmt.Sprintf("control character %q outside text and emoji", r),
			}
		}
	}
	return Result{Check: CheckStaticText, Passed: true}
}

func checkIdempotentRender(src []byte) Result {
	first, err := renderHTML(src)
	if err != nil {
		return Result{Check: CheckIdempotent, Detail: err.Error()}
	}
	second, err := renderHTML(src)
	if err != nil {
		return Result{Check: CheckIdempotent, Detail: err.Error()}
	}
	if !bytes.Equal(first, second) {
		return Result{Check: CheckIdempotent, Detail: "two renders of the same source differ"}
	}
	return Result{Check: CheckIdempotent, Passed: true}
}

// Census summarizes the emoji population of a document.
type Census struct {
	Total    int      `json:"total"`
	Distinct []string `json:"distinct,omitempty"`
}

// TakeCensus counts emoji occurrences in src. Distinct glyphs are listed in
// order of first appearance.
func TakeCensus(src []byte) Census {
	s := string(src)
	found := gomoji.FindAll(s)

	var census Census
	seen := make(map[string]struct{}, len(found))
	for _, e := range found {
		if _, ok := seen[e.Character]; ok {
			continue
		}
		seen[e.Character] = struct{}{}
		census.Distinct = append(census.Distinct, e.Character)
		census.Total += strings.Count(s, e.Character)
	}
	return census
}

package doccheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statusDoc = `# Relationship Status 💚

Current status: **Beta** ✨

| Issue | State |
|-------|-------|
| Forgot anniversary | 404 Error |
| Listening module | Loading... |

- [x] First date
- [ ] Meet the parents
`

func resultFor(t *testing.T, r Report, check Check) Result {
	t.Helper()
	for _, res := range r.Results {
		if res.Check == check {
			return res
		}
	}
	t.Fatalf("report has no result for %s", check)
	return Result{}
}

func TestRunPassesOnStatusDocument(t *testing.T) {
	report := Run([]byte(statusDoc))

	assert.True(t, report.OK(), "failures: %+v", report.Failures())
	assert.Len(t, report.Results, 5)
	assert.Empty(t, report.Failures())
}

func TestRunFlagsEmptyDocument(t *testing.T) {
	for _, src := range []string{"", "   \n\t\n"} {
		report := Run([]byte(src))

		assert.False(t, report.OK())
		failures := report.Failures()
		require.Len(t, failures, 1)
		assert.Equal(t, CheckNonEmpty, failures[0].Check)
	}
}

func TestNoCodeBlocks(t *testing.T) {
	tests := []struct {
		name string
		src  string
		pass bool
	}{
		{
			name: "fenced block",
			src:  "# Hi\n\n```go\nfmt.Println(\"hi\")\n```\n",
			pass: false,
		},
		{
			name: "indented block",
			src:  "Some text.\n\n    rm -rf /\n",
			pass: false,
		},
		{
			name: "inline code span",
			src:  "Status: `404 Error` today.\n",
			pass: true,
		},
		{
			name: "plain prose",
			src:  "Just words and a heart 💚.\n",
			pass: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Run([]byte(tt.src))
			res := resultFor(t, report, CheckNoCode)
			assert.Equal(t, tt.pass, res.Passed, "detail: %s", res.Detail)
		})
	}
}

func TestStaticTextAndEmoji(t *testing.T) {
	t.Run("text with emoji passes", func(t *testing.T) {
		report := Run([]byte("Loading... 💖💗\tstill loading\r\n"))
		res := resultFor(t, report, CheckStaticText)
		assert.True(t, res.Passed, "detail: %s", res.Detail)
	})

	t.Run("control character fails", func(t *testing.T) {
		report := Run([]byte("beep\x07boop"))
		res := resultFor(t, report, CheckStaticText)
		assert.False(t, res.Passed)
		assert.Contains(t, res.Detail, "control character")
	})

	t.Run("invalid utf8 fails", func(t *testing.T) {
		report := Run([]byte{0x48, 0x69, 0xff, 0xfe})
		res := resultFor(t, report, CheckStaticText)
		assert.False(t, res.Passed)
		res = resultFor(t, report, CheckParses)
		assert.False(t, res.Passed)
	})
}

func TestIdempotentRender(t *testing.T) {
	report := Run([]byte(statusDoc))
	res := resultFor(t, report, CheckIdempotent)
	assert.True(t, res.Passed, "detail: %s", res.Detail)
}

func TestReportString(t *testing.T) {
	report := Run([]byte(statusDoc))
	report.Path = "README.md"

	out := report.String()
	assert.Contains(t, out, "README.md:")
	assert.Contains(t, out, "parses-as-markdown")
	assert.Contains(t, out, "ok")
	assert.NotContains(t, out, "FAIL")

	failing := Run(nil)
	out = failing.String()
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "non-empty")
}

func TestReportStringCensus(t *testing.T) {
	report := Run([]byte("💚 one 💚 two ✨"))

	assert.Equal(t, 3, report.Census.Total)
	out := report.String()
	assert.Contains(t, out, "emoji census")
	assert.Contains(t, out, "3 total")
	assert.Contains(t, out, "2 distinct")
	assert.Contains(t, out, "💚")

	plain := Run([]byte("plain text"))
	assert.Contains(t, plain.String(), "none")
}

func TestParsesStructuredDocument(t *testing.T) {
	src := `# Top

## Second

Some *light* and **strong** emphasis.

- one
- two
  1. nested
  2. ordered

###### Sixth
`
	report := Run([]byte(src))
	res := resultFor(t, report, CheckParses)
	assert.True(t, res.Passed, "detail: %s", res.Detail)
}

func TestTakeCensus(t *testing.T) {
	census := TakeCensus([]byte("💚 hello 💚 world ✨"))

	assert.Equal(t, 3, census.Total)
	assert.Equal(t, []string{"💚", "✨"}, census.Distinct)
}

func TestTakeCensusNoEmoji(t *testing.T) {
	census := TakeCensus([]byte("plain text only"))

	assert.Zero(t, census.Total)
	assert.Empty(t, census.Distinct)
}

package render

import (
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/gerunddev/vaultview/internal/markdown"
)

func plain(nodes []markdown.Node, width int) []string {
	var out []string
	for line := range Render(nodes, width, WithTheme(PlainTheme())).Lines() {
		out = append(out, line.Plain())
	}
	return out
}

func parse(src string) []markdown.Node {
	return markdown.ParseString(src).Nodes
}

func nestQuotes(depth int, leaf markdown.Node) markdown.Node {
	n := leaf
	for range depth {
		n = &markdown.BlockQuote{Children: []markdown.Node{n}}
	}
	return n
}

var corpus = []string{
	"# Heading one\n\nSome *emphasis* and **strong** text that goes on for a while.\n",
	"## Second\n\n- item one with several words\n- [x] done task\n- [ ] open task\n\n1. first\n2. second\n",
	"> quoted text that wraps\n> > nested quote with more words\n",
	"```go\nfunc main() {\n\tprintln(\"hello, world\")\n}\n```\n",
	"日本語のテキストと English words mixed together ==highlighted== ~~gone~~\n",
	"###### tiny heading\n\n##### script heading\n\n[[Some Note|label]] and `code span`\n",
	"- a\n  - b\n    - c\n      > deep quote in a list\n",
	"---\n\n| a | b |\n|---|---|\n| 1 | 2 |\n",
}

func TestRenderRespectsWidth(t *testing.T) {
	for i, src := range corpus {
		nodes := parse(src)
		for width := 1; width <= 60; width++ {
			for line := range Render(nodes, width).Lines() {
				if w := line.Width(); w > width {
					t.Fatalf("doc %d width %d: line %q is %d columns", i, width, line.Plain(), w)
				}
			}
		}
	}
}

func TestRenderHeight(t *testing.T) {
	if h := Render(nil, 80).Height(); h != 0 {
		t.Errorf("empty document height = %d, want 0", h)
	}
	for i, src := range corpus {
		v := Render(parse(src), 30)
		n := 0
		for range v.Lines() {
			n++
		}
		if v.Height() != n {
			t.Errorf("doc %d: Height() = %d, lines = %d", i, v.Height(), n)
		}
	}
}

func TestRenderRestartable(t *testing.T) {
	v := Render(parse(corpus[1]), 25, WithTheme(PlainTheme()))

	var first, second []string
	for line := range v.Lines() {
		first = append(first, line.Plain())
	}
	for line := range v.Lines() {
		second = append(second, line.Plain())
		if len(second) == 2 {
			break
		}
	}
	for line := range v.Lines() {
		second = append(second, line.Plain())
	}
	if !slices.Equal(first, second[2:]) {
		t.Errorf("second pass = %q, want %q", second[2:], first)
	}
	if !slices.Equal(first[:2], second[:2]) {
		t.Errorf("partial pass = %q, want %q", second[:2], first[:2])
	}
}

func TestRenderWindow(t *testing.T) {
	v := Render(parse("one\n\ntwo\n\nthree\n"), 20, WithTheme(PlainTheme()))
	got := v.Window(2, 2)
	if len(got) != 2 || got[0].Plain() != "two" || got[1].Plain() != "" {
		t.Errorf("Window(2, 2) = %v", got)
	}
	if got := v.Window(10, 3); len(got) != 0 {
		t.Errorf("Window past end = %v, want empty", got)
	}
	if got := v.Window(0, 0); got != nil {
		t.Errorf("Window(0, 0) = %v, want nil", got)
	}
}

func TestRenderSeparators(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"paragraphs", "para one\n\npara two\n", []string{"para one", "", "para two"}},
		{"quote", "> a\n>\n> b\n", []string{"┃ a", "┃ ", "┃ b"}},
		{"tight list", "- a\n- b\n", []string{"- a", "- b"}},
		{"nested list", "- a\n  - b\n", []string{"- a", "  - b"}},
		{"nested quote", "> > nested\n", []string{"┃ ┃ nested"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := plain(parse(tt.src), 40)
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderHeadings(t *testing.T) {
	got := plain(parse("# Title\n"), 10)
	want := []string{"█ TITLE", strings.Repeat("▀", 10)}
	if !slices.Equal(got, want) {
		t.Errorf("h1 = %q, want %q", got, want)
	}

	got = plain(parse("## Sub\n"), 6)
	want = []string{"▓ Sub", strings.Repeat("═", 6)}
	if !slices.Equal(got, want) {
		t.Errorf("h2 = %q, want %q", got, want)
	}

	if got := plain(parse("### Three\n"), 20); !slices.Equal(got, []string{"▒ Three"}) {
		t.Errorf("h3 = %q", got)
	}
	if got := plain(parse("##### abc\n"), 20); !slices.Equal(got, []string{"▪ 𝖆𝖇𝖈"}) {
		t.Errorf("h5 = %q", got)
	}
	if got := plain(parse("###### CAb\n"), 20); !slices.Equal(got, []string{"· ℂ𝔸𝕓"}) {
		t.Errorf("h6 = %q", got)
	}

	for line := range Render(parse("### Bold me\n"), 20).Lines() {
		for _, s := range line.Spans[1:] {
			if !s.Style.Has(markdown.Bold) {
				t.Errorf("heading span %q not bold", s.Text)
			}
		}
	}
}

func TestRenderHeadingWraps(t *testing.T) {
	got := plain(parse("### aaa bbb\n"), 6)
	want := []string{"▒ aaa", "  bbb"}
	if !slices.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderEmptyHeading(t *testing.T) {
	h := &markdown.Heading{Level: 3}
	if got := plain([]markdown.Node{h}, 20); !slices.Equal(got, []string{"▒ "}) {
		t.Errorf("got %q", got)
	}
}

func TestRenderTasks(t *testing.T) {
	got := plain(parse("- [x] done\n- [?] maybe\n- [ ] open\n"), 40)
	want := []string{"- ■ done", "- ■ maybe", "- □ open"}
	if !slices.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderOrderedList(t *testing.T) {
	got := plain(parse("1. aaa bbb ccc\n"), 8)
	want := []string{"1. aaa", "  bbb", "  ccc"}
	if !slices.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}

	got = plain(parse("7. seven\n8. eight\n"), 20)
	want = []string{"7. seven", "8. eight"}
	if !slices.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderEmptyItem(t *testing.T) {
	list := &markdown.List{Items: []*markdown.ListItem{{}, {}}}
	got := plain([]markdown.Node{list}, 10)
	want := []string{"- ", "- "}
	if !slices.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderCodeBlock(t *testing.T) {
	v := Render(parse("```go\nfunc main() {}\n\tx\n```\n"), 30, WithTheme(PlainTheme()))
	var lines []Line
	for line := range v.Lines() {
		lines = append(lines, line)
	}
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	for i, line := range lines {
		if line.Width() != 30 {
			t.Errorf("line %d width = %d, want 30", i, line.Width())
		}
	}
	if got := lines[0].Plain(); !strings.HasSuffix(got, "go ") {
		t.Errorf("label line = %q", got)
	}
	if got := lines[1].Plain(); got != " func main() {}"+strings.Repeat(" ", 15) {
		t.Errorf("code line = %q", got)
	}
	if got := lines[2].Plain(); !strings.HasPrefix(got, "     x ") {
		t.Errorf("tab line = %q", got)
	}
	if got := strings.TrimSpace(lines[3].Plain()); got != "" {
		t.Errorf("bottom line = %q", got)
	}
}

func TestRenderCodeClipped(t *testing.T) {
	code := &markdown.CodeBlock{Lines: []string{"0123456789abcdef"}}
	got := plain([]markdown.Node{code}, 10)
	if len(got) != 3 || got[1] != " 012345678" {
		t.Errorf("got %q", got)
	}
}

func TestRenderCodeInQuote(t *testing.T) {
	code := &markdown.CodeBlock{Lines: []string{"x"}}
	got := plain([]markdown.Node{nestQuotes(1, code)}, 8)
	want := []string{"┃       ", "┃  x    ", "┃       "}
	if !slices.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderDeepQuote(t *testing.T) {
	leaf := &markdown.Paragraph{Text: markdown.Plain("deep")}
	got := plain([]markdown.Node{nestQuotes(50, leaf)}, 200)
	want := strings.Repeat("┃ ", 50) + "deep"
	if len(got) != 1 || got[0] != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderDeepQuoteNarrow(t *testing.T) {
	leaf := &markdown.Paragraph{Text: markdown.Plain(strings.Repeat("word ", 40))}
	nodes := []markdown.Node{nestQuotes(50, leaf)}
	for width := 51; width <= 120; width++ {
		lines := plain(nodes, width)
		if len(lines) == 0 {
			t.Fatalf("width %d: no lines", width)
		}
		for _, line := range lines {
			if n := strings.Count(line, "┃"); n != 50 {
				t.Errorf("width %d: %d markers in %q", width, n, line)
			}
			if w := ansi.StringWidth(line); w > width {
				t.Errorf("width %d: line %q is %d wide", width, line, w)
			}
		}
	}

	// Narrow markers only when the full ones would not fit
	if got := plain(nodes, 80)[0]; !strings.HasPrefix(got, strings.Repeat("┃", 50)+"w") {
		t.Errorf("narrow line = %q", got)
	}
	if got := plain(nodes, 101)[0]; !strings.HasPrefix(got, strings.Repeat("┃ ", 50)+"w") {
		t.Errorf("wide line = %q", got)
	}
}

func TestRenderMixedQuoteDepths(t *testing.T) {
	shallow := &markdown.BlockQuote{Children: []markdown.Node{&markdown.Paragraph{Text: markdown.Plain("top")}}}
	deep := nestQuotes(30, &markdown.Paragraph{Text: markdown.Plain("deep")})
	got := plain([]markdown.Node{shallow, deep}, 40)
	want := []string{"┃ top", "", strings.Repeat("┃", 30) + "deep"}
	if !slices.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderPrefixOverflow(t *testing.T) {
	leaf := &markdown.Paragraph{Text: markdown.Plain("hi")}
	nodes := []markdown.Node{nestQuotes(10, leaf)}
	got := plain(nodes, 5)
	want := []string{"┃┃┃┃h", "┃┃┃┃i"}
	if !slices.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}

	for width := 1; width <= 4; width++ {
		var text strings.Builder
		for line := range Render(nodes, width).Lines() {
			if line.Width() > width {
				t.Errorf("width %d: line %q too wide", width, line.Plain())
			}
			text.WriteString(line.Spans[len(line.Spans)-1].Text)
		}
		if text.String() != "hi" {
			t.Errorf("width %d: content = %q, want %q", width, text.String(), "hi")
		}
	}
}

func TestRenderDeepNesting(t *testing.T) {
	leaf := &markdown.Paragraph{Text: markdown.Plain("bottom")}
	v := Render([]markdown.Node{nestQuotes(10000, leaf)}, 80)
	if h := v.Height(); h != 6 {
		t.Errorf("height = %d, want 6", h)
	}
}

func TestRenderSourceRanges(t *testing.T) {
	nodes := parse("# Head\n\nbody text\n")
	want := []markdown.Range{nodes[0].Range(), nodes[0].Range(), {}, nodes[1].Range()}
	var got []markdown.Range
	for line := range Render(nodes, 40).Lines() {
		got = append(got, line.Source)
	}
	if !slices.Equal(got, want) {
		t.Errorf("sources = %v, want %v", got, want)
	}
}

func TestRenderInlineStyles(t *testing.T) {
	v := Render(parse("plain **bold** `code`\n"), 40)
	var styles []markdown.Flags
	for line := range v.Lines() {
		for _, s := range line.Spans {
			styles = append(styles, s.Style.Flags)
		}
	}
	want := []markdown.Flags{0, markdown.Bold, 0, markdown.Code}
	if !slices.Equal(styles, want) {
		t.Errorf("span styles = %v, want %v", styles, want)
	}
}

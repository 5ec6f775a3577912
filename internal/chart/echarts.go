package chart

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/render"

	"github.com/p-n-ai/competency-compass/internal/bloom"
)

const htmlContentType = "text/html; charset=utf-8"

const noTopics = "No topics are present in every file."

// Embed is a chart ready to be placed inside an existing page.
type Embed struct {
	// Element is the container the chart draws into.
	Element string
	// Script initialises the chart. It expects Assets to be loaded first.
	Script string
	Assets []string
}

// Embedder is implemented by backends whose output can be inlined into a
// page instead of served on its own.
type Embedder interface {
	Embed(ds Dataset) (Embed, error)
}

func newEmbed(c render.Renderer, assets func() []string) (e Embed, err error) {
	defer func() {
		// go-echarts panics when its own templates fail to execute.
		if r := recover(); r != nil {
			err = fmt.Errorf("rendering echarts snippet: %v", r)
		}
	}()
	snip := c.RenderSnippet()
	return Embed{
		Element: snip.Element,
		Script:  sealScript(snip.Script),
		Assets:  assets(),
	}, nil
}

// sealScript keeps uploaded text from closing the script element early.
// Every '<' in the option literal sits inside a JS string, where the
// unicode escape reads the same.
func sealScript(script string) string {
	open := strings.Index(script, ">")
	end := strings.LastIndex(script, "</script>")
	if open < 0 || end <= open {
		return script
	}
	body := strings.ReplaceAll(script[open+1:end], "<", `\u003c`)
	return script[:open+1] + body + script[end:]
}

func writePage(w io.Writer, title string, e Embed) error {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	for _, src := range e.Assets {
		fmt.Fprintf(&b, "<script src=\"%s\"></script>\n", html.EscapeString(src))
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(e.Element)
	b.WriteString("\n")
	b.WriteString(e.Script)
	b.WriteString("\n</body>\n</html>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// levelNamesJS is a JS array literal of the level names, index = rank.
// Names are plain ASCII words, so single quotes survive JSON encoding.
func levelNamesJS() string {
	quoted := make([]string, 0, bloom.Count)
	for _, n := range bloom.Names() {
		quoted = append(quoted, "'"+n+"'")
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func chartTitle(base string, ds Dataset) opts.Title {
	t := opts.Title{Title: base}
	if len(ds.Topics) == 0 {
		t.Subtitle = noTopics
	}
	return t
}

func pointTooltip(p Point) string {
	label := p.Label
	if !p.Ranked {
		label += " (not a level)"
	}
	return html.EscapeString(p.Topic) + "<br/>" + html.EscapeString(p.Series) + ": " + html.EscapeString(label)
}

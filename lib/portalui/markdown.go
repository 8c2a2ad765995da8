// Copyright 2026 The Dermassist Authors
// SPDX-License-Identifier: Apache-2.0

package portalui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// The recommendation and disclaimer text that accompanies a
// classification arrives as markdown. This renderer covers the subset
// that text actually uses — paragraphs, headings, emphasis, lists,
// code spans and fenced code — with soft line breaks reflowed to the
// terminal width. Structures outside that subset degrade to their
// plain text.

var (
	markdownParserInstance goldmark.Markdown
	markdownParserOnce     sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParserInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return markdownParserInstance
}

// renderMarkdown parses markdown and renders it as styled terminal
// output wrapped to width. Soft line breaks become spaces so
// hard-wrapped source reflows at any terminal width.
func renderMarkdown(input string, theme Theme, width int) string {
	if input == "" {
		return ""
	}
	source := []byte(input)
	document := getMarkdownParser().Parser().Parse(text.NewReader(source))

	// Force the ANSI256 profile: this output is always for terminal
	// display, and auto-detection yields uncolored output when there
	// is no TTY (tests, piped output).
	lipRenderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lipRenderer.SetColorProfile(termenv.ANSI256)

	renderer := &markdownRenderer{
		source:      source,
		theme:       theme,
		width:       width,
		lipRenderer: lipRenderer,
	}
	ast.Walk(document, renderer.walk)
	return strings.TrimRight(renderer.output.String(), "\n")
}

// markdownRenderer walks the goldmark AST with accumulate-then-wrap
// semantics: inline content collects in a buffer and is word-wrapped
// as a unit when its containing block closes.
type markdownRenderer struct {
	source []byte
	theme  Theme
	width  int

	output strings.Builder
	inline strings.Builder

	// Bullet prefix for the first line of the current list item;
	// continuation lines get matching indentation.
	pendingBullet string
	indent        string

	boldCount   int
	italicCount int

	listOrdered bool
	listCounter int

	lipRenderer *lipgloss.Renderer
}

func (renderer *markdownRenderer) newStyle() lipgloss.Style {
	return renderer.lipRenderer.NewStyle()
}

func (renderer *markdownRenderer) currentWidth() int {
	width := renderer.width - len(renderer.indent)
	if width < 10 {
		width = 10
	}
	return width
}

func (renderer *markdownRenderer) styledText(content string) string {
	style := renderer.newStyle().Foreground(renderer.theme.NormalText)
	if renderer.boldCount > 0 {
		style = style.Bold(true)
	}
	if renderer.italicCount > 0 {
		style = style.Italic(true)
	}
	return style.Render(content)
}

// flushInline word-wraps the accumulated inline content and writes it
// to the output with list indentation applied.
func (renderer *markdownRenderer) flushInline() {
	content := renderer.inline.String()
	renderer.inline.Reset()
	if content == "" {
		return
	}

	wrapped := ansi.Wrap(content, renderer.currentWidth(), " ,.;-+|")
	for index, line := range strings.Split(wrapped, "\n") {
		if index == 0 && renderer.pendingBullet != "" {
			renderer.output.WriteString(renderer.pendingBullet)
			renderer.pendingBullet = ""
		} else {
			renderer.output.WriteString(renderer.indent)
		}
		renderer.output.WriteString(line)
		renderer.output.WriteString("\n")
	}
}

func (renderer *markdownRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			renderer.inline.Reset()
		} else {
			renderer.flushInline()
			if node.Kind() == ast.KindParagraph {
				renderer.output.WriteString("\n")
			}
		}

	case ast.KindHeading:
		if entering {
			renderer.inline.Reset()
		} else {
			content := ansi.Strip(renderer.inline.String())
			renderer.inline.Reset()
			if content != "" {
				style := renderer.newStyle().Bold(true).Foreground(renderer.theme.HeaderForeground)
				renderer.output.WriteString(style.Render(content))
				renderer.output.WriteString("\n\n")
			}
		}

	case ast.KindFencedCodeBlock:
		if entering {
			renderer.renderFencedCodeBlock(node.(*ast.FencedCodeBlock))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindList:
		if entering {
			list := node.(*ast.List)
			renderer.listOrdered = list.IsOrdered()
			renderer.listCounter = list.Start
		} else {
			renderer.output.WriteString("\n")
		}

	case ast.KindListItem:
		if entering {
			bullet := "- "
			if renderer.listOrdered {
				bullet = strconv.Itoa(renderer.listCounter) + ". "
				renderer.listCounter++
			}
			renderer.pendingBullet = bullet
			renderer.indent = strings.Repeat(" ", len(bullet))
		} else {
			renderer.pendingBullet = ""
			renderer.indent = ""
		}

	case ast.KindText:
		if entering {
			textNode := node.(*ast.Text)
			renderer.inline.WriteString(renderer.styledText(string(textNode.Segment.Value(renderer.source))))
			if textNode.SoftLineBreak() {
				renderer.inline.WriteString(" ")
			}
			if textNode.HardLineBreak() {
				renderer.inline.WriteString("\n")
			}
		}

	case ast.KindString:
		if entering {
			renderer.inline.WriteString(renderer.styledText(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		emphasis := node.(*ast.Emphasis)
		delta := 1
		if !entering {
			delta = -1
		}
		if emphasis.Level >= 2 {
			renderer.boldCount += delta
		} else {
			renderer.italicCount += delta
		}

	case ast.KindCodeSpan:
		if entering {
			var code strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					code.Write(textNode.Segment.Value(renderer.source))
				}
			}
			faint := renderer.newStyle().Foreground(renderer.theme.FaintText)
			renderer.inline.WriteString(faint.Render(code.String()))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		// Link text renders through the child Text nodes; the URL is
		// appended when the link closes.
		if !entering {
			if url := string(node.(*ast.Link).Destination); url != "" {
				faint := renderer.newStyle().Foreground(renderer.theme.FaintText)
				renderer.inline.WriteString(" " + faint.Render("("+url+")"))
			}
		}

	case ast.KindAutoLink:
		if entering {
			url := string(node.(*ast.AutoLink).URL(renderer.source))
			faint := renderer.newStyle().Foreground(renderer.theme.FaintText)
			renderer.inline.WriteString(faint.Render(url))
		}
	}

	return ast.WalkContinue, nil
}

func (renderer *markdownRenderer) renderFencedCodeBlock(node *ast.FencedCodeBlock) {
	language := string(node.Language(renderer.source))
	var code strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		code.Write(segment.Value(renderer.source))
	}

	highlighted := renderer.highlightCode(code.String(), language)
	for _, line := range strings.Split(strings.TrimRight(highlighted, "\n"), "\n") {
		renderer.output.WriteString(renderer.indent + line + "\n")
	}
	renderer.output.WriteString("\n")
}

// highlightCode uses Chroma to syntax-highlight code, falling back to
// FaintText-styled plain text on unknown languages or Chroma errors.
func (renderer *markdownRenderer) highlightCode(code, language string) string {
	if language == "" {
		return renderer.newStyle().Foreground(renderer.theme.FaintText).Render(code)
	}
	var buffer strings.Builder
	if err := quick.Highlight(&buffer, code, language, "terminal256", "monokai"); err != nil {
		return renderer.newStyle().Foreground(renderer.theme.FaintText).Render(code)
	}
	return buffer.String()
}

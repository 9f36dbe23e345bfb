package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// cell is one rendered passage position.
type cell struct {
	s       string
	width   int
	isSpace bool
}

// highlightPassage styles each passage rune against what has been typed.
// Typed runes beyond the passage are appended as errors.
func highlightPassage(passage, typed []rune, cursor int) []cell {
	active := activeWord(wordSpans(passage), cursor)

	out := make([]cell, 0, len(passage))
	for i, want := range passage {
		shown := want
		style := pendingStyle
		switch {
		case i < len(typed) && want == ' ' && typed[i] != ' ':
			shown = '•'
			style = incorrectStyle
		case i < len(typed) && typed[i] == want:
			style = correctStyle
		case i < len(typed):
			style = incorrectStyle
		case want != ' ' && active != nil && active.contains(i):
			style = currentWordStyle
		}
		if i == cursor {
			style = style.Underline(true)
		}
		out = append(out, cell{
			s:       style.Render(string(shown)),
			width:   runewidth.RuneWidth(shown),
			isSpace: want == ' ',
		})
	}
	for i := len(passage); i < len(typed); i++ {
		out = append(out, cell{
			s:     overflowStyle.Render(string(typed[i])),
			width: runewidth.RuneWidth(typed[i]),
		})
	}
	return out
}

type span struct {
	start int
	end   int
}

func (s *span) contains(i int) bool {
	return i >= s.start && i < s.end
}

func wordSpans(text []rune) []span {
	spans := []span{}
	start := -1
	for i, r := range text {
		if r == ' ' {
			if start != -1 {
				spans = append(spans, span{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		spans = append(spans, span{start: start, end: len(text)})
	}
	return spans
}

// activeWord is the word under the cursor, or the next one when the cursor
// sits on a space. No cursor means nothing is active.
func activeWord(spans []span, cursor int) *span {
	if cursor < 0 {
		return nil
	}
	for i := range spans {
		if cursor < spans[i].end {
			return &spans[i]
		}
	}
	return nil
}

func joinCells(cells []cell) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(c.s)
	}
	return b.String()
}

// wrapCells breaks lines at the last space that fits width, or mid-word when
// a single word is wider than the line.
func wrapCells(cells []cell, width int) string {
	if width <= 0 {
		return joinCells(cells)
	}
	var out strings.Builder
	line := make([]cell, 0, width)
	lineWidth := 0
	lastSpace := -1

	for i := 0; i < len(cells); {
		c := cells[i]
		if lineWidth+c.width > width && len(line) > 0 {
			if lastSpace >= 0 {
				out.WriteString(joinCells(line[:lastSpace]))
				out.WriteRune('\n')
				line = append([]cell{}, line[lastSpace+1:]...)
			} else {
				out.WriteString(joinCells(line))
				out.WriteRune('\n')
				line = line[:0]
			}
			lineWidth, lastSpace = measure(line)
			continue
		}
		line = append(line, c)
		lineWidth += c.width
		if c.isSpace {
			lastSpace = len(line) - 1
		}
		i++
	}
	out.WriteString(joinCells(line))
	return out.String()
}

func measure(line []cell) (width, lastSpace int) {
	lastSpace = -1
	for i, c := range line {
		width += c.width
		if c.isSpace {
			lastSpace = i
		}
	}
	return width, lastSpace
}

package reconcile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// LinePrompter asks for task ids on a line-oriented terminal. An empty line
// accepts the suggestion when there is one; end of input abandons the pass.
type LinePrompter struct {
	In  *bufio.Reader
	Out io.Writer
}

// NewLinePrompter creates a LinePrompter. Pass the same reader the caller
// uses for its own input so buffered lines are not lost.
func NewLinePrompter(in *bufio.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{In: in, Out: out}
}

// TaskID implements Prompter.
func (p *LinePrompter) TaskID(ctx context.Context, prompt Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	_, _ = fmt.Fprint(p.Out, FormatPrompt(prompt)+" ")

	line, err := p.In.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrAbandoned
		}
		return "", err
	}

	value := strings.TrimSpace(line)
	if value == "" && prompt.HasSuggestion {
		return prompt.Suggestion, nil
	}
	return value, nil
}

// FormatPrompt renders the question for one entry, e.g.
//
//	[1/3] Enter task id for "2024-01-15 [09:00 - 09:30] email" (enter for JIRA-12):
func FormatPrompt(p Prompt) string {
	end := "--:--"
	if p.Entry.TimeEnd != nil {
		end = *p.Entry.TimeEnd
	}
	question := fmt.Sprintf("[%d/%d] Enter task id for \"%s [%s - %s] %s\"",
		p.Position, p.Total, p.Entry.Date, p.Entry.TimeStart, end, p.Entry.Label)
	if p.HasSuggestion {
		question += fmt.Sprintf(" (enter for %s)", p.Suggestion)
	}
	return question + ":"
}

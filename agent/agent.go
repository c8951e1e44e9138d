// Package agent is a conversational assistant answering questions about a
// project.
package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

// Agent is the AI assistant that handles the chat session.
type Agent struct {
	w           io.Writer
	r           *bufio.Reader
	render      func(string) string
	Facilitator *Expert
	Experts     []*Expert
}

// Option customizes an Agent.
type Option func(*Agent)

// WithRenderer sets how markdown answers are printed.
func WithRenderer(render func(md string) string) Option {
	return func(a *Agent) { a.render = render }
}

// New creates a new Agent writing to w and reading the user input from r.
func New(w io.Writer, r io.Reader, experts []*Expert, opts ...Option) *Agent {
	a := &Agent{
		w:           w,
		r:           bufio.NewReader(r),
		render:      func(md string) string { return md },
		Experts:     experts,
		Facilitator: newFacilitator(experts...),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start creates the chats of every expert.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range a.Experts {
		if err := e.Start(ctx, client); err != nil {
			return err
		}
	}
	return a.Facilitator.Start(ctx, client)
}

const prompt = "assist> "

// Run starts the interactive session. The prompts are asked first, as if
// typed by the user.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Welcome to folio assist. Type 'bye' to exit.")
	for {
		fmt.Fprint(a.w, prompt)
		var input string

		if len(prompts) > 0 {
			input, prompts = strings.TrimSpace(prompts[0]), prompts[1:]
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
		}

		if strings.TrimSpace(input) == "bye" {
			return nil
		}

		content, err := a.Facilitator.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			return err
		}
		fmt.Fprintln(a.w, a.render(content.Parts[0].Text))
	}
}

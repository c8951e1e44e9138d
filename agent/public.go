package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/folio/docs"
	"github.com/etnz/folio/project"
	"github.com/etnz/folio/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

func instruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

// newFacilitator creates the expert talking to the user.
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: instruction(`
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and keep context of your previous questions.

			The user is here to understand the allocations and the performance of their portfolio.
			Devise a plan of questions to ask to each expert and come up with the best response to the user's request.

			The user will assume that you know about their holdings, ask the Analyst first to learn what they are.
			Answer in markdown.
		`),
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns an expert grounded on Google Search.
func NewTrader() *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader,
		very well aware of the financial products and institutions,
		and of the latest news about funds or companies.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: instruction(`
			You are an expert in trading, you can search and find about anything related to
			financial institutions, companies, markets and funds. You leverage Google Search to
			ground your assertions.
			You can get the latest news too, and you know how to relate them to the user's request.
			`),
		},
	}
}

// NewAnalyst returns the expert of the project figures.
func NewAnalyst(p *project.Project) *Expert {
	lib := Tools(p)
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst, in charge of the user's portfolio.
		They know its holdings, their allocations, earnings and attributes, and every transaction.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: instruction(`
			You are the analyst of the user's portfolio.
			Use the Tools to read the portfolio report, the transactions of a holding, and the user manual
			to explain how figures are computed.
			Other experts might ask you questions with approximate language, figure out what they meant.
			`),
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function.
type Func struct {
	Decl *genai.FunctionDeclaration
	Func func(ctx context.Context, args map[string]any) (string, error)
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }

func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	out, err := f.Func(ctx, args)
	if err != nil {
		return failure(id, f.Decl.Name, err)
	}
	return success(id, f.Decl.Name, out)
}

// Tools returns the functions reading p.
func Tools(p *project.Project) []Function {
	return []Function{
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Report",
				Description: "Report returns the portfolio report: balance, earnings, rate of return, and the allocations and earnings of every attribute.",
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown report.",
				},
			},
			Func: func(ctx context.Context, _ map[string]any) (string, error) {
				r, err := p.Report(ctx)
				if err != nil {
					return "", err
				}
				return renderer.ReportMarkdown(r, renderer.ReportRenderOptions{SkipHistory: true}), nil
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Holding",
				Description: "Holding returns the attributes and the transactions of a holding.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"key": {
							Type:        genai.TypeString,
							Description: "The holding key: its ISIN, else its ticker, else its name.",
						},
					},
					Required: []string{"key"},
				},
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown list of attributes and transactions.",
				},
			},
			Func: func(_ context.Context, args map[string]any) (string, error) {
				key, err := stringArg(args, "key")
				if err != nil {
					return "", err
				}
				return holding(p, key)
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Topic",
				Description: "Topic returns a page of the user manual. Use '*' to read them all.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"topic": {
							Type:        genai.TypeString,
							Description: "The topic, one of: " + strings.Join(must(docs.GetAllTopics()), ", "),
						},
					},
					Required: []string{"topic"},
				},
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "The markdown page.",
				},
			},
			Func: func(_ context.Context, args map[string]any) (string, error) {
				topic, err := stringArg(args, "topic")
				if err != nil {
					return "", err
				}
				return docs.GetTopic(topic)
			},
		},
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// holding renders the attributes and transactions of the holding key.
func holding(p *project.Project, key string) (string, error) {
	first, ok := p.FirstHoldings()[key]
	if !ok {
		return "", fmt.Errorf("unknown holding %q", key)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", key)
	fmt.Fprintf(&b, "Held since %s.\n\n## Attributes\n\n", first.Date)
	for _, attr := range p.Attributes() {
		weights, _ := p.Weights(attr)
		var values []string
		for _, value := range weights.Values() {
			if w, ok := weights[value][key]; ok {
				values = append(values, fmt.Sprintf("%s %.0f%%", value, 100*w))
			}
		}
		if len(values) > 0 {
			fmt.Fprintf(&b, "* %s: %s\n", attr, strings.Join(values, ", "))
		}
	}

	fmt.Fprintf(&b, "\n## Transactions\n\n")
	for _, tx := range p.Transactions() {
		if first.Holding.Match(tx) {
			fmt.Fprintf(&b, "* %s: %s\n", tx.Date(), renderer.Transaction(tx))
		}
	}
	return b.String(), nil
}

// Package anthropic implements the four run collaborators on the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/probelab/validationsim/collaborator"
	"github.com/probelab/validationsim/core"
)

// Options configure the Anthropic collaborator (model id, temperature, max
// tokens, API key).
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Collaborator implements Planner, Interrogator, PersonaResponder and
// Synthesizer on one Anthropic client.
type Collaborator struct {
	client *anthropic.Client
	opts   Options
}

// New creates a collaborator using the official client.
func New(optFns ...func(o *Options)) *Collaborator {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Collaborator{client: &client, opts: opts}
}

// NewFromClient creates a collaborator from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Collaborator {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Collaborator{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
}

// Plan implements core.Planner.
func (c *Collaborator) Plan(ctx context.Context, userInput, stakeholderProfile string) ([]core.ItemDraft, error) {
	system, user := collaborator.PlannerMessages(userInput, stakeholderProfile)
	raw, err := c.complete(ctx, system, []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
	})
	if err != nil {
		return nil, err
	}
	return collaborator.ParseItems(raw)
}

// Interrogate implements core.Interrogator.
func (c *Collaborator) Interrogate(ctx context.Context, in core.InterrogateInput) (core.Decision, error) {
	system, user := collaborator.InterrogationMessages(in)
	raw, err := c.complete(ctx, system, []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
	})
	if err != nil {
		return core.Decision{}, err
	}
	return collaborator.ParseDecision(raw, in.Scheme)
}

// RespondAsStakeholder implements core.PersonaResponder.
func (c *Collaborator) RespondAsStakeholder(ctx context.Context, stakeholderProfile string, history []core.InterviewMessage, question string) (string, error) {
	system, turns := collaborator.StakeholderMessages(stakeholderProfile, history, question)
	var messages []anthropic.MessageParam
	for _, t := range turns {
		if t.Role == core.RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(t.Content)))
		} else {
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(t.Content)))
		}
	}
	raw, err := c.complete(ctx, system, messages)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

// Synthesize implements core.Synthesizer.
func (c *Collaborator) Synthesize(ctx context.Context, userInput, stakeholderProfile string, items []core.Item) (string, error) {
	system, user := collaborator.SynthesisMessages(userInput, stakeholderProfile, items)
	raw, err := c.complete(ctx, system, []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

func (c *Collaborator) complete(ctx context.Context, system string, messages []anthropic.MessageParam) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.opts.Model,
		Messages:    messages,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: anthropic.Float(c.opts.Temperature),
		System:      []anthropic.TextBlockParam{{Text: system}},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}
	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.AsText().Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no text content returned")
	}
	return b.String(), nil
}

// Interface compliance (compile-time assertions)
var (
	_ core.Planner          = (*Collaborator)(nil)
	_ core.Interrogator     = (*Collaborator)(nil)
	_ core.PersonaResponder = (*Collaborator)(nil)
	_ core.Synthesizer      = (*Collaborator)(nil)
)

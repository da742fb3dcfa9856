// Package openai implements the four run collaborators on the OpenAI Chat
// Completions API.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"

	"github.com/probelab/validationsim/collaborator"
	"github.com/probelab/validationsim/core"
)

// Options configure the OpenAI collaborator. Fields mirror a subset of Chat
// Completion parameters intentionally kept minimal; extend via functional
// options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Collaborator implements Planner, Interrogator, PersonaResponder and
// Synthesizer on one OpenAI client.
type Collaborator struct {
	client *openai.Client
	opts   Options
}

// New creates a collaborator using the official client with ambient
// credentials.
func New(optFns ...func(o *Options)) *Collaborator {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a collaborator from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Collaborator {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Collaborator{client: client, opts: opts}
}

// Plan implements core.Planner.
func (c *Collaborator) Plan(ctx context.Context, userInput, stakeholderProfile string) ([]core.ItemDraft, error) {
	system, user := collaborator.PlannerMessages(userInput, stakeholderProfile)
	raw, err := c.complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(system),
		openai.UserMessage(user),
	})
	if err != nil {
		return nil, err
	}
	return collaborator.ParseItems(raw)
}

// Interrogate implements core.Interrogator.
func (c *Collaborator) Interrogate(ctx context.Context, in core.InterrogateInput) (core.Decision, error) {
	system, user := collaborator.InterrogationMessages(in)
	raw, err := c.complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(system),
		openai.UserMessage(user),
	})
	if err != nil {
		return core.Decision{}, err
	}
	return collaborator.ParseDecision(raw, in.Scheme)
}

// RespondAsStakeholder implements core.PersonaResponder.
func (c *Collaborator) RespondAsStakeholder(ctx context.Context, stakeholderProfile string, history []core.InterviewMessage, question string) (string, error) {
	system, turns := collaborator.StakeholderMessages(stakeholderProfile, history, question)
	messages := []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(system)}
	for _, t := range turns {
		if t.Role == core.RoleAssistant {
			messages = append(messages, openai.AssistantMessage(t.Content))
		} else {
			messages = append(messages, openai.UserMessage(t.Content))
		}
	}
	raw, err := c.complete(ctx, messages)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

// Synthesize implements core.Synthesizer.
func (c *Collaborator) Synthesize(ctx context.Context, userInput, stakeholderProfile string, items []core.Item) (string, error) {
	system, user := collaborator.SynthesisMessages(userInput, stakeholderProfile, items)
	raw, err := c.complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(system),
		openai.UserMessage(user),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

func (c *Collaborator) complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               c.opts.Model,
		Temperature:         openai.Float(c.opts.Temperature),
		MaxCompletionTokens: openai.Int(c.opts.MaxCompletionTokens),
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// Interface compliance (compile-time assertions)
var (
	_ core.Planner          = (*Collaborator)(nil)
	_ core.Interrogator     = (*Collaborator)(nil)
	_ core.PersonaResponder = (*Collaborator)(nil)
	_ core.Synthesizer      = (*Collaborator)(nil)
)

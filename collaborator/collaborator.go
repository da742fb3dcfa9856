// Package collaborator contains the provider-independent halves of the
// language-model collaborators: prompt assembly and tolerant parsing of the
// JSON the models return. The provider subpackages only move messages over
// the wire.
package collaborator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/probelab/validationsim/core"
	"github.com/probelab/validationsim/prompt"
)

// Turn is one provider-independent chat message.
type Turn struct {
	Role    core.Role
	Content string
}

// PlannerMessages builds the system and user messages for the planning call.
func PlannerMessages(userInput, stakeholderProfile string) (system, user string) {
	var b strings.Builder
	b.WriteString("Idea statement:\n")
	b.WriteString(userInput)
	b.WriteString("\n\nTarget stakeholder profile:\n")
	b.WriteString(stakeholderProfile)
	b.WriteString("\n\nReturn ONLY a JSON array of objects with keys \"title\" and \"description\". ")
	b.WriteString("Title is a short name for the hypothesis, description is the full testable claim. No prose, no markdown fences.")
	return prompt.Planner, b.String()
}

// InterrogationMessages builds the system and user messages for one
// interrogation decision, splicing the scheme's allowed actions into the
// system prompt.
func InterrogationMessages(in core.InterrogateInput) (system, user string) {
	var sys strings.Builder
	sys.WriteString(prompt.Interrogation)
	sys.WriteString("\nDECISION RULES:\nChoose exactly one action:\n- ")
	sys.WriteString(core.ActionAskQuestion)
	for _, r := range in.Scheme.Resolutions() {
		sys.WriteString("\n- ")
		sys.WriteString(string(r))
	}
	sys.WriteString("\n\nReturn ONLY a JSON object with keys \"action\", \"question\", \"rationale\", \"root_cause\". ")
	sys.WriteString("Use \"question\" only with action \"")
	sys.WriteString(core.ActionAskQuestion)
	sys.WriteString("\"; leave it empty otherwise. No prose, no markdown fences.")

	var b strings.Builder
	b.WriteString("Hypothesis under validation:\n")
	b.WriteString(in.Item.Title)
	if in.Item.Description != "" && in.Item.Description != in.Item.Title {
		b.WriteString("\n")
		b.WriteString(in.Item.Description)
	}
	b.WriteString("\n\nStakeholder profile:\n")
	b.WriteString(in.StakeholderProfile)
	if len(in.Item.Messages) == 0 {
		b.WriteString("\n\nNo interview messages yet.")
	} else {
		b.WriteString("\n\nInterview so far:")
		for _, m := range in.Item.Messages {
			speaker := "Interviewer"
			if m.Role == core.RoleUser {
				speaker = "Stakeholder"
			}
			fmt.Fprintf(&b, "\n%s: %s", speaker, m.Content)
		}
	}
	if len(in.CompletedItems) > 0 {
		b.WriteString("\n\nAlready resolved hypotheses:")
		for _, it := range in.CompletedItems {
			fmt.Fprintf(&b, "\n- %s (%s): %s", it.Title, it.Resolution, it.RootCause)
		}
	}
	return sys.String(), b.String()
}

// StakeholderMessages builds the in-character conversation for the persona
// responder. Interviewer questions become user turns and earlier stakeholder
// answers become assistant turns, so the model continues as the stakeholder.
func StakeholderMessages(stakeholderProfile string, history []core.InterviewMessage, question string) (system string, turns []Turn) {
	var sys strings.Builder
	sys.WriteString(prompt.Stakeholder)
	sys.WriteString("\nYour profile:\n")
	sys.WriteString(stakeholderProfile)

	for _, m := range history {
		role := core.RoleUser
		if m.Role == core.RoleUser {
			role = core.RoleAssistant
		}
		turns = append(turns, Turn{Role: role, Content: m.Content})
	}
	if len(turns) == 0 || turns[len(turns)-1].Content != question {
		turns = append(turns, Turn{Role: core.RoleUser, Content: question})
	}
	return sys.String(), turns
}

// SynthesisMessages builds the system and user messages for the final report.
func SynthesisMessages(userInput, stakeholderProfile string, items []core.Item) (system, user string) {
	var b strings.Builder
	b.WriteString("Original problem statement:\n")
	b.WriteString(userInput)
	b.WriteString("\n\nStakeholder profile:\n")
	b.WriteString(stakeholderProfile)
	b.WriteString("\n\nValidation items:")
	for _, it := range items {
		fmt.Fprintf(&b, "\n\n%s: %s", it.ID, it.Title)
		if it.Description != "" && it.Description != it.Title {
			b.WriteString("\n")
			b.WriteString(it.Description)
		}
		fmt.Fprintf(&b, "\nStatus: %s", it.Status)
		if it.Resolution != "" {
			fmt.Fprintf(&b, " (%s)", it.Resolution)
		}
		if it.RootCause != "" {
			fmt.Fprintf(&b, "\nRoot cause: %s", it.RootCause)
		}
		for _, e := range it.Evidence {
			fmt.Fprintf(&b, "\nEvidence: %s", e)
		}
		if len(it.Messages) > 0 {
			b.WriteString("\nTranscript:")
			for _, m := range it.Messages {
				speaker := "Interviewer"
				if m.Role == core.RoleUser {
					speaker = "Stakeholder"
				}
				fmt.Fprintf(&b, "\n  %s: %s", speaker, m.Content)
			}
		}
	}
	return prompt.Synthesis, b.String()
}

// ExtractJSON cuts the first JSON value out of a model reply, tolerating
// markdown fences and surrounding prose.
func ExtractJSON(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", fmt.Errorf("no JSON value in model reply")
	}
	open := s[start]
	var closing byte = '}'
	if open == '[' {
		closing = ']'
	}
	depth := 0
	inString := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unterminated JSON value in model reply")
}

// ParseItems decodes a planner reply into item drafts. Accepts either a bare
// array or an object wrapping it under "items".
func ParseItems(raw string) ([]core.ItemDraft, error) {
	payload, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}
	var drafts []core.ItemDraft
	if err := json.Unmarshal([]byte(payload), &drafts); err != nil {
		var wrapper struct {
			Items []core.ItemDraft `json:"items"`
		}
		if err2 := json.Unmarshal([]byte(payload), &wrapper); err2 != nil {
			return nil, fmt.Errorf("decode planner reply: %w", err)
		}
		drafts = wrapper.Items
	}
	out := drafts[:0]
	for _, d := range drafts {
		if strings.TrimSpace(d.Title) == "" && strings.TrimSpace(d.Description) == "" {
			continue
		}
		if strings.TrimSpace(d.Title) == "" {
			d.Title = d.Description
		}
		out = append(out, d)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("planner reply contained no items")
	}
	return out, nil
}

// ParseDecision decodes an interrogation reply and checks the action against
// the scheme's vocabulary.
func ParseDecision(raw string, scheme core.Scheme) (core.Decision, error) {
	payload, err := ExtractJSON(raw)
	if err != nil {
		return core.Decision{}, err
	}
	var d core.Decision
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		return core.Decision{}, fmt.Errorf("decode interrogation reply: %w", err)
	}
	d.Action = strings.TrimSpace(d.Action)
	if d.Action == core.ActionAskQuestion {
		return d, nil
	}
	if _, ok := scheme.Terminal[core.Resolution(d.Action)]; !ok {
		return core.Decision{}, fmt.Errorf("interrogation reply action %q not in scheme %q", d.Action, scheme.Name)
	}
	return d, nil
}

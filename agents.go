package main

import (
	"fmt"
	"strings"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
)

// LunchAgent turns the day's menu texts into a formatted HTML email
// using the email agent.
type LunchAgent struct {
	apiKey      string
	settings    *Settings
	feedbackURL string
}

// NewLunchAgent creates the email agent
func NewLunchAgent(apiKey string, settings *Settings, feedbackURL string) *LunchAgent {
	return &LunchAgent{
		apiKey:      apiKey,
		settings:    settings,
		feedbackURL: feedbackURL,
	}
}

// requestSettings maps the configured agent settings onto the API
// request, so the model in settings.yaml is the model that answers.
func (a *LunchAgent) requestSettings() types.RequestSettings {
	return types.RequestSettings{
		Model:       a.settings.Agent.Model,
		MaxTokens:   a.settings.Agent.MaxTokens,
		Temperature: a.settings.Agent.Temperature,
	}
}

// Compose asks the agent for the HTML email body covering the resolved
// day and week. An empty or failed response is an error; there is
// nothing trustworthy to send without it.
func (a *LunchAgent) Compose(rc RunContext, menus []SourceResult, weatherLine string) (string, error) {
	userPrompt, err := buildEmailPrompt(rc, menus, weatherLine, a.feedbackURL)
	if err != nil {
		return "", err
	}

	response, err := anthropic.PromptWithSettings(
		strings.TrimSpace(emailSystemPrompt), userPrompt, "", a.apiKey, a.requestSettings())
	if err != nil {
		return "", fmt.Errorf("email agent failed: %w", err)
	}
	if len(response.Content) == 0 {
		return "", fmt.Errorf("no content in email agent response")
	}

	html := stripCodeFence(response.Content[0].Text)
	if html == "" {
		return "", fmt.Errorf("empty response from email agent")
	}
	return html, nil
}

// buildEmailPrompt renders the embedded user prompt template with the
// day, week and per-restaurant menu texts, plus the optional weather
// and feedback additions.
func buildEmailPrompt(rc RunContext, menus []SourceResult, weatherLine, feedbackURL string) (string, error) {
	template := emailUserPrompt
	for _, v := range []string{"{{.Day}}", "{{.Week}}", "{{.Menus}}"} {
		if !strings.Contains(template, v) {
			return "", fmt.Errorf("email user prompt template must contain %s variable", v)
		}
	}

	var menuTexts strings.Builder
	for _, m := range menus {
		fmt.Fprintf(&menuTexts, "---\nRestaurang: %s\n\n%s\n\n", m.Key, strings.TrimSpace(m.Text))
	}

	prompt := strings.ReplaceAll(template, "{{.Day}}", rc.EffectiveDay)
	prompt = strings.ReplaceAll(prompt, "{{.Week}}", fmt.Sprintf("%d", rc.EffectiveWeek))
	prompt = strings.ReplaceAll(prompt, "{{.Menus}}", menuTexts.String())

	if weatherLine != "" {
		prompt += fmt.Sprintf("\nDagens väder i %s. Nämn gärna vädret kort i hälsningen.\n", weatherLine)
	}
	if feedbackURL != "" {
		prompt += fmt.Sprintf("\nAvsluta mejlet med en länk till feedbackformuläret: %s\n", feedbackURL)
	}

	return prompt, nil
}

// stripCodeFence removes a leading/trailing markdown fence the model
// sometimes wraps the HTML in.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```html")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

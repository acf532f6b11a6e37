package rr

import (
	"context"
	"fmt"
	"iter"
	"time"

	"google.golang.org/genai"
)

const (
	defaultGoogleAIModel = "gemini-2.5-flash"

	systemInstructionFormat = `You are a professional AI research analyst. Analyze research items in a rigorous, scientific manner.

Current datetime is %[1]s.

Respond to user messages according to the following principles:
- Do not repeat the user's request.
- Be as accurate as possible.
- Be as truthful as possible.
- Be as comprehensive and informative as possible.
`

	analysisPromptFormat = `Analyze the following AI research/news item in depth and produce a structured research report:

[Research Item]
Title: %[1]s
Source: %[2]s
Published: %[3]s
Link: %[4]s
Summary: %[5]s

[Produce the following sections]

## 1. Background: what problem does it try to solve?

## 2. Core method and principles (explained plainly)

## 3. Innovations (breakthroughs)

## 4. Technical advantages

## 5. Limitations / risks

## 6. Application scenarios (tied to real business)

## 7. Industry trend outlook (likely future directions)

## 8. Implications for AI assistant / automation products

Keep the analysis professional and logically structured.`
)

// FragmentKind tags one streamed generation fragment.
type FragmentKind int

// kinds of streamed fragments
const (
	FragmentReasoning FragmentKind = iota // intermediate "thinking" output
	FragmentAnswer                        // final answer output
)

// Fragment is one incremental unit of a streamed generation response.
type Fragment struct {
	Kind FragmentKind
	Text string
}

// build the per-record analysis prompt
func buildAnalysisPrompt(record ContentRecord) string {
	return fmt.Sprintf(analysisPromptFormat,
		record.Title,
		record.SourceName,
		record.Published,
		record.Link,
		record.Summary,
	)
}

// generate a default system instruction
func defaultSystemInstruction() string {
	return fmt.Sprintf(systemInstructionFormat,
		time.Now().Format("2006-01-02 15:04:05 (Mon) MST"),
	)
}

// streamAnalysis submits the system framing and given prompt to the
// generation endpoint and exposes the streamed response as a lazy,
// non-restartable sequence of tagged fragments. Parts marked as thoughts
// become reasoning fragments; everything else is final answer text.
func (c *Client) streamAnalysis(ctx context.Context, prompt string) iter.Seq2[Fragment, error] {
	return func(yield func(Fragment, error) bool) {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  c.conf.GoogleAIAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			yield(Fragment{}, fmt.Errorf("error initializing genai client: %w", err))
			return
		}

		config := &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(defaultSystemInstruction(), genai.RoleUser),
			ThinkingConfig: &genai.ThinkingConfig{
				IncludeThoughts: true,
			},
		}

		for resp, err := range client.Models.GenerateContentStream(
			ctx,
			c.conf.GoogleAIModel,
			genai.Text(prompt),
			config,
		) {
			if err != nil {
				yield(Fragment{}, fmt.Errorf("generation failed: %w", err))
				return
			}

			if len(resp.Candidates) == 0 {
				v(c.verbose, "skipping chunk with no candidates: %s", Prettify(resp))
				continue
			}
			candidate := resp.Candidates[0]
			if candidate.Content == nil {
				v(c.verbose, "skipping candidate with no content: %s", Prettify(candidate))
				continue
			}

			for _, part := range candidate.Content.Parts {
				if part.Text == "" {
					continue
				}

				fragment := Fragment{Kind: FragmentAnswer, Text: part.Text}
				if part.Thought {
					fragment.Kind = FragmentReasoning
				}

				if !yield(fragment, nil) {
					return
				}
			}
		}
	}
}

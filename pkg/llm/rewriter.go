package llm

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/sashabaranov/go-openai"

	"github.com/umputun/newsdigest/pkg/config"
	"github.com/umputun/newsdigest/pkg/digest"
)

// ErrEmptyResponse is returned when the model answers with no content
var ErrEmptyResponse = errors.New("empty response from llm")

// Rewriter turns a batch of articles into a digest message via an OpenAI-compatible API
type Rewriter struct {
	client    *openai.Client
	config    config.LLMConfig
	systemMsg string
	now       func() time.Time
}

// NewRewriter creates a rewriter, cfg.Endpoint overrides the default API base url
func NewRewriter(cfg config.LLMConfig) *Rewriter {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}

	systemMsg := cfg.SystemPrompt
	if systemMsg == "" {
		systemMsg = defaultSystemPrompt
	}

	return &Rewriter{
		client:    openai.NewClientWithConfig(clientConfig),
		config:    cfg,
		systemMsg: systemMsg,
		now:       time.Now,
	}
}

// defaultSystemPrompt supports {flavour}, {batch}, {total} and {date} placeholders
const defaultSystemPrompt = `You are an analyst covering AI research and industry news. Turn the provided articles into one digest message.

1. Write a subject line in the form "AI frontier: <the most influential update in these articles>", for example "AI frontier: {flavour}".
2. Write the message body. It must contain:
   - a short greeting and overview of this issue (batch {batch} of {total})
   - every provided article with its title, source, full summary and link, none may be left out
   - a closing overall summary with the date {date}
   - no more than 4500 characters in total

Output format:
- first line: the subject line only, without any prefix
- second line: the separator ---
- from the third line: the message body`

// Rewrite asks the model for a subject and body for the batch. The response is split on the
// first "---"; without a separator the whole response is the body and the subject is built locally.
func (r *Rewriter) Rewrite(ctx context.Context, articles []digest.Article, flavour string, n, total int) (title, body string, err error) {
	if len(articles) == 0 {
		return "", "", fmt.Errorf("no articles to rewrite")
	}
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	replacer := strings.NewReplacer("{flavour}", flavour, "{batch}", strconv.Itoa(n),
		"{total}", strconv.Itoa(total), "{date}", digest.FormatDate(r.now()))

	userMsg := fmt.Sprintf("Summarise the following %d AI articles of batch %d of %d into a digest message:\n\n%s",
		len(articles), n, total, digest.ArticlesText(articles))

	req := openai.ChatCompletionRequest{
		Model:       r.config.Model,
		Temperature: float32(r.config.Temperature),
		MaxTokens:   r.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: replacer.Replace(r.systemMsg)},
			{Role: openai.ChatMessageRoleUser, Content: userMsg},
		},
	}

	log.Printf("[DEBUG] rewriting batch %d/%d with %d articles using %s", n, total, len(articles), r.config.Model)
	resp, err := r.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", "", fmt.Errorf("llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", "", ErrEmptyResponse
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", "", ErrEmptyResponse
	}

	title, body = splitResponse(content)
	if title == "" {
		title = digest.Title(flavour, n, total)
	}
	if body == "" {
		return "", "", ErrEmptyResponse
	}
	return title, body, nil
}

// splitResponse separates subject and body on the first "---", the separator line
// may be decorated like "------" or "---separator---"
func splitResponse(content string) (title, body string) {
	before, after, found := strings.Cut(content, "---")
	if !found {
		return "", content
	}
	if tail, rest, ok := strings.Cut(after, "\n"); ok && separatorTail(tail) {
		after = rest
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}

// separatorTail reports whether the rest of the separator line is only dashes or a "separator" token
func separatorTail(s string) bool {
	s = strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "-"))
	return s == "" || strings.EqualFold(s, "separator")
}

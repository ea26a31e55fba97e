package ai

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	appErrors "github.com/brightsteps/records-api/pkg/errors"
)

// PlannerClient wraps the generative-language API used for lesson and goal
// plan text. API keys rotate round-robin per call; the rotation index lives
// on the client so concurrent requests never share hidden global state.
type PlannerClient struct {
	keys    []string
	model   string
	timeout time.Duration
	next    atomic.Uint64
	logger  *zap.Logger
}

// NewPlannerClient constructs a planner client. startIndex seeds the
// round-robin key selection, which makes the rotation order testable.
func NewPlannerClient(keys []string, model string, timeout time.Duration, startIndex int, logger *zap.Logger) *PlannerClient {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &PlannerClient{keys: keys, model: model, timeout: timeout, logger: logger}
	if len(keys) > 0 && startIndex > 0 {
		c.next.Store(uint64(startIndex % len(keys)))
	}
	return c
}

// Enabled reports whether at least one API key is configured.
func (c *PlannerClient) Enabled() bool {
	return c != nil && len(c.keys) > 0
}

func (c *PlannerClient) nextKey() string {
	n := c.next.Add(1) - 1
	return c.keys[int(n%uint64(len(c.keys)))]
}

// Generate sends a prompt and returns the model's text. Rate limiting maps
// to a retryable error carrying the upstream wait hint when one is present
// in the error message; any other failure or an empty candidate set maps to
// an upstream failure.
func (c *PlannerClient) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Enabled() {
		return "", appErrors.Clone(appErrors.ErrUpstream, "plan generation is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.nextKey(),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to reach language model")
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", classifyUpstream(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", appErrors.Clone(appErrors.ErrUpstream, "language model returned an empty response")
	}
	return text, nil
}

var retryHintPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)"retryDelay"\s*:\s*"(\d+(?:\.\d+)?)s"`),
	regexp.MustCompile(`(?i)retry(?:\s+in|[\s-]after:?)\s*(\d+(?:\.\d+)?)\s*s`),
}

// classifyUpstream maps a collaborator error onto the domain taxonomy.
func classifyUpstream(err error) error {
	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(msg, "429") || strings.Contains(lower, "resource_exhausted") || strings.Contains(lower, "rate limit") {
		return appErrors.RateLimited(err, parseRetrySeconds(msg))
	}
	return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "language model request failed")
}

// parseRetrySeconds extracts a suggested wait from the upstream error text.
// Returns 0 when no hint is derivable.
func parseRetrySeconds(msg string) float64 {
	for _, pattern := range retryHintPatterns {
		if m := pattern.FindStringSubmatch(msg); len(m) == 2 {
			if seconds, err := strconv.ParseFloat(m[1], 64); err == nil {
				return seconds
			}
		}
	}
	return 0
}

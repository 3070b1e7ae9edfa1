// Package advisor talks to the external text-generating oracle used for
// financial advice and exchange-rate lookups. The oracle is best effort
// and occasionally wrong; all pattern extraction from its free-text
// replies lives here, behind explicit result types.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"pulabudget/internal/core"
)

// Fallback is what the user sees whenever the advice oracle fails.
// The raw error never reaches them.
const Fallback = "Keep tracking your spending in BWP! Regular monitoring is the first step to financial freedom in Botswana."

const (
	defaultModel   = "gemini-3-flash-preview"
	requestTimeout = 10 * time.Second

	// At most this many recent transactions are summarized in the prompt.
	maxPromptTransactions = 20
)

// ErrBadRateReply means the oracle answered but the reply did not match
// the expected CODE: number pattern. The rate table stays unchanged.
var ErrBadRateReply = errors.New("rate reply did not match expected pattern")

// ErrUnavailable wraps transport and HTTP-status failures from the oracle.
var ErrUnavailable = errors.New("advice service unavailable")

// RateQuote is one parsed rate with whatever citation the oracle
// attached. Source is informational only and never alters the rate.
type RateQuote struct {
	Code   string  `json:"code"`
	Rate   float64 `json:"rate"`
	Source string  `json:"source,omitempty"`
}

type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   defaultModel,
		client:  &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}
}

// Advice asks the oracle for spending advice over the most recent
// transactions. It never fails: any transport, status or decode problem
// degrades to the fallback string.
func (c *Client) Advice(ctx context.Context, transactions []core.Transaction) string {
	prompt := buildAdvicePrompt(transactions)

	text, err := c.generate(ctx, prompt,
		"You are a friendly, expert Motswana financial advisor. Your advice is encouraging and practical.")
	if err != nil {
		c.logger.Error("Advice oracle failed, using fallback", "error", err)
		return Fallback
	}
	if strings.TrimSpace(text) == "" {
		c.logger.Warn("Advice oracle returned empty text, using fallback")
		return Fallback
	}
	return text
}

// FetchRates asks the oracle for current ZAR and USD rates against the
// pula and extracts them from the free-text reply. The reply is never
// parsed as a document, only pattern-matched; anything that does not
// yield at least one quote is ErrBadRateReply.
func (c *Client) FetchRates(ctx context.Context) ([]RateQuote, error) {
	prompt := "What are the current exchange rates for ZAR and USD against the Botswana Pula (BWP)? " +
		"Answer with one line per currency in the exact form CODE: rate, for example ZAR: 0.72, USD: 13.55."

	text, source, err := c.generateWithSource(ctx, prompt,
		"You are a currency data assistant. Reply only with the requested rates.")
	if err != nil {
		return nil, err
	}

	quotes := extractQuotes(text, source)
	if len(quotes) == 0 {
		c.logger.Warn("Rate oracle reply unparseable", "reply", text)
		return nil, fmt.Errorf("%w: %q", ErrBadRateReply, text)
	}
	return quotes, nil
}

var ratePattern = regexp.MustCompile(`\b([A-Z]{3})\b\s*[:=]\s*([0-9]+(?:[.,][0-9]+)?)`)

// extractQuotes pulls CODE: number pairs out of free text. The local
// currency is skipped; it is pinned at 1 and not the oracle's to set.
func extractQuotes(text, source string) []RateQuote {
	var quotes []RateQuote
	for _, m := range ratePattern.FindAllStringSubmatch(text, -1) {
		code := m[1]
		if code == core.LocalCurrency {
			continue
		}
		rate, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", "."), 64)
		if err != nil || rate <= 0 {
			continue
		}
		quotes = append(quotes, RateQuote{Code: code, Rate: rate, Source: source})
	}
	return quotes
}

func buildAdvicePrompt(transactions []core.Transaction) string {
	if len(transactions) > maxPromptTransactions {
		transactions = transactions[:maxPromptTransactions]
	}

	var lines []string
	for _, t := range transactions {
		lines = append(lines, fmt.Sprintf("%s: %s %s %s for %s (%s)",
			t.Date, t.Type, t.Amount, core.LocalCurrency, t.Category, t.Title))
	}

	return fmt.Sprintf(`Act as a professional financial advisor in Botswana.
Analyze the following recent transactions (last %d) and provide 3 short, actionable bullet points for the user.
Context: All amounts are in Botswana Pula (BWP).
Keep advice culturally relevant to Botswana (e.g., mention pula, common local expenses like airtime, fuel, or savings).

Transactions:
%s`, maxPromptTransactions, strings.Join(lines, "\n"))
}

// Request and response envelopes for the generateContent endpoint. Only
// the fields read here are modeled.

type generateRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`

		GroundingMetadata struct {
			GroundingChunks []struct {
				Web struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, prompt, system string) (string, error) {
	text, _, err := c.generateWithSource(ctx, prompt, system)
	return text, err
}

func (c *Client) generateWithSource(ctx context.Context, prompt, system string) (text, source string, err error) {
	payload := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	if system != "" {
		payload.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", "", fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", "", fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, snippet)
	}

	var env generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", "", fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if len(env.Candidates) == 0 {
		return "", "", fmt.Errorf("%w: no candidates in response", ErrUnavailable)
	}

	cand := env.Candidates[0]
	var sb strings.Builder
	for _, p := range cand.Content.Parts {
		sb.WriteString(p.Text)
	}
	if chunks := cand.GroundingMetadata.GroundingChunks; len(chunks) > 0 {
		source = chunks[0].Web.URI
		if source == "" {
			source = chunks[0].Web.Title
		}
	}
	return sb.String(), source, nil
}

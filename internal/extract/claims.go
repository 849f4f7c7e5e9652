// Package extract converts chunk text into structured claims through an
// ordered chain of strategies: primary capability, secondary capability,
// then a deterministic heuristic that cannot fail.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/vkarel/concord/internal/llm"
	"github.com/vkarel/concord/internal/model"
	"github.com/vkarel/concord/internal/repair"
)

// defaultCooldown is applied when a rate-limited provider does not suggest
// a retry delay.
const defaultCooldown = 30 * time.Second

var errEmptyClaim = errors.New("extract: model returned no claim text")

// ClaimExtractor runs the per-chunk extraction chain. Each instance owns
// its own cooldown deadline; there is no cross-instance coordination, so
// concurrent extractors may each independently enter cooldown. An instance
// is not safe for concurrent use.
type ClaimExtractor struct {
	primary   llm.Provider
	secondary llm.Provider
	heuristic *HeuristicExtractor

	temperature float32
	maxTokens   int

	cooldownUntil time.Time
	now           func() time.Time
}

// NewClaimExtractor creates an extractor. Either or both providers may be
// nil; with zero handles every chunk goes straight to the heuristic.
func NewClaimExtractor(primary, secondary llm.Provider) *ClaimExtractor {
	return &ClaimExtractor{
		primary:     primary,
		secondary:   secondary,
		heuristic:   NewHeuristicExtractor(),
		temperature: 0.15,
		maxTokens:   280,
		now:         time.Now,
	}
}

// modelClaim is the loose shape tolerated from model output. Confidence is
// kept raw because models emit numbers, quoted numbers, or nothing at all.
type modelClaim struct {
	Text       string          `json:"text"`
	Confidence json.RawMessage `json:"confidence"`
	Methods    []string        `json:"methods"`
	Metrics    []string        `json:"metrics"`
	Provenance []string        `json:"provenance"`
}

// ExtractClaim always returns a claim for the chunk. Model failures of any
// kind, including unparseable output, fall through the chain; the heuristic
// terminates it. An active cooldown skips the primary step entirely.
func (e *ClaimExtractor) ExtractClaim(ctx context.Context, chunkText, chunkID string) model.Claim {
	if e.primary != nil && !e.now().Before(e.cooldownUntil) {
		claim, err := e.tryProvider(ctx, e.primary, chunkText, chunkID)
		if err == nil {
			return claim
		}
		if rl, ok := llm.AsRateLimit(err); ok {
			delay := rl.RetryAfter
			if delay <= 0 {
				delay = defaultCooldown
			}
			e.cooldownUntil = e.now().Add(delay)
		}
	}

	if e.secondary != nil {
		if claim, err := e.tryProvider(ctx, e.secondary, chunkText, chunkID); err == nil {
			return claim
		}
	}

	return e.heuristic.Extract(chunkText, chunkID)
}

// CooldownUntil reports the current cooldown deadline; zero when the
// instance has never been rate limited.
func (e *ClaimExtractor) CooldownUntil() time.Time {
	return e.cooldownUntil
}

// tryProvider is one model step: generate, repair, normalize. A repair
// failure is indistinguishable from a call failure to the caller.
func (e *ClaimExtractor) tryProvider(ctx context.Context, p llm.Provider, chunkText, chunkID string) (model.Claim, error) {
	raw, err := p.Generate(ctx, llm.GenerateRequest{
		Prompt:      buildExtractionPrompt(chunkText),
		Temperature: e.temperature,
		MaxTokens:   e.maxTokens,
	})
	if err != nil {
		return model.Claim{}, err
	}

	var mc modelClaim
	if err := repair.RepairInto(raw, &mc); err != nil {
		return model.Claim{}, err
	}
	if strings.TrimSpace(mc.Text) == "" {
		return model.Claim{}, errEmptyClaim
	}

	return normalizeClaim(mc, chunkID), nil
}

// normalizeClaim fills defaults and coerces types on a model-derived claim:
// provenance falls back to the originating chunk, method/metric sets default
// to empty, confidence is clamped into [0,1].
func normalizeClaim(mc modelClaim, chunkID string) model.Claim {
	provenance := mc.Provenance
	if len(provenance) == 0 {
		provenance = []string{chunkID}
	}
	methods := mc.Methods
	if methods == nil {
		methods = []string{}
	}
	metrics := mc.Metrics
	if metrics == nil {
		metrics = []string{}
	}

	return model.Claim{
		Text:         strings.TrimSpace(mc.Text),
		Confidence:   model.ClampConfidence(coerceFloat(mc.Confidence)),
		Provenance:   provenance,
		Methods:      methods,
		Metrics:      metrics,
		UsedFallback: false,
	}
}

// coerceFloat reads a JSON number or a quoted number, defaulting to 0.
func coerceFloat(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}

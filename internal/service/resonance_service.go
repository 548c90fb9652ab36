package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"

	"quantumconnections/internal/config"
	"quantumconnections/internal/model"

	"go.uber.org/zap"
)

// Notices shown to the user when a fallback reading is used.
const (
	NoticeMissingKey    = "مفتاح API مفقود. يتم استخدام بيانات تجريبية."
	NoticeRequestFailed = "فشل الاتصال بالذكاء الاصطناعي. يتم استخدام بيانات تجريبية."
)

// ResonanceService turns a finished answer record into a reading. It makes
// at most one call per record and never fails: any problem yields the
// fallback reading.
type ResonanceService struct {
	config    *config.AIConfig
	generator Generator
	logger    *zap.Logger
}

// NewResonanceService creates the service. generator may be nil when no
// key is configured.
func NewResonanceService(cfg *config.AIConfig, generator Generator, logger *zap.Logger) *ResonanceService {
	return &ResonanceService{
		config:    cfg,
		generator: generator,
		logger:    logger,
	}
}

// Request asks the model for a reading of the record.
func (s *ResonanceService) Request(ctx context.Context, record model.AnswerRecord) model.Outcome {
	if !s.config.IsEnabled() || s.generator == nil {
		s.logger.Warn("resonance: API key missing, using fallback")
		return fallback(model.FailureMissingCredential)
	}
	text, err := s.generator.GenerateText(ctx, s.config.Model, BuildPrompt(record))
	if err != nil {
		s.logger.Error("resonance: request failed", zap.String("model", s.config.Model), zap.Error(err))
		return fallback(model.FailureTransport)
	}

	result, err := ParseResult(text)
	if err != nil {
		s.logger.Error("resonance: unusable response", zap.Error(err), zap.Int("length", len(text)))
		return fallback(model.FailureMalformedResponse)
	}
	return model.Outcome{Result: result}
}

func fallback(kind model.FailureKind) model.Outcome {
	notice := NoticeRequestFailed
	if kind == model.FailureMissingCredential {
		notice = NoticeMissingKey
	}
	return model.Outcome{
		Result:   model.FallbackResult(),
		Fallback: true,
		Failure:  kind,
		Notice:   notice,
	}
}

var fencePattern = regexp.MustCompile("```(?:json)?\\n?|\\n?```")

// ParseResult decodes the model's JSON answer. Markdown code fences around
// the object are tolerated; nothing else may follow it and all four fields
// must be present.
func ParseResult(text string) (model.ResonanceResult, error) {
	text = strings.TrimSpace(fencePattern.ReplaceAllString(text, ""))

	var raw struct {
		ArchetypeTitle *string      `json:"archetypeTitle"`
		Quote          *string      `json:"quote"`
		Score          *json.Number `json:"score"`
		Insight        *string      `json:"insight"`
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return model.ResonanceResult{}, fmt.Errorf("decode result: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return model.ResonanceResult{}, errors.New("decode result: trailing data after object")
	}

	var missing []string
	if raw.ArchetypeTitle == nil {
		missing = append(missing, "archetypeTitle")
	}
	if raw.Quote == nil {
		missing = append(missing, "quote")
	}
	if raw.Score == nil {
		missing = append(missing, "score")
	}
	if raw.Insight == nil {
		missing = append(missing, "insight")
	}
	if len(missing) > 0 {
		return model.ResonanceResult{}, fmt.Errorf("result missing fields: %s", strings.Join(missing, ", "))
	}

	score, err := raw.Score.Float64()
	if err != nil {
		return model.ResonanceResult{}, fmt.Errorf("score %q: %w", raw.Score.String(), err)
	}
	if score < math.MinInt32 || score > math.MaxInt32 {
		return model.ResonanceResult{}, fmt.Errorf("score %s out of range", raw.Score.String())
	}

	return model.ResonanceResult{
		ArchetypeTitle: *raw.ArchetypeTitle,
		Quote:          *raw.Quote,
		Score:          int(score),
		Insight:        *raw.Insight,
	}, nil
}

// BuildPrompt interpolates the record into the reading prompt.
func BuildPrompt(r model.AnswerRecord) string {
	return fmt.Sprintf(`
Role: You are the inner voice of a single soul shared by two bodies.
Task: Distill the "Cosmic Metaphors" into a single, explosive realization of emotional truth.

**CRITICAL RULES:**
1. **Language:** STRICTLY Classical Arabic (الفصحى).
2. **Length:** VERY SHORT. Max 20 words. One powerful, dense sentence.
3. **Perspective:** Use "We" (نحن). You are speaking TO YOURSELVES, not to an audience.
   - NEVER use: "يا أحبائي" (Oh loved ones), "أيها..." (Oh...), or address anyone.
4. **Tone:** Intense, Sufi, metaphysical. Not flowery, but piercing.

Input Data:
- Names: %s & %s
- Relationship: %s
- Metaphors:
  * "%s" -> "%s"
  * "%s" -> "%s"
  * "%s" -> "%s"

**Examples of Desired Output (JSON):**

Example 1:
{
  "archetypeTitle": "الاحتراق المقدس",
  "quote": "نحن نار تلتهم المسافات.",
  "score": 98,
  "insight": "تلاشت حدودنا في لحظة صدق، فصرنا لهيباً واحداً يحرق كل ما يفرقنا."
}

Example 2:
{
  "archetypeTitle": "الملاذ الأبدي",
  "quote": "أنت استقراري في مهب الريح.",
  "score": 92,
  "insight": "في فوضى الكون، وجدنا في بعضنا وطناً لا يغادره السكينة، وجذوراً تأبى الاقتلاع."
}

**Your Turn:**
Based on the input, generate the JSON.
valid JSON only.
`,
		r.Name1, r.Name2, r.Relationship,
		r.Q1Question, r.Q1Text,
		r.Q2Question, r.Q2Text,
		r.Q3Question, r.Q3Text)
}

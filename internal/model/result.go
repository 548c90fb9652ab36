package model

// ResonanceResult is the four-field payload shown on the result card.
type ResonanceResult struct {
	ArchetypeTitle string `json:"archetypeTitle"`
	Quote          string `json:"quote"`
	Score          int    `json:"score"`
	Insight        string `json:"insight"`
}

// FallbackResult is substituted whenever the generative call fails.
func FallbackResult() ResonanceResult {
	return ResonanceResult{
		ArchetypeTitle: "تناغم الأرواح",
		Quote:          "في عمق الصمت، تجدون اللغة التي لا تحتاج إلى كلمات.",
		Score:          88,
		Insight:        "نحن روح واحدة في جسدين، يجمعنا القدر وتوحدنا الأيام.",
	}
}

// DefaultQuote is displayed when a result carries an empty quote.
const DefaultQuote = "حين تلتقي روحان، لا يعود للحدود معنى ولا للخوف وجود"

// FailureKind classifies why a fallback was used.
type FailureKind string

const (
	FailureNone              FailureKind = ""
	FailureMissingCredential FailureKind = "missing_credential"
	FailureTransport         FailureKind = "transport"
	FailureMalformedResponse FailureKind = "malformed_response"
)

// Outcome is what the result requester hands back. It never carries an
// error: on failure Result is FallbackResult and Fallback is set.
type Outcome struct {
	Result   ResonanceResult `json:"result"`
	Fallback bool            `json:"fallback"`
	Failure  FailureKind     `json:"failure,omitempty"`
	Notice   string          `json:"notice,omitempty"`
}

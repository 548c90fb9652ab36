package model

// Palette is the colour theme of a category's result card.
type Palette struct {
	Colors      []string `json:"colors"` // primary, secondary, highlight
	Accent      string   `json:"accent"`
	CardBg      string   `json:"cardBg"`
	GlowRGB     string   `json:"glowRgb"`
	ButtonStart string   `json:"buttonStart"`
	ButtonEnd   string   `json:"buttonEnd"`
}

// SessionView is the client-facing projection of a Session.
type SessionView struct {
	ID         string           `json:"id"`
	Step       AppStep          `json:"step"`
	WizardStep WizardStep       `json:"wizardStep"`
	Record     AnswerRecord     `json:"record"`
	Phase      string           `json:"phase,omitempty"`
	Question   *Question        `json:"question,omitempty"`
	Result     *ResonanceResult `json:"result,omitempty"`
	Fallback   bool             `json:"fallback,omitempty"`
	Notice     string           `json:"notice,omitempty"`
	Match      int              `json:"matchPercent,omitempty"`
	Palette    *Palette         `json:"palette,omitempty"`
}

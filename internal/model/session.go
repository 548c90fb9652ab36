package model

import "time"

// WizardStep is the position inside the input wizard.
type WizardStep string

const (
	StepNames WizardStep = "NAMES"
	StepQ1    WizardStep = "Q1"
	StepQ2    WizardStep = "Q2"
	StepQ3    WizardStep = "Q3"
	StepDone  WizardStep = "DONE"
)

// Phase maps a question step to its phase.
func (s WizardStep) Phase() (Phase, bool) {
	switch s {
	case StepQ1:
		return PhaseOrbit, true
	case StepQ2:
		return PhaseImpact, true
	case StepQ3:
		return PhaseGravity, true
	}
	return 0, false
}

// AppStep is the screen the client should show.
type AppStep string

const (
	AppInput      AppStep = "INPUT"
	AppSimulating AppStep = "SIMULATING"
	AppResult     AppStep = "RESULT"
)

// WizardState is the serialisable state of the wizard machine.
type WizardState struct {
	Step         WizardStep   `json:"step"`
	Record       AnswerRecord `json:"record"`
	Questions    QuestionSet  `json:"questions"`
	QuestionsFor Category     `json:"questionsFor"`
}

// Session is one client's pass through the app, stored in redis.
type Session struct {
	ID           string           `json:"id"`
	Step         AppStep          `json:"step"`
	Wizard       WizardState      `json:"wizard"`
	Attempt      string           `json:"attempt,omitempty"` // id of the in-flight request
	Result       *ResonanceResult `json:"result,omitempty"`
	Fallback     bool             `json:"fallback,omitempty"`
	Notice       string           `json:"notice,omitempty"`
	MatchPercent int              `json:"matchPercent,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	SubmittedAt  *time.Time       `json:"submittedAt,omitempty"`
	ResolvedAt   *time.Time       `json:"resolvedAt,omitempty"`
}

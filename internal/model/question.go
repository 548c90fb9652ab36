package model

// Phase is one of the three sequential question steps.
type Phase int

const (
	PhaseOrbit   Phase = iota + 1 // role
	PhaseImpact                   // collision
	PhaseGravity                  // bond
)

// Phases lists the phases in wizard order.
func Phases() []Phase {
	return []Phase{PhaseOrbit, PhaseImpact, PhaseGravity}
}

func (p Phase) String() string {
	switch p {
	case PhaseOrbit:
		return "ORBIT"
	case PhaseImpact:
		return "IMPACT"
	case PhaseGravity:
		return "GRAVITY"
	}
	return "UNKNOWN"
}

// Option is one selectable answer of a question.
type Option struct {
	Label    string `json:"label" yaml:"label"`
	SubLabel string `json:"subLabel" yaml:"subLabel"`
	Icon     string `json:"icon" yaml:"icon"`
	Shape    Shape  `json:"visualShape,omitempty" yaml:"shape,omitempty"`   // phase 1 only
	Motion   Motion `json:"visualMotion,omitempty" yaml:"motion,omitempty"` // phase 3 only
}

// AnswerText is the text recorded for the prompt when the option is chosen.
func (o Option) AnswerText() string {
	return o.Label + ": " + o.SubLabel
}

// Question is a prompt with exactly three options.
type Question struct {
	Text    string   `json:"question" yaml:"question"`
	Options []Option `json:"options" yaml:"options"`
}

// QuestionSet holds the question rolled for each phase.
type QuestionSet struct {
	Q1 Question `json:"q1"`
	Q2 Question `json:"q2"`
	Q3 Question `json:"q3"`
}

// ForPhase returns the question shown at phase p.
func (s *QuestionSet) ForPhase(p Phase) (Question, bool) {
	switch p {
	case PhaseOrbit:
		return s.Q1, true
	case PhaseImpact:
		return s.Q2, true
	case PhaseGravity:
		return s.Q3, true
	}
	return Question{}, false
}

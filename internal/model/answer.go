package model

import "strings"

// AnswerRecord accumulates the wizard input. It is handed to the result
// requester once the third phase commits and is not mutated after that.
type AnswerRecord struct {
	Name1        string   `json:"name1"`
	Gender1      Gender   `json:"gender1"`
	Name2        string   `json:"name2"`
	Gender2      Gender   `json:"gender2"`
	Relationship Category `json:"relationship"`

	// Derived visual tags. Not consumed by the geometry generator.
	Shape  Shape  `json:"qShape"`
	Motion Motion `json:"qMotion"`

	Q1Text string `json:"q1Text"`
	Q2Text string `json:"q2Text"`
	Q3Text string `json:"q3Text"`

	Q1Question string `json:"q1Question"`
	Q2Question string `json:"q2Question"`
	Q3Question string `json:"q3Question"`
}

// InitialRecord is the record a fresh or reset wizard starts from.
func InitialRecord() AnswerRecord {
	return AnswerRecord{
		Gender1:      GenderMale,
		Gender2:      GenderFemale,
		Relationship: DefaultCategory,
		Shape:        ShapeCrystal,
		Motion:       MotionGlass,
	}
}

// HasNames reports whether both participant names are non-blank.
func (r *AnswerRecord) HasNames() bool {
	return strings.TrimSpace(r.Name1) != "" && strings.TrimSpace(r.Name2) != ""
}

// Complete reports whether the record may be sent for a reading.
func (r *AnswerRecord) Complete() bool {
	return r.HasNames() && r.Relationship != "" &&
		r.Q1Text != "" && r.Q2Text != "" && r.Q3Text != ""
}

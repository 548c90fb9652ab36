// Package wizard sequences the input steps NAMES -> Q1 -> Q2 -> Q3 and
// accumulates the answer record.
package wizard

import (
	"errors"
	"fmt"
	"strings"

	"quantumconnections/internal/model"
	"quantumconnections/internal/question"
)

var (
	ErrNamesRequired     = errors.New("both participant names are required")
	ErrInvalidTransition = errors.New("invalid wizard transition")
	ErrCategoryLocked    = errors.New("category can only change on the names step")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrUnknownGender     = errors.New("unknown gender")
	ErrInvalidOption     = errors.New("option index out of range")
	ErrNotFinished       = errors.New("wizard has not finished")
)

// validTransitions lists the legal forward moves. DONE has none.
var validTransitions = map[model.WizardStep]map[model.WizardStep]bool{
	model.StepNames: {model.StepQ1: true},
	model.StepQ1:    {model.StepQ2: true},
	model.StepQ2:    {model.StepQ3: true},
	model.StepQ3:    {model.StepDone: true},
}

// IsValidTransition reports whether the wizard may move from one step to another.
func IsValidTransition(from, to model.WizardStep) bool {
	return validTransitions[from][to]
}

// Machine drives a WizardState. It is not safe for concurrent use.
type Machine struct {
	state model.WizardState
	src   question.Source
}

// New starts a wizard at NAMES with the default record and a fresh question roll.
func New(src question.Source) *Machine {
	m := &Machine{src: src}
	m.init()
	return m
}

// Restore resumes a machine from a stored state.
func Restore(state model.WizardState, src question.Source) *Machine {
	return &Machine{state: state, src: src}
}

func (m *Machine) init() {
	m.state = model.WizardState{
		Step:   model.StepNames,
		Record: model.InitialRecord(),
	}
	m.roll(m.state.Record.Relationship)
}

func (m *Machine) roll(cat model.Category) {
	m.state.Questions = question.Select(cat, m.src)
	m.state.QuestionsFor = cat
}

// State returns a copy of the current state for storage.
func (m *Machine) State() model.WizardState { return m.state }

// Step returns the current step.
func (m *Machine) Step() model.WizardStep { return m.state.Step }

// Questions returns the rolled question set. Reading does not re-roll.
func (m *Machine) Questions() model.QuestionSet { return m.state.Questions }

// SetParticipants records names and gender tags. Only allowed on NAMES.
func (m *Machine) SetParticipants(name1 string, gender1 model.Gender, name2 string, gender2 model.Gender) error {
	if m.state.Step != model.StepNames {
		return fmt.Errorf("%w: participants are fixed after %s", ErrInvalidTransition, model.StepNames)
	}
	if !gender1.Valid() || !gender2.Valid() {
		return ErrUnknownGender
	}
	m.state.Record.Name1 = name1
	m.state.Record.Gender1 = gender1
	m.state.Record.Name2 = name2
	m.state.Record.Gender2 = gender2
	return nil
}

// SetCategory selects the relationship category. The question set is
// re-rolled only when the category actually changes.
func (m *Machine) SetCategory(cat model.Category) error {
	if m.state.Step != model.StepNames {
		return ErrCategoryLocked
	}
	if !cat.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, cat)
	}
	m.state.Record.Relationship = cat
	if m.state.QuestionsFor != cat {
		m.roll(cat)
	}
	return nil
}

// Advance moves NAMES -> Q1 once both names are present.
func (m *Machine) Advance() error {
	if m.state.Step != model.StepNames {
		return fmt.Errorf("%w: advance from %s", ErrInvalidTransition, m.state.Step)
	}
	if !m.state.Record.HasNames() {
		return ErrNamesRequired
	}
	m.state.Record.Name1 = strings.TrimSpace(m.state.Record.Name1)
	m.state.Record.Name2 = strings.TrimSpace(m.state.Record.Name2)
	return m.transition(model.StepQ1)
}

// CurrentQuestion returns the question of the current phase.
func (m *Machine) CurrentQuestion() (model.Phase, model.Question, bool) {
	phase, ok := m.state.Step.Phase()
	if !ok {
		return 0, model.Question{}, false
	}
	q, _ := m.state.Questions.ForPhase(phase)
	return phase, q, true
}

// Choose commits option index of the current question and moves forward.
// It reports whether the wizard finished, which happens on the Q3 commit.
func (m *Machine) Choose(index int) (bool, error) {
	phase, q, ok := m.CurrentQuestion()
	if !ok {
		return false, fmt.Errorf("%w: no question on %s", ErrInvalidTransition, m.state.Step)
	}
	if index < 0 || index >= len(q.Options) {
		return false, fmt.Errorf("%w: %d", ErrInvalidOption, index)
	}
	opt := q.Options[index]
	rec := &m.state.Record

	var next model.WizardStep
	switch phase {
	case model.PhaseOrbit:
		rec.Shape = opt.Shape
		if rec.Shape == "" {
			rec.Shape = model.ShapeCrystal
		}
		rec.Q1Text, rec.Q1Question = opt.AnswerText(), q.Text
		next = model.StepQ2
	case model.PhaseImpact:
		rec.Q2Text, rec.Q2Question = opt.AnswerText(), q.Text
		next = model.StepQ3
	case model.PhaseGravity:
		rec.Motion = opt.Motion
		if rec.Motion == "" {
			rec.Motion = model.MotionGlass
		}
		rec.Q3Text, rec.Q3Question = opt.AnswerText(), q.Text
		next = model.StepDone
	}
	if err := m.transition(next); err != nil {
		return false, err
	}
	return next == model.StepDone, nil
}

// Record returns the finished answer record.
func (m *Machine) Record() (model.AnswerRecord, error) {
	if m.state.Step != model.StepDone {
		return model.AnswerRecord{}, ErrNotFinished
	}
	return m.state.Record, nil
}

// Reset clears everything back to the initial values.
func (m *Machine) Reset() {
	m.init()
}

func (m *Machine) transition(to model.WizardStep) error {
	if !IsValidTransition(m.state.Step, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state.Step, to)
	}
	m.state.Step = to
	return nil
}

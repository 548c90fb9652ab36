package wizard

import (
	"encoding/json"
	"errors"
	"testing"

	"quantumconnections/internal/model"
	"quantumconnections/internal/question"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource always picks the same index.
type fixedSource struct{ i int }

func (s *fixedSource) IntN(n int) int { return s.i % n }

func named(t *testing.T, src question.Source) *Machine {
	t.Helper()
	m := New(src)
	require.NoError(t, m.SetParticipants("سارة", model.GenderFemale, "علي", model.GenderMale))
	return m
}

func TestNew_InitialState(t *testing.T) {
	m := New(&fixedSource{})
	s := m.State()
	assert.Equal(t, model.StepNames, s.Step)
	assert.Equal(t, model.InitialRecord(), s.Record)
	assert.Equal(t, model.CategoryAffection, s.QuestionsFor)
	assert.Equal(t, question.Pool(model.CategoryAffection).Q1[0].Text, s.Questions.Q1.Text)
}

func TestIsValidTransition(t *testing.T) {
	tests := []struct {
		from, to model.WizardStep
		want     bool
	}{
		{model.StepNames, model.StepQ1, true},
		{model.StepQ1, model.StepQ2, true},
		{model.StepQ2, model.StepQ3, true},
		{model.StepQ3, model.StepDone, true},
		{model.StepQ1, model.StepNames, false},
		{model.StepNames, model.StepQ3, false},
		{model.StepNames, model.StepDone, false},
		{model.StepDone, model.StepNames, false},
		{model.StepDone, model.StepQ1, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestAdvance_BlockedWhileNameMissing(t *testing.T) {
	tests := []struct {
		name         string
		name1, name2 string
	}{
		{"both empty", "", ""},
		{"first empty", "", "علي"},
		{"second empty", "سارة", ""},
		{"whitespace only", "   ", "علي"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(&fixedSource{})
			require.NoError(t, m.SetParticipants(tt.name1, model.GenderMale, tt.name2, model.GenderFemale))
			err := m.Advance()
			assert.ErrorIs(t, err, ErrNamesRequired)
			assert.Equal(t, model.StepNames, m.Step())

			_, err = m.Choose(0)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			_, err = m.Record()
			assert.ErrorIs(t, err, ErrNotFinished)
		})
	}
}

func TestFullRun_RecordsAnswers(t *testing.T) {
	m := named(t, &fixedSource{i: 1})
	require.NoError(t, m.SetCategory(model.CategoryKinship))
	require.NoError(t, m.Advance())
	assert.Equal(t, model.StepQ1, m.Step())

	pool := question.Pool(model.CategoryKinship)

	phase, q, ok := m.CurrentQuestion()
	require.True(t, ok)
	assert.Equal(t, model.PhaseOrbit, phase)
	assert.Equal(t, pool.Q1[1].Text, q.Text)

	done, err := m.Choose(2)
	require.NoError(t, err)
	assert.False(t, done)
	done, err = m.Choose(0)
	require.NoError(t, err)
	assert.False(t, done)
	done, err = m.Choose(1)
	require.NoError(t, err)
	assert.True(t, done)

	rec, err := m.Record()
	require.NoError(t, err)
	assert.True(t, rec.Complete())
	assert.Equal(t, model.CategoryKinship, rec.Relationship)

	o1 := pool.Q1[1].Options[2]
	assert.Equal(t, o1.Label+": "+o1.SubLabel, rec.Q1Text)
	assert.Equal(t, pool.Q1[1].Text, rec.Q1Question)
	assert.Equal(t, o1.Shape, rec.Shape)

	o2 := pool.Q2[1].Options[0]
	assert.Equal(t, o2.Label+": "+o2.SubLabel, rec.Q2Text)
	assert.Equal(t, pool.Q2[1].Text, rec.Q2Question)

	o3 := pool.Q3[1].Options[1]
	assert.Equal(t, o3.Label+": "+o3.SubLabel, rec.Q3Text)
	assert.Equal(t, pool.Q3[1].Text, rec.Q3Question)
	assert.Equal(t, o3.Motion, rec.Motion)
}

func TestDone_IsTerminal(t *testing.T) {
	m := named(t, &fixedSource{})
	require.NoError(t, m.Advance())
	for i := 0; i < 3; i++ {
		_, err := m.Choose(0)
		require.NoError(t, err)
	}
	_, err := m.Choose(0)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, m.Advance(), ErrInvalidTransition)
	assert.ErrorIs(t, m.SetCategory(model.CategoryRivalry), ErrCategoryLocked)
	assert.ErrorIs(t, m.SetParticipants("a", model.GenderMale, "b", model.GenderMale), ErrInvalidTransition)
	assert.Equal(t, model.StepDone, m.Step())
}

func TestChoose_RejectsBadIndex(t *testing.T) {
	m := named(t, &fixedSource{})
	require.NoError(t, m.Advance())
	for _, idx := range []int{-1, 3, 10} {
		_, err := m.Choose(idx)
		assert.ErrorIs(t, err, ErrInvalidOption)
	}
	assert.Equal(t, model.StepQ1, m.Step())
}

func TestChoose_DefaultsMissingVisualTags(t *testing.T) {
	state := New(&fixedSource{}).State()
	state.Step = model.StepQ1
	state.Record.Name1, state.Record.Name2 = "a", "b"
	state.Record.Shape = ""
	state.Record.Motion = ""
	for i := range state.Questions.Q1.Options {
		state.Questions.Q1.Options[i].Shape = ""
	}
	state.Questions.Q3.Options = append([]model.Option(nil), state.Questions.Q3.Options...)
	for i := range state.Questions.Q3.Options {
		state.Questions.Q3.Options[i].Motion = ""
	}

	m := Restore(state, &fixedSource{})
	for i := 0; i < 3; i++ {
		_, err := m.Choose(0)
		require.NoError(t, err)
	}
	rec, err := m.Record()
	require.NoError(t, err)
	assert.Equal(t, model.ShapeCrystal, rec.Shape)
	assert.Equal(t, model.MotionGlass, rec.Motion)
}

func TestSetCategory_RerollsOnlyOnChange(t *testing.T) {
	src := &fixedSource{i: 0}
	m := New(src)
	before := m.Questions()

	// Same category: no re-roll even though the source would now pick differently.
	src.i = 2
	require.NoError(t, m.SetCategory(model.CategoryAffection))
	assert.Equal(t, before, m.Questions())
	assert.Equal(t, before, m.Questions())

	require.NoError(t, m.SetCategory(model.CategoryFriendship))
	assert.Equal(t, question.Pool(model.CategoryFriendship).Q1[2].Text, m.Questions().Q1.Text)
	rolled := m.Questions()

	src.i = 1
	require.NoError(t, m.SetCategory(model.CategoryFriendship))
	assert.Equal(t, rolled, m.Questions())

	require.NoError(t, m.SetCategory(model.CategoryAffection))
	assert.Equal(t, question.Pool(model.CategoryAffection).Q1[1].Text, m.Questions().Q1.Text)
}

func TestSetCategory_Validation(t *testing.T) {
	m := New(&fixedSource{})
	err := m.SetCategory(model.Category("Enemies"))
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.Equal(t, model.CategoryAffection, m.State().Record.Relationship)

	m = named(t, &fixedSource{})
	require.NoError(t, m.Advance())
	assert.ErrorIs(t, m.SetCategory(model.CategoryRivalry), ErrCategoryLocked)
	assert.Equal(t, model.CategoryAffection, m.State().Record.Relationship)
}

func TestSetParticipants_RejectsUnknownGender(t *testing.T) {
	m := New(&fixedSource{})
	err := m.SetParticipants("a", model.Gender("x"), "b", model.GenderFemale)
	assert.True(t, errors.Is(err, ErrUnknownGender))
}

func TestReset_ReturnsToInitialValues(t *testing.T) {
	m := named(t, &fixedSource{})
	require.NoError(t, m.SetCategory(model.CategoryRivalry))
	require.NoError(t, m.Advance())
	for i := 0; i < 3; i++ {
		_, err := m.Choose(2)
		require.NoError(t, err)
	}

	m.Reset()
	s := m.State()
	assert.Equal(t, model.StepNames, s.Step)
	assert.Empty(t, s.Record.Name1)
	assert.Empty(t, s.Record.Name2)
	assert.Equal(t, model.DefaultCategory, s.Record.Relationship)
	assert.Empty(t, s.Record.Q1Text)
	assert.Empty(t, s.Record.Q2Text)
	assert.Empty(t, s.Record.Q3Text)
	assert.Empty(t, s.Record.Q1Question)
	assert.Equal(t, model.InitialRecord(), s.Record)
	assert.Equal(t, model.DefaultCategory, s.QuestionsFor)
}

func TestRestore_ContinuesFromStoredJSON(t *testing.T) {
	m := named(t, &fixedSource{i: 1})
	require.NoError(t, m.Advance())
	_, err := m.Choose(1)
	require.NoError(t, err)

	data, err := json.Marshal(m.State())
	require.NoError(t, err)
	var stored model.WizardState
	require.NoError(t, json.Unmarshal(data, &stored))

	r := Restore(stored, &fixedSource{})
	assert.Equal(t, model.StepQ2, r.Step())
	assert.Equal(t, m.Questions(), r.Questions())
	_, err = r.Choose(0)
	require.NoError(t, err)
	assert.Equal(t, model.StepQ3, r.Step())
}

package form

import "fmt"

// phase is the validation phase of a field.
type phase string

const (
	phasePending phase = "pending"
	phaseValid   phase = "valid"
	phaseInvalid phase = "invalid"
)

// outcome is the result of one validation pass.
type outcome string

const (
	outcomePass outcome = "pass"
	outcomeFail outcome = "fail"
)

// phaseTransitions is the full transition table. No transition leads back
// to pending: once validated, a field stays validated.
var phaseTransitions = map[phase]map[outcome]phase{
	phasePending: {outcomePass: phaseValid, outcomeFail: phaseInvalid},
	phaseValid:   {outcomePass: phaseValid, outcomeFail: phaseInvalid},
	phaseInvalid: {outcomePass: phaseValid, outcomeFail: phaseInvalid},
}

// TransitionError reports a phase change missing from the transition table.
type TransitionError struct {
	From    string
	Outcome string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("form: no transition from phase '%s' on '%s'", e.From, e.Outcome)
}

type lifecycle struct {
	current phase
}

func newLifecycle() lifecycle {
	return lifecycle{current: phasePending}
}

func (l *lifecycle) fire(o outcome) error {
	next, ok := phaseTransitions[l.current][o]
	if !ok {
		return &TransitionError{From: string(l.current), Outcome: string(o)}
	}
	l.current = next
	return nil
}

func (l lifecycle) validated() bool {
	return l.current != phasePending
}

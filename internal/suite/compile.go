package suite

import (
	"fmt"

	"github.com/roach88/brine/internal/session"
	"github.com/roach88/brine/internal/step"
)

// Compile turns a validated definition into a scenario and its initial
// session.
func Compile(def *Definition) (step.Scenario, session.Session, error) {
	if err := Validate(def); err != nil {
		return step.Scenario{}, session.Session{}, err
	}

	steps, err := compileSteps(def.Steps)
	if err != nil {
		return step.Scenario{}, session.Session{}, err
	}
	return step.Scenario{Name: def.Name, Steps: steps}, session.FromMap(def.Session), nil
}

func compileSteps(defs []StepDef) ([]step.Step, error) {
	steps := make([]step.Step, 0, len(defs))
	for _, d := range defs {
		if d.Eventually != nil {
			region, err := compileEventually(d.Eventually)
			if err != nil {
				return nil, err
			}
			// Markers go straight into the enclosing list so an unreached
			// region is listed by its title.
			steps = append(steps, region...)
			continue
		}

		s, err := compileStep(d)
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, nil
}

func compileEventually(d *EventuallyDef) ([]step.Step, error) {
	conf, err := parseEventually(d)
	if err != nil {
		return nil, err
	}
	nested, err := compileSteps(d.Steps)
	if err != nil {
		return nil, err
	}
	return step.Eventually(conf, nested...), nil
}

func compileStep(d StepDef) (step.Step, error) {
	switch {
	case d.Set != nil:
		return Set(d.Set.Key, d.Set.Value), nil
	case d.Assert != nil:
		return Assert(d.Assert.Title, d.Assert.Key, d.Assert.Equals, d.Assert.Negate), nil
	case d.Debug != nil:
		return Debug(d.Debug.Title, d.Debug.Keys...), nil
	case d.ReadFile != nil:
		return ReadFile(d.ReadFile.Path, d.ReadFile.Key), nil
	case d.Attach != nil:
		nested, err := compileSteps(d.Attach.Steps)
		if err != nil {
			return nil, err
		}
		return step.Attach{Steps: nested}, nil
	default:
		return nil, fmt.Errorf("step has no action")
	}
}

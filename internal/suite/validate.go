package suite

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/brine/internal/step"
)

// Validate checks that a definition can be compiled. It returns the first
// problem found, prefixed with the path of the offending entry.
func Validate(def *Definition) error {
	if def == nil {
		return fmt.Errorf("definition is empty")
	}
	if strings.TrimSpace(def.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if len(def.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	return validateSteps("steps", def.Steps)
}

func validateSteps(path string, steps []StepDef) error {
	for i, st := range steps {
		if err := validateStep(fmt.Sprintf("%s[%d]", path, i), st); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(path string, st StepDef) error {
	actions := st.actions()
	switch len(actions) {
	case 0:
		return fmt.Errorf("%s: one action is required (set, assert, debug, read_file, attach, eventually)", path)
	case 1:
	default:
		return fmt.Errorf("%s: exactly one action is allowed, got %s", path, strings.Join(actions, ", "))
	}

	switch {
	case st.Set != nil:
		if st.Set.Key == "" {
			return fmt.Errorf("%s.set: key is required", path)
		}
	case st.Assert != nil:
		if st.Assert.Key == "" {
			return fmt.Errorf("%s.assert: key is required", path)
		}
	case st.Debug != nil:
		for j, k := range st.Debug.Keys {
			if k == "" {
				return fmt.Errorf("%s.debug.keys[%d]: key must not be empty", path, j)
			}
		}
	case st.ReadFile != nil:
		if st.ReadFile.Path == "" {
			return fmt.Errorf("%s.read_file: path is required", path)
		}
		if st.ReadFile.Key == "" {
			return fmt.Errorf("%s.read_file: key is required", path)
		}
	case st.Attach != nil:
		return validateSteps(path+".attach.steps", st.Attach.Steps)
	case st.Eventually != nil:
		if _, err := parseEventually(st.Eventually); err != nil {
			return fmt.Errorf("%s.eventually: %w", path, err)
		}
		if len(st.Eventually.Steps) == 0 {
			return fmt.Errorf("%s.eventually: steps list is required and must be non-empty", path)
		}
		return validateSteps(path+".eventually.steps", st.Eventually.Steps)
	}
	return nil
}

// parseEventually parses and checks the durations of an eventually block.
func parseEventually(e *EventuallyDef) (conf step.EventuallyConf, err error) {
	if conf.MaxTime, err = parsePositive("max_time", e.MaxTime); err != nil {
		return conf, err
	}
	if conf.Interval, err = parsePositive("interval", e.Interval); err != nil {
		return conf, err
	}
	if conf.Interval > conf.MaxTime {
		return conf, fmt.Errorf("interval %s must not exceed max_time %s", conf.Interval, conf.MaxTime)
	}
	return conf, nil
}

func parsePositive(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", field, s)
	}
	return d, nil
}

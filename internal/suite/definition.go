package suite

// Definition is a scenario file as written.
type Definition struct {
	// Name identifies the scenario in reports and run history.
	Name string `yaml:"name" json:"name"`

	// Description explains what the scenario checks.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Session is the initial session. Keys are inserted in sorted order.
	Session map[string]any `yaml:"session,omitempty" json:"session,omitempty"`

	// Steps run in order.
	Steps []StepDef `yaml:"steps" json:"steps"`
}

// StepDef is one step entry. Exactly one field must be set.
type StepDef struct {
	Set        *SetDef        `yaml:"set,omitempty" json:"set,omitempty"`
	Assert     *AssertDef     `yaml:"assert,omitempty" json:"assert,omitempty"`
	Debug      *DebugDef      `yaml:"debug,omitempty" json:"debug,omitempty"`
	ReadFile   *ReadFileDef   `yaml:"read_file,omitempty" json:"read_file,omitempty"`
	Attach     *AttachDef     `yaml:"attach,omitempty" json:"attach,omitempty"`
	Eventually *EventuallyDef `yaml:"eventually,omitempty" json:"eventually,omitempty"`
}

// SetDef stores Value under Key.
type SetDef struct {
	Key   string `yaml:"key" json:"key"`
	Value any    `yaml:"value" json:"value"`
}

// AssertDef checks that the session value under Key equals Equals.
type AssertDef struct {
	// Title overrides the generated "assert <key> == <value>" title.
	Title  string `yaml:"title,omitempty" json:"title,omitempty"`
	Key    string `yaml:"key" json:"key"`
	Equals any    `yaml:"equals" json:"equals"`
	Negate bool   `yaml:"negate,omitempty" json:"negate,omitempty"`
}

// DebugDef logs the listed keys, or the whole session when Keys is empty.
type DebugDef struct {
	Title string   `yaml:"title,omitempty" json:"title,omitempty"`
	Keys  []string `yaml:"keys,omitempty" json:"keys,omitempty"`
}

// ReadFileDef stores the contents of Path under Key.
type ReadFileDef struct {
	Path string `yaml:"path" json:"path"`
	Key  string `yaml:"key" json:"key"`
}

// AttachDef groups steps without a title of their own.
type AttachDef struct {
	Steps []StepDef `yaml:"steps" json:"steps"`
}

// EventuallyDef retries Steps until they pass or MaxTime elapses.
// Durations use time.ParseDuration syntax ("200ms", "1m30s").
type EventuallyDef struct {
	MaxTime  string    `yaml:"max_time" json:"max_time"`
	Interval string    `yaml:"interval" json:"interval"`
	Steps    []StepDef `yaml:"steps" json:"steps"`
}

// Action names used in validation messages.
const (
	ActionSet        = "set"
	ActionAssert     = "assert"
	ActionDebug      = "debug"
	ActionReadFile   = "read_file"
	ActionAttach     = "attach"
	ActionEventually = "eventually"
)

// actions lists the actions set on d, in declaration order.
func (d StepDef) actions() []string {
	var out []string
	if d.Set != nil {
		out = append(out, ActionSet)
	}
	if d.Assert != nil {
		out = append(out, ActionAssert)
	}
	if d.Debug != nil {
		out = append(out, ActionDebug)
	}
	if d.ReadFile != nil {
		out = append(out, ActionReadFile)
	}
	if d.Attach != nil {
		out = append(out, ActionAttach)
	}
	if d.Eventually != nil {
		out = append(out, ActionEventually)
	}
	return out
}

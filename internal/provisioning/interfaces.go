package provisioning

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// Logger is the minimal printf-style logger.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Describer is implemented by phases that can list the calls they would
// make without making them.
type Describer interface {
	Describe(ctx *Context) []PlannedStep
}

// PlannedStep is one remote call as it would be sent.
type PlannedStep struct {
	Phase  string
	Action string
	// Params are the concrete parameters, in display order.
	Params []Param
}

// Param is a named parameter of a planned step.
type Param struct {
	Name  string
	Value string
}

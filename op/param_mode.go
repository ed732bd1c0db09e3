package op

// ParamMode tells how the VM reads an argument.
type ParamMode int

const (
	ParamModeIndirection ParamMode = iota // Argument is a memory address, [N] in source.
	ParamModeValue                        // Argument is a literal value.
)

func (pm ParamMode) String() string {
	switch pm {
	case ParamModeIndirection:
		return "indirection"
	case ParamModeValue:
		return "value"
	default:
		return "unknown param mode"
	}
}

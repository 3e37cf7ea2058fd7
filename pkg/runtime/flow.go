package runtime

// FlowKind describes how a statement left its block.
type FlowKind int

const (
	FlowNone FlowKind = iota
	FlowBreak
	FlowContinue
	FlowReturn
)

func (k FlowKind) String() string {
	switch k {
	case FlowNone:
		return "none"
	case FlowBreak:
		return "break"
	case FlowContinue:
		return "continue"
	case FlowReturn:
		return "return"
	default:
		return "unknown"
	}
}

// Flow is the statement-level control signal. The first non-None flow
// short-circuits the remaining statements of the enclosing block.
type Flow struct {
	Kind  FlowKind
	Value Value
}

func NormalFlow() Flow { return Flow{Kind: FlowNone} }

func BreakFlow() Flow { return Flow{Kind: FlowBreak} }

func ContinueFlow() Flow { return Flow{Kind: FlowContinue} }

func ReturnFlow(v Value) Flow { return Flow{Kind: FlowReturn, Value: v} }

func (f Flow) IsNormal() bool { return f.Kind == FlowNone }

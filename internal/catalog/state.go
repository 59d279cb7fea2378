package catalog

// Phase tags which variant a State holds.
type Phase int

const (
	PhasePending Phase = iota
	PhaseFailed
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "loading"
	case PhaseFailed:
		return "error"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// State is the catalog as the shell sees it: still loading, failed, or ready.
type State struct {
	phase Phase
	items []Item
	err   *FetchError
}

func Pending() State { return State{phase: PhasePending} }

func Failed(err *FetchError) State { return State{phase: PhaseFailed, err: err} }

func Ready(items []Item) State {
	if items == nil {
		items = []Item{}
	}
	return State{phase: PhaseReady, items: items}
}

func (s State) Phase() Phase { return s.phase }

// Items is nil unless the state is ready.
func (s State) Items() []Item { return s.items }

// Err is nil unless the state failed.
func (s State) Err() *FetchError { return s.err }

package popup

type State int

const (
	StateIdle State = iota
	StateAwaitingCredential
	StateAborted
	StateAwaitingCompletion
	StateRendered
	StateErrorDisplayed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingCredential:
		return "awaiting_credential"
	case StateAborted:
		return "aborted"
	case StateAwaitingCompletion:
		return "awaiting_completion"
	case StateRendered:
		return "rendered"
	case StateErrorDisplayed:
		return "error_displayed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the click is finished in this state.
func (s State) Terminal() bool {
	return s == StateAborted || s == StateRendered || s == StateErrorDisplayed
}

const (
	Title          = "Plugin Summary"
	ButtonLabel    = "Generate Plugin Summary"
	PendingContent = "Generating summary..."
)

// Popup is the outcome of a single click.
type Popup struct {
	State   State
	Visible bool
	// Content is the HTML shown inside the popup body.
	Content string
	// Summary is the completion text before rendering.
	Summary string
	// Notice is the plain text message for aborted or failed clicks.
	Notice        string
	InputRequired bool
}

func newPopup() *Popup {
	return &Popup{
		State:   StateIdle,
		Content: PendingContent,
	}
}

package checkout

// Phase is the single checkout flow state. Exactly one phase is active
// at a time; per-method transient data (card details, QR) only exists
// in the phases that own it.
type Phase string

const (
	PhaseLoadingOrder   Phase = "LOADING_ORDER"
	PhaseAwaitingMethod Phase = "AWAITING_METHOD"
	PhaseCardForm       Phase = "CARD_FORM"
	PhaseYapeQR         Phase = "YAPE_QR"
	PhaseSubmitting     Phase = "SUBMITTING"
	PhaseResult         Phase = "RESULT"
	PhaseCancelled      Phase = "CANCELLED"
)

func (p Phase) String() string {
	return string(p)
}

// CanCancel reports whether the flow may still be abandoned. Once a
// payment is on the wire the user waits for a terminal result.
func (p Phase) CanCancel() bool {
	switch p {
	case PhaseLoadingOrder, PhaseAwaitingMethod, PhaseCardForm, PhaseYapeQR:
		return true
	}
	return false
}

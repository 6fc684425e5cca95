package ledger

// EventKind names a class of state change.
type EventKind string

// Every state-changing operation emits exactly one event of these kinds,
// except the fee-bearing transfer path, which emits a Burn for the fee
// followed by a Transfer for the net amount.
const (
	EventRoleGranted       EventKind = "RoleGranted"
	EventRoleRevoked       EventKind = "RoleRevoked"
	EventMint              EventKind = "Mint"
	EventBurn              EventKind = "Burn"
	EventTransfer          EventKind = "Transfer"
	EventApproval          EventKind = "Approval"
	EventMaxSupplyChanged  EventKind = "MaxSupplyChanged"
	EventBlacklistChanged  EventKind = "BlacklistChanged"
	EventSendFeeChanged    EventKind = "SendFeeChanged"
	EventUpgradeAuthorized EventKind = "UpgradeAuthorized"
)

// Event is the structured record emitted to external observers after a
// successful state change. The core does not retain events; sinks do.
type Event struct {
	Kind    EventKind `json:"kind"`
	Payload any       `json:"payload"`
}

// Event payloads. Amounts serialize as decimal strings so observers outside
// Go read them without 256-bit integer support.
type (
	RolePayload struct {
		Role    Role    `json:"role"`
		Account Address `json:"account"`
	}

	MintPayload struct {
		To     Address `json:"to"`
		Amount string  `json:"amount"`
	}

	BurnPayload struct {
		From   Address `json:"from"`
		Amount string  `json:"amount"`
	}

	TransferPayload struct {
		From   Address `json:"from"`
		To     Address `json:"to"`
		Amount string  `json:"amount"`
	}

	ApprovalPayload struct {
		Owner   Address `json:"owner"`
		Spender Address `json:"spender"`
		Amount  string  `json:"amount"`
	}

	MaxSupplyChangedPayload struct {
		NewCap string `json:"newCap"`
	}

	BlacklistChangedPayload struct {
		Account Address `json:"account"`
		Status  bool    `json:"status"`
	}

	SendFeeChangedPayload struct {
		NewRate uint64 `json:"newRate"`
	}

	UpgradeAuthorizedPayload struct {
		NewImplementation string  `json:"newImplementation"`
		Caller            Address `json:"caller"`
	}
)

// EventSink receives event records as mutations commit. Sinks observe; they
// cannot veto or roll back a committed operation, so Record returns nothing.
// A sink is invoked while the ledger lock is held and must not call back into
// the ledger.
type EventSink interface {
	Record(Event)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(Event)

// Record implements EventSink.
func (f EventSinkFunc) Record(ev Event) { f(ev) }

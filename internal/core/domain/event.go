package domain

// NativeTokenID is the contract id attached to native NEAR transfers so they
// can share the token event shape without colliding with a real contract.
const NativeTokenID AccountID = "near"

// EventKind names a stream of events.
type EventKind string

const (
	EventKindMint     EventKind = "ft_mint"
	EventKindTransfer EventKind = "ft_transfer"
	EventKindBurn     EventKind = "ft_burn"
)

// EventKinds lists every kind in stream flush order.
var EventKinds = []EventKind{EventKindMint, EventKindTransfer, EventKindBurn}

// Event is one extracted economic event.
type Event interface {
	Kind() EventKind
}

// EventContext is the provenance shared by every event of one receipt.
type EventContext struct {
	TransactionID         string
	ReceiptID             string
	BlockHeight           uint64
	BlockTimestampNanosec uint64
	PredecessorID         AccountID
	ContractID            AccountID
}

// MintEvent records tokens created for an owner.
type MintEvent struct {
	OwnerID AccountID `json:"owner_id"`
	Amount  Amount    `json:"amount"`
	Memo    *string   `json:"memo"`
}

func (MintEvent) Kind() EventKind { return EventKindMint }

// TransferEvent records tokens moving between two accounts.
type TransferEvent struct {
	OldOwnerID AccountID `json:"old_owner_id"`
	NewOwnerID AccountID `json:"new_owner_id"`
	Amount     Amount    `json:"amount"`
	Memo       *string   `json:"memo"`
}

func (TransferEvent) Kind() EventKind { return EventKindTransfer }

// BurnEvent records tokens destroyed from an owner.
type BurnEvent struct {
	OwnerID AccountID `json:"owner_id"`
	Amount  Amount    `json:"amount"`
	Memo    *string   `json:"memo"`
}

func (BurnEvent) Kind() EventKind { return EventKindBurn }

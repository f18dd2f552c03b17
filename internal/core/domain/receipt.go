package domain

// ExecutionStatus is the outcome of executing a receipt.
type ExecutionStatus string

const (
	StatusSuccessValue     ExecutionStatus = "success_value"
	StatusSuccessReceiptID ExecutionStatus = "success_receipt_id"
	StatusFailure          ExecutionStatus = "failure"
	StatusUnknown          ExecutionStatus = "unknown"
)

// Successful reports whether the receipt executed without failure.
// Unknown outcomes are not successful.
func (s ExecutionStatus) Successful() bool {
	return s == StatusSuccessValue || s == StatusSuccessReceiptID
}

// Receipt is one unit of execution with its logs and outgoing actions.
type Receipt struct {
	ReceiptID             string
	PredecessorID         AccountID
	ReceiverID            AccountID
	SignerID              AccountID // action receipts only
	IsAction              bool
	Actions               []Action
	Logs                  []string
	Status                ExecutionStatus
	BlockHeight           uint64
	BlockTimestampNanosec uint64
}

// Transaction is the transaction a receipt originates from.
type Transaction struct {
	Hash     string
	SignerID AccountID
}

// ActionKind identifies the interpreted action kinds.
type ActionKind string

const (
	ActionTransfer     ActionKind = "Transfer"
	ActionFunctionCall ActionKind = "FunctionCall"
	ActionOther        ActionKind = "Other"
)

// Action is a decoded receipt action. Deposit is zero for kinds that carry none.
type Action struct {
	Kind       ActionKind
	Name       string
	MethodName string
	Deposit    Amount
}

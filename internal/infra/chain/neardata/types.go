package neardata

import (
	"encoding/json"

	"github.com/vietddude/ftindexer/internal/core/domain"
)

// Wire types for the neardata streamer message. Only the fields the indexer
// reads are declared.

type streamerMessage struct {
	Block  blockView   `json:"block"`
	Shards []shardView `json:"shards"`
}

type blockView struct {
	Header blockHeader `json:"header"`
}

type blockHeader struct {
	Height    uint64 `json:"height"`
	Hash      string `json:"hash"`
	Timestamp uint64 `json:"timestamp"`
}

type shardView struct {
	ShardID  uint64                    `json:"shard_id"`
	Outcomes []receiptExecutionOutcome `json:"receipt_execution_outcomes"`
}

type receiptExecutionOutcome struct {
	ExecutionOutcome executionOutcomeWithID `json:"execution_outcome"`
	Receipt          receiptView            `json:"receipt"`
	TxHash           string                 `json:"tx_hash"`
}

type executionOutcomeWithID struct {
	ID      string           `json:"id"`
	Outcome executionOutcome `json:"outcome"`
}

type executionOutcome struct {
	Logs       []string        `json:"logs"`
	ExecutorID string          `json:"executor_id"`
	Status     json.RawMessage `json:"status"`
}

type receiptView struct {
	PredecessorID domain.AccountID `json:"predecessor_id"`
	ReceiverID    domain.AccountID `json:"receiver_id"`
	ReceiptID     string           `json:"receipt_id"`
	Receipt       receiptEnum      `json:"receipt"`
}

// receiptEnum is {"Action": {...}} or {"Data": {...}}.
type receiptEnum struct {
	Action *actionReceipt  `json:"Action"`
	Data   json.RawMessage `json:"Data"`
}

type actionReceipt struct {
	SignerID domain.AccountID  `json:"signer_id"`
	Actions  []json.RawMessage `json:"actions"`
}

type transferAction struct {
	Deposit domain.Amount `json:"deposit"`
}

type functionCallAction struct {
	MethodName string        `json:"method_name"`
	Deposit    domain.Amount `json:"deposit"`
}

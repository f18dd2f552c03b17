package neardata

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vietddude/ftindexer/internal/core/domain"
)

// toBlock flattens a streamer message into receipts ordered by shard, then by
// execution order within the shard.
func toBlock(msg *streamerMessage) (*domain.Block, error) {
	header := msg.Block.Header
	block := &domain.Block{
		Height:           header.Height,
		Hash:             header.Hash,
		TimestampNanosec: header.Timestamp,
	}

	for _, shard := range msg.Shards {
		for i := range shard.Outcomes {
			rt, err := toReceipt(&shard.Outcomes[i], header)
			if err != nil {
				return nil, fmt.Errorf("shard %d outcome %d: %w", shard.ShardID, i, err)
			}
			block.Receipts = append(block.Receipts, rt)
		}
	}
	return block, nil
}

func toReceipt(o *receiptExecutionOutcome, header blockHeader) (domain.ReceiptWithTx, error) {
	status, err := parseStatus(o.ExecutionOutcome.Outcome.Status)
	if err != nil {
		return domain.ReceiptWithTx{}, err
	}

	receiptID := o.ExecutionOutcome.ID
	if receiptID == "" {
		receiptID = o.Receipt.ReceiptID
	}

	r := &domain.Receipt{
		ReceiptID:             receiptID,
		PredecessorID:         o.Receipt.PredecessorID,
		ReceiverID:            o.Receipt.ReceiverID,
		Logs:                  o.ExecutionOutcome.Outcome.Logs,
		Status:                status,
		BlockHeight:           header.Height,
		BlockTimestampNanosec: header.Timestamp,
	}

	if ar := o.Receipt.Receipt.Action; ar != nil {
		r.IsAction = true
		r.SignerID = ar.SignerID
		for j, raw := range ar.Actions {
			a, err := parseAction(raw)
			if err != nil {
				return domain.ReceiptWithTx{}, fmt.Errorf("receipt %s action %d: %w", receiptID, j, err)
			}
			r.Actions = append(r.Actions, a)
		}
	}

	rt := domain.ReceiptWithTx{Receipt: r}
	if o.TxHash != "" {
		rt.Transaction = &domain.Transaction{Hash: o.TxHash, SignerID: r.SignerID}
	}
	return rt, nil
}

// parseStatus accepts "Unknown" or a single-key object such as
// {"SuccessValue": ""}.
func parseStatus(raw json.RawMessage) (domain.ExecutionStatus, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return domain.StatusUnknown, nil
	}

	var name string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &name); err != nil {
			return "", fmt.Errorf("decode status: %w", err)
		}
	} else {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return "", fmt.Errorf("decode status: %w", err)
		}
		for k := range obj {
			name = k
		}
	}

	switch name {
	case "SuccessValue":
		return domain.StatusSuccessValue, nil
	case "SuccessReceiptId":
		return domain.StatusSuccessReceiptID, nil
	case "Failure":
		return domain.StatusFailure, nil
	default:
		return domain.StatusUnknown, nil
	}
}

// parseAction accepts a bare action name ("CreateAccount") or a single-key
// object ({"Transfer": {"deposit": "1"}}).
func parseAction(raw json.RawMessage) (domain.Action, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return domain.Action{}, err
		}
		return domain.Action{Kind: domain.ActionOther, Name: name}, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return domain.Action{}, err
	}
	if len(obj) != 1 {
		return domain.Action{}, fmt.Errorf("expected one action key, got %d", len(obj))
	}

	var name string
	var body json.RawMessage
	for name, body = range obj {
	}

	switch name {
	case "Transfer":
		var t transferAction
		if err := json.Unmarshal(body, &t); err != nil {
			return domain.Action{}, fmt.Errorf("decode Transfer: %w", err)
		}
		return domain.Action{Kind: domain.ActionTransfer, Name: name, Deposit: t.Deposit}, nil
	case "FunctionCall":
		var fc functionCallAction
		if err := json.Unmarshal(body, &fc); err != nil {
			return domain.Action{}, fmt.Errorf("decode FunctionCall: %w", err)
		}
		return domain.Action{
			Kind:       domain.ActionFunctionCall,
			Name:       name,
			MethodName: fc.MethodName,
			Deposit:    fc.Deposit,
		}, nil
	default:
		return domain.Action{Kind: domain.ActionOther, Name: name}, nil
	}
}

package extract

import "github.com/vietddude/ftindexer/internal/core/domain"

// BuildContext derives the provenance shared by every event of a receipt.
func BuildContext(r *domain.Receipt, tx *domain.Transaction) domain.EventContext {
	return domain.EventContext{
		TransactionID:         tx.Hash,
		ReceiptID:             r.ReceiptID,
		BlockHeight:           r.BlockHeight,
		BlockTimestampNanosec: r.BlockTimestampNanosec,
		PredecessorID:         r.PredecessorID,
		ContractID:            r.ReceiverID,
	}
}

// NativeContext is BuildContext with the contract fixed to the native token,
// used for events derived from actions rather than logs.
func NativeContext(r *domain.Receipt, tx *domain.Transaction) domain.EventContext {
	ctx := BuildContext(r, tx)
	ctx.ContractID = domain.NativeTokenID
	return ctx
}

package domain

// Block is one block as delivered by the chain reader, with receipts already
// grouped with their transactions and ordered for processing.
type Block struct {
	Height           uint64
	Hash             string
	TimestampNanosec uint64
	Receipts         []ReceiptWithTx
}

// ReceiptWithTx pairs an executed receipt with the transaction it belongs to.
type ReceiptWithTx struct {
	Receipt     *Receipt
	Transaction *Transaction
}

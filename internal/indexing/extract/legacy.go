package extract

import (
	"strings"

	"github.com/vietddude/ftindexer/internal/core/domain"
)

// legacyTransferPrefix starts the plain-text transfer log written by token
// contracts that predate the event envelope:
//
//	Transfer <amount> from <from> to <to>
const legacyTransferPrefix = "Transfer "

// ClassifyLegacyTransfer matches the plain-text transfer log. It yields at
// most one TransferEvent, always without a memo.
func ClassifyLegacyTransfer(log string) []domain.Event {
	rest, ok := strings.CutPrefix(log, legacyTransferPrefix)
	if !ok {
		return nil
	}
	rawAmount, owners, ok := strings.Cut(rest, " from ")
	if !ok {
		return nil
	}
	amount, err := domain.ParseAmount(rawAmount)
	if err != nil {
		return nil
	}
	rawFrom, rawTo, ok := strings.Cut(owners, " to ")
	if !ok {
		return nil
	}
	from, err := domain.ParseAccountID(rawFrom)
	if err != nil {
		return nil
	}
	to, err := domain.ParseAccountID(rawTo)
	if err != nil {
		return nil
	}

	return []domain.Event{domain.TransferEvent{
		OldOwnerID: from,
		NewOwnerID: to,
		Amount:     amount,
	}}
}

package extract

import (
	"github.com/vietddude/ftindexer/internal/core/domain"
)

// functionCallMinDeposit is the deposit a function call must strictly
// exceed, in yoctoNEAR, to be reported as a native transfer.
const functionCallMinDeposit = 1

// ScanActions infers native NEAR transfers from the outgoing actions of an
// action receipt. Such transfers never produce a log line.
func ScanActions(r *domain.Receipt) []domain.Event {
	if !r.IsAction {
		return nil
	}

	var events []domain.Event
	for _, action := range r.Actions {
		switch action.Kind {
		case domain.ActionTransfer:
			if action.Deposit.IsZero() {
				continue
			}
		case domain.ActionFunctionCall:
			if action.Deposit.CmpUint64(functionCallMinDeposit) <= 0 {
				continue
			}
		default:
			continue
		}
		events = append(events, domain.TransferEvent{
			OldOwnerID: r.SignerID,
			NewOwnerID: r.ReceiverID,
			Amount:     action.Deposit,
		})
	}
	return events
}

package ledger

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Log is one structured event attached to a receipt, laid out like an EVM
// log: topic 0 is the event id, further topics are indexed arguments, and
// Data holds the ABI-encoded non-indexed arguments.
type Log struct {
	Address common.Address `json:"address"`
	Topics  []common.Hash  `json:"topics"`
	Data    hexutil.Bytes  `json:"data"`
}

type Receipt struct {
	TxHash      common.Hash    `json:"txHash"`
	Kind        Kind           `json:"kind"`
	From        common.Address `json:"from"`
	Success     bool           `json:"success"`
	Reason      string         `json:"reason,omitempty"`
	GasUsed     uint64         `json:"gasUsed"`
	Logs        []Log          `json:"logs"`
	Sequence    uint64         `json:"sequence"`
	FinalizedAt int64          `json:"finalizedAt"`
}

// Err returns the sentinel for a reverted receipt, nil on success.
func (r *Receipt) Err() error {
	if r.Success {
		return nil
	}
	return ErrorFromReason(r.Reason)
}

package ledger

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const eventsABI = `[
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "depositId", "type": "uint256"},
			{"indexed": true, "name": "depositor", "type": "address"},
			{"indexed": true, "name": "recipient", "type": "address"},
			{"indexed": false, "name": "amount", "type": "uint256"},
			{"indexed": false, "name": "expiryTime", "type": "uint256"}
		],
		"name": "DepositCreated",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "depositId", "type": "uint256"},
			{"indexed": true, "name": "recipient", "type": "address"},
			{"indexed": false, "name": "amount", "type": "uint256"}
		],
		"name": "DepositClaimed",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "depositId", "type": "uint256"},
			{"indexed": true, "name": "depositor", "type": "address"},
			{"indexed": false, "name": "amount", "type": "uint256"}
		],
		"name": "DepositCancelled",
		"type": "event"
	}
]`

const (
	EventDepositCreated   = "DepositCreated"
	EventDepositClaimed   = "DepositClaimed"
	EventDepositCancelled = "DepositCancelled"
)

var ErrEventNotFound = errors.New("event not found in logs")

var ledgerABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(eventsABI))
	if err != nil {
		panic(fmt.Sprintf("parse ledger events ABI: %v", err))
	}
	return parsed
}()

// EventID returns topic 0 for the named event.
func EventID(name string) common.Hash {
	return ledgerABI.Events[name].ID
}

type DepositCreatedEvent struct {
	DepositID  uint64
	Depositor  common.Address
	Recipient  common.Address
	Amount     *big.Int
	ExpiryTime int64
}

type DepositClaimedEvent struct {
	DepositID uint64
	Recipient common.Address
	Amount    *big.Int
}

type DepositCancelledEvent struct {
	DepositID uint64
	Depositor common.Address
	Amount    *big.Int
}

func idTopic(id uint64) common.Hash {
	return common.BigToHash(new(big.Int).SetUint64(id))
}

func addressTopic(a common.Address) common.Hash {
	return common.BytesToHash(a.Bytes())
}

func encodeLog(contract common.Address, name string, topics []common.Hash, values ...any) (Log, error) {
	ev := ledgerABI.Events[name]
	data, err := ev.Inputs.NonIndexed().Pack(values...)
	if err != nil {
		return Log{}, fmt.Errorf("pack %s: %w", name, err)
	}
	return Log{
		Address: contract,
		Topics:  append([]common.Hash{ev.ID}, topics...),
		Data:    data,
	}, nil
}

func EncodeDepositCreated(contract common.Address, e DepositCreatedEvent) (Log, error) {
	return encodeLog(contract, EventDepositCreated,
		[]common.Hash{idTopic(e.DepositID), addressTopic(e.Depositor), addressTopic(e.Recipient)},
		e.Amount, big.NewInt(e.ExpiryTime))
}

func EncodeDepositClaimed(contract common.Address, e DepositClaimedEvent) (Log, error) {
	return encodeLog(contract, EventDepositClaimed,
		[]common.Hash{idTopic(e.DepositID), addressTopic(e.Recipient)},
		e.Amount)
}

func EncodeDepositCancelled(contract common.Address, e DepositCancelledEvent) (Log, error) {
	return encodeLog(contract, EventDepositCancelled,
		[]common.Hash{idTopic(e.DepositID), addressTopic(e.Depositor)},
		e.Amount)
}

// findLog returns the first log whose topic 0 matches name and unpacks its
// non-indexed arguments.
func findLog(logs []Log, name string, topics int) (Log, []any, error) {
	ev := ledgerABI.Events[name]
	for _, l := range logs {
		if len(l.Topics) == 0 || l.Topics[0] != ev.ID {
			continue
		}
		if len(l.Topics) != topics+1 {
			return Log{}, nil, fmt.Errorf("%s: expected %d topics, got %d", name, topics+1, len(l.Topics))
		}
		values, err := ev.Inputs.Unpack(l.Data)
		if err != nil {
			return Log{}, nil, fmt.Errorf("unpack %s: %w", name, err)
		}
		return l, values, nil
	}
	return Log{}, nil, fmt.Errorf("%s: %w", name, ErrEventNotFound)
}

// DecodeDepositCreated extracts the creation event from a receipt's logs. It
// is the authoritative source of a new deposit's id.
func DecodeDepositCreated(logs []Log) (*DepositCreatedEvent, error) {
	l, values, err := findLog(logs, EventDepositCreated, 3)
	if err != nil {
		return nil, err
	}
	amount, ok1 := values[0].(*big.Int)
	expiry, ok2 := values[1].(*big.Int)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("%s: unexpected argument types", EventDepositCreated)
	}
	return &DepositCreatedEvent{
		DepositID:  l.Topics[1].Big().Uint64(),
		Depositor:  common.BytesToAddress(l.Topics[2].Bytes()),
		Recipient:  common.BytesToAddress(l.Topics[3].Bytes()),
		Amount:     amount,
		ExpiryTime: expiry.Int64(),
	}, nil
}

func DecodeDepositClaimed(logs []Log) (*DepositClaimedEvent, error) {
	l, values, err := findLog(logs, EventDepositClaimed, 2)
	if err != nil {
		return nil, err
	}
	amount, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected argument types", EventDepositClaimed)
	}
	return &DepositClaimedEvent{
		DepositID: l.Topics[1].Big().Uint64(),
		Recipient: common.BytesToAddress(l.Topics[2].Bytes()),
		Amount:    amount,
	}, nil
}

func DecodeDepositCancelled(logs []Log) (*DepositCancelledEvent, error) {
	l, values, err := findLog(logs, EventDepositCancelled, 2)
	if err != nil {
		return nil, err
	}
	amount, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected argument types", EventDepositCancelled)
	}
	return &DepositCancelledEvent{
		DepositID: l.Topics[1].Big().Uint64(),
		Depositor: common.BytesToAddress(l.Topics[2].Bytes()),
		Amount:    amount,
	}, nil
}

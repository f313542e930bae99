package flexmultisig

import (
	"encoding/binary"
	"strconv"

	"github.com/TriviumNode/scrt-flex-multisig/contracts/flexmultisig/types"
	"github.com/TriviumNode/scrt-flex-multisig/core/store/typed"
)

// State layout of the contract. Every record lives under its own hashed
// namespace of the contract snapshot.
var (
	// configRecord is the configuration of the instance.
	configRecord = typed.NewItem[types.Config]("config")

	// totalProps is the identifier counter of the propositions.
	totalProps = typed.NewItem[uint64]("props")

	// totalVotes is the total number of votes handed out.
	totalVotes = typed.NewItem[uint64]("votes")

	// stakeholderVotes maps a principal address to its vote balance.
	stakeholderVotes = typed.NewKeymap[uint64]("stakeholders")

	// pendingActions maps a proposition identifier to the votable action.
	pendingActions = typed.NewKeymap[types.ActionProposition]("actionprop")

	// completedActions archives the propositions that passed.
	completedActions = typed.NewKeymap[types.ActionProposition]("completedprop")
)

// voteRecord returns the set of principals that already voted on the given
// proposition.
func voteRecord(id uint64) typed.Keymap[bool] {
	return typed.NewKeymap[bool]("voterecord/" + strconv.FormatUint(id, 10))
}

// actionKey returns the keymap key of a proposition identifier.
func actionKey(id uint64) []byte {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, id)

	return buffer
}

// actionID returns the proposition identifier of a keymap key.
func actionID(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}

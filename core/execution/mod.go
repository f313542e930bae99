// Package execution defines the primitives the host runtime uses to drive a
// contract: the environment of the current block, the message info and the
// result of an execution.
package execution

import (
	"time"

	"github.com/TriviumNode/scrt-flex-multisig/core/access"
)

// Env carries the block context of the current message.
type Env struct {
	// Contract is the address of the contract being executed.
	Contract access.Address

	// BlockTime is the timestamp of the block the message belongs to.
	BlockTime time.Time

	// Seed is host-provided entropy, stable within the message.
	Seed []byte
}

// Info carries the transaction context of the current message.
type Info struct {
	// Sender is the authenticated address that sent the message.
	Sender access.Address
}

// Result is the result of a message execution.
type Result struct {
	// Accepted is the success state of the message.
	Accepted bool

	// Message gives a chance to the execution to explain why a message has
	// failed.
	Message string

	// Data is the payload returned to the caller on success.
	Data []byte
}

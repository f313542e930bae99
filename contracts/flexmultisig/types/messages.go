// Package types defines the messages and state records of the flex-multisig
// contract.
//
// The message envelopes follow the one-variant-set convention: exactly one
// pointer field of an envelope is expected to be non-nil.
package types

import (
	"encoding/json"
	"time"

	"golang.org/x/xerrors"
)

// Query scopes. A permit must grant the scope of the query kind it is
// presented with.
const (
	// ScopeBalance covers the vote balance and the pending action queries.
	ScopeBalance = "balance"

	// ScopeHistory covers the completed action queries.
	ScopeHistory = "history"
)

// Stakeholder is the initial vote allocation of a principal.
type Stakeholder struct {
	Address string `json:"address"`
	Votes   uint64 `json:"votes"`
}

// InstantiateMsg initializes the contract.
type InstantiateMsg struct {
	// TimeLimit is the number of seconds a proposition stays votable.
	TimeLimit uint64 `json:"time_limit"`

	// Stakeholders is the initial vote ledger.
	Stakeholders []Stakeholder `json:"stakeholders"`
}

// ExecuteMsg is the envelope of the state-changing messages.
type ExecuteMsg struct {
	TransferVotes    *TransferVotesMsg    `json:"transfer_votes,omitempty"`
	ProposeAction    *ProposeActionMsg    `json:"propose_action,omitempty"`
	VoteAction       *VoteActionMsg       `json:"vote_action,omitempty"`
	PurgeExpired     *PurgeExpiredMsg     `json:"purge_expired,omitempty"`
	CreateViewingKey *CreateViewingKeyMsg `json:"create_viewing_key,omitempty"`
	SetViewingKey    *SetViewingKeyMsg    `json:"set_viewing_key,omitempty"`
	RevokePermit     *RevokePermitMsg     `json:"revoke_permit,omitempty"`
}

// TransferVotesMsg moves votes from the sender to the recipient.
type TransferVotesMsg struct {
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"num_votes"`
}

// ProposeActionMsg submits a new votable action. The payload is opaque to
// the contract and emitted back when the action completes.
type ProposeActionMsg struct {
	Payload json.RawMessage `json:"prop_msg"`
}

// VoteActionMsg votes in favor of a pending action.
type VoteActionMsg struct {
	ID uint64 `json:"action_prop"`
}

// PurgeExpiredMsg removes the expired pending actions of the given page.
type PurgeExpiredMsg struct {
	StartPage *uint32 `json:"start_page,omitempty"`
	PageSize  *uint32 `json:"page_size,omitempty"`
}

// CreateViewingKeyMsg derives a fresh viewing key for the sender.
type CreateViewingKeyMsg struct {
	Entropy string `json:"entropy"`
}

// SetViewingKeyMsg registers the given secret as the sender viewing key.
type SetViewingKeyMsg struct {
	Key string `json:"key"`
}

// RevokePermitMsg revokes the named permit of the sender.
type RevokePermitMsg struct {
	Name string `json:"permit_name"`
}

// QueryMsg is the envelope of the read-only messages. All of them are
// authenticated: the plain variants carry a viewer address and its viewing
// key, the WithPermit variant carries a signed permit instead.
type QueryMsg struct {
	Balance             *BalanceQuery    `json:"balance,omitempty"`
	AllActions          *AllActionsQuery `json:"all_actions,omitempty"`
	Action              *ActionQuery     `json:"query_action,omitempty"`
	AllCompletedActions *AllActionsQuery `json:"all_completed_actions,omitempty"`
	CompletedAction     *ActionQuery     `json:"query_completed_action,omitempty"`
	WithPermit          *PermitQuery     `json:"with_permit,omitempty"`
}

// BalanceQuery requests the vote balance of the viewer.
type BalanceQuery struct {
	Viewer string `json:"viewer"`
	Key    string `json:"key"`
}

// AllActionsQuery requests a page of actions.
type AllActionsQuery struct {
	Viewer    string  `json:"viewer"`
	Key       string  `json:"key"`
	StartPage *uint32 `json:"start_page,omitempty"`
	PageSize  *uint32 `json:"page_size,omitempty"`
}

// ActionQuery requests a single action by identifier.
type ActionQuery struct {
	ID     uint64 `json:"id"`
	Viewer string `json:"viewer"`
	Key    string `json:"key"`
}

// PermitQuery authenticates the inner query with a permit.
type PermitQuery struct {
	Permit json.RawMessage `json:"permit"`
	Query  QueryWithPermit `json:"query"`
}

// QueryWithPermit is the envelope of the queries that can be authenticated
// with a permit. The viewer is established from the permit signature, so the
// variants carry no credential fields.
type QueryWithPermit struct {
	Balance             *struct{}  `json:"balance,omitempty"`
	AllActions          *PageQuery `json:"all_actions,omitempty"`
	Action              *IDQuery   `json:"query_action,omitempty"`
	AllCompletedActions *PageQuery `json:"all_completed_actions,omitempty"`
	CompletedAction     *IDQuery   `json:"query_completed_action,omitempty"`
}

// PageQuery selects a page.
type PageQuery struct {
	StartPage *uint32 `json:"start_page,omitempty"`
	PageSize  *uint32 `json:"page_size,omitempty"`
}

// IDQuery selects a single record.
type IDQuery struct {
	ID uint64 `json:"id"`
}

// ValidationParams returns the claimed viewer, the candidate viewing key and
// the scope of a plain query. It returns an error for the WithPermit variant
// and for an empty envelope.
func (m QueryMsg) ValidationParams() (string, string, string, error) {
	switch {
	case m.Balance != nil:
		return m.Balance.Viewer, m.Balance.Key, ScopeBalance, nil
	case m.AllActions != nil:
		return m.AllActions.Viewer, m.AllActions.Key, ScopeBalance, nil
	case m.Action != nil:
		return m.Action.Viewer, m.Action.Key, ScopeBalance, nil
	case m.AllCompletedActions != nil:
		return m.AllCompletedActions.Viewer, m.AllCompletedActions.Key, ScopeHistory, nil
	case m.CompletedAction != nil:
		return m.CompletedAction.Viewer, m.CompletedAction.Key, ScopeHistory, nil
	default:
		return "", "", "", xerrors.New("query does not carry a viewing key")
	}
}

// Scope returns the scope a permit must grant for the inner query.
func (m QueryWithPermit) Scope() (string, error) {
	switch {
	case m.Balance != nil, m.AllActions != nil, m.Action != nil:
		return ScopeBalance, nil
	case m.AllCompletedActions != nil, m.CompletedAction != nil:
		return ScopeHistory, nil
	default:
		return "", xerrors.New("empty permit query")
	}
}

// ActionProposition is a votable action.
type ActionProposition struct {
	// ConfirmedVotes is the number of votes supporting the proposition.
	ConfirmedVotes uint64 `json:"confirmed_votes"`

	// ProposedAt is the block time the proposition was made.
	ProposedAt time.Time `json:"proposed_at"`

	// Payload is the opaque message executed when the proposition passes.
	Payload json.RawMessage `json:"payload"`
}

// Expired returns true when the proposition is no longer votable at the
// given block time.
func (p ActionProposition) Expired(limit uint64, now time.Time) bool {
	return now.After(p.ProposedAt.Add(time.Duration(limit) * time.Second))
}

// Config is the configuration of a contract instance.
type Config struct {
	ContractAddress string `json:"contract_address"`
	PropTimeLimit   uint64 `json:"prop_time_limit"`
}

// ActionEntry pairs an action with its identifier in a response.
type ActionEntry struct {
	ID     uint64            `json:"id"`
	Action ActionProposition `json:"action"`
}

// ActionListResponse answers the paginated action queries.
type ActionListResponse struct {
	Actions []ActionEntry `json:"actions"`
}

// ActionResponse answers the single action queries.
type ActionResponse struct {
	Action ActionProposition `json:"action"`
}

// VoteStatusTimedOut reports a vote that removed an expired proposition
// instead of counting.
const VoteStatusTimedOut = "timed out"

// VoteResponse answers a vote that did not release a payload.
type VoteResponse struct {
	Status string `json:"status"`
}

// BalanceResponse answers the balance query.
type BalanceResponse struct {
	Votes uint64 `json:"votes"`
}

// ViewingKeyResponse returns a created viewing key to its owner. It is never
// logged or emitted in events.
type ViewingKeyResponse struct {
	Key string `json:"viewing_key"`
}

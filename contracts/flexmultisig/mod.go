// Package flexmultisig implements the flex-multisig governance contract.
//
// Stakeholders hold votes, propose opaque actions and vote them through.
// All of the state is confidential: every query is authenticated either
// with a viewing key registered by the viewer or with a signed permit, and
// a failed authentication is indistinguishable from a viewer that never
// registered at all.
package flexmultisig

import (
	flex "github.com/TriviumNode/scrt-flex-multisig"
	"github.com/TriviumNode/scrt-flex-multisig/contracts/flexmultisig/types"
	"github.com/TriviumNode/scrt-flex-multisig/core/access"
	"github.com/TriviumNode/scrt-flex-multisig/core/access/permit"
	"github.com/TriviumNode/scrt-flex-multisig/core/access/viewingkey"
	"github.com/TriviumNode/scrt-flex-multisig/core/execution"
	"github.com/TriviumNode/scrt-flex-multisig/core/execution/native"
	"github.com/TriviumNode/scrt-flex-multisig/core/store"
	"github.com/TriviumNode/scrt-flex-multisig/crypto/ed25519"
	"github.com/TriviumNode/scrt-flex-multisig/serde"
	"github.com/rs/zerolog"
	"golang.org/x/xerrors"
)

// ContractName is the name of the contract.
const ContractName = "flex.Multisig"

// DefaultPageSize is the page size of the paginated queries when the caller
// does not provide one.
const DefaultPageSize uint32 = 200

// commands defines the state-changing commands of the contract. This
// interface helps in testing the contract.
type commands interface {
	transferVotes(snap store.Snapshot, info execution.Info, msg *types.TransferVotesMsg) error
	proposeAction(snap store.Snapshot, env execution.Env, info execution.Info, msg *types.ProposeActionMsg) error
	voteAction(snap store.Snapshot, env execution.Env, info execution.Info, msg *types.VoteActionMsg) ([]byte, error)
	purgeExpired(snap store.Snapshot, env execution.Env, info execution.Info, msg *types.PurgeExpiredMsg) error
	createViewingKey(snap store.Snapshot, env execution.Env, info execution.Info, msg *types.CreateViewingKeyMsg) ([]byte, error)
	setViewingKey(snap store.Snapshot, env execution.Env, info execution.Info, msg *types.SetViewingKeyMsg) error
	revokePermit(snap store.Snapshot, info execution.Info, msg *types.RevokePermitMsg) error
}

// RegisterContract registers the contract to the given execution service.
func RegisterContract(exec *native.Service, c Contract) {
	exec.Set(ContractName, c)
}

// Contract is the flex-multisig contract.
//
// - implements native.Contract
type Contract struct {
	// ctx is the serialization context of the messages and records.
	ctx serde.Context

	// keys is the viewing-key registry of the contract.
	keys viewingkey.Registry

	// permits decodes the permits presented with queries.
	permits permit.Factory

	// controller authorizes the queries.
	controller access.Controller

	// cmd provides the commands executed by the contract.
	cmd commands

	logger zerolog.Logger
}

// NewContract creates a new flex-multisig contract using the given
// serialization context.
func NewContract(ctx serde.Context) Contract {
	keys := viewingkey.NewRegistry()

	contract := Contract{
		ctx:        ctx,
		keys:       keys,
		permits:    permit.NewFactory(ed25519.NewPublicKeyFactory(), ed25519.NewSignatureFactory()),
		controller: access.NewController(keys, permit.NewVerifier()),
		logger:     flex.Logger.With().Str("contract", ContractName).Logger(),
	}

	contract.cmd = multisigCommand{Contract: &contract}

	return contract
}

// Instantiate implements native.Contract. It stores the configuration and
// the initial vote ledger.
func (c Contract) Instantiate(snap store.Snapshot, env execution.Env,
	info execution.Info, msg []byte) error {

	input := types.InstantiateMsg{}
	err := c.ctx.Unmarshal(msg, &input)
	if err != nil {
		return xerrors.Errorf("failed to unmarshal message: %v", err)
	}

	config := types.Config{
		ContractAddress: string(env.Contract),
		PropTimeLimit:   input.TimeLimit,
	}

	err = configRecord.Save(snap, c.ctx, config)
	if err != nil {
		return xerrors.Errorf("failed to save config: %v", err)
	}

	err = totalProps.Save(snap, c.ctx, 0)
	if err != nil {
		return xerrors.Errorf("failed to save proposition counter: %v", err)
	}

	total := uint64(0)

	for _, holder := range input.Stakeholders {
		err = stakeholderVotes.Insert(snap, c.ctx, []byte(holder.Address), holder.Votes)
		if err != nil {
			return xerrors.Errorf("failed to insert stakeholder: %v", err)
		}

		total += holder.Votes
	}

	err = totalVotes.Save(snap, c.ctx, total)
	if err != nil {
		return xerrors.Errorf("failed to save vote total: %v", err)
	}

	return nil
}

// Execute implements native.Contract. It runs the appropriate command.
func (c Contract) Execute(snap store.Snapshot, env execution.Env,
	info execution.Info, msg []byte) ([]byte, error) {

	input := types.ExecuteMsg{}
	err := c.ctx.Unmarshal(msg, &input)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal message: %v", err)
	}

	switch {
	case input.TransferVotes != nil:
		err := c.cmd.transferVotes(snap, info, input.TransferVotes)
		if err != nil {
			return nil, xerrors.Errorf("failed to TRANSFER: %v", err)
		}
	case input.ProposeAction != nil:
		err := c.cmd.proposeAction(snap, env, info, input.ProposeAction)
		if err != nil {
			return nil, xerrors.Errorf("failed to PROPOSE: %v", err)
		}
	case input.VoteAction != nil:
		data, err := c.cmd.voteAction(snap, env, info, input.VoteAction)
		if err != nil {
			return nil, xerrors.Errorf("failed to VOTE: %v", err)
		}

		return data, nil
	case input.PurgeExpired != nil:
		err := c.cmd.purgeExpired(snap, env, info, input.PurgeExpired)
		if err != nil {
			return nil, xerrors.Errorf("failed to PURGE: %v", err)
		}
	case input.CreateViewingKey != nil:
		data, err := c.cmd.createViewingKey(snap, env, info, input.CreateViewingKey)
		if err != nil {
			return nil, xerrors.Errorf("failed to CREATE KEY: %v", err)
		}

		return data, nil
	case input.SetViewingKey != nil:
		err := c.cmd.setViewingKey(snap, env, info, input.SetViewingKey)
		if err != nil {
			return nil, xerrors.Errorf("failed to SET KEY: %v", err)
		}
	case input.RevokePermit != nil:
		err := c.cmd.revokePermit(snap, info, input.RevokePermit)
		if err != nil {
			return nil, xerrors.Errorf("failed to REVOKE: %v", err)
		}
	default:
		return nil, xerrors.New("unknown command")
	}

	return nil, nil
}

// Query implements native.Contract. It authenticates the request and runs
// the matching read-only handler with the authenticated viewer. Whatever the
// internal cause of an authentication failure, the caller only ever sees
// access.ErrUnauthorized.
func (c Contract) Query(read store.Readable, env execution.Env, msg []byte) ([]byte, error) {
	input := types.QueryMsg{}
	err := c.ctx.Unmarshal(msg, &input)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal query: %v", err)
	}

	if input.WithPermit != nil {
		return c.permitQuery(read, env, input.WithPermit)
	}

	return c.viewingKeyQuery(read, input)
}

func (c Contract) viewingKeyQuery(read store.Readable, input types.QueryMsg) ([]byte, error) {
	viewer, key, scope, err := input.ValidationParams()
	if err != nil {
		return nil, xerrors.Errorf("invalid query: %v", err)
	}

	cred := access.WithViewingKey{
		Viewer: access.Address(viewer),
		Key:    key,
	}

	authorized, err := c.controller.Authorize(read, c.ctx, cred, c.contractAddress(read), scope)
	if err != nil {
		return nil, access.ErrUnauthorized
	}

	switch {
	case input.Balance != nil:
		return c.queryBalance(read, authorized.Principal())
	case input.AllActions != nil:
		return c.queryActionPage(read, pendingActions, input.AllActions.StartPage,
			input.AllActions.PageSize, authorized.Principal())
	case input.Action != nil:
		return c.queryAction(read, pendingActions, input.Action.ID, authorized.Principal())
	case input.AllCompletedActions != nil:
		return c.queryActionPage(read, completedActions, input.AllCompletedActions.StartPage,
			input.AllCompletedActions.PageSize, authorized.Principal())
	default:
		return c.queryAction(read, completedActions, input.CompletedAction.ID,
			authorized.Principal())
	}
}

func (c Contract) permitQuery(read store.Readable, env execution.Env,
	input *types.PermitQuery) ([]byte, error) {

	scope, err := input.Query.Scope()
	if err != nil {
		return nil, xerrors.Errorf("invalid query: %v", err)
	}

	decoded, err := c.permits.PermitOf(c.ctx, input.Permit)
	if err != nil {
		c.logger.Debug().Err(err).Msg("malformed permit")
		return nil, access.ErrUnauthorized
	}

	cred := access.WithPermit{Permit: decoded}

	authorized, err := c.controller.Authorize(read, c.ctx, cred, c.contractAddress(read), scope)
	if err != nil {
		return nil, access.ErrUnauthorized
	}

	switch {
	case input.Query.Balance != nil:
		return c.queryBalance(read, authorized.Principal())
	case input.Query.AllActions != nil:
		return c.queryActionPage(read, pendingActions, input.Query.AllActions.StartPage,
			input.Query.AllActions.PageSize, authorized.Principal())
	case input.Query.Action != nil:
		return c.queryAction(read, pendingActions, input.Query.Action.ID,
			authorized.Principal())
	case input.Query.AllCompletedActions != nil:
		return c.queryActionPage(read, completedActions,
			input.Query.AllCompletedActions.StartPage,
			input.Query.AllCompletedActions.PageSize, authorized.Principal())
	default:
		return c.queryAction(read, completedActions, input.Query.CompletedAction.ID,
			authorized.Principal())
	}
}

// contractAddress returns the address the instance was instantiated with,
// which is the address permits must be scoped to.
func (c Contract) contractAddress(read store.Readable) access.Address {
	config, found, err := configRecord.Load(read, c.ctx)
	if !found || err != nil {
		return ""
	}

	return access.Address(config.ContractAddress)
}

package flexmultisig

import (
	"github.com/TriviumNode/scrt-flex-multisig/contracts/flexmultisig/types"
	"github.com/TriviumNode/scrt-flex-multisig/core/access"
	"github.com/TriviumNode/scrt-flex-multisig/core/access/permit"
	"github.com/TriviumNode/scrt-flex-multisig/core/execution"
	"github.com/TriviumNode/scrt-flex-multisig/core/store"
	"golang.org/x/xerrors"
)

// multisigCommand implements the commands of the contract.
//
// - implements flexmultisig.commands
type multisigCommand struct {
	*Contract
}

// shares returns the vote balance of the sender, or an error when the sender
// is not a stakeholder.
func (c multisigCommand) shares(read store.Readable, sender access.Address) (uint64, error) {
	votes, found, err := stakeholderVotes.Get(read, c.ctx, sender.Bytes())
	if err != nil {
		return 0, xerrors.Errorf("failed to read stakeholders: %v", err)
	}

	if !found {
		return 0, xerrors.New("you do not have a share in this contract")
	}

	return votes, nil
}

// transferVotes implements commands. It moves votes from the sender balance
// to the recipient balance.
func (c multisigCommand) transferVotes(snap store.Snapshot, info execution.Info,
	msg *types.TransferVotesMsg) error {

	balance, err := c.shares(snap, info.Sender)
	if err != nil {
		return err
	}

	if msg.Amount > balance {
		return xerrors.Errorf("insufficient votes: balance is %d but %d requested",
			balance, msg.Amount)
	}

	recipient := access.Address(msg.Recipient)

	err = stakeholderVotes.Insert(snap, c.ctx, info.Sender.Bytes(), balance-msg.Amount)
	if err != nil {
		return xerrors.Errorf("failed to debit sender: %v", err)
	}

	// The recipient balance is read after the debit so that a transfer to
	// oneself stays a no-op instead of minting votes.
	current, _, err := stakeholderVotes.Get(snap, c.ctx, recipient.Bytes())
	if err != nil {
		return xerrors.Errorf("failed to read recipient balance: %v", err)
	}

	err = stakeholderVotes.Insert(snap, c.ctx, recipient.Bytes(), current+msg.Amount)
	if err != nil {
		return xerrors.Errorf("failed to credit recipient: %v", err)
	}

	return nil
}

// proposeAction implements commands. It registers a new votable action under
// the next proposition identifier.
func (c multisigCommand) proposeAction(snap store.Snapshot, env execution.Env,
	info execution.Info, msg *types.ProposeActionMsg) error {

	_, err := c.shares(snap, info.Sender)
	if err != nil {
		return err
	}

	count, _, err := totalProps.Load(snap, c.ctx)
	if err != nil {
		return xerrors.Errorf("failed to read proposition counter: %v", err)
	}

	id := count + 1

	action := types.ActionProposition{
		ConfirmedVotes: 0,
		ProposedAt:     env.BlockTime,
		Payload:        msg.Payload,
	}

	err = pendingActions.Insert(snap, c.ctx, actionKey(id), action)
	if err != nil {
		return xerrors.Errorf("failed to save proposition: %v", err)
	}

	err = totalProps.Save(snap, c.ctx, id)
	if err != nil {
		return xerrors.Errorf("failed to save proposition counter: %v", err)
	}

	c.logger.Info().Uint64("id", id).Msg("action proposed")

	return nil
}

// voteAction implements commands. It adds the sender votes to the
// proposition. A proposition supported by a strict majority of the total
// votes is moved to the archive and its payload is returned.
func (c multisigCommand) voteAction(snap store.Snapshot, env execution.Env,
	info execution.Info, msg *types.VoteActionMsg) ([]byte, error) {

	balance, err := c.shares(snap, info.Sender)
	if err != nil {
		return nil, err
	}

	action, found, err := pendingActions.Get(snap, c.ctx, actionKey(msg.ID))
	if err != nil {
		return nil, xerrors.Errorf("failed to read proposition: %v", err)
	}

	if !found {
		return nil, xerrors.Errorf("no pending action with identifier %d", msg.ID)
	}

	config, _, err := configRecord.Load(snap, c.ctx)
	if err != nil {
		return nil, xerrors.Errorf("failed to read config: %v", err)
	}

	if action.Expired(config.PropTimeLimit, env.BlockTime) {
		err = pendingActions.Remove(snap, actionKey(msg.ID))
		if err != nil {
			return nil, xerrors.Errorf("failed to remove proposition: %v", err)
		}

		// The message is accepted so that the removal commits. A rejection
		// rolls back every write, which would keep the proposition around
		// forever.
		c.logger.Info().Uint64("id", msg.ID).Msg("action timed out")

		resp, err := c.ctx.Marshal(types.VoteResponse{Status: types.VoteStatusTimedOut})
		if err != nil {
			return nil, xerrors.Errorf("failed to marshal response: %v", err)
		}

		return resp, nil
	}

	voters := voteRecord(msg.ID)

	voted, err := voters.Contains(snap, info.Sender.Bytes())
	if err != nil {
		return nil, xerrors.Errorf("failed to read vote record: %v", err)
	}

	if voted {
		return nil, xerrors.Errorf("already voted on action %d", msg.ID)
	}

	err = voters.Insert(snap, c.ctx, info.Sender.Bytes(), true)
	if err != nil {
		return nil, xerrors.Errorf("failed to save vote record: %v", err)
	}

	action.ConfirmedVotes += balance

	total, _, err := totalVotes.Load(snap, c.ctx)
	if err != nil {
		return nil, xerrors.Errorf("failed to read vote total: %v", err)
	}

	if action.ConfirmedVotes*2 > total {
		err = pendingActions.Remove(snap, actionKey(msg.ID))
		if err != nil {
			return nil, xerrors.Errorf("failed to remove proposition: %v", err)
		}

		err = completedActions.Insert(snap, c.ctx, actionKey(msg.ID), action)
		if err != nil {
			return nil, xerrors.Errorf("failed to archive proposition: %v", err)
		}

		c.logger.Info().Uint64("id", msg.ID).Msg("action passed")

		return action.Payload, nil
	}

	err = pendingActions.Insert(snap, c.ctx, actionKey(msg.ID), action)
	if err != nil {
		return nil, xerrors.Errorf("failed to save proposition: %v", err)
	}

	return nil, nil
}

// purgeExpired implements commands. It walks a page of the pending actions
// and drops the ones that are no longer votable. Anyone can run it as it
// only removes records a vote would reject anyway.
func (c multisigCommand) purgeExpired(snap store.Snapshot, env execution.Env,
	info execution.Info, msg *types.PurgeExpiredMsg) error {

	config, _, err := configRecord.Load(snap, c.ctx)
	if err != nil {
		return xerrors.Errorf("failed to read config: %v", err)
	}

	page := uint32(0)
	if msg.StartPage != nil {
		page = *msg.StartPage
	}

	size := DefaultPageSize
	if msg.PageSize != nil {
		size = *msg.PageSize
	}

	entries, err := pendingActions.Paging(snap, c.ctx, page, size)
	if err != nil {
		return xerrors.Errorf("failed to page propositions: %v", err)
	}

	for _, entry := range entries {
		if !entry.Value.Expired(config.PropTimeLimit, env.BlockTime) {
			continue
		}

		err = pendingActions.Remove(snap, entry.Key)
		if err != nil {
			return xerrors.Errorf("failed to remove proposition: %v", err)
		}
	}

	return nil
}

// createViewingKey implements commands. It derives a fresh viewing key for
// the sender and returns it. The key material only ever travels back in the
// encrypted response.
func (c multisigCommand) createViewingKey(snap store.Snapshot, env execution.Env,
	info execution.Info, msg *types.CreateViewingKeyMsg) ([]byte, error) {

	key, err := c.keys.Create(snap, c.ctx, info.Sender, []byte(msg.Entropy),
		env.Seed, env.BlockTime)
	if err != nil {
		return nil, xerrors.Errorf("failed to create viewing key: %v", err)
	}

	data, err := c.ctx.Marshal(types.ViewingKeyResponse{Key: key})
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal response: %v", err)
	}

	return data, nil
}

// setViewingKey implements commands. It registers the secret chosen by the
// sender as its viewing key, replacing any previous one.
func (c multisigCommand) setViewingKey(snap store.Snapshot, env execution.Env,
	info execution.Info, msg *types.SetViewingKeyMsg) error {

	err := c.keys.Set(snap, c.ctx, info.Sender, msg.Key, env.BlockTime)
	if err != nil {
		return xerrors.Errorf("failed to set viewing key: %v", err)
	}

	return nil
}

// revokePermit implements commands. It blocklists the named permit of the
// sender so that signed copies of it stop authenticating queries.
func (c multisigCommand) revokePermit(snap store.Snapshot, info execution.Info,
	msg *types.RevokePermitMsg) error {

	err := permit.Revoke(snap, info.Sender, msg.Name)
	if err != nil {
		return xerrors.Errorf("failed to revoke permit: %v", err)
	}

	return nil
}

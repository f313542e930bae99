package flexmultisig

import (
	"github.com/TriviumNode/scrt-flex-multisig/contracts/flexmultisig/types"
	"github.com/TriviumNode/scrt-flex-multisig/core/access"
	"github.com/TriviumNode/scrt-flex-multisig/core/store"
	"github.com/TriviumNode/scrt-flex-multisig/core/store/typed"
	"golang.org/x/xerrors"
)

// Read-only handlers. They all run after the viewer has been authenticated,
// so the errors below are only ever seen by the viewer itself.

func (c Contract) queryBalance(read store.Readable, viewer access.Address) ([]byte, error) {
	votes, found, err := stakeholderVotes.Get(read, c.ctx, viewer.Bytes())
	if err != nil {
		return nil, xerrors.Errorf("failed to read stakeholders: %v", err)
	}

	if !found {
		return nil, xerrors.New("you do not have a share in this contract")
	}

	data, err := c.ctx.Marshal(types.BalanceResponse{Votes: votes})
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal response: %v", err)
	}

	return data, nil
}

func (c Contract) queryActionPage(read store.Readable,
	actions typed.Keymap[types.ActionProposition], startPage, pageSize *uint32,
	viewer access.Address) ([]byte, error) {

	err := c.requireShare(read, viewer)
	if err != nil {
		return nil, err
	}

	page := uint32(0)
	if startPage != nil {
		page = *startPage
	}

	size := DefaultPageSize
	if pageSize != nil {
		size = *pageSize
	}

	entries, err := actions.Paging(read, c.ctx, page, size)
	if err != nil {
		return nil, xerrors.Errorf("failed to page actions: %v", err)
	}

	resp := types.ActionListResponse{
		Actions: make([]types.ActionEntry, len(entries)),
	}

	for i, entry := range entries {
		resp.Actions[i] = types.ActionEntry{
			ID:     actionID(entry.Key),
			Action: entry.Value,
		}
	}

	data, err := c.ctx.Marshal(resp)
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal response: %v", err)
	}

	return data, nil
}

func (c Contract) queryAction(read store.Readable,
	actions typed.Keymap[types.ActionProposition], id uint64,
	viewer access.Address) ([]byte, error) {

	err := c.requireShare(read, viewer)
	if err != nil {
		return nil, err
	}

	action, found, err := actions.Get(read, c.ctx, actionKey(id))
	if err != nil {
		return nil, xerrors.Errorf("failed to read action: %v", err)
	}

	if !found {
		return nil, xerrors.Errorf("no action with identifier %d", id)
	}

	data, err := c.ctx.Marshal(types.ActionResponse{Action: action})
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal response: %v", err)
	}

	return data, nil
}

func (c Contract) requireShare(read store.Readable, viewer access.Address) error {
	_, found, err := stakeholderVotes.Get(read, c.ctx, viewer.Bytes())
	if err != nil {
		return xerrors.Errorf("failed to read stakeholders: %v", err)
	}

	if !found {
		return xerrors.New("you do not have a share in this contract")
	}

	return nil
}

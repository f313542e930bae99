package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQueryMsg_ValidationParams(t *testing.T) {
	m := QueryMsg{Balance: &BalanceQuery{Viewer: "flexaaaa", Key: "secret"}}

	viewer, key, scope, err := m.ValidationParams()
	require.NoError(t, err)
	require.Equal(t, "flexaaaa", viewer)
	require.Equal(t, "secret", key)
	require.Equal(t, ScopeBalance, scope)

	m = QueryMsg{AllActions: &AllActionsQuery{Viewer: "flexaaaa", Key: "secret"}}
	_, _, scope, err = m.ValidationParams()
	require.NoError(t, err)
	require.Equal(t, ScopeBalance, scope)

	m = QueryMsg{CompletedAction: &ActionQuery{ID: 1, Viewer: "flexaaaa", Key: "secret"}}
	_, _, scope, err = m.ValidationParams()
	require.NoError(t, err)
	require.Equal(t, ScopeHistory, scope)

	_, _, _, err = QueryMsg{}.ValidationParams()
	require.EqualError(t, err, "query does not carry a viewing key")
}

func TestQueryWithPermit_Scope(t *testing.T) {
	scope, err := QueryWithPermit{Balance: &struct{}{}}.Scope()
	require.NoError(t, err)
	require.Equal(t, ScopeBalance, scope)

	scope, err = QueryWithPermit{AllCompletedActions: &PageQuery{}}.Scope()
	require.NoError(t, err)
	require.Equal(t, ScopeHistory, scope)

	_, err = QueryWithPermit{}.Scope()
	require.EqualError(t, err, "empty permit query")
}

func TestActionProposition_Expired(t *testing.T) {
	action := ActionProposition{ProposedAt: time.Unix(1000, 0)}

	require.False(t, action.Expired(100, time.Unix(1100, 0)))
	require.True(t, action.Expired(100, time.Unix(1101, 0)))
}

package native

import (
	"path/filepath"
	"testing"

	"github.com/TriviumNode/scrt-flex-multisig/core/execution"
	"github.com/TriviumNode/scrt-flex-multisig/core/store"
	"github.com/TriviumNode/scrt-flex-multisig/core/store/kv"
	"github.com/TriviumNode/scrt-flex-multisig/internal/testing/fake"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

// echoContract stores the instantiate message and echoes execute messages.
//
// - implements native.Contract
type echoContract struct {
	err error
}

func (c echoContract) Instantiate(snap store.Snapshot, env execution.Env,
	info execution.Info, msg []byte) error {

	if c.err != nil {
		return c.err
	}

	return snap.Set([]byte("init"), msg)
}

func (c echoContract) Execute(snap store.Snapshot, env execution.Env,
	info execution.Info, msg []byte) ([]byte, error) {

	if c.err != nil {
		return nil, c.err
	}

	return msg, nil
}

func (c echoContract) Query(read store.Readable, env execution.Env,
	msg []byte) ([]byte, error) {

	if c.err != nil {
		return nil, c.err
	}

	return read.Get([]byte("init"))
}

// scribbleContract writes a marker and then rejects the message, so that a
// host can verify its transaction rollback.
//
// - implements native.Contract
type scribbleContract struct{}

func (c scribbleContract) Instantiate(snap store.Snapshot, env execution.Env,
	info execution.Info, msg []byte) error {

	return nil
}

func (c scribbleContract) Execute(snap store.Snapshot, env execution.Env,
	info execution.Info, msg []byte) ([]byte, error) {

	err := snap.Set([]byte("mark"), msg)
	if err != nil {
		return nil, err
	}

	return nil, xerrors.New("no thanks")
}

func (c scribbleContract) Query(read store.Readable, env execution.Env,
	msg []byte) ([]byte, error) {

	return read.Get([]byte("mark"))
}

func TestService_Instantiate(t *testing.T) {
	srvc := NewExecution()
	srvc.Set("echo", echoContract{})

	snap := fake.NewSnapshot()

	err := srvc.Instantiate(snap, execution.Env{}, execution.Info{}, "echo", []byte("hello"))
	require.NoError(t, err)

	err = srvc.Instantiate(snap, execution.Env{}, execution.Info{}, "unknown", nil)
	require.EqualError(t, err, "unknown contract 'unknown'")

	srvc.Set("bad", echoContract{err: xerrors.New("oops")})

	err = srvc.Instantiate(snap, execution.Env{}, execution.Info{}, "bad", nil)
	require.EqualError(t, err, "instantiation failed: oops")
}

func TestService_Execute(t *testing.T) {
	srvc := NewExecution()
	srvc.Set("echo", echoContract{})
	srvc.Set("bad", echoContract{err: xerrors.New("oops")})

	snap := fake.NewSnapshot()

	res, err := srvc.Execute(snap, execution.Env{}, execution.Info{}, "echo", []byte("hello"))
	require.NoError(t, err)
	require.True(t, res.Accepted)
	require.Equal(t, []byte("hello"), res.Data)

	// A contract rejection is a result, not an error.
	res, err = srvc.Execute(snap, execution.Env{}, execution.Info{}, "bad", nil)
	require.NoError(t, err)
	require.False(t, res.Accepted)
	require.Equal(t, "oops", res.Message)

	_, err = srvc.Execute(snap, execution.Env{}, execution.Info{}, "unknown", nil)
	require.EqualError(t, err, "unknown contract 'unknown'")
}

func TestService_Query(t *testing.T) {
	srvc := NewExecution()
	srvc.Set("echo", echoContract{})

	snap := fake.NewSnapshot()

	err := srvc.Instantiate(snap, execution.Env{}, execution.Info{}, "echo", []byte("hello"))
	require.NoError(t, err)

	value, err := srvc.Query(snap, execution.Env{}, "echo", nil)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), value)

	_, err = srvc.Query(snap, execution.Env{}, "unknown", nil)
	require.EqualError(t, err, "unknown contract 'unknown'")
}

func TestService_Execute_Rollback(t *testing.T) {
	db, err := kv.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	defer db.Close()

	srvc := NewExecution()
	srvc.Set("echo", echoContract{})
	srvc.Set("scribble", scribbleContract{})

	bucket := []byte("contracts")

	err = db.Update(bucket, func(b kv.Bucket) error {
		return srvc.Instantiate(kv.NewSnapshot(b), execution.Env{},
			execution.Info{}, "echo", []byte("hello"))
	})
	require.NoError(t, err)

	// A rejected message aborts the transaction so that none of the writes
	// of the contract survive.
	err = db.Update(bucket, func(b kv.Bucket) error {
		res, err := srvc.Execute(kv.NewSnapshot(b), execution.Env{},
			execution.Info{}, "scribble", []byte("mark"))
		if err != nil {
			return err
		}

		if !res.Accepted {
			return xerrors.New(res.Message)
		}

		return nil
	})
	require.EqualError(t, err, "no thanks")

	err = db.View(bucket, func(b kv.Bucket) error {
		snap := kv.NewSnapshot(b)

		value, err := srvc.Query(snap, execution.Env{}, "scribble", nil)
		require.NoError(t, err)
		require.Nil(t, value)

		// The committed transaction is untouched by the abort.
		value, err = srvc.Query(snap, execution.Env{}, "echo", nil)
		require.NoError(t, err)
		require.Equal(t, []byte("hello"), value)

		return nil
	})
	require.NoError(t, err)
}

func TestService_Namespaces(t *testing.T) {
	srvc := NewExecution()
	srvc.Set("first", echoContract{})
	srvc.Set("second", echoContract{})

	snap := fake.NewSnapshot()

	err := srvc.Instantiate(snap, execution.Env{}, execution.Info{}, "first", []byte("one"))
	require.NoError(t, err)

	// The second contract does not see the state of the first.
	value, err := srvc.Query(snap, execution.Env{}, "second", nil)
	require.NoError(t, err)
	require.Nil(t, value)
}

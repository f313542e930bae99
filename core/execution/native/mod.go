// Package native implements an execution service to run native contracts.
//
// A native contract is written in Go and packaged with the application. The
// service gives each registered contract its own storage namespace and
// guarantees that a rejected execution leaves no trace in the store when the
// snapshot comes from a database transaction.
package native

import (
	flex "github.com/TriviumNode/scrt-flex-multisig"
	"github.com/TriviumNode/scrt-flex-multisig/core/execution"
	"github.com/TriviumNode/scrt-flex-multisig/core/store"
	"github.com/TriviumNode/scrt-flex-multisig/core/store/prefixed"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"golang.org/x/xerrors"
)

var (
	promExecutions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flex_native_executions_total",
		Help: "total number of executed messages",
	})

	promRejections = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flex_native_executions_rejected_total",
		Help: "total number of rejected messages",
	})

	promQueries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flex_native_queries_total",
		Help: "total number of queries",
	})
)

func init() {
	flex.PromCollectors = append(flex.PromCollectors,
		promExecutions, promRejections, promQueries)
}

// Contract is the interface to implement to register a contract that will be
// executed natively.
type Contract interface {
	// Instantiate initializes the state of the contract.
	Instantiate(snap store.Snapshot, env execution.Env, info execution.Info, msg []byte) error

	// Execute applies the message to the state.
	Execute(snap store.Snapshot, env execution.Env, info execution.Info, msg []byte) ([]byte, error)

	// Query reads the state without modifying it.
	Query(read store.Readable, env execution.Env, msg []byte) ([]byte, error)
}

// Service is an execution service for packaged contracts. Each contract
// reads and writes through a namespace derived from its registration name.
//
// - implements execution.Service
type Service struct {
	contracts map[string]Contract
	logger    zerolog.Logger
}

// NewExecution returns a new native execution service.
func NewExecution() *Service {
	return &Service{
		contracts: map[string]Contract{},
		logger: flex.Logger.With().
			Stringer("service", xid.New()).Logger(),
	}
}

// Set stores the contract using the name as the key. A message can trigger
// this contract by using the same name.
func (ns *Service) Set(name string, contract Contract) {
	ns.contracts[name] = contract
}

// Instantiate initializes the named contract. Unlike Execute, a failure is
// returned as an error because an uninstantiated contract must not exist.
func (ns *Service) Instantiate(snap store.Snapshot, env execution.Env,
	info execution.Info, name string, msg []byte) error {

	contract := ns.contracts[name]
	if contract == nil {
		return xerrors.Errorf("unknown contract '%s'", name)
	}

	err := contract.Instantiate(prefixed.NewSnapshot(name, snap), env, info, msg)
	if err != nil {
		return xerrors.Errorf("instantiation failed: %v", err)
	}

	return nil
}

// Execute processes the incoming message and returns the result. A contract
// error is reported in the result, not as an error: the caller decides to
// abort the enclosing transaction based on the accepted flag.
func (ns *Service) Execute(snap store.Snapshot, env execution.Env,
	info execution.Info, name string, msg []byte) (execution.Result, error) {

	contract := ns.contracts[name]
	if contract == nil {
		return execution.Result{}, xerrors.Errorf("unknown contract '%s'", name)
	}

	promExecutions.Inc()

	res := execution.Result{
		Accepted: true,
	}

	data, err := contract.Execute(prefixed.NewSnapshot(name, snap), env, info, msg)
	if err != nil {
		promRejections.Inc()

		ns.logger.Debug().Err(err).Str("contract", name).Msg("message rejected")

		res.Accepted = false
		res.Message = err.Error()

		return res, nil
	}

	res.Data = data

	return res, nil
}

// Query runs a read-only request against the named contract.
func (ns *Service) Query(read store.Readable, env execution.Env,
	name string, msg []byte) ([]byte, error) {

	contract := ns.contracts[name]
	if contract == nil {
		return nil, xerrors.Errorf("unknown contract '%s'", name)
	}

	promQueries.Inc()

	return contract.Query(prefixed.NewReadable(name, read), env, msg)
}

// Package flex is the root of the flex-multisig confidential contract
// module. It implements authenticated query access control over encrypted
// contract state: a viewing-key registry, stateless signed permits, and a
// namespaced typed storage layer, together with the flex-multisig governance
// contract built on top of them.
//
// The host blockchain runtime is external. It provides message dispatch,
// block and transaction context, and the raw key/value storage that the
// store abstractions wrap.
package flex

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// EnvLogLevel is the name of the environment variable to change the logging
// level.
const EnvLogLevel = "LLVL"

const defaultLevel = zerolog.ErrorLevel

func init() {
	switch os.Getenv(EnvLogLevel) {
	case "warn":
		Logger = Logger.Level(zerolog.WarnLevel)
	case "info":
		Logger = Logger.Level(zerolog.InfoLevel)
	case "debug":
		Logger = Logger.Level(zerolog.DebugLevel)
	case "trace":
		Logger = Logger.Level(zerolog.TraceLevel)
	case "no":
		Logger = Logger.Level(zerolog.NoLevel)
	}
}

var logout = zerolog.ConsoleWriter{
	Out:        os.Stdout,
	TimeFormat: time.RFC3339,
}

// Logger is a globally available logger instance. By default, it only prints
// error level messages but it can be changed through the LLVL environment
// variable.
var Logger = zerolog.New(logout).Level(defaultLevel).
	With().Timestamp().Logger().
	With().Caller().Logger()

// PromCollectors exposes the prometheus collectors created by the packages
// of the module. The host application is expected to register them to its
// own registry.
var PromCollectors []prometheus.Collector

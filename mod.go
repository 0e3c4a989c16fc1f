// Package custody defines the global logger and the metrics registry of the
// module.
//
// The module implements a small custody ledger: a key/value store where every
// entry records the identity allowed to change it. Contracts are executed by
// a native execution service over a transactional key/value database, and the
// ownership rules themselves live in contracts/holding.
//
// Documentation Last Review: 25.08.2026
package custody

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// EnvLogLevel is the name of the environment variable to change the logging
// level.
const EnvLogLevel = "LLVL"

const defaultLevel = zerolog.WarnLevel

func init() {
	switch os.Getenv(EnvLogLevel) {
	case "error":
		Logger = Logger.Level(zerolog.ErrorLevel)
	case "warn":
		Logger = Logger.Level(zerolog.WarnLevel)
	case "info":
		Logger = Logger.Level(zerolog.InfoLevel)
	case "debug":
		Logger = Logger.Level(zerolog.DebugLevel)
	case "trace":
		Logger = Logger.Level(zerolog.TraceLevel)
	case "":
		Logger = Logger.Level(defaultLevel)
	default:
		Logger = Logger.Level(zerolog.TraceLevel)
	}
}

var logout = zerolog.ConsoleWriter{
	Out:        os.Stdout,
	TimeFormat: time.RFC3339,
}

// Logger is a globally available logger instance. By default it writes
// pretty-printed entries to the standard output above the warn level. The
// level is changed with the LLVL environment variable.
var Logger = zerolog.New(logout).
	With().Timestamp().Logger().
	With().Caller().Logger()

// PromCollectors exposes the Prometheus collectors registered by the packages
// of this module. The HTTP gateway serves them on its metrics endpoint.
var PromCollectors []prometheus.Collector

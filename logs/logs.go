package logs

import (
	"errors"

	logging "github.com/ipfs/go-log/v2"
)

// RelaySubsystems are the loggers of the head relay itself, as opposed to
// the ones of the libraries it is built on.
var RelaySubsystems = []string{
	"relay",
	"store",
	"authority",
	"rpc",
	"node",
	"cmd",
	"pidstore",
	"module/relay",
	"module/chain",
	"module/p2p",
}

// noisy libp2p subsystems are never more verbose than their level here.
var noisy = map[string]string{
	"addrutil": "INFO",
	"swarm2":   "WARN",
	"connmgr":  "WARN",
	"nat":      "INFO",
	"pubsub":   "WARN",
	"fx":       "WARN",
}

// SetAllLoggers sets the level of every logger, keeping noisy libp2p
// subsystems at a level that leaves relay logs readable.
func SetAllLoggers(level logging.LogLevel) {
	logging.SetAllLoggers(level)
	for name, quiet := range noisy {
		quietLvl, _ := logging.LevelFromString(quiet)
		if level < quietLvl {
			_ = logging.SetLogLevel(name, quiet)
		}
	}
}

// SetRelayLoggers sets the level of the relay subsystems only.
// Subsystems not linked into the binary are skipped.
func SetRelayLoggers(level string) error {
	for _, name := range RelaySubsystems {
		err := logging.SetLogLevel(name, level)
		if err != nil && !errors.Is(err, logging.ErrNoSuchLogger) {
			return err
		}
	}
	return nil
}

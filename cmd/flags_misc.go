package cmd

import (
	"context"
	"fmt"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"

	"github.com/celestiaorg/head-relay/libs/utils"
	"github.com/celestiaorg/head-relay/logs"
	"github.com/celestiaorg/head-relay/nodebuilder"
)

var (
	logLevelFlag        = "log.level"
	logRelayLevelFlag   = "log.level.relay"
	logLevelModuleFlag  = "log.level.module"
	tracingFlag         = "tracing"
	tracingEndpointFlag = "tracing.endpoint"
	tracingTLSFlag      = "tracing.tls"
	metricsFlag         = "metrics"
	metricsEndpointFlag = "metrics.endpoint"
	metricsTLSFlag      = "metrics.tls"
	metricsIntervalFlag = "metrics.interval"
)

// MiscFlags gives a set of hardcoded miscellaneous flags.
func MiscFlags() *flag.FlagSet {
	flags := &flag.FlagSet{}

	flags.String(
		logLevelFlag,
		"INFO",
		`DEBUG, INFO, WARN, ERROR, DPANIC, PANIC, FATAL
and their lower-case forms`,
	)

	flags.String(
		logRelayLevelFlag,
		"",
		fmt.Sprintf("Overrides '--%s' for the relay subsystems only: %s",
			logLevelFlag, strings.Join(logs.RelaySubsystems, ", ")),
	)

	flags.StringSlice(
		logLevelModuleFlag,
		nil,
		"<module>:<level>, e.g. store:debug",
	)

	flags.Bool(
		tracingFlag,
		false,
		"Enables OTLP tracing of the chain service and the relay with HTTP exporter",
	)

	flags.String(
		tracingEndpointFlag,
		"localhost:4318",
		"Sets HTTP endpoint for OTLP traces to be exported to. Depends on '--tracing'",
	)

	flags.Bool(
		tracingTLSFlag,
		true,
		"Enable TLS connection to OTLP tracing backend",
	)

	flags.Bool(
		metricsFlag,
		false,
		"Enables OTLP relay metrics with HTTP exporter",
	)

	flags.String(
		metricsEndpointFlag,
		"localhost:4318",
		"Sets HTTP endpoint for OTLP metrics to be exported to. Depends on '--metrics'",
	)

	flags.Bool(
		metricsTLSFlag,
		true,
		"Enable TLS connection to OTLP metric backend",
	)

	flags.Duration(
		metricsIntervalFlag,
		utils.DefaultMetricsInterval,
		"Sets how often relay metrics are exported. Depends on '--metrics'",
	)

	return flags
}

// ParseMiscFlags parses miscellaneous flags from the given cmd and applies values to Env.
func ParseMiscFlags(ctx context.Context, cmd *cobra.Command) (context.Context, error) {
	err := parseLogFlags(cmd)
	if err != nil {
		return ctx, err
	}

	ok, err := cmd.Flags().GetBool(tracingFlag)
	if err != nil {
		return ctx, err
	}
	if ok {
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(cmd.Flag(tracingEndpointFlag).Value.String()),
		}
		if tls, err := cmd.Flags().GetBool(tracingTLSFlag); err != nil {
			return ctx, err
		} else if !tls {
			opts = append(opts, otlptracehttp.WithInsecure())
		}

		log.Infow("exporting traces", "endpoint", cmd.Flag(tracingEndpointFlag).Value.String())
		ctx = WithNodeOptions(ctx, nodebuilder.WithTracing(opts...))
	}

	ok, err = cmd.Flags().GetBool(metricsFlag)
	if err != nil {
		return ctx, err
	}
	if ok {
		opts := []otlpmetrichttp.Option{
			otlpmetrichttp.WithEndpoint(cmd.Flag(metricsEndpointFlag).Value.String()),
		}
		if tls, err := cmd.Flags().GetBool(metricsTLSFlag); err != nil {
			return ctx, err
		} else if !tls {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		interval, err := cmd.Flags().GetDuration(metricsIntervalFlag)
		if err != nil {
			return ctx, err
		}

		log.Infow("exporting relay metrics",
			"endpoint", cmd.Flag(metricsEndpointFlag).Value.String(),
			"interval", interval,
		)
		ctx = WithNodeOptions(ctx, nodebuilder.WithMetrics(interval, opts...))
	}

	return ctx, nil
}

// parseLogFlags applies levels from the most general flag to the most specific one.
func parseLogFlags(cmd *cobra.Command) error {
	logLevel := cmd.Flag(logLevelFlag).Value.String()
	if logLevel != "" {
		level, err := logging.LevelFromString(logLevel)
		if err != nil {
			return fmt.Errorf("cmd: while parsing '%s': %w", logLevelFlag, err)
		}

		logs.SetAllLoggers(level)
	}

	relayLevel := cmd.Flag(logRelayLevelFlag).Value.String()
	if relayLevel != "" {
		if err := logs.SetRelayLoggers(relayLevel); err != nil {
			return fmt.Errorf("cmd: while parsing '%s': %w", logRelayLevelFlag, err)
		}
	}

	logModules, err := cmd.Flags().GetStringSlice(logLevelModuleFlag)
	if err != nil {
		return err
	}
	for _, ll := range logModules {
		params := strings.Split(ll, ":")
		if len(params) != 2 {
			return fmt.Errorf("cmd: %s arg must be in form <module>:<level>, e.g. store:debug", logLevelModuleFlag)
		}

		err := logging.SetLogLevel(params[0], params[1])
		if err != nil {
			return fmt.Errorf("cmd: while parsing '%s': %w", logLevelModuleFlag, err)
		}
	}
	return nil
}

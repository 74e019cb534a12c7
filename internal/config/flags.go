package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the process command line. See [parseFlags] for the
// accepted flags.
func ParseFlags(args []string) (*StructuredConfig, error) {
	return parseFlags(args)
}

// parseFlags parses all configuration flags from args.
//
// Flags:
//
//	-a authority listen address in format [host]:[port]
//	-d authority database DSN
//	-db local mirror database path
//	-server-url base URL of the authority used by the client
//	-token bearer token used by the client
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "720h")
//	-request-timeout server request timeout (e.g., "15s")
//	-adapter-timeout client request timeout (e.g., "10s")
//	-sync-interval timer drain period (e.g., "30s")
//	-max-retries retry budget per pending operation
//	-retry-delay first retry delay (e.g., "5s")
//	-retry-policy "exponential" or "fixed"
//	-max-backoff cap of the exponential retry delay
//	-probe-interval reachability probe period
//	-log-file rotated client log file path
//	-log-level zerolog level name
//	-trace-exporter "none", "stdout" or "otlp"
//	-otlp-endpoint OTLP collector address
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("neuroplan-sync", flag.ContinueOnError)

	var serverAddress NetAddress
	var databaseDSN, localPath string
	var serverURL, token string
	var jsonConfigPath string
	var tokenSignKey, tokenIssuer string
	var tokenDuration, requestTimeout, adapterTimeout time.Duration
	var syncInterval, retryDelay, maxBackoff, probeInterval time.Duration
	var maxRetries int
	var retryPolicy string
	var logFile, logLevel string
	var traceExporter, otlpEndpoint string

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&localPath, "db", "", "Local mirror database path")
	fs.StringVar(&serverURL, "server-url", "", "Authority base URL")
	fs.StringVar(&token, "token", "", "Bearer token")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 720h)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Server request timeout (e.g., 15s)")
	fs.DurationVar(&adapterTimeout, "adapter-timeout", 0, "Client request timeout (e.g., 10s)")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Sync timer period (e.g., 30s)")
	fs.IntVar(&maxRetries, "max-retries", 0, "Retry budget per pending operation")
	fs.DurationVar(&retryDelay, "retry-delay", 0, "First retry delay (e.g., 5s)")
	fs.StringVar(&retryPolicy, "retry-policy", "", "Retry policy: exponential or fixed")
	fs.DurationVar(&maxBackoff, "max-backoff", 0, "Retry delay cap (e.g., 5m)")
	fs.DurationVar(&probeInterval, "probe-interval", 0, "Reachability probe period (e.g., 5s)")
	fs.StringVar(&logFile, "log-file", "", "Client log file path")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.StringVar(&traceExporter, "trace-exporter", "", "Trace exporter: none, stdout or otlp")
	fs.StringVar(&otlpEndpoint, "otlp-endpoint", "", "OTLP collector endpoint")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			LogFile:  logFile,
			LogLevel: logLevel,
		},
		Auth: Auth{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
		},
		Storage: Storage{
			Local: Local{Path: localPath},
			DB:    DB{DSN: databaseDSN},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    serverURL,
			Token:          token,
			RequestTimeout: adapterTimeout,
		},
		Sync: Sync{
			Interval:    syncInterval,
			MaxRetries:  maxRetries,
			RetryDelay:  retryDelay,
			RetryPolicy: retryPolicy,
			MaxBackoff:  maxBackoff,
		},
		Connectivity: Connectivity{ProbeInterval: probeInterval},
		Tracing: Tracing{
			Enabled:      traceExporter != "" && traceExporter != ExporterNone,
			Exporter:     traceExporter,
			OTLPEndpoint: otlpEndpoint,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pior/routeros"
	"github.com/pior/routeros/proto"
	"github.com/rs/zerolog"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file")
		addrs      = flag.String("addr", "", "comma separated router addresses (host[:port])")
		username   = flag.String("user", "", "API username")
		password   = flag.String("password", "", "API password")
		timeout    = flag.Duration("timeout", 0, "per command timeout")
		maxConns   = flag.Int("max-conns", 0, "max connections per router")
		logLevel   = flag.String("log-level", "", "log level (debug, info, warn, error)")
		key        = flag.String("key", "", "key used to pick the router")
	)
	flag.Parse()

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = loadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	// explicit flags win over the file
	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addresses = normalizeAddresses(strings.Split(*addrs, ","))
		case "user":
			cfg.Username = *username
		case "password":
			cfg.Password = *password
		case "timeout":
			cfg.Timeout = *timeout
		case "max-conns":
			cfg.MaxConns = int32(*maxConns)
		case "log-level":
			level, err := zerolog.ParseLevel(*logLevel)
			if err != nil {
				flagErr = fmt.Errorf("parse -log-level: %w", err)
			}
			cfg.LogLevel = level
		}
	})
	if flagErr == nil {
		flagErr = cfg.validate()
	}
	if flagErr != nil {
		fmt.Fprintln(os.Stderr, flagErr)
		os.Exit(2)
	}

	logger := newLogger(cfg.LogLevel)

	client, err := routeros.NewClient(routeros.NewStaticServers(cfg.Addresses...), routeros.Config{
		MaxSize:           cfg.MaxConns,
		Username:          cfg.Username,
		Password:          cfg.Password,
		NewCircuitBreaker: routeros.NewCircuitBreakerConfig(1, time.Minute, 10*time.Second),
		Logger:            &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create client")
	}
	defer client.Close()

	logger.Debug().Strs("routers", cfg.Addresses).Msg("client ready")

	if err := run(client, os.Stdin, os.Stdout, *key, cfg.Timeout, logger); err != nil {
		logger.Error().Err(err).Msg("reading input")
		os.Exit(1)
	}
}

func newLogger(level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Str("app", "routeros-cli").Logger()
}

// run executes one command per input line and prints the replies.
func run(exec routeros.Executor, in io.Reader, out io.Writer, key string, timeout time.Duration, logger zerolog.Logger) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}

		cmd, err := parseLine(line)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		start := time.Now()
		res, err := exec.Execute(ctx, key, cmd)
		cancel()

		logger.Debug().Str("command", cmd.Path).Dur("took", time.Since(start)).Err(err).Msg("executed")
		printResult(out, res, err)
	}
	return scanner.Err()
}

func printResult(out io.Writer, res *routeros.Result, err error) {
	var trap *proto.TrapError
	switch {
	case errors.As(err, &trap):
		if trap.Category != proto.CategoryNone {
			fmt.Fprintf(out, "!trap %s: %s\n", trap.Category, trap.Message)
		} else {
			fmt.Fprintf(out, "!trap %s\n", trap.Message)
		}
		return
	case routeros.IsFatal(err):
		fmt.Fprintf(out, "!fatal %v\n", err)
		return
	case err != nil:
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}

	for _, row := range res.Rows {
		fmt.Fprintf(out, "!re %s\n", formatRow(row))
	}
	if ret := res.Ret(); ret != "" {
		fmt.Fprintf(out, "!done ret=%s\n", ret)
	} else {
		fmt.Fprintln(out, "!done")
	}
}

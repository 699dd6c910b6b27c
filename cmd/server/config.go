package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type config struct {
	HTTPAddr        string
	HashkitBin      string
	HashkitTimeout  time.Duration
	EncodingEnv     string
	WordlistDir     string
	NATSURL         string
	ProcessSubject  string
	WordlistSubject string
	WorkerQueue     string
	ResultSubject   string
	ShutdownTimeout time.Duration
}

func LoadConfig() (config, error) {
	cfg := config{
		HTTPAddr:        getenv("HTTP_ADDR", ":5000"),
		HashkitBin:      getenv("HASHKIT_BIN", "hashkit"),
		EncodingEnv:     getenv("HASHKIT_ENCODING_ENV", "PYTHONIOENCODING=utf-8"),
		WordlistDir:     getenv("WORDLIST_DIR", os.TempDir()),
		NATSURL:         getenv("NATS_URL", ""),
		ProcessSubject:  getenv("PROCESS_SUBJECT", "hashkit.process"),
		WordlistSubject: getenv("WORDLIST_SUBJECT", "hashkit.wordlist"),
		WorkerQueue:     getenv("WORKER_QUEUE", "hashkit-workers"),
		ResultSubject:   getenv("RESULT_SUBJECT", "hashkit.jobs.done"),
	}

	timeout, err := parseNonNegativeDuration(getenv("HASHKIT_TIMEOUT", "10m"), "HASHKIT_TIMEOUT")
	if err != nil {
		return config{}, err
	}
	cfg.HashkitTimeout = timeout

	// Defaults to the tool timeout plus slack so a running crack can finish.
	shutdown, err := parseNonNegativeDuration(getenv("SHUTDOWN_TIMEOUT", (timeout + 30*time.Second).String()), "SHUTDOWN_TIMEOUT")
	if err != nil {
		return config{}, err
	}
	cfg.ShutdownTimeout = shutdown

	if k, _, ok := strings.Cut(cfg.EncodingEnv, "="); !ok || strings.TrimSpace(k) == "" {
		return config{}, fmt.Errorf("invalid HASHKIT_ENCODING_ENV %q, expected KEY=value", cfg.EncodingEnv)
	}

	return cfg, nil
}

// parseNonNegativeDuration accepts Go durations or a bare number of seconds.
func parseNonNegativeDuration(value, name string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		secs, convErr := strconv.Atoi(value)
		if convErr != nil {
			return 0, fmt.Errorf("invalid %s: %w", name, err)
		}
		d = time.Duration(secs) * time.Second
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative (got %s)", name, d)
	}
	return d, nil
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// cmd/hashkitctl dispatches a single hashkit job from the command line, the
// same way the server would, and prints the response envelope as JSON.
//
// Usage:
//
//	./hashkitctl -action identify -hash 5f4dcc3b5aa765d61d8327deb882cf99
//	./hashkitctl -action crack -mode dictionary -hash abc -wordlist words.txt -threads 4
//	./hashkitctl -wordlist-action download
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/tendant/simple-hashkit/internal/artifact"
	"github.com/tendant/simple-hashkit/internal/dispatch"
	"github.com/tendant/simple-hashkit/internal/gate"
	"github.com/tendant/simple-hashkit/internal/runner"
	"github.com/tendant/simple-hashkit/pkg/schema"
)

func main() {
	_ = godotenv.Load()

	action := flag.String("action", "", "Process action: identify or crack")
	mode := flag.String("mode", "", "Crack mode: dictionary, bruteforce or mask")
	hash := flag.String("hash", "", "Hash value")
	threads := flag.Int("threads", 0, "Thread count (0 = tool default)")
	wordlistFile := flag.String("wordlist", "", "File with candidate passwords for dictionary mode")
	maxLength := flag.Int("max-length", 0, "Maximum length for bruteforce mode (0 = 6)")
	mask := flag.String("mask", "", "Mask pattern for mask mode")
	wordlistAction := flag.String("wordlist-action", "", "Wordlist management action: list, download or clear")
	bin := flag.String("bin", getenv("HASHKIT_BIN", "hashkit"), "hashkit executable")
	timeout := flag.Duration("timeout", 10*time.Minute, "Invocation timeout (0 disables)")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if (*action == "") == (*wordlistAction == "") {
		fmt.Fprintln(os.Stderr, "Error: exactly one of -action or -wordlist-action is required")
		flag.Usage()
		os.Exit(2)
	}

	d, err := dispatch.New(dispatch.Options{
		Gate:      gate.Noop(),
		Runner:    runner.NewExecRunner(*bin, *timeout, logger),
		Artifacts: artifact.NewManager(""),
		Logger:    logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	var resp dispatch.Response
	if *wordlistAction != "" {
		resp = d.Wordlist(ctx, schema.WordlistRequest{Action: *wordlistAction})
	} else {
		in := schema.ProcessRequest{
			HashValue: *hash,
			Action:    *action,
			Mode:      *mode,
			Threads:   schema.FlexInt(*threads),
			MaxLength: schema.FlexInt(*maxLength),
			Mask:      *mask,
		}
		if *wordlistFile != "" {
			data, err := os.ReadFile(*wordlistFile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: read wordlist: %v\n", err)
				os.Exit(1)
			}
			in.WordlistText = string(data)
		}
		resp = d.Process(ctx, in)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(schema.Reply{Envelope: resp.Envelope, JobID: resp.JobID, FailureReason: resp.Kind})

	if resp.Envelope.Status != schema.StatusSuccess || resp.Kind != schema.ErrorKindNone {
		os.Exit(1)
	}
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// Package hashkit models the jobs the external hashkit tool understands and
// turns validated jobs into its argument vectors.
package hashkit

import (
	"strings"

	"github.com/tendant/simple-hashkit/pkg/schema"
)

// Kind is the category of work requested from the tool.
type Kind string

const (
	KindIdentify         Kind = "identify"
	KindCrackDictionary  Kind = "crack_dictionary"
	KindCrackBruteforce  Kind = "crack_bruteforce"
	KindCrackMask        Kind = "crack_mask"
	KindWordlistList     Kind = "wordlist_list"
	KindWordlistDownload Kind = "wordlist_download"
	KindWordlistClear    Kind = "wordlist_clear"
)

const (
	// DefaultMaxLength is used for bruteforce attacks when no length is given.
	DefaultMaxLength = 6
	// FallbackWordlist is written for dictionary attacks with no wordlist text.
	FallbackWordlist = "password\n123456\nqwerty\nadmin"
	// DownloadSource is the only wordlist the download action fetches.
	DownloadSource = "rockyou"
)

// JobRequest is a fully validated request for one tool invocation.
type JobRequest struct {
	Kind         Kind
	HashValue    string
	ThreadCount  int // zero means tool default
	WordlistText string
	MaxLength    int // zero means DefaultMaxLength
	Mask         string
}

// NeedsWordlist reports whether the job must be given a temporary wordlist file.
func (r JobRequest) NeedsWordlist() bool {
	return r.Kind == KindCrackDictionary
}

// Wordlist returns the text to write for a dictionary attack.
func (r JobRequest) Wordlist() string {
	if text := strings.TrimSpace(r.WordlistText); text != "" {
		return text
	}
	return FallbackWordlist
}

// ValidationError is returned for requests that must never reach the tool.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// Validate checks the kind-specific required fields. ParseProcess and
// ParseWordlist only produce requests that pass it.
func (r JobRequest) Validate() error {
	switch r.Kind {
	case KindIdentify, KindCrackDictionary, KindCrackBruteforce, KindCrackMask:
		if strings.TrimSpace(r.HashValue) == "" {
			return invalid("Please provide a hash value.")
		}
	case KindWordlistList, KindWordlistDownload, KindWordlistClear:
		return nil
	default:
		return invalid("Invalid action.")
	}
	if r.ThreadCount < 0 {
		return invalid("Thread count must be a positive integer.")
	}
	switch r.Kind {
	case KindCrackBruteforce:
		if r.MaxLength < 0 {
			return invalid("Max length must be a positive integer.")
		}
	case KindCrackMask:
		if r.Mask == "" {
			return invalid("Mask pattern is required for mask attack.")
		}
	}
	return nil
}

// ParseProcess validates a process payload into a JobRequest.
func ParseProcess(in schema.ProcessRequest) (JobRequest, error) {
	hash := strings.TrimSpace(in.HashValue)
	if hash == "" {
		return JobRequest{}, invalid("Please provide a hash value.")
	}
	if in.Threads < 0 {
		return JobRequest{}, invalid("Thread count must be a positive integer.")
	}

	req := JobRequest{HashValue: hash, ThreadCount: int(in.Threads)}

	switch strings.ToLower(strings.TrimSpace(in.Action)) {
	case "identify":
		req.Kind = KindIdentify
		req.ThreadCount = 0
		return req, nil
	case "crack":
	default:
		return JobRequest{}, invalid("Invalid action.")
	}

	switch strings.ToLower(strings.TrimSpace(in.Mode)) {
	case "dictionary":
		req.Kind = KindCrackDictionary
		req.WordlistText = strings.TrimSpace(in.WordlistText)
	case "bruteforce":
		if in.MaxLength < 0 {
			return JobRequest{}, invalid("Max length must be a positive integer.")
		}
		req.Kind = KindCrackBruteforce
		req.MaxLength = int(in.MaxLength)
		if req.MaxLength == 0 {
			req.MaxLength = DefaultMaxLength
		}
	case "mask":
		if in.Mask == "" {
			return JobRequest{}, invalid("Mask pattern is required for mask attack.")
		}
		req.Kind = KindCrackMask
		req.Mask = in.Mask
	default:
		return JobRequest{}, invalid("Invalid cracking mode.")
	}
	return req, nil
}

// ParseWordlist validates a wordlist management payload into a JobRequest.
func ParseWordlist(in schema.WordlistRequest) (JobRequest, error) {
	switch strings.ToLower(strings.TrimSpace(in.Action)) {
	case "list":
		return JobRequest{Kind: KindWordlistList}, nil
	case "download":
		return JobRequest{Kind: KindWordlistDownload}, nil
	case "clear":
		return JobRequest{Kind: KindWordlistClear}, nil
	default:
		return JobRequest{}, invalid("Invalid wordlist action.")
	}
}

package hashkit

import "strconv"

// BuildArgs maps a validated job to the tool's argument vector. wordlistPath
// is only consulted for dictionary attacks. Every call returns a new slice.
func BuildArgs(req JobRequest, wordlistPath string) []string {
	switch req.Kind {
	case KindIdentify:
		return []string{"identify", req.HashValue}
	case KindCrackDictionary:
		return append([]string{"crack", req.HashValue, "-w", wordlistPath}, threadArgs(req)...)
	case KindCrackBruteforce:
		maxLength := req.MaxLength
		if maxLength <= 0 {
			maxLength = DefaultMaxLength
		}
		return append([]string{"crack", req.HashValue, "-m", "bruteforce", "--max-length", strconv.Itoa(maxLength)}, threadArgs(req)...)
	case KindCrackMask:
		return append([]string{"crack", req.HashValue, "-m", "mask", "--mask", req.Mask}, threadArgs(req)...)
	case KindWordlistList:
		return []string{"wordlist", "list"}
	case KindWordlistDownload:
		return []string{"wordlist", "download", DownloadSource}
	case KindWordlistClear:
		return []string{"wordlist", "clear"}
	default:
		return nil
	}
}

func threadArgs(req JobRequest) []string {
	if req.ThreadCount <= 0 {
		return nil
	}
	return []string{"--threads", strconv.Itoa(req.ThreadCount)}
}

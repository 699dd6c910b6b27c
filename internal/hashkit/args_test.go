package hashkit

import (
	"reflect"
	"testing"
)

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name string
		req  JobRequest
		path string
		want []string
	}{
		{
			name: "identify",
			req:  JobRequest{Kind: KindIdentify, HashValue: "5f4dcc3b5aa765d61d8327deb882cf99"},
			want: []string{"identify", "5f4dcc3b5aa765d61d8327deb882cf99"},
		},
		{
			name: "dictionary without threads",
			req:  JobRequest{Kind: KindCrackDictionary, HashValue: "abc"},
			path: "/tmp/w.txt",
			want: []string{"crack", "abc", "-w", "/tmp/w.txt"},
		},
		{
			name: "dictionary with threads",
			req:  JobRequest{Kind: KindCrackDictionary, HashValue: "abc", ThreadCount: 4},
			path: "/tmp/w.txt",
			want: []string{"crack", "abc", "-w", "/tmp/w.txt", "--threads", "4"},
		},
		{
			name: "bruteforce default length",
			req:  JobRequest{Kind: KindCrackBruteforce, HashValue: "abc"},
			want: []string{"crack", "abc", "-m", "bruteforce", "--max-length", "6"},
		},
		{
			name: "bruteforce explicit length and threads",
			req:  JobRequest{Kind: KindCrackBruteforce, HashValue: "abc", MaxLength: 8, ThreadCount: 2},
			want: []string{"crack", "abc", "-m", "bruteforce", "--max-length", "8", "--threads", "2"},
		},
		{
			name: "mask",
			req:  JobRequest{Kind: KindCrackMask, HashValue: "abc", Mask: "?l?l?d"},
			want: []string{"crack", "abc", "-m", "mask", "--mask", "?l?l?d"},
		},
		{
			name: "mask with threads",
			req:  JobRequest{Kind: KindCrackMask, HashValue: "abc", Mask: "?d?d", ThreadCount: 1},
			want: []string{"crack", "abc", "-m", "mask", "--mask", "?d?d", "--threads", "1"},
		},
		{"wordlist list", JobRequest{Kind: KindWordlistList}, "", []string{"wordlist", "list"}},
		{"wordlist download", JobRequest{Kind: KindWordlistDownload}, "", []string{"wordlist", "download", "rockyou"}},
		{"wordlist clear", JobRequest{Kind: KindWordlistClear}, "", []string{"wordlist", "clear"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildArgs(tt.req, tt.path)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildArgsReturnsFreshSlice(t *testing.T) {
	req := JobRequest{Kind: KindWordlistList}
	first := BuildArgs(req, "")
	first[0] = "mutated"

	if second := BuildArgs(req, ""); second[0] != "wordlist" {
		t.Fatalf("BuildArgs shared state between calls: %q", second)
	}
}

func TestBuildArgsUnknownKind(t *testing.T) {
	if got := BuildArgs(JobRequest{Kind: "bogus"}, ""); got != nil {
		t.Fatalf("expected nil for unknown kind, got %q", got)
	}
}

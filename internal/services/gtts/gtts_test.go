package gtts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"roughcut/internal/services"
	"roughcut/internal/services/httpx"
)

func fastHTTPClient() *httpx.Client {
	return httpx.NewClient(
		httpx.WithMaxAttempts(2),
		httpx.WithSleeper(func(time.Duration) {}),
	)
}

func TestSynthesizeSingleChunk(t *testing.T) {
	audio := []byte("mp3-bytes")
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"ie":     q.Get("ie"),
			"client": q.Get("client"),
			"tl":     q.Get("tl"),
			"q":      q.Get("q"),
		}
		_, _ = w.Write(audio)
	}))
	defer server.Close()

	client := New(Config{Language: "de", BaseURL: server.URL}, fastHTTPClient())
	data, err := client.Synthesize(context.Background(), "Guten Morgen")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !bytes.Equal(data, audio) {
		t.Fatalf("audio bytes mismatch: got %q", data)
	}
	want := map[string]string{"ie": "UTF-8", "client": "tw-ob", "tl": "de", "q": "Guten Morgen"}
	for key, value := range want {
		if gotQuery[key] != value {
			t.Fatalf("query %s: expected %q, got %q", key, value, gotQuery[key])
		}
	}
}

func TestSynthesizeChunksLongNarration(t *testing.T) {
	var requested []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunk := r.URL.Query().Get("q")
		requested = append(requested, chunk)
		fmt.Fprintf(w, "[part%d]", len(requested))
	}))
	defer server.Close()

	narration := strings.TrimSpace(strings.Repeat("every harbor tells a story about trade winds and patient cranes ", 8))
	client := New(Config{BaseURL: server.URL}, fastHTTPClient())
	data, err := client.Synthesize(context.Background(), narration)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if len(requested) < 2 {
		t.Fatalf("expected narration split across requests, got %d", len(requested))
	}
	for i, chunk := range requested {
		if n := len([]rune(chunk)); n > maxChunkRunes {
			t.Fatalf("chunk %d has %d runes", i, n)
		}
	}
	if joined := strings.Join(requested, " "); joined != narration {
		t.Fatalf("chunks do not reassemble narration:\n%q\n%q", joined, narration)
	}

	var wantAudio strings.Builder
	for i := range requested {
		fmt.Fprintf(&wantAudio, "[part%d]", i+1)
	}
	if string(data) != wantAudio.String() {
		t.Fatalf("audio not appended in order: %q", data)
	}
}

func TestSynthesizeRequiresText(t *testing.T) {
	client := New(Config{}, fastHTTPClient())
	if _, err := client.Synthesize(context.Background(), " \n"); !errors.Is(err, services.ErrCaller) {
		t.Fatalf("expected caller error, got %v", err)
	}
}

func TestSynthesizeClassifiesFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL}, fastHTTPClient())
	_, err := client.Synthesize(context.Background(), "text")
	if !errors.Is(err, services.ErrTransientProvider) {
		t.Fatalf("expected transient provider error, got %v", err)
	}
}

func TestSplitChunks(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{
			name:  "fits in one chunk",
			text:  "short sentence",
			limit: 50,
			want:  []string{"short sentence"},
		},
		{
			name:  "splits on word boundary",
			text:  "alpha beta gamma",
			limit: 11,
			want:  []string{"alpha beta", "gamma"},
		},
		{
			name:  "word exactly at limit",
			text:  "abcde fghij",
			limit: 5,
			want:  []string{"abcde", "fghij"},
		},
		{
			name:  "oversized word is split",
			text:  "hi abcdefghij bye",
			limit: 4,
			want:  []string{"hi", "abcd", "efgh", "ij", "bye"},
		},
		{
			name:  "collapses whitespace runs",
			text:  "one\n\ttwo   three",
			limit: 100,
			want:  []string{"one two three"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := splitChunks(tc.text, tc.limit)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("chunk %d: expected %q, got %q", i, tc.want[i], got[i])
				}
			}
		})
	}
}

func TestName(t *testing.T) {
	if got := New(Config{}, fastHTTPClient()).Name(); got != "gtts" {
		t.Fatalf("unexpected provider name %q", got)
	}
}

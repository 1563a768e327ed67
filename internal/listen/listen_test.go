package listen

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// makeWAV builds a minimal RIFF/WAVE file around the given samples.
func makeWAV(samples []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(samples)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(captureRate))
	binary.Write(&buf, binary.LittleEndian, uint32(captureRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(samples)))
	buf.Write(samples)
	return buf.Bytes()
}

func TestWAVData(t *testing.T) {
	samples := []byte{0x01, 0x02, 0x03, 0x04}
	pcm, err := wavData(makeWAV(samples))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pcm, samples) {
		t.Errorf("wavData = %v, want %v", pcm, samples)
	}

	if _, err := wavData([]byte("not a wav file")); err == nil {
		t.Error("wavData accepted garbage")
	}
}

func TestGoogleRecognize(t *testing.T) {
	samples := []byte{0x10, 0x20}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("lang"); got != "en-US" {
			t.Errorf("lang = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if !bytes.Equal(body, samples) {
			t.Errorf("body = %v, want raw samples %v", body, samples)
		}
		// Empty first line, then the real result, like the live endpoint.
		io.WriteString(w, `{"result":[]}`+"\n")
		json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{{
				"alternative": []map[string]any{
					{"transcript": "hello world", "confidence": 0.92},
				},
				"final": true,
			}},
		})
	}))
	defer server.Close()

	g := NewGoogleRecognizer(server.URL, "test-key", "")
	got, err := g.Recognize(context.Background(), makeWAV(samples))
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello world" {
		t.Errorf("transcript = %q", got)
	}
}

func TestGoogleRecognizeNoSpeech(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"result":[]}`+"\n")
	}))
	defer server.Close()

	g := NewGoogleRecognizer(server.URL, "test-key", "")
	if _, err := g.Recognize(context.Background(), makeWAV([]byte{0x00, 0x00})); !errors.Is(err, ErrNoSpeech) {
		t.Errorf("Recognize = %v, want ErrNoSpeech", err)
	}
}

func TestStdinListener(t *testing.T) {
	s := NewStdin(strings.NewReader("\n  \nhello\nworld\n"))

	got, err := s.Listen(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello" {
		t.Errorf("Listen = %q, want %q (blank lines skipped)", got, "hello")
	}

	got, err = s.Listen(context.Background())
	if err != nil || got != "world" {
		t.Errorf("Listen = %q, %v", got, err)
	}

	if _, err := s.Listen(context.Background()); !errors.Is(err, io.EOF) {
		t.Errorf("Listen at end = %v, want io.EOF", err)
	}
}

func TestStdinListenerCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewStdin(strings.NewReader("hello\n"))
	if _, err := s.Listen(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Listen = %v, want context.Canceled", err)
	}
}

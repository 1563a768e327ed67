package listen

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// defaultRecognizeURL is the Google web speech endpoint used by the
// Chromium speech demos.
const defaultRecognizeURL = "http://www.google.com/speech-api/v2/recognize"

// GoogleRecognizer transcribes clips through the Google web speech API.
type GoogleRecognizer struct {
	endpoint string
	key      string
	language string
	http     *http.Client
}

// NewGoogleRecognizer creates the recognizer. endpoint may be empty for
// the default, key is the API key, language is a BCP 47 tag like "en-US".
func NewGoogleRecognizer(endpoint, key, language string) *GoogleRecognizer {
	if endpoint == "" {
		endpoint = defaultRecognizeURL
	}
	if language == "" {
		language = "en-US"
	}
	return &GoogleRecognizer{
		endpoint: endpoint,
		key:      key,
		language: language,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Recognize posts the clip and returns the best transcript.
func (g *GoogleRecognizer) Recognize(ctx context.Context, wav []byte) (string, error) {
	pcm, err := wavData(wav)
	if err != nil {
		return "", err
	}

	query := url.Values{
		"client": {"chromium"},
		"lang":   {g.language},
		"key":    {g.key},
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.endpoint+"?"+query.Encode(), bytes.NewReader(pcm))
	if err != nil {
		return "", err
	}
	request.Header.Set("Content-Type", fmt.Sprintf("audio/l16; rate=%d", captureRate))

	response, err := g.http.Do(request)
	if err != nil {
		return "", fmt.Errorf("speech recognition request: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("speech recognition request: %s", response.Status)
	}
	return parseRecognizeResponse(response.Body)
}

// parseRecognizeResponse handles the line-delimited JSON the endpoint
// returns: an empty {"result":[]} line first, then the real result.
func parseRecognizeResponse(body io.Reader) (string, error) {
	decoder := json.NewDecoder(body)
	for {
		var line struct {
			Result []struct {
				Alternative []struct {
					Transcript string  `json:"transcript"`
					Confidence float64 `json:"confidence"`
				} `json:"alternative"`
			} `json:"result"`
		}
		if err := decoder.Decode(&line); err != nil {
			return "", ErrNoSpeech
		}
		for _, result := range line.Result {
			if len(result.Alternative) > 0 && result.Alternative[0].Transcript != "" {
				return result.Alternative[0].Transcript, nil
			}
		}
	}
}

// wavData extracts the PCM samples from a RIFF/WAVE file.
func wavData(wav []byte) ([]byte, error) {
	if len(wav) < 12 || !bytes.Equal(wav[:4], []byte("RIFF")) || !bytes.Equal(wav[8:12], []byte("WAVE")) {
		return nil, fmt.Errorf("captured clip is not a WAV file")
	}

	offset := 12
	for offset+8 <= len(wav) {
		chunkID := wav[offset : offset+4]
		chunkSize := int(binary.LittleEndian.Uint32(wav[offset+4 : offset+8]))
		offset += 8
		if bytes.Equal(chunkID, []byte("data")) {
			if offset+chunkSize > len(wav) {
				chunkSize = len(wav) - offset
			}
			return wav[offset : offset+chunkSize], nil
		}
		offset += chunkSize
	}
	return nil, fmt.Errorf("WAV file has no data chunk")
}

package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"prescription-chatbot-be/internal/constant"
	"prescription-chatbot-be/pkg/utils"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitDepth    = 16
	numChannels = 1
	pcmFormat   = 1
)

// Result is what a narration attempt reports back. Narrate never returns an error.
type Result struct {
	Success     bool
	Message     string
	CleanedText string
}

type Narrator struct {
	synthesizer Synthesizer
	sampleRate  int
	chunkLimit  int
}

func NewNarrator(synthesizer Synthesizer, sampleRate int) *Narrator {
	if sampleRate <= 0 {
		sampleRate = 22050
	}
	return &Narrator{
		synthesizer: synthesizer,
		sampleRate:  sampleRate,
		chunkLimit:  constant.NarrationChunkLimit,
	}
}

// Narrate normalizes text, synthesizes it chunk by chunk and writes a single mono
// 16-bit WAV file to outputPath.
func (n *Narrator) Narrate(ctx context.Context, text, outputPath string) Result {
	// 1. Normalize and chunk
	cleaned := utils.StripMarkdown(text)
	chunks := utils.SplitSentences(cleaned, n.chunkLimit)
	if len(chunks) == 0 {
		return Result{Success: false, Message: "Nothing to narrate.", CleanedText: cleaned}
	}

	// 2. Synthesize
	payloads, err := n.synthesizer.Synthesize(ctx, chunks)
	if err != nil {
		return Result{Success: false, Message: err.Error(), CleanedText: cleaned}
	}

	// 3. Decode every segment in order
	var samples []int
	for i, payload := range payloads {
		segment, err := decodeSegment(payload)
		if err != nil {
			return Result{
				Success:     false,
				Message:     fmt.Sprintf("Failed to decode audio segment %d: %v", i, err),
				CleanedText: cleaned,
			}
		}
		samples = append(samples, segment...)
	}

	// 4. Write one waveform
	if err := n.writeWAV(outputPath, samples); err != nil {
		return Result{Success: false, Message: fmt.Sprintf("Failed to write audio: %v", err), CleanedText: cleaned}
	}

	return Result{Success: true, Message: "Audio generated successfully.", CleanedText: cleaned}
}

func (n *Narrator) writeWAV(outputPath string, samples []int) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, n.sampleRate, bitDepth, numChannels, pcmFormat)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numChannels, SampleRate: n.sampleRate},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

// PadBase64 appends "=" until the length is a multiple of four
func PadBase64(payload string) string {
	payload = strings.TrimSpace(payload)
	if missing := len(payload) % 4; missing != 0 {
		payload += strings.Repeat("=", 4-missing)
	}
	return payload
}

// decodeSegment returns the PCM samples of one payload. WAV payloads are parsed,
// anything else is read as raw little-endian 16-bit PCM.
func decodeSegment(payload string) ([]int, error) {
	raw, err := base64.StdEncoding.DecodeString(PadBase64(payload))
	if err != nil {
		return nil, fmt.Errorf("base64: %w", err)
	}

	if len(raw) >= 12 && string(raw[0:4]) == "RIFF" && string(raw[8:12]) == "WAVE" {
		dec := wav.NewDecoder(bytes.NewReader(raw))
		buf, err := dec.FullPCMBuffer()
		if err != nil {
			return nil, fmt.Errorf("wav: %w", err)
		}
		return buf.Data, nil
	}

	samples := make([]int, len(raw)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(raw[2*i:])))
	}
	return samples, nil
}

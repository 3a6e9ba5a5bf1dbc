package speech

import (
	"context"
	"fmt"
	"os"
	"strings"

	htgotts "github.com/hegedustibor/htgo-tts"
)

// Synthesizer narrates text to an mp3 file in the given directory.
type Synthesizer struct {
	dir string
}

// NewSynthesizer creates a synthesizer writing audio files into dir.
func NewSynthesizer(dir string) *Synthesizer { return &Synthesizer{dir: dir} }

// Synthesize narrates text in the given language into {dir}/{name}.mp3
// and returns the written path.
func (s *Synthesizer) Synthesize(ctx context.Context, text, lang, name string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return "", fmt.Errorf("make audio dir: %w", err)
	}

	// the library appends the extension itself
	name = strings.TrimSuffix(name, ".mp3")

	tts := htgotts.Speech{Folder: s.dir, Language: lang}

	path, err := tts.CreateSpeechFile(text, name)
	if err != nil {
		return "", fmt.Errorf("create speech file: %w", err)
	}

	return path, nil
}

// Package llm exposes the conversational assistant as a narrow facade:
// chat, translation, transcription and spoken replies.
package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/d1nch8g/office/sound"
)

const systemPrompt = "The following is a conversation with an AI assistant. " +
	"The assistant is helpful, creative, clever, and very friendly."

var languages = map[string]string{
	"en": "english",
	"vi": "vietnamese",
	"es": "spanish",
	"fr": "french",
	"ko": "korean",
	"zh": "chinese",
	"ja": "japanese",
	"de": "german",
}

// Chatter produces a completion for user text.
type Chatter interface {
	Complete(ctx context.Context, system, text string) (string, error)
}

// Transcriber turns a recorded WAV file into text.
type Transcriber interface {
	TranscribeFile(ctx context.Context, path string) (string, error)
}

// Synthesizer streams spoken PCM for a text into a channel.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, audioData chan<- []byte) error
}

// Assistant composes the chat, speech-to-text and text-to-speech clients
// behind one facade. The synthesizer and player are optional; Speak
// fails cleanly when they are absent.
type Assistant struct {
	chat   Chatter
	stt    Transcriber
	tts    Synthesizer
	player sound.Player
	log    zerolog.Logger
}

func NewAssistant(chat Chatter, stt Transcriber, tts Synthesizer, player sound.Player, log zerolog.Logger) *Assistant {
	return &Assistant{
		chat:   chat,
		stt:    stt,
		tts:    tts,
		player: player,
		log:    log,
	}
}

// Chat sends the message to the assistant and returns its reply.
func (a *Assistant) Chat(ctx context.Context, message string) (string, error) {
	if a.chat == nil {
		return "", fmt.Errorf("chat client is not configured")
	}
	return a.chat.Complete(ctx, systemPrompt, message)
}

// Translate asks the assistant to translate text into the language named
// by the given two-letter code.
func (a *Assistant) Translate(ctx context.Context, text, langCode string) (string, error) {
	name, ok := languages[langCode]
	if !ok {
		return "", fmt.Errorf("unsupported target language %q", langCode)
	}
	message := fmt.Sprintf("Translate the following to %s:\n\n%s", name, text)
	return a.Chat(ctx, message)
}

// Transcribe returns the text spoken in the WAV file at path.
func (a *Assistant) Transcribe(ctx context.Context, path string) (string, error) {
	if a.stt == nil {
		return "", fmt.Errorf("speech recognition client is not configured")
	}
	return a.stt.TranscribeFile(ctx, path)
}

// Speak synthesizes the text and plays it through the sound player,
// blocking until playback finishes.
func (a *Assistant) Speak(ctx context.Context, text string) error {
	if a.tts == nil || a.player == nil {
		return fmt.Errorf("speech synthesis is not configured")
	}

	audioData := make(chan []byte, 16)
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.tts.Synthesize(ctx, text, audioData)
	}()

	if err := a.player.PlayStream(ctx, audioData); err != nil {
		return fmt.Errorf("failed to play synthesized speech: %w", err)
	}
	return <-errCh
}

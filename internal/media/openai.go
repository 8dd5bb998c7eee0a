package media

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"time"

	"github.com/openai/openai-go"

	"github.com/franklinbaldo/aleph-the-game/internal/engine"
)

// illustrationStyle frames every image prompt; the game's look is fixed.
const illustrationStyle = "A high-contrast, grainy, black and white illustration in the style of a 1920s vintage photograph or etching. Noir atmosphere, surrealist undertones. Subject: "

// OpenAIFetcher resolves assets through the OpenAI media endpoints.
type OpenAIFetcher struct {
	client  *openai.Client
	timeout time.Duration
}

func NewOpenAIFetcher(client *openai.Client, timeout time.Duration) *OpenAIFetcher {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &OpenAIFetcher{client: client, timeout: timeout}
}

func (f *OpenAIFetcher) Illustration(ctx context.Context, prompt string) (string, error) {
	if f.client == nil {
		return "", errors.New("media: client is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	resp, err := f.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:  openai.ImageModelGPTImage1,
		Prompt: illustrationStyle + prompt,
		N:      openai.Int(1),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", errors.New("media: empty image response")
	}
	return "data:image/png;base64," + resp.Data[0].B64JSON, nil
}

// Ambient sound has no generation endpoint; absence of the asset is never an
// error for the turn cycle, so callers just drop it.
func (f *OpenAIFetcher) Ambient(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("media: ambient sound generation unavailable")
}

func (f *OpenAIFetcher) Speech(ctx context.Context, text string, sender engine.Sender, tone string) (string, error) {
	if f.client == nil {
		return "", errors.New("media: client is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	voice := openai.AudioSpeechNewParamsVoiceOnyx
	if sender == engine.SenderAntagonist {
		voice = openai.AudioSpeechNewParamsVoiceFable
	}
	input := text
	if tone != "" {
		input = "(" + tone + ") " + text
	}
	resp, err := f.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model: openai.SpeechModelTTS1,
		Voice: voice,
		Input: input,
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", errors.New("media: empty speech response")
	}
	return "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(b), nil
}

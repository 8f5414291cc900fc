package stt

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-audio/wav"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/metadata"

	speechkit "github.com/yandex-cloud/go-genproto/yandex/cloud/ai/stt/v3"
)

const (
	YandexSTTEndpoint = "stt.api.cloud.yandex.net:443"

	// LINEAR16 mono: one chunk is ~0.37s of audio at 44.1 kHz.
	streamChunkBytes = 32 * 1024
)

type YandexSTTClient struct {
	client   speechkit.RecognizerClient
	conn     *grpc.ClientConn
	iamToken string
	folderID string
	language string
}

type YandexConfig struct {
	IamToken string
	FolderID string
	Language string
}

func NewYandexSTTClient(config YandexConfig) (*YandexSTTClient, error) {
	tlsConfig := &tls.Config{}
	conn, err := grpc.Dial(YandexSTTEndpoint, grpc.WithTransportCredentials(credentials.NewTLS(tlsConfig)))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Yandex STT: %w", err)
	}

	return &YandexSTTClient{
		client:   speechkit.NewRecognizerClient(conn),
		conn:     conn,
		iamToken: config.IamToken,
		folderID: config.FolderID,
		language: config.Language,
	}, nil
}

func (s *YandexSTTClient) Close() error {
	return s.conn.Close()
}

// TranscribeFile decodes the WAV file at path, streams its PCM through
// the recognizer and returns the concatenated final hypotheses.
func (s *YandexSTTClient) TranscribeFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return "", fmt.Errorf("%s is not a valid WAV file", path)
	}
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return "", fmt.Errorf("failed to read PCM data: %w", err)
	}

	pcm := make([]byte, len(buf.Data)*2)
	for i, sample := range buf.Data {
		pcm[i*2] = byte(sample)
		pcm[i*2+1] = byte(sample >> 8)
	}

	audioData := make(chan []byte, 16)
	results := make(chan string, 16)
	errCh := make(chan error, 1)

	go func() {
		errCh <- s.StreamRecognize(ctx, audioData, results, int64(decoder.SampleRate))
	}()

	go func() {
		defer close(audioData)
		for len(pcm) > 0 {
			n := streamChunkBytes
			if n > len(pcm) {
				n = len(pcm)
			}
			select {
			case audioData <- pcm[:n]:
				pcm = pcm[n:]
			case <-ctx.Done():
				return
			}
		}
	}()

	var transcription strings.Builder
	for result := range results {
		if transcription.Len() > 0 {
			transcription.WriteString(" ")
		}
		transcription.WriteString(result)
	}

	if err := <-errCh; err != nil {
		return "", err
	}
	return transcription.String(), nil
}

// StreamRecognize performs streaming speech recognition: audio chunks
// are read from audioData and recognized text is sent to results, which
// is closed when the server finishes responding.
func (s *YandexSTTClient) StreamRecognize(ctx context.Context, audioData <-chan []byte, results chan<- string, sampleRate int64) error {
	md := metadata.Pairs(
		"authorization", "Bearer "+s.iamToken,
		"x-folder-id", s.folderID,
	)
	ctx = metadata.NewOutgoingContext(ctx, md)

	stream, err := s.client.RecognizeStreaming(ctx)
	if err != nil {
		close(results)
		return fmt.Errorf("failed to create streaming client: %w", err)
	}
	defer stream.CloseSend()

	sessionOptions := &speechkit.StreamingRequest{
		Event: &speechkit.StreamingRequest_SessionOptions{
			SessionOptions: &speechkit.StreamingOptions{
				RecognitionModel: &speechkit.RecognitionModelOptions{
					AudioFormat: &speechkit.AudioFormatOptions{
						AudioFormat: &speechkit.AudioFormatOptions_RawAudio{
							RawAudio: &speechkit.RawAudio{
								AudioEncoding:     speechkit.RawAudio_LINEAR16_PCM,
								SampleRateHertz:   sampleRate,
								AudioChannelCount: 1,
							},
						},
					},
					TextNormalization: &speechkit.TextNormalizationOptions{
						TextNormalization: speechkit.TextNormalizationOptions_TEXT_NORMALIZATION_ENABLED,
						ProfanityFilter:   false,
						LiteratureText:    false,
					},
					LanguageRestriction: &speechkit.LanguageRestrictionOptions{
						RestrictionType: speechkit.LanguageRestrictionOptions_WHITELIST,
						LanguageCode:    []string{s.language},
					},
					AudioProcessingType: speechkit.RecognitionModelOptions_FULL_DATA,
				},
			},
		},
	}

	if err := stream.Send(sessionOptions); err != nil {
		close(results)
		return fmt.Errorf("failed to send session options: %w", err)
	}

	go func() {
		defer close(results)
		for {
			resp, err := stream.Recv()
			if err == io.EOF {
				return
			}
			if err != nil {
				log.Warn().Err(err).Msg("stt stream receive failed")
				return
			}

			if resp.GetFinal() != nil {
				for _, alternative := range resp.GetFinal().GetAlternatives() {
					if text := alternative.GetText(); text != "" {
						results <- text
					}
				}
			}
		}
	}()

	for audioChunk := range audioData {
		audioRequest := &speechkit.StreamingRequest{
			Event: &speechkit.StreamingRequest_Chunk{
				Chunk: &speechkit.AudioChunk{
					Data: audioChunk,
				},
			},
		}
		if err := stream.Send(audioRequest); err != nil {
			return fmt.Errorf("failed to send audio chunk: %w", err)
		}
	}

	return nil
}

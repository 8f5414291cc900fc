package tts

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/metadata"

	ttspb "github.com/yandex-cloud/go-genproto/yandex/cloud/ai/tts/v3"
)

const YandexTTSEndpoint = "tts.api.cloud.yandex.net:443"

type YandexConfig struct {
	IamToken string
	FolderID string
	Options  Options
}

type YandexTTSClient struct {
	client   ttspb.SynthesizerClient
	conn     *grpc.ClientConn
	iamToken string
	folderID string
	options  Options
}

// Ensure YandexTTSClient implements Synthesizer interface
var _ Synthesizer = (*YandexTTSClient)(nil)

func NewYandexTTSClient(config YandexConfig) (*YandexTTSClient, error) {
	creds := credentials.NewTLS(&tls.Config{})
	conn, err := grpc.Dial(YandexTTSEndpoint, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to TTS service: %w", err)
	}

	options := config.Options
	if options.Voice == "" {
		options = GetDefaultOptions()
	}

	return &YandexTTSClient{
		client:   ttspb.NewSynthesizerClient(conn),
		conn:     conn,
		iamToken: config.IamToken,
		folderID: config.FolderID,
		options:  options,
	}, nil
}

func (c *YandexTTSClient) Synthesize(ctx context.Context, text string, audioData chan<- []byte) error {
	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+c.iamToken)
	ctx = metadata.AppendToOutgoingContext(ctx, "x-folder-id", c.folderID)

	stream, err := c.client.UtteranceSynthesis(ctx, c.buildRequest(text))
	if err != nil {
		close(audioData)
		return fmt.Errorf("failed to start synthesis: %w", err)
	}

	defer close(audioData)
	for {
		resp, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to receive audio data: %w", err)
		}

		if chunk := resp.GetAudioChunk(); chunk != nil {
			select {
			case audioData <- chunk.GetData():
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return nil
}

func (c *YandexTTSClient) buildRequest(text string) *ttspb.UtteranceSynthesisRequest {
	return &ttspb.UtteranceSynthesisRequest{
		Model:     c.options.Model,
		Utterance: &ttspb.UtteranceSynthesisRequest_Text{Text: text},
		Hints: []*ttspb.Hints{
			{Hint: &ttspb.Hints_Voice{Voice: c.options.Voice}},
			{Hint: &ttspb.Hints_Speed{Speed: c.options.Speed}},
		},
		OutputAudioSpec: &ttspb.AudioFormatOptions{
			AudioFormat: &ttspb.AudioFormatOptions_RawAudio{
				RawAudio: &ttspb.RawAudio{
					AudioEncoding:   ttspb.RawAudio_LINEAR16_PCM,
					SampleRateHertz: c.options.SampleRate,
				},
			},
		},
		LoudnessNormalizationType: ttspb.UtteranceSynthesisRequest_LUFS,
	}
}

func (c *YandexTTSClient) Close() error {
	return c.conn.Close()
}

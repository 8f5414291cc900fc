package sound

import (
	"context"
	"encoding/binary"
	"errors"

	"github.com/gordonklaus/portaudio"
)

type PortaudioPlayer struct {
	stream      *portaudio.Stream
	audioBuffer []int16
	config      PlayerConfig
}

func NewPortaudioPlayer(config PlayerConfig) *PortaudioPlayer {
	return &PortaudioPlayer{
		config:      config,
		audioBuffer: make([]int16, config.FramesPerBuffer*config.OutputChannels),
	}
}

func (p *PortaudioPlayer) Initialize() error {
	return portaudio.Initialize()
}

func (p *PortaudioPlayer) Terminate() {
	portaudio.Terminate()
}

func (p *PortaudioPlayer) Open() error {
	stream, err := portaudio.OpenDefaultStream(
		0,
		p.config.OutputChannels,
		p.config.SampleRate,
		p.config.FramesPerBuffer,
		p.audioBuffer,
	)
	if err != nil {
		return err
	}
	p.stream = stream
	return nil
}

func (p *PortaudioPlayer) Close() error {
	if p.stream != nil {
		return p.stream.Close()
	}
	return nil
}

func (p *PortaudioPlayer) PlayStream(ctx context.Context, audioData <-chan []byte) error {
	if p.stream == nil {
		return errors.New("stream not opened")
	}

	if err := p.stream.Start(); err != nil {
		return err
	}
	defer p.stream.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case audioBytes, ok := <-audioData:
			if !ok {
				return nil // Channel closed
			}
			if err := p.writeChunk(audioBytes); err != nil {
				return err
			}
		}
	}
}

// writeChunk renders one chunk of little-endian 16-bit PCM, splitting it
// into buffer-sized writes and zero-padding the tail.
func (p *PortaudioPlayer) writeChunk(audioBytes []byte) error {
	samples := p.convertBytesToSamples(audioBytes)

	for len(samples) > 0 {
		n := copy(p.audioBuffer, samples)
		samples = samples[n:]
		for i := n; i < len(p.audioBuffer); i++ {
			p.audioBuffer[i] = 0
		}
		if err := p.stream.Write(); err != nil {
			return err
		}
	}
	return nil
}

func (p *PortaudioPlayer) convertBytesToSamples(audioBytes []byte) []int16 {
	samples := make([]int16, len(audioBytes)/2)
	for i := 0; i < len(samples); i++ {
		samples[i] = int16(binary.LittleEndian.Uint16(audioBytes[i*2 : i*2+2]))
	}
	return samples
}

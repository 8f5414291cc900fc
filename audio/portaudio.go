package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Microphone records from the default system input device.
type Microphone struct{}

func NewMicrophone() *Microphone {
	return &Microphone{}
}

func (m *Microphone) Open(cfg Config) (Stream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	buffer := make([]int16, cfg.FramesPerChunk*cfg.Channels)
	stream, err := portaudio.OpenDefaultStream(
		cfg.Channels,
		0,
		cfg.SampleRate,
		cfg.FramesPerChunk,
		buffer,
	)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open input stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to start input stream: %w", err)
	}

	return &micStream{stream: stream, buffer: buffer}, nil
}

type micStream struct {
	stream *portaudio.Stream
	buffer []int16
}

func (s *micStream) Read() ([]int16, error) {
	if err := s.stream.Read(); err != nil {
		return nil, err
	}
	chunk := make([]int16, len(s.buffer))
	copy(chunk, s.buffer)
	return chunk, nil
}

func (s *micStream) Close() error {
	s.stream.Stop()
	err := s.stream.Close()
	portaudio.Terminate()
	return err
}

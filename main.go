package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/d1nch8g/office/audio"
	"github.com/d1nch8g/office/camera"
	"github.com/d1nch8g/office/config"
	"github.com/d1nch8g/office/download"
	"github.com/d1nch8g/office/engine"
	"github.com/d1nch8g/office/gpt"
	"github.com/d1nch8g/office/llm"
	"github.com/d1nch8g/office/media"
	"github.com/d1nch8g/office/screen"
	"github.com/d1nch8g/office/server"
	"github.com/d1nch8g/office/sound"
	"github.com/d1nch8g/office/stt"
	"github.com/d1nch8g/office/tts"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if os.Getenv("LOG_PRETTY") == "1" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	controller := media.New(
		cfg.OutputDir,
		func() engine.Engine { return engine.NewMP3Engine() },
		audio.NewMicrophone(),
		camera.NewV4L2Camera(),
		screen.NewPrimaryDisplay(),
		logger.With().Str("component", "media").Logger(),
	)

	downloader := download.NewYTDLP(cfg.OutputDir)

	assistant := buildAssistant(cfg, logger)
	if assistant == nil {
		logger.Warn().Msg("IAM_TOKEN or FOLDER_ID not set, chat routes disabled")
	}

	var assistantIface server.Assistant
	if assistant != nil {
		assistantIface = assistant
	}
	srv := server.New(
		controller,
		assistantIface,
		downloader,
		cfg.OutputDir,
		logger.With().Str("component", "server").Logger(),
	)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()
	logger.Info().Str("addr", cfg.ListenAddr).Str("output", cfg.OutputDir).Msg("office server listening")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("http shutdown failed")
	}
	if err := controller.Stop(); err != nil && !errors.Is(err, media.ErrNotPlaying) {
		logger.Warn().Err(err).Msg("failed to stop playback")
	}
}

// buildAssistant wires the conversational clients when cloud credentials
// are configured. Speech output is optional: a missing audio device
// degrades Speak, not the whole assistant.
func buildAssistant(cfg *config.Config, logger zerolog.Logger) *llm.Assistant {
	if cfg.IamToken == "" || cfg.FolderID == "" {
		return nil
	}

	gptClient := gpt.NewClient(cfg.FolderID, cfg.IamToken, cfg.GPTModel)

	sttClient, err := stt.NewYandexSTTClient(stt.YandexConfig{
		IamToken: cfg.IamToken,
		FolderID: cfg.FolderID,
		Language: cfg.Language,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("speech recognition unavailable")
	}

	ttsClient, err := tts.NewYandexTTSClient(tts.YandexConfig{
		IamToken: cfg.IamToken,
		FolderID: cfg.FolderID,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("speech synthesis unavailable")
	}

	var player sound.Player
	p := sound.NewPortaudioPlayer(sound.GetDefaultConfig())
	if err := p.Initialize(); err != nil {
		logger.Warn().Err(err).Msg("audio output unavailable, spoken replies disabled")
	} else if err := p.Open(); err != nil {
		p.Terminate()
		logger.Warn().Err(err).Msg("audio output unavailable, spoken replies disabled")
	} else {
		player = p
	}

	var transcriber llm.Transcriber
	if sttClient != nil {
		transcriber = sttClient
	}
	var synthesizer llm.Synthesizer
	if ttsClient != nil {
		synthesizer = ttsClient
	}

	return llm.NewAssistant(
		gptClient,
		transcriber,
		synthesizer,
		player,
		logger.With().Str("component", "llm").Logger(),
	)
}

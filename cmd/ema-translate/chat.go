package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	orchestration "github.com/koscakluka/ema-translate/core"
	"github.com/koscakluka/ema-translate/core/audio/miniaudio"
	"github.com/koscakluka/ema-translate/core/audio/portaudio"
	"github.com/koscakluka/ema-translate/internal/config"
	"github.com/koscakluka/ema-translate/internal/speaker"
	"github.com/koscakluka/ema-translate/internal/tui"
)

func newChatCmd(v *viper.Viper, configPath *string) *cobra.Command {
	chat := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v, *configPath)
			if err != nil {
				return err
			}

			hw, err := openDevices(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := hw.Close(); err != nil {
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), err)
				}
			}()

			client := newBackendClient(cfg)
			opts := []orchestration.OrchestratorOption{orchestration.WithGateway(client)}
			if hw.input != nil {
				opts = append(opts, orchestration.WithAudioInput(hw.input))
			}
			orchestrator := orchestration.NewOrchestrator(opts...)
			defer orchestrator.Close()

			var speech tui.SpeechPort
			if cfg.Speech.Enabled {
				speech = speaker.New(client, hw.player)
			}

			return tui.Run(cmd.Context(), orchestrator, speech, orchestration.SessionRequest{
				Objective:      cfg.Session.Objective,
				UserLanguage:   cfg.Session.UserLanguage,
				TargetLanguage: cfg.Session.TargetLanguage,
				Country:        cfg.Session.Country,
			})
		},
	}

	flags := chat.Flags()
	flags.String("objective", "", "objective to pre-fill")
	flags.String("user-language", "", "language you speak, e.g. en")
	flags.String("target-language", "", "language to translate to, e.g. es")
	flags.String("country", "", "country used for speech, e.g. US")
	flags.String("audio-driver", "", "audio driver: miniaudio, portaudio or none")
	flags.Int("sample-rate", 0, "capture sample rate in Hz")
	flags.Bool("speech", true, "read replies out loud")
	bindFlags(v, flags, map[string]string{
		"session.objective":       "objective",
		"session.user_language":   "user-language",
		"session.target_language": "target-language",
		"session.country":         "country",
		"audio.driver":            "audio-driver",
		"audio.sample_rate":       "sample-rate",
		"speech.enabled":          "speech",
	})
	return chat
}

type closer interface {
	Close() error
}

// devices holds the opened audio hardware. input and player are nil when the
// configuration does not use them.
type devices struct {
	input   orchestration.AudioInputWithEncoding
	player  speaker.Player
	closers []closer
}

func (d *devices) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i].Close())
	}
	return errors.Join(errs...)
}

func openDevices(ctx context.Context, cfg *config.Config) (*devices, error) {
	d := &devices{}

	switch cfg.Audio.Driver {
	case config.DriverMiniaudio:
		opts := []miniaudio.ClientOption{miniaudio.WithSampleRate(cfg.Audio.SampleRate)}
		if !cfg.Speech.Enabled {
			opts = append(opts, miniaudio.WithoutPlayback())
		}
		client, err := miniaudio.NewClient(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to open miniaudio devices: %w", err)
		}
		d.closers = append(d.closers, client)
		d.input = client
		if cfg.Speech.Enabled {
			d.player = client
		}

	case config.DriverPortaudio:
		client, err := portaudio.NewClient(cfg.Audio.SampleRate, cfg.Audio.BufferSize)
		if err != nil {
			return nil, fmt.Errorf("failed to open portaudio device: %w", err)
		}
		d.closers = append(d.closers, client)
		d.input = client

		// portaudio only captures; speech still plays through miniaudio.
		if cfg.Speech.Enabled {
			player, err := miniaudio.NewClient(
				miniaudio.WithSampleRate(cfg.Audio.SampleRate),
				miniaudio.WithoutCapture(),
			)
			if err != nil {
				_ = d.Close()
				return nil, fmt.Errorf("failed to open playback device: %w", err)
			}
			d.closers = append(d.closers, player)
			d.player = player
		}

	case config.DriverNone:
	}

	if player, ok := d.player.(*miniaudio.Client); ok {
		if err := player.StartPlayback(ctx); err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("failed to start playback: %w", err)
		}
	}
	return d, nil
}

// Command avatar-monitor tracks a remote avatar over OSC, logs every engine
// event, bridges MIDI input onto avatar parameters, and serves a live
// websocket dashboard.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/osckit/go-avatar/internal/config"
	"github.com/osckit/go-avatar/internal/log"
	"github.com/osckit/go-avatar/pkg/avatar"
	"github.com/osckit/go-avatar/pkg/input"
	"github.com/osckit/go-avatar/pkg/osc"
	"github.com/osckit/go-avatar/pkg/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log.Init(cfg.LogLevel)
	logger := log.L()

	engine, err := avatar.New(avatar.Config{
		DefaultID:           cfg.AvatarID,
		DefaultHeight:       cfg.AvatarHeight,
		Forms:               cfg.Forms,
		AssumeBaseState:     cfg.AssumeBaseState,
		AccurateScaleEvents: cfg.AccurateScaleEvents,
		IgnorePrefixes:      cfg.IgnorePrefixes,
		FloatPrecision:      cfg.FloatPrecision,
		Verbose:             cfg.Verbose,
		MaxWait:             avatar.DefaultConfig().MaxWait,
		Logger:              logger,
	}, osc.NewClient(cfg.SendHost, cfg.SendPort))
	if err != nil {
		return err
	}

	server, err := osc.Listen(cfg.ListenAddr)
	if err != nil {
		return err
	}
	defer server.Close()
	logger.Info("listening for OSC", "addr", server.LocalAddr().String())

	dash := web.NewServer(cfg.WebPort, logger)
	dash.Attach(engine)
	go func() {
		if err := dash.Start(); err != nil {
			logger.Error("dashboard stopped", "error", err)
		}
	}()
	defer dash.Shutdown()

	// Device input funnels through a queue drained once per engine tick so
	// everything stays on the engine goroutine.
	queue := input.NewQueue(256)
	midi := input.OpenMIDI(cfg.MIDIPort, queue, logger)
	defer midi.Close()

	engine.OnTick(func() {
		queue.Drain(func(ev input.Event) {
			handleInput(engine, ev)
		})
	})

	engine.OnAvatarChanged(func(ev avatar.AvatarChange) {
		logger.Info("avatar change observed", "id", ev.ID, "is_form", ev.IsForm)
	})
	engine.OnAvatarReset(func() {
		logger.Info("avatar reset inferred")
	})
	engine.OnHeightChanged(func(ev avatar.HeightChange) {
		if h, ok := engine.CurrentHeight(); ok {
			logger.Info("height", "meters", h, "trigger", ev.Parameter)
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = engine.Run(ctx, server)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// handleInput forwards MIDI events onto avatar parameters: notes become a
// momentary note number, controller movements become normalized floats.
func handleInput(engine *avatar.Engine, ev input.Event) {
	switch ev := ev.(type) {
	case input.NoteOn:
		engine.SetInt("MIDI/Note", int(ev.Note))
		engine.SetBool("MIDI/NoteOn", true)
	case input.NoteOff:
		engine.SetBool("MIDI/NoteOn", false)
	case input.ControlChange:
		engine.SetFloat(fmt.Sprintf("MIDI/CC%d", ev.Control), float64(ev.Value)/127.0)
	case input.PitchBend:
		engine.SetFloat("MIDI/PitchBend", float64(ev.Value)/8192.0)
	}
}

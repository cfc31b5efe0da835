// Command height-display drives a three-digit height readout on the avatar
// itself: whenever the tracked height changes, the current size is rendered
// onto digit/dot/unit parameters the avatar animates. It demonstrates the
// outbound setters and the self-set round trip.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/osckit/go-avatar/internal/config"
	"github.com/osckit/go-avatar/internal/log"
	"github.com/osckit/go-avatar/pkg/avatar"
	"github.com/osckit/go-avatar/pkg/osc"
)

// Digit codes beyond 0-9 understood by the avatar's display shader.
const (
	digitDash = 10
	digitOff  = 11
)

// Unit codes for the display's unit indicator.
const (
	unitMillimeters = 0
	unitCentimeters = 1
	unitMeters      = 2
	unitKilometers  = 3
)

// scaleMultipliers maps the avatar's Height/Scale selector to a display
// multiplier, so the readout can show "what my height would be at 10x".
var scaleMultipliers = map[int]float64{
	0:  1,
	1:  5,
	2:  10,
	3:  20,
	4:  50,
	5:  100,
	6:  1000,
	7:  1.0 / 5,
	8:  1.0 / 10,
	9:  1.0 / 20,
	10: 1.0 / 50,
	11: 1.0 / 100,
	12: 1.0 / 1000,
	13: 1.0 / 2000,
}

// showTime is how long the readout stays visible after a height change.
const showTime = 3 * time.Second

type display struct {
	engine *avatar.Engine
	log    *slog.Logger

	lastShown time.Duration
	lastBreak time.Duration
	forceShow bool
	broken    bool
}

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
		DefaultID:       cfg.AvatarID,
		DefaultHeight:   cfg.AvatarHeight,
		Forms:           cfg.Forms,
		AssumeBaseState: cfg.AssumeBaseState,
		IgnorePrefixes:  cfg.IgnorePrefixes,
		FloatPrecision:  cfg.FloatPrecision,
		Verbose:         cfg.Verbose,
		MaxWait:         avatar.DefaultConfig().MaxWait,
		Logger:          logger,
	}, osc.NewClient(cfg.SendHost, cfg.SendPort))
	if err != nil {
		return err
	}

	server, err := osc.Listen(cfg.ListenAddr)
	if err != nil {
		return err
	}
	defer server.Close()

	d := &display{engine: engine, log: logger, lastShown: -showTime}
	d.register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = engine.Run(ctx, server)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (d *display) register() {
	e := d.engine

	e.OnStart(func() {
		e.SetInt("Height/DigitA", digitDash)
		e.SetInt("Height/DigitB", digitDash)
		e.SetInt("Height/DigitC", digitDash)
		e.SetBool("Height/DotA", false)
		e.SetBool("Height/DotB", false)
		e.SetBool("Height/DotC", false)
		e.SetInt("Height/Unit", unitCentimeters)
		e.SetInt("Height/Scale", 0)
		e.SetBool("Height/Show", false)
	})

	e.OnHeightChanged(func(avatar.HeightChange) { d.show() })

	e.OnAvatarChanged(func(ev avatar.AvatarChange) {
		d.forceShow = false
		if ev.IsForm {
			d.show()
		}
	})

	e.OnParameterChanged(func(ev avatar.ParameterChange) {
		switch ev.Name {
		case "Height/Scale":
			d.show()
		case "Height/ForceShow":
			v, _ := ev.Value.AsBool()
			d.forceShow = v
			e.SetBool("Height/Show", v)
		case "Height/Break":
			v, _ := ev.Value.AsBool()
			d.broken = v
			if !v {
				d.show()
			}
		}
	})

	e.OnTick(func() { d.tick() })
}

func (d *display) tick() {
	e := d.engine
	clock := e.Clock()

	if clock-d.lastShown > showTime && !d.forceShow {
		if shown, ok := e.Param("Height/Show").AsBool(); ok && shown {
			e.SetBool("Height/Show", false)
		}
	}
	if d.broken && clock-d.lastBreak >= 100*time.Millisecond {
		d.setDigits(float64(rand.Intn(999)), 0)
		d.lastBreak = clock
	}
}

// show renders the current height onto the display parameters, picking a
// unit so three digits always suffice.
func (d *display) show() {
	if d.broken {
		return
	}
	e := d.engine

	height, ok := e.CurrentHeight()
	if !ok {
		d.setDigits(1e9, 0) // all dashes until height is derivable
		return
	}
	if sel, selOK := e.Param("Height/Scale").AsInt(); selOK {
		if mult, found := scaleMultipliers[sel]; found {
			height *= mult
		}
	}

	d.lastShown = e.Clock()
	d.log.Info("current height", "meters", height)

	switch {
	case height >= 1000:
		e.SetInt("Height/Unit", unitKilometers)
		d.setDigits(height/1000, 1)
	case height >= 100:
		e.SetInt("Height/Unit", unitMeters)
		d.setDigits(height, 0)
	case height >= 10:
		e.SetInt("Height/Unit", unitMeters)
		d.setDigits(height, 1)
	case height >= 0.1:
		e.SetInt("Height/Unit", unitCentimeters)
		d.setDigits(height*100, 0)
	case height >= 0.01:
		e.SetInt("Height/Unit", unitCentimeters)
		d.setDigits(height*100, 1)
	case height >= 0.0001:
		e.SetInt("Height/Unit", unitMillimeters)
		d.setDigits(height*1000, 1)
	default:
		e.SetInt("Height/Unit", unitMillimeters)
		d.setDigits(height*1000, 2)
	}

	e.SetBool("Height/Show", true)
}

// setDigits writes value onto the three digit cells with the decimal point
// shifted left by decimal places. Values that do not fit show as dashes.
func (d *display) setDigits(value float64, decimal int) {
	e := d.engine
	i := int(value * pow10(decimal))
	s := strconv.Itoa(i)

	switch {
	case len(s) > 3:
		e.SetInt("Height/DigitA", digitDash)
		e.SetInt("Height/DigitB", digitDash)
		e.SetInt("Height/DigitC", digitDash)
	case len(s) == 3:
		e.SetInt("Height/DigitA", digit(s, 0))
		e.SetInt("Height/DigitB", digit(s, 1))
		e.SetInt("Height/DigitC", digit(s, 2))
	case len(s) == 2:
		e.SetInt("Height/DigitA", leadingCell(decimal < 2))
		e.SetInt("Height/DigitB", digit(s, 0))
		e.SetInt("Height/DigitC", digit(s, 1))
	default:
		e.SetInt("Height/DigitA", leadingCell(decimal < 2))
		e.SetInt("Height/DigitB", leadingCell(decimal < 1))
		e.SetInt("Height/DigitC", digit(s, 0))
	}

	e.SetBool("Height/DotC", false)
	switch {
	case len(s) > 3 || decimal == 0:
		e.SetBool("Height/DotA", false)
		e.SetBool("Height/DotB", false)
	case decimal == 1:
		e.SetBool("Height/DotA", false)
		e.SetBool("Height/DotB", true)
	case decimal == 2:
		e.SetBool("Height/DotA", true)
		e.SetBool("Height/DotB", false)
	}
}

func digit(s string, pos int) int { return int(s[pos] - '0') }

// leadingCell blanks an unused leading digit, or shows a zero when digits
// after the decimal point need the padding.
func leadingCell(blank bool) int {
	if blank {
		return digitOff
	}
	return 0
}

func pow10(n int) float64 {
	p := 1.0
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}

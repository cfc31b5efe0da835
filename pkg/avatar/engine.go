// Package avatar reconstructs the live state of a remote avatar from a
// delta-only OSC stream. The remote application sends a value only when it
// changes and never a full snapshot, so the engine keeps a tri-state
// parameter table, derives quantities the protocol does not transmit, infers
// lifecycle transitions from heuristic signals, and emits de-duplicated
// change events to application code.
package avatar

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Sender delivers outbound OSC messages. Implemented by osc.Client; tests
// substitute a recording fake.
type Sender interface {
	Send(address string, args ...any) error
}

// Packet is one inbound OSC message.
type Packet struct {
	Address string
	Args    []any
}

// Receiver blocks for up to maxWait for the next inbound packet. A nil
// packet with a nil error means the wait timed out; the tick still occurs.
type Receiver interface {
	Receive(maxWait time.Duration) (*Packet, error)
}

// Config is the constructor-time engine configuration. It is immutable for
// the life of the engine.
type Config struct {
	// DefaultID is the avatar id assumed at startup. Empty means unknown.
	DefaultID string

	// DefaultHeight is the base eye height in meters for the default avatar
	// and all its forms. Zero means unknown; it is then derived from the
	// scale parameters once both have been observed.
	DefaultHeight float64

	// Forms are avatar ids considered equivalent bodies of the default
	// avatar, sharing its base height and parameter set. DefaultID is
	// always a member of its own forms set.
	Forms []string

	// CustomDefaults seeds custom parameters with a starting value.
	// Parameters not listed populate lazily on first observation.
	CustomDefaults map[string]Value

	// AssumeBaseState resets a fixed subset of recognized parameters to
	// resting defaults on avatar change and avatar reset, compensating for
	// the delta-only protocol.
	AssumeBaseState bool

	// AccurateScaleEvents fires height-changed for every scale-related
	// parameter. When false only ScaleFactor, the authoritative name,
	// triggers the event.
	AccurateScaleEvents bool

	// IgnorePrefixes drops any parameter whose name starts with one of
	// these prefixes before classification.
	IgnorePrefixes []string

	// FloatPrecision is the decimal precision inbound floats are rounded to
	// before change detection. Negative disables rounding.
	FloatPrecision int

	// Verbose logs noisy parameter classes that are normally suppressed
	// from the log (never from events).
	Verbose bool

	// MaxWait bounds the blocking wait for inbound messages per tick. It is
	// an upper latency ceiling, not a guaranteed rate.
	MaxWait time.Duration

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// DefaultConfig returns the baseline engine configuration.
func DefaultConfig() Config {
	return Config{
		AssumeBaseState: true,
		FloatPrecision:  3,
		MaxWait:         100 * time.Millisecond,
	}
}

// buttonDelay separates the on and off halves of a momentary button press.
const buttonDelay = 100 * time.Millisecond

// Engine is the avatar state tracker. It is single-threaded: all mutation
// and event delivery happen synchronously inside one tick, driven by Run or
// by direct Route calls from the host loop. Outbound setters must be called
// from the same goroutine.
type Engine struct {
	cfg    Config
	log    *slog.Logger
	sender Sender
	filter changeFilter

	params *params
	hooks  hooks

	currentID string
	forms     map[string]struct{}

	baseHeight   Value
	trackingType Value

	// justSet marks parameters written by an outbound command, valid until
	// the next inbound observation of the same name.
	justSet map[string]bool

	startTime time.Time
	lastTick  time.Time
	started   bool
}

// New validates cfg and builds an engine. Configuration errors surface here,
// not at runtime.
func New(cfg Config, sender Sender) (*Engine, error) {
	if cfg.FloatPrecision > maxFloatPrecision {
		return nil, fmt.Errorf("float precision %d exceeds maximum %d", cfg.FloatPrecision, maxFloatPrecision)
	}
	if sender == nil {
		return nil, fmt.Errorf("nil sender")
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = DefaultConfig().MaxWait
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	forms := make(map[string]struct{}, len(cfg.Forms)+1)
	for _, id := range cfg.Forms {
		forms[id] = struct{}{}
	}
	if cfg.DefaultID != "" {
		forms[cfg.DefaultID] = struct{}{}
	}

	e := &Engine{
		cfg:       cfg,
		log:       logger,
		sender:    sender,
		filter:    changeFilter{precision: cfg.FloatPrecision},
		params:    newParams(cfg.CustomDefaults),
		currentID: cfg.DefaultID,
		forms:     forms,
		justSet:   make(map[string]bool),
		startTime: time.Now(),
		lastTick:  time.Now(),
	}
	if cfg.DefaultHeight > 0 {
		e.baseHeight = Float(cfg.DefaultHeight)
	}
	return e, nil
}

// Start fires the start hook and seeds the assumed baseline. Run calls it;
// hosts driving Route directly should call it once themselves.
func (e *Engine) Start() {
	if e.started {
		return
	}
	e.started = true
	if e.cfg.AssumeBaseState {
		e.params.resetToBaseline()
	}
	e.emitStart()
}

// Run drives the engine from rx until ctx is canceled. Each cycle blocks on
// the receiver for at most MaxWait, routes whatever arrived, then fires the
// tick hook. Routing and subscriber errors end the loop; the host decides
// whether to restart.
func (e *Engine) Run(ctx context.Context, rx Receiver) error {
	e.Start()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		pkt, err := rx.Receive(e.cfg.MaxWait)
		if err != nil {
			return fmt.Errorf("receive: %w", err)
		}
		if pkt != nil {
			if err := e.Route(pkt.Address, pkt.Args); err != nil {
				return err
			}
		}
		e.lastTick = time.Now()
		e.emitTick()
	}
}

// Clock returns time elapsed since engine construction, measured at the
// last tick boundary.
func (e *Engine) Clock() time.Duration {
	return e.lastTick.Sub(e.startTime)
}

// CurrentAvatarID returns the current avatar id, empty if never observed.
func (e *Engine) CurrentAvatarID() string { return e.currentID }

// Param returns the tracked value for name, recognized or custom.
func (e *Engine) Param(name string) Value { return e.params.Get(name) }

// BaseHeight returns the base eye height in meters, ok=false until it is
// configured or derived.
func (e *Engine) BaseHeight() (float64, bool) {
	return e.baseHeight.AsFloat()
}

// CurrentHeight returns base height scaled by the live scale factor,
// ok=false while either operand is unknown.
func (e *Engine) CurrentHeight() (float64, bool) {
	base, ok := e.baseHeight.AsFloat()
	if !ok {
		return 0, false
	}
	scale, ok := e.params.Get(ParamScaleFactor).AsFloat()
	if !ok {
		return 0, false
	}
	return base * scale, true
}

// SetInt sends an integer parameter to the remote side and records it
// locally as self-set.
func (e *Engine) SetInt(name string, v int) error {
	if err := e.sender.Send(paramAddressPrefix+name, int32(v)); err != nil {
		return err
	}
	e.localSet(name, Int(v))
	return nil
}

// SetFloat sends a float parameter and records it locally as self-set.
func (e *Engine) SetFloat(name string, v float64) error {
	if err := e.sender.Send(paramAddressPrefix+name, float32(v)); err != nil {
		return err
	}
	e.localSet(name, Float(v))
	return nil
}

// SetBool sends a boolean parameter and records it locally as self-set.
func (e *Engine) SetBool(name string, v bool) error {
	if err := e.sender.Send(paramAddressPrefix+name, v); err != nil {
		return err
	}
	e.localSet(name, Bool(v))
	return nil
}

// PressButton sends a momentary 1-then-0 pulse to an input button address.
func (e *Engine) PressButton(button string) error {
	addr := inputAddressPrefix + button
	if err := e.sender.Send(addr, int32(1)); err != nil {
		return err
	}
	time.Sleep(buttonDelay)
	if err := e.sender.Send(addr, int32(0)); err != nil {
		return err
	}
	e.log.Info("button", "name", button)
	return nil
}

// SetAxis sets a continuous input axis, e.g. Vertical or LookHorizontal.
func (e *Engine) SetAxis(axis string, v float64) error {
	if err := e.sender.Send(inputAddressPrefix+axis, float32(v)); err != nil {
		return err
	}
	e.log.Info("axis", "name", axis, "value", v)
	return nil
}

// Message sends a free-form message.
func (e *Engine) Message(msg string) error {
	if err := e.sender.Send(messageAddress, msg); err != nil {
		return err
	}
	e.log.Info("message", "text", msg)
	return nil
}

// SetTyping toggles the chatbox typing indicator.
func (e *Engine) SetTyping(state bool) error {
	return e.sender.Send(chatTypingAddress, state)
}

// SendChat puts a message in the chatbox. immediate skips the remote input
// popup; sfx plays the notification sound.
func (e *Engine) SendChat(msg string, immediate, sfx bool) error {
	if err := e.sender.Send(chatMessageAddress, msg, immediate, sfx); err != nil {
		return err
	}
	e.log.Info("chat", "text", msg)
	return nil
}

// localSet records an outbound write: store the value, mark it self-set for
// exactly one inbound observation, and emit the change.
func (e *Engine) localSet(name string, v Value) {
	custom := e.params.set(name, v)
	e.justSet[name] = true
	e.log.Info("set parameter", "name", name, "value", v.String())
	e.emitParameterChanged(ParameterChange{Name: name, Value: v, Custom: custom, SelfSet: true})
}

// Snapshot is a point-in-time JSON-friendly view of engine state. Take it on
// the engine goroutine (e.g. in an OnTick handler) before handing it to
// other goroutines.
type Snapshot struct {
	AvatarID      string         `json:"avatar_id"`
	BaseHeight    float64        `json:"base_height,omitempty"`
	CurrentHeight float64        `json:"current_height,omitempty"`
	Parameters    map[string]any `json:"parameters"`
	Custom        map[string]any `json:"custom"`
}

// Snapshot exports the known portion of the parameter table.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		AvatarID:   e.currentID,
		Parameters: make(map[string]any),
		Custom:     make(map[string]any),
	}
	if h, ok := e.baseHeight.AsFloat(); ok {
		s.BaseHeight = h
	}
	if h, ok := e.CurrentHeight(); ok {
		s.CurrentHeight = h
	}
	for name, v := range e.params.recognized {
		if v.Known() {
			s.Parameters[name] = v.Payload()
		}
	}
	for name, v := range e.params.custom {
		if v.Known() {
			s.Custom[name] = v.Payload()
		}
	}
	return s
}

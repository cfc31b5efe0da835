package avatar

// Event payloads delivered to registered handlers. Delivery is synchronous,
// in registration order, on the engine's tick goroutine. Handler panics are
// not recovered: a failing subscriber is an application bug the host loop
// must see.

// AvatarChange reports that the remote side loaded a new avatar.
type AvatarChange struct {
	// ID is the new avatar id.
	ID string
	// IsForm is true when the id is in the configured forms set, i.e. an
	// equivalent body of the same logical avatar.
	IsForm bool
}

// HeightChange reports an update to a scale-related parameter.
type HeightChange struct {
	// Parameter is the scale-related name that triggered the event.
	Parameter string
	// Value is the normalized value assigned to it.
	Value Value
}

// ParameterChange reports a materially new parameter observation.
type ParameterChange struct {
	Name  string
	Value Value
	// Custom is true when the name is not a protocol builtin.
	Custom bool
	// SelfSet is true when this observation confirms a value this engine
	// sent, rather than a foreign change.
	SelfSet bool
}

// Velocity is the derived 3-axis velocity vector.
type Velocity struct {
	X, Y, Z float64
}

// UnknownMessage reports an inbound message that matched no known address
// shape. Never dropped silently.
type UnknownMessage struct {
	Address string
	Args    []any
}

// hooks is the typed subscription registry backing the On* methods.
type hooks struct {
	avatarChanged    []func(AvatarChange)
	avatarReset      []func()
	heightChanged    []func(HeightChange)
	parameterChanged []func(ParameterChange)
	velocityChanged  []func(Velocity)
	visemeChanged    []func(Viseme)
	unknownMessage   []func(UnknownMessage)
	tick             []func()
	start            []func()
}

// OnAvatarChanged registers a handler for explicit avatar-change messages.
func (e *Engine) OnAvatarChanged(fn func(AvatarChange)) {
	e.hooks.avatarChanged = append(e.hooks.avatarChanged, fn)
}

// OnAvatarReset registers a handler for the heuristic avatar-reset event.
func (e *Engine) OnAvatarReset(fn func()) {
	e.hooks.avatarReset = append(e.hooks.avatarReset, fn)
}

// OnHeightChanged registers a handler for scale-related updates.
func (e *Engine) OnHeightChanged(fn func(HeightChange)) {
	e.hooks.heightChanged = append(e.hooks.heightChanged, fn)
}

// OnParameterChanged registers a handler for every de-duplicated parameter
// observation, including noisy ones.
func (e *Engine) OnParameterChanged(fn func(ParameterChange)) {
	e.hooks.parameterChanged = append(e.hooks.parameterChanged, fn)
}

// OnVelocityChanged registers a handler for the assembled velocity vector.
func (e *Engine) OnVelocityChanged(fn func(Velocity)) {
	e.hooks.velocityChanged = append(e.hooks.velocityChanged, fn)
}

// OnVisemeChanged registers a handler for mouth-shape updates.
func (e *Engine) OnVisemeChanged(fn func(Viseme)) {
	e.hooks.visemeChanged = append(e.hooks.visemeChanged, fn)
}

// OnUnknownMessage registers a handler for unroutable messages.
func (e *Engine) OnUnknownMessage(fn func(UnknownMessage)) {
	e.hooks.unknownMessage = append(e.hooks.unknownMessage, fn)
}

// OnTick registers a handler invoked once per tick, after all message
// processing for that tick.
func (e *Engine) OnTick(fn func()) {
	e.hooks.tick = append(e.hooks.tick, fn)
}

// OnStart registers a handler invoked once when the engine starts.
func (e *Engine) OnStart(fn func()) {
	e.hooks.start = append(e.hooks.start, fn)
}

func (e *Engine) emitAvatarChanged(ev AvatarChange) {
	for _, fn := range e.hooks.avatarChanged {
		fn(ev)
	}
}

func (e *Engine) emitAvatarReset() {
	for _, fn := range e.hooks.avatarReset {
		fn()
	}
}

func (e *Engine) emitHeightChanged(ev HeightChange) {
	for _, fn := range e.hooks.heightChanged {
		fn(ev)
	}
}

func (e *Engine) emitParameterChanged(ev ParameterChange) {
	for _, fn := range e.hooks.parameterChanged {
		fn(ev)
	}
}

func (e *Engine) emitVelocityChanged(ev Velocity) {
	for _, fn := range e.hooks.velocityChanged {
		fn(ev)
	}
}

func (e *Engine) emitVisemeChanged(v Viseme) {
	for _, fn := range e.hooks.visemeChanged {
		fn(v)
	}
}

func (e *Engine) emitUnknownMessage(ev UnknownMessage) {
	for _, fn := range e.hooks.unknownMessage {
		fn(ev)
	}
}

func (e *Engine) emitTick() {
	for _, fn := range e.hooks.tick {
		fn()
	}
}

func (e *Engine) emitStart() {
	for _, fn := range e.hooks.start {
		fn()
	}
}

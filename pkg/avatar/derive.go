package avatar

// applyRecognized runs the side effects a recognized parameter update can
// trigger: base-height derivation, height/velocity/viseme events, and the
// tracking-mode edge detector.
func (e *Engine) applyRecognized(name string, v Value) error {
	if isBaselineScaleName(name) && !e.baseHeight.Known() {
		e.deriveBaseHeight()
	}
	if isScaleName(name) {
		e.heightChanged(name, v)
	}
	if isVelocityAxis(name) {
		e.velocityChanged()
	}
	switch name {
	case ParamViseme:
		n, _ := v.AsInt()
		vis, err := VisemeFromInt(n)
		if err != nil {
			return err
		}
		e.emitVisemeChanged(vis)
	case ParamTrackingType:
		n, _ := v.AsInt()
		e.observeTrackingType(TrackingType(n))
	}
	return nil
}

// deriveBaseHeight reconciles the two independently observed scale signals
// into one base height. It fires at most once: the result is stable until a
// reset clears it. If the scale was never user-modified, or the live factor
// is exactly 1.0, the reported eye height already is the base height;
// otherwise divide the scaling back out.
func (e *Engine) deriveBaseHeight() {
	eye, ok := e.params.Get(ParamEyeHeightMeters).AsFloat()
	if !ok {
		return
	}
	scale, ok := e.params.Get(ParamScaleFactor).AsFloat()
	if !ok {
		return
	}
	base := eye
	mod, modKnown := e.params.Get(ParamScaleModified).AsBool()
	unmodified := modKnown && !mod
	if !unmodified && scale != 1.0 {
		base = eye / scale
	}
	e.baseHeight = Float(roundTo(base, 3))
	e.log.Warn("derived base height", "meters", roundTo(base, 3))
}

// heightChanged emits a height event for a scale-related update. In
// authoritative-only mode every name but ScaleFactor is suppressed to cut
// notification volume; accurate mode forwards all of them.
func (e *Engine) heightChanged(name string, v Value) {
	if !e.cfg.AccurateScaleEvents && name != ParamScaleFactor {
		return
	}
	e.emitHeightChanged(HeightChange{Parameter: name, Value: v})
}

// velocityChanged assembles and emits the velocity vector. It fires on every
// axis update, but only once all three axes have been observed.
func (e *Engine) velocityChanged() {
	x, ok := e.params.Get(ParamVelocityX).AsFloat()
	if !ok {
		return
	}
	y, ok := e.params.Get(ParamVelocityY).AsFloat()
	if !ok {
		return
	}
	z, ok := e.params.Get(ParamVelocityZ).AsFloat()
	if !ok {
		return
	}
	e.emitVelocityChanged(Velocity{X: x, Y: y, Z: z})
}

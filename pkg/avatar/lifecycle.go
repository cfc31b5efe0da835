package avatar

// avatarChanged handles the explicit avatar-change message: adopt the new
// id, optionally re-seed the assumed baseline, and notify subscribers with
// the forms-membership flag.
func (e *Engine) avatarChanged(id string) {
	e.log.Info("avatar changed", "id", id)
	_, isForm := e.forms[id]
	e.currentID = id
	if e.cfg.AssumeBaseState {
		e.params.resetToBaseline()
	}
	e.emitAvatarChanged(AvatarChange{ID: id, IsForm: isForm})
}

// observeTrackingType feeds the tracking-mode edge detector. The protocol
// has no explicit reset signal; leaving the hands-only mode is the one
// transition that reliably marks a reset boundary, so it is kept as this
// single isolated rule in case a real signal is ever added upstream.
func (e *Engine) observeTrackingType(t TrackingType) {
	prev, known := e.trackingType.AsInt()
	e.trackingType = Int(int(t))
	if known && TrackingType(prev) == TrackingHandsOnly && t != TrackingHandsOnly {
		e.avatarReset()
	}
}

// avatarReset handles the inferred reset. The heuristic is only meaningful
// while the current avatar is one of the configured forms; resets of foreign
// avatars say nothing about our tracked state.
func (e *Engine) avatarReset() {
	if _, ok := e.forms[e.currentID]; !ok {
		return
	}
	e.log.Info("avatar reset", "id", e.currentID)
	if e.cfg.AssumeBaseState {
		e.params.resetToBaseline()
	}
	e.emitAvatarReset()
}

package avatar

import "fmt"

// OSC address space spoken by the remote application.
const (
	paramAddressPrefix = "/avatar/parameters/"
	changeAddress      = "/avatar/change"
	inputAddressPrefix = "/input/"
	chatTypingAddress  = "/chatbox/typing"
	chatMessageAddress = "/chatbox/message"
	messageAddress     = "/message/"
)

// Recognized parameter names used directly by the engine.
const (
	ParamViseme            = "Viseme"
	ParamTrackingType      = "TrackingType"
	ParamScaleFactor       = "ScaleFactor"
	ParamScaleModified     = "ScaleModified"
	ParamEyeHeightMeters   = "EyeHeightAsMeters"
	ParamVelocityX         = "VelocityX"
	ParamVelocityY         = "VelocityY"
	ParamVelocityZ         = "VelocityZ"
	ParamVelocityMagnitude = "VelocityMagnitude"
)

// Viseme is the discrete mouth shape reported with the voice stream.
type Viseme int

const (
	VisemeSil Viseme = iota
	VisemePP
	VisemeFF
	VisemeTH
	VisemeDD
	VisemeKK
	VisemeCH
	VisemeSS
	VisemeNN
	VisemeRR
	VisemeAA
	VisemeE
	VisemeI
	VisemeO
	VisemeU
)

var visemeNames = [...]string{
	"sil", "PP", "FF", "TH", "DD", "KK", "CH", "SS", "NN", "RR",
	"aa", "E", "I", "O", "U",
}

func (v Viseme) String() string {
	if v < 0 || int(v) >= len(visemeNames) {
		return fmt.Sprintf("Viseme(%d)", int(v))
	}
	return visemeNames[v]
}

// VisemeFromInt maps a raw payload to a Viseme. Values outside the defined
// range are upstream data corruption and fail loudly rather than defaulting.
func VisemeFromInt(n int) (Viseme, error) {
	if n < int(VisemeSil) || n > int(VisemeU) {
		return 0, fmt.Errorf("viseme value %d out of range [0,%d]", n, int(VisemeU))
	}
	return Viseme(n), nil
}

// Gesture is a recognized hand gesture code.
type Gesture int

const (
	GestureNeutral Gesture = iota
	GestureFist
	GestureHandOpen
	GestureFingerPoint
	GestureVictory
	GestureRockNRoll
	GestureHandgun
	GestureThumbsUp
)

// TrackingType is the body-tracking configuration the remote side reports.
// The engine only cares about the edge leaving TrackingHandsOnly, which is
// the reset heuristic's trigger.
type TrackingType int

const (
	TrackingUninitialized TrackingType = iota
	TrackingGeneric
	TrackingHandsOnly
	TrackingStandard
	TrackingHip
	TrackingFullBodyNoHip
	TrackingFullBody
)

// recognizedKinds is the closed set of protocol-defined parameter names and
// the payload kind each one carries. Everything else is a custom parameter.
var recognizedKinds = map[string]Kind{
	"IsLocal":              KindBool,
	"PreviewMode":          KindInt,
	ParamViseme:            KindInt,
	"Voice":                KindFloat,
	"GestureLeft":          KindInt,
	"GestureRight":         KindInt,
	"GestureLeftWeight":    KindFloat,
	"GestureRightWeight":   KindFloat,
	"AngularY":             KindFloat,
	ParamVelocityX:         KindFloat,
	ParamVelocityY:         KindFloat,
	ParamVelocityZ:         KindFloat,
	ParamVelocityMagnitude: KindFloat,
	"Upright":              KindFloat,
	"Grounded":             KindBool,
	"Seated":               KindBool,
	"AFK":                  KindBool,
	ParamTrackingType:      KindInt,
	"VRMode":               KindInt,
	"MuteSelf":             KindBool,
	"InStation":            KindBool,
	"Earmuffs":             KindBool,
	"IsOnFriendsList":      KindBool,
	"AvatarVersion":        KindInt,
	"IsAnimatorEnabled":    KindBool,
	ParamScaleModified:     KindBool,
	ParamScaleFactor:       KindFloat,
	"ScaleFactorInverse":   KindFloat,
	ParamEyeHeightMeters:   KindFloat,
	"EyeHeightAsPercent":   KindFloat,
}

// IsRecognized reports whether name is a protocol-defined builtin parameter.
func IsRecognized(name string) bool {
	_, ok := recognizedKinds[name]
	return ok
}

// isBaselineScaleName reports membership in the pair of independent signals
// the base-height derivation reconciles.
func isBaselineScaleName(name string) bool {
	return name == ParamScaleFactor || name == ParamEyeHeightMeters
}

// isScaleName reports membership in the full set of scale-related names that
// can trigger a height-changed event.
func isScaleName(name string) bool {
	switch name {
	case ParamScaleFactor, ParamEyeHeightMeters, ParamScaleModified,
		"ScaleFactorInverse", "EyeHeightAsPercent":
		return true
	}
	return false
}

// isVelocityAxis reports whether name is one of the three axis components of
// the derived velocity vector.
func isVelocityAxis(name string) bool {
	switch name {
	case ParamVelocityX, ParamVelocityY, ParamVelocityZ:
		return true
	}
	return false
}

// isNoisy reports whether a recognized name updates at the remote tick rate.
// Noisy names are suppressed from normal-verbosity logging, never from
// events.
func isNoisy(name string) bool {
	switch name {
	case "Voice", ParamViseme, "AngularY", ParamVelocityX, ParamVelocityY,
		ParamVelocityZ, ParamVelocityMagnitude, "Grounded", "Upright",
		"GestureLeftWeight", "GestureRightWeight":
		return true
	}
	return false
}

// hasNoisyCustomSuffix matches physics-bone style custom parameters that
// stream continuously.
func hasNoisyCustomSuffix(name string) bool {
	for _, suffix := range [...]string{"_Angle", "_Stretch", "_Squish"} {
		if len(name) >= len(suffix) && name[len(name)-len(suffix):] == suffix {
			return true
		}
	}
	return false
}

// baselineDefaults is the resting state assumed after an avatar change or
// reset: the remote side only transmits deltas, so these are the values it
// will never re-send.
func baselineDefaults() map[string]Value {
	return map[string]Value{
		ParamViseme:            Int(int(VisemeSil)),
		ParamVelocityMagnitude: Float(0),
		ParamVelocityX:         Float(0),
		ParamVelocityY:         Float(0),
		ParamVelocityZ:         Float(0),
		"Voice":                Float(0),
		"Grounded":             Bool(false),
		"GestureLeft":          Int(int(GestureNeutral)),
		"GestureRight":         Int(int(GestureNeutral)),
		"GestureLeftWeight":    Float(0),
		"GestureRightWeight":   Float(0),
		"Seated":               Bool(false),
		"InStation":            Bool(false),
	}
}

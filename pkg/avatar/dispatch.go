package avatar

import (
	"fmt"
	"strings"
)

// Route classifies one inbound message by address and runs it through the
// processing pipeline. Exactly one rule applies per message: the parameter
// namespace, the avatar-change address, or the unknown-message fallback.
// Returned errors are data errors (malformed payloads); the host loop
// decides whether to continue.
func (e *Engine) Route(address string, args []any) error {
	switch {
	case strings.HasPrefix(address, paramAddressPrefix):
		return e.routeParameter(strings.TrimPrefix(address, paramAddressPrefix), args)
	case address == changeAddress:
		return e.routeAvatarChange(args)
	default:
		e.log.Warn("unknown message", "address", address, "args", args)
		e.emitUnknownMessage(UnknownMessage{Address: address, Args: args})
		return nil
	}
}

func (e *Engine) routeParameter(name string, args []any) error {
	for _, prefix := range e.cfg.IgnorePrefixes {
		if strings.HasPrefix(name, prefix) {
			return nil
		}
	}
	if len(args) == 0 {
		return fmt.Errorf("parameter %s: empty payload", name)
	}
	v, err := toValue(args[0])
	if err != nil {
		return fmt.Errorf("parameter %s: %w", name, err)
	}
	recognized := IsRecognized(name)
	if recognized {
		if want := recognizedKinds[name]; v.Kind() != want {
			return kindError(name, v.Kind(), want)
		}
	}

	// One-shot self-set marker: consumed by this observation whether or not
	// the value matches what was sent.
	selfSet := e.justSet[name]
	delete(e.justSet, name)

	v, changed := e.filter.normalize(v, e.params.Get(name))
	if !changed && !selfSet {
		// Re-sent unchanged value; not a materially new observation. A
		// self-set acknowledgment passes through so it can be tagged.
		return nil
	}
	e.params.set(name, v)

	if recognized {
		if e.cfg.Verbose || !isNoisy(name) {
			e.log.Info("parameter", "name", name, "value", v.String())
		}
		if err := e.applyRecognized(name, v); err != nil {
			return err
		}
	} else if e.cfg.Verbose || !hasNoisyCustomSuffix(name) {
		e.log.Info("custom parameter", "name", name, "value", v.String(), "self_set", selfSet)
	}

	e.emitParameterChanged(ParameterChange{
		Name:    name,
		Value:   v,
		Custom:  !recognized,
		SelfSet: selfSet,
	})
	return nil
}

func (e *Engine) routeAvatarChange(args []any) error {
	if len(args) == 0 {
		return fmt.Errorf("avatar change: empty payload")
	}
	id, ok := args[0].(string)
	if !ok {
		return fmt.Errorf("avatar change: got %T payload, want string", args[0])
	}
	e.avatarChanged(id)
	return nil
}

// toValue converts an OSC payload into a tracked value. Unexpected payload
// types fail loudly; silent coercion would corrupt derived state.
func toValue(arg any) (Value, error) {
	switch a := arg.(type) {
	case int32:
		return Int(int(a)), nil
	case int64:
		return Int(int(a)), nil
	case int:
		return Int(a), nil
	case float32:
		return Float(float64(a)), nil
	case float64:
		return Float(a), nil
	case bool:
		return Bool(a), nil
	default:
		return Unknown(), fmt.Errorf("unsupported payload type %T", arg)
	}
}

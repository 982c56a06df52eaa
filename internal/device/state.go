package device

// Apply computes the next state for a device given its previous state and a
// validated action. It never mutates prev; params are assumed to be clamped
// to their declared ranges already.
//
// Curtains map the universal on/off/toggle onto open/close so voice intents
// like "turn on the curtain" behave sensibly.
func Apply(t Type, prev State, a Action, params map[string]float64) (State, error) {
	if t == TypeSensors {
		return nil, ErrNotControllable
	}
	next := prev.Clone()
	if next == nil {
		next = State{}
	}

	switch a {
	case ActionOn:
		if t == TypeCurtain {
			return applyCurtain(next, ActionOpen, params)
		}
		next[FieldStatus] = StatusOn
		return next, nil
	case ActionOff:
		if t == TypeCurtain {
			return applyCurtain(next, ActionClose, params)
		}
		next[FieldStatus] = StatusOff
		return next, nil
	case ActionToggle:
		if t == TypeCurtain {
			if next[FieldStatus] == StatusOpen {
				return applyCurtain(next, ActionClose, params)
			}
			return applyCurtain(next, ActionOpen, params)
		}
		if next[FieldStatus] == StatusOn {
			next[FieldStatus] = StatusOff
		} else {
			next[FieldStatus] = StatusOn
		}
		return next, nil
	}

	switch t {
	case TypeCeilingLight, TypeDeskLamp:
		return applyLight(next, a, params)
	case TypeFan, TypeExhaustFan:
		return applyFan(next, a, params)
	case TypeAC:
		return applyAC(next, a, params)
	case TypeCurtain:
		return applyCurtain(next, a, params)
	default:
		return nil, ErrUnknownType
	}
}

func applyLight(next State, a Action, params map[string]float64) (State, error) {
	switch a {
	case ActionBrighten:
		next[FieldBrightness] = clamp(numField(next, FieldBrightness)+BrightnessStep, BrightnessMin, BrightnessMax)
		next[FieldStatus] = StatusOn
	case ActionDim:
		b := clamp(numField(next, FieldBrightness)-BrightnessStep, BrightnessMin, BrightnessMax)
		next[FieldBrightness] = b
		if b == BrightnessMin {
			next[FieldStatus] = StatusOff
		}
	case ActionSetBrightness:
		b, ok := params[FieldBrightness]
		if !ok {
			return nil, ErrMissingParameter
		}
		next[FieldBrightness] = b
		if b > BrightnessMin {
			next[FieldStatus] = StatusOn
		} else {
			next[FieldStatus] = StatusOff
		}
	case ActionSetColorTemp:
		ct, ok := params[FieldColorTemp]
		if !ok {
			return nil, ErrMissingParameter
		}
		next[FieldColorTemp] = ct
	default:
		return nil, ErrActionNotAllowed
	}
	return next, nil
}

func applyFan(next State, a Action, params map[string]float64) (State, error) {
	switch a {
	case ActionSetSpeed:
		s, ok := params[FieldSpeed]
		if !ok {
			return nil, ErrMissingParameter
		}
		next[FieldSpeed] = s
		next[FieldStatus] = StatusOn
	case ActionToggleOscillation:
		osc, _ := next[FieldOscillation].(bool)
		next[FieldOscillation] = !osc
	default:
		return nil, ErrActionNotAllowed
	}
	return next, nil
}

func applyAC(next State, a Action, params map[string]float64) (State, error) {
	switch a {
	case ActionSetTemperature:
		temp, ok := params[FieldTemperature]
		if !ok {
			return nil, ErrMissingParameter
		}
		next[FieldTemperature] = temp
		next[FieldStatus] = StatusOn
	default:
		return nil, ErrActionNotAllowed
	}
	return next, nil
}

func applyCurtain(next State, a Action, params map[string]float64) (State, error) {
	switch a {
	case ActionOpen:
		next[FieldStatus] = StatusOpen
		next[FieldPosition] = float64(PositionMax)
	case ActionClose:
		next[FieldStatus] = StatusClosed
		next[FieldPosition] = float64(PositionMin)
	case ActionSetPosition:
		p, ok := params[FieldPosition]
		if !ok {
			return nil, ErrMissingParameter
		}
		next[FieldPosition] = p
		if p > PositionMin {
			next[FieldStatus] = StatusOpen
		} else {
			next[FieldStatus] = StatusClosed
		}
	default:
		return nil, ErrActionNotAllowed
	}
	return next, nil
}

// numField reads a numeric state field, tolerating both float64 (JSON
// decoded) and int (literal defaults).
func numField(s State, field string) float64 {
	switch v := s[field].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

package device

// Resolve extracts the remote-control target of a record.
//
// The entity ID is read directly from the integration metadata; without it
// the device is permanently non-controllable regardless of capabilities.
// The domain is taken from the metadata when it names one of the known
// domains, otherwise inferred from capabilities: switch capability maps to
// the switch domain, motor to cover, lock to lock.
//
// There is deliberately no capability fallback for light, sensor, or
// binary_sensor: only switch, cover, and lock actions have safe generic
// command semantics, so a device lacking explicit domain metadata for the
// other classes stays non-controllable even when it categorizes as a light.
//
// Resolve never fails; an unresolvable record yields a zero target.
func Resolve(d *RawDevice) ControlTarget {
	binding := haBinding(d)
	if binding == nil || binding.EntityID == "" {
		return ControlTarget{}
	}

	target := ControlTarget{EntityID: binding.EntityID}

	if declared := Domain(binding.Domain); declared.IsValid() {
		target.Domain = declared
		return target
	}

	switch {
	case d.HasCapability("switch"):
		target.Domain = DomainSwitch
	case d.HasCapability("motor"):
		target.Domain = DomainCover
	case d.HasCapability("lock"):
		target.Domain = DomainLock
	}

	return target
}

func haBinding(d *RawDevice) *HomeAssistantBinding {
	if d.Integration == nil {
		return nil
	}
	return d.Integration.HomeAssistant
}

package xssfilter

// Decision is the outcome of a Policy query.
type Decision int

const (
	// Defer leaves the decision to the next policy in line. A decision
	// still deferred at the end of the chain denies.
	Defer Decision = iota
	Allow
	Deny
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "defer"
	}
}

// Policy decides, per tag and per attribute, whether markup survives.
// *Whitelist is the default Policy.
type Policy interface {
	DecideTag(name string, pos Position) Decision
	DecideAttribute(tag, attr string, pos Position) Decision
}

// Hooks lets a caller observe or override individual decisions. A nil
// hook, or a hook returning Defer, falls through to Next. When Next is
// nil the sanitizer's own whitelist answers.
type Hooks struct {
	Tag       func(name string, pos Position) Decision
	Attribute func(tag, attr string, pos Position) Decision
	Next      Policy
}

// DecideTag implements Policy.
func (h *Hooks) DecideTag(name string, pos Position) Decision {
	if h.Tag != nil {
		if d := h.Tag(name, pos); d != Defer {
			return d
		}
	}
	if h.Next != nil {
		return h.Next.DecideTag(name, pos)
	}
	return Defer
}

// DecideAttribute implements Policy.
func (h *Hooks) DecideAttribute(tag, attr string, pos Position) Decision {
	if h.Attribute != nil {
		if d := h.Attribute(tag, attr, pos); d != Defer {
			return d
		}
	}
	if h.Next != nil {
		return h.Next.DecideAttribute(tag, attr, pos)
	}
	return Defer
}

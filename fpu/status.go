package fpu

// Condition is a set of condition code bits.
type Condition uint8

const (
	C0 = Condition(1 << 0)
	C1 = Condition(1 << 1)
	C2 = Condition(1 << 2)
	C3 = Condition(1 << 3)

	allConditions = C0 | C1 | C2 | C3
)

func (c Condition) String() (s string) {
	for n, name := range []string{"C0", "C1", "C2", "C3"} {
		if c&(1<<n) != 0 {
			if s != "" {
				s += "|"
			}
			s += name
		}
	}
	if s == "" {
		s = "-"
	}
	return
}

// Status is the unpacked status word. The stack top is kept by the Stack and
// merged in by Fpu.ExportStatus.
type Status struct {
	Cond    Condition
	Flags   Exception // Sticky exception flags.
	Summary bool      // Set when an unmasked exception was raised.
}

// Status word fields.
const (
	swStackFault = uint16(1 << 6)
	swSummary    = uint16(1 << 7)
	swC0         = uint16(1 << 8)
	swC1         = uint16(1 << 9)
	swC2         = uint16(1 << 10)
	swTopShift   = 11
	swC3         = uint16(1 << 14)
	swBusy       = uint16(1 << 15)
)

// word packs the status with the given stack top.
func (s Status) word(top int) (w uint16) {
	w = uint16(s.Flags & ArithmeticExceptions)
	if s.Flags&StackFault != 0 {
		w |= swStackFault
	}
	if s.Summary {
		w |= swSummary | swBusy
	}
	if s.Cond&C0 != 0 {
		w |= swC0
	}
	if s.Cond&C1 != 0 {
		w |= swC1
	}
	if s.Cond&C2 != 0 {
		w |= swC2
	}
	if s.Cond&C3 != 0 {
		w |= swC3
	}
	w |= uint16(top&7) << swTopShift
	return
}

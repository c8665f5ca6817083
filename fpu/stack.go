package fpu

const (
	STACK_DEPTH = 8 // Number of register slots.
)

// Stack is the register file: STACK_DEPTH slots addressed relative to top.
type Stack struct {
	Slot [STACK_DEPTH]Value
	top  int
}

// Top returns the physical index of ST(0).
func (s *Stack) Top() int {
	return s.top
}

// Physical maps logical ST(i) to its physical slot.
func (s *Stack) Physical(i int) int {
	return (s.top + i) & (STACK_DEPTH - 1)
}

// ST returns logical slot i.
func (s *Stack) ST(i int) *Value {
	return &s.Slot[s.Physical(i)]
}

// Full reports whether the slot a push would write is in use.
func (s *Stack) Full() bool {
	return s.ST(-1).Tag != TagEmpty
}

// Depth returns the number of slots in use.
func (s *Stack) Depth() (n int) {
	for _, v := range s.Slot {
		if v.Tag != TagEmpty {
			n++
		}
	}
	return
}

func (s *Stack) push(v Value) {
	s.top = s.Physical(-1)
	s.Slot[s.top] = v
}

// Pop tags ST(0) Empty and moves top up one slot. It does no checks.
func (s *Stack) Pop() {
	s.Slot[s.top].Tag = TagEmpty
	s.top = s.Physical(1)
}

// Reset empties every slot and sets top to zero.
func (s *Stack) Reset() {
	for n := range s.Slot {
		s.Slot[n] = Value{Tag: TagEmpty}
	}
	s.top = 0
}

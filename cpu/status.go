package cpu

// Flag is a single condition bit of the status register.
type Flag uint8

// Status register flags, in 6502 bit order.
const (
	FLAG_CARRY     = Flag(1 << 0) // C
	FLAG_ZERO      = Flag(1 << 1) // Z
	FLAG_INTERRUPT = Flag(1 << 2) // I
	FLAG_DECIMAL   = Flag(1 << 3) // D
	FLAG_BREAK     = Flag(1 << 4) // B
	FLAG_UNUSED    = Flag(1 << 5) // -
	FLAG_OVERFLOW  = Flag(1 << 6) // V
	FLAG_NEGATIVE  = Flag(1 << 7) // N
)

// STATUS_IDLE is the status register value after a reset.
const STATUS_IDLE = Status(FLAG_UNUSED)

// Status is the processor status register.
//
// All updates are masked; no operation disturbs a bit it was not asked to change.
type Status uint8

// Test returns true if the flag is set.
func (sr Status) Test(flag Flag) bool {
	return uint8(sr)&uint8(flag) != 0
}

// Set sets the flag.
func (sr *Status) Set(flag Flag) {
	*sr |= Status(flag)
}

// Clear clears the flag.
func (sr *Status) Clear(flag Flag) {
	*sr &^= Status(flag)
}

// Put sets the flag if value is true, otherwise clears it.
func (sr *Status) Put(flag Flag, value bool) {
	if value {
		sr.Set(flag)
	} else {
		sr.Clear(flag)
	}
}

// UpdateZeroAndNegative sets Zero iff value is 0, and Negative iff bit 7 of value is set.
func (sr *Status) UpdateZeroAndNegative(value uint8) {
	sr.Put(FLAG_ZERO, value == 0)
	sr.Put(FLAG_NEGATIVE, value&0x80 != 0)
}

// String returns the flags as NV-BDIZC, upper case when set.
func (sr Status) String() string {
	const set = "NV-BDIZC"
	const unset = "nv-bdizc"

	text := []byte(unset)
	for n := range 8 {
		if sr.Test(Flag(0x80 >> n)) {
			text[n] = set[n]
		}
	}

	return string(text)
}

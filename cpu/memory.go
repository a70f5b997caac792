package cpu

const (
	MEMORY_SIZE = 0x10000 // Size of the flat address space.
	ZERO_PAGE   = 0x0000  // Base of page zero.
)

// Memory is the flat, byte addressable 64KiB address space.
// Every uint16 is a valid address, so accesses never fail.
type Memory [MEMORY_SIZE]uint8

// Read returns the byte at addr.
func (mem *Memory) Read(addr uint16) uint8 {
	return mem[addr]
}

// Write stores value at addr.
func (mem *Memory) Write(addr uint16, value uint8) {
	mem[addr] = value
}

// ReadWord returns the little-endian word at addr.
// The high byte comes from addr+1, wrapping at the top of memory.
func (mem *Memory) ReadWord(addr uint16) uint16 {
	lo := uint16(mem.Read(addr))
	hi := uint16(mem.Read(addr + 1))
	return (hi << 8) | lo
}

// WriteWord stores value as a little-endian word at addr.
func (mem *Memory) WriteWord(addr uint16, value uint16) {
	mem.Write(addr, uint8(value&0xff))
	mem.Write(addr+1, uint8(value>>8))
}

// ReadZeroPageWord returns the little-endian word at a page zero pointer.
// The high byte fetch wraps within page zero.
func (mem *Memory) ReadZeroPageWord(ptr uint8) uint16 {
	lo := uint16(mem.Read(ZERO_PAGE + uint16(ptr)))
	hi := uint16(mem.Read(ZERO_PAGE + uint16(ptr+1)))
	return (hi << 8) | lo
}

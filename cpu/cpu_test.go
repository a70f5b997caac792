package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCpu(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.Equal(uint8(0), cpu.A)
	assert.Equal(uint8(0), cpu.X)
	assert.Equal(uint8(0), cpu.Y)
	assert.Equal(uint16(0), cpu.Pc)
	assert.Equal(Status(0b0010_0000), cpu.Status)
	assert.Equal(STATE_HALTED, cpu.State)

	assert.ErrorIs(cpu.Step(), ErrCpuHalted)
	assert.ErrorIs(cpu.Run(), ErrCpuHalted)
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		origin uint16
		length int
	}){
		{"default", ORIGIN_DEFAULT, 3},
		{"zero", 0x0000, 1},
		{"page6", 0x0600, 0x100},
		{"empty", 0x1234, 0},
		{"tight", 0xF000, 0x0FFC},
	}

	for _, entry := range table {
		cpu := NewCpu()
		program := make([]uint8, entry.length)
		for n := range program {
			program[n] = uint8(n + 1)
		}

		err := cpu.Load(program, entry.origin)
		assert.NoError(err, entry.name)
		for n, value := range program {
			assert.Equal(value, cpu.ReadMemory(entry.origin+uint16(n)), entry.name)
		}
		assert.Equal(entry.origin, cpu.ReadWord(RESET_VECTOR), entry.name)

		cpu.Reset()
		assert.Equal(entry.origin, cpu.Pc, entry.name)
		assert.Equal(STATE_RUNNING, cpu.State, entry.name)
	}
}

func TestLoad_TooLarge(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.WriteMemory(0xF000, 0x55)
	cpu.WriteWord(RESET_VECTOR, 0x1234)
	cpu.A = 0x42

	err := cpu.Load(make([]uint8, 0x1000), 0xF000)
	assert.Equal(ErrProgramTooLarge{Origin: 0xF000, Length: 0x1000}, err)
	assert.ErrorIs(err, ErrProgramTooLarge{})

	// State untouched.
	assert.Equal(uint8(0x55), cpu.ReadMemory(0xF000))
	assert.Equal(uint16(0x1234), cpu.ReadWord(RESET_VECTOR))
	assert.Equal(uint8(0x42), cpu.A)

	err = cpu.LoadAndRun(make([]uint8, 0x8000), ORIGIN_DEFAULT)
	assert.ErrorIs(err, ErrProgramTooLarge{})
	assert.Equal(STATE_HALTED, cpu.State)
}

func TestReset(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.A, cpu.X, cpu.Y = 1, 2, 3
	cpu.Status = 0xff
	cpu.WriteWord(RESET_VECTOR, 0xC000)
	cpu.WriteMemory(0x0010, 0x99)

	cpu.Reset()
	assert.Equal(uint8(0), cpu.A)
	assert.Equal(uint8(0), cpu.X)
	assert.Equal(uint8(0), cpu.Y)
	assert.Equal(STATUS_IDLE, cpu.Status)
	assert.Equal(uint16(0xC000), cpu.Pc)
	assert.Equal(uint8(0x99), cpu.ReadMemory(0x0010))
}

func TestScenarios(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		setup   map[uint16]uint8
		program []uint8
		a, x, y uint8
		set     []Flag
		clear   []Flag
	}){
		{"lda_imm", nil, []uint8{0xA9, 0x05, 0x00}, 0x05, 0, 0,
			nil, []Flag{FLAG_ZERO, FLAG_NEGATIVE}},
		{"lda_zero", nil, []uint8{0xA9, 0x00, 0x00}, 0x00, 0, 0,
			[]Flag{FLAG_ZERO}, []Flag{FLAG_NEGATIVE}},
		{"lda_negative", nil, []uint8{0xA9, 0x80, 0x00}, 0x80, 0, 0,
			[]Flag{FLAG_NEGATIVE}, []Flag{FLAG_ZERO}},
		{"lda_tax_inx", nil, []uint8{0xA9, 0xC0, 0xAA, 0xE8, 0x00}, 0xC0, 0xC1, 0,
			[]Flag{FLAG_NEGATIVE}, []Flag{FLAG_ZERO}},
		{"lda_zp", map[uint16]uint8{0x10: 0x55}, []uint8{0xA5, 0x10, 0x00}, 0x55, 0, 0,
			nil, []Flag{FLAG_ZERO, FLAG_NEGATIVE}},
		{"and_imm", nil, []uint8{0xA9, 0x05, 0x29, 0x06, 0x00}, 0x04, 0, 0,
			nil, []Flag{FLAG_ZERO, FLAG_NEGATIVE}},
		{"and_zero", nil, []uint8{0xA9, 0xF0, 0x29, 0x0F, 0x00}, 0x00, 0, 0,
			[]Flag{FLAG_ZERO}, []Flag{FLAG_NEGATIVE}},
		{"adc_imm", nil, []uint8{0xA9, 0x05, 0x69, 0x06, 0x00}, 0x0B, 0, 0,
			nil, []Flag{FLAG_ZERO, FLAG_NEGATIVE, FLAG_CARRY, FLAG_OVERFLOW}},
		{"adc_carry", nil, []uint8{0xA9, 0xFF, 0x69, 0x01, 0x00}, 0x00, 0, 0,
			[]Flag{FLAG_ZERO, FLAG_CARRY}, []Flag{FLAG_NEGATIVE, FLAG_OVERFLOW}},
		{"adc_carry_through", nil, []uint8{0xA9, 0xFF, 0x69, 0x01, 0xA9, 0x02, 0x69, 0x02, 0x00}, 0x05, 0, 0,
			nil, []Flag{FLAG_ZERO, FLAG_NEGATIVE, FLAG_CARRY, FLAG_OVERFLOW}},
		{"adc_overflow", nil, []uint8{0xA9, 0x50, 0x69, 0x50, 0x00}, 0xA0, 0, 0,
			[]Flag{FLAG_NEGATIVE, FLAG_OVERFLOW}, []Flag{FLAG_ZERO, FLAG_CARRY}},
		{"adc_overflow_negative", nil, []uint8{0xA9, 0xD0, 0x69, 0x90, 0x00}, 0x60, 0, 0,
			[]Flag{FLAG_CARRY, FLAG_OVERFLOW}, []Flag{FLAG_ZERO, FLAG_NEGATIVE}},
		{"adc_mixed_sign", nil, []uint8{0xA9, 0x50, 0x69, 0xD0, 0x00}, 0x20, 0, 0,
			[]Flag{FLAG_CARRY}, []Flag{FLAG_ZERO, FLAG_NEGATIVE, FLAG_OVERFLOW}},
		{"adc_zp", map[uint16]uint8{0x20: 0x30}, []uint8{0xA9, 0x12, 0x65, 0x20, 0x00}, 0x42, 0, 0,
			nil, []Flag{FLAG_ZERO, FLAG_NEGATIVE}},
		{"asl_acc", nil, []uint8{0xA9, 0x41, 0x0A, 0x00}, 0x82, 0, 0,
			[]Flag{FLAG_NEGATIVE}, []Flag{FLAG_ZERO, FLAG_CARRY}},
		{"asl_acc_carry", nil, []uint8{0xA9, 0x80, 0x0A, 0x00}, 0x00, 0, 0,
			[]Flag{FLAG_ZERO, FLAG_CARRY}, []Flag{FLAG_NEGATIVE}},
		{"iny", nil, []uint8{0xC8, 0x00}, 0x00, 0, 0x01,
			nil, []Flag{FLAG_ZERO, FLAG_NEGATIVE}},
		{"inx_wrap", nil, []uint8{0xA9, 0xFF, 0xAA, 0xE8, 0x00}, 0xFF, 0x00, 0,
			[]Flag{FLAG_ZERO}, []Flag{FLAG_NEGATIVE}},
		{"bit", map[uint16]uint8{0x30: 0xC0}, []uint8{0xA9, 0x01, 0x24, 0x30, 0x00}, 0x01, 0, 0,
			[]Flag{FLAG_ZERO, FLAG_NEGATIVE, FLAG_OVERFLOW}, nil},
		{"bit_nonzero", map[uint16]uint8{0x1234: 0x3F}, []uint8{0xA9, 0x01, 0x2C, 0x34, 0x12, 0x00}, 0x01, 0, 0,
			nil, []Flag{FLAG_ZERO, FLAG_NEGATIVE, FLAG_OVERFLOW}},
		{"clc_clv", nil, []uint8{0xA9, 0x50, 0x69, 0x50, 0xB8, 0xA9, 0xFF, 0x69, 0x01, 0x18, 0x00}, 0x00, 0, 0,
			[]Flag{FLAG_ZERO}, []Flag{FLAG_CARRY, FLAG_OVERFLOW}},
	}

	for _, entry := range table {
		cpu := NewCpu()
		for addr, value := range entry.setup {
			cpu.WriteMemory(addr, value)
		}

		err := cpu.LoadAndRun(entry.program, ORIGIN_DEFAULT)
		assert.NoError(err, entry.name)
		assert.Equal(STATE_HALTED, cpu.State, entry.name)
		assert.Equal(entry.a, cpu.A, entry.name)
		assert.Equal(entry.x, cpu.X, entry.name)
		assert.Equal(entry.y, cpu.Y, entry.name)
		for _, flag := range entry.set {
			assert.True(cpu.Status.Test(flag), "%v: flag %#x %v", entry.name, flag, cpu.Status)
		}
		for _, flag := range entry.clear {
			assert.False(cpu.Status.Test(flag), "%v: flag %#x %v", entry.name, flag, cpu.Status)
		}
		assert.True(cpu.Status.Test(FLAG_UNUSED), entry.name)
	}
}

func TestStore(t *testing.T) {
	assert := assert.New(t)

	program := []uint8{
		0xA9, 0x42, // LDA #$42
		0x85, 0x10, // STA $10
		0xA9, 0x10, // LDA #$10
		0xAA,       // TAX
		0x95, 0xF8, // STA $F8,X -> $08
		0x8D, 0x00, 0x02, // STA $0200
		0x9D, 0x00, 0x02, // STA $0200,X -> $0210
		0xC8,             // INY
		0x99, 0xFF, 0x02, // STA $02FF,Y -> $0300
		0x81, 0x20, // STA ($20,X) -> ptr $30
		0x91, 0x40, // STA ($40),Y
		0x00,
	}

	cpu := NewCpu()
	cpu.WriteWord(0x30, 0x4000)
	cpu.WriteWord(0x40, 0x5000)

	err := cpu.LoadAndRun(program, ORIGIN_DEFAULT)
	assert.NoError(err)

	assert.Equal(uint8(0x42), cpu.ReadMemory(0x0010))
	assert.Equal(uint8(0x10), cpu.ReadMemory(0x0008))
	assert.Equal(uint8(0x10), cpu.ReadMemory(0x0200))
	assert.Equal(uint8(0x10), cpu.ReadMemory(0x0210))
	assert.Equal(uint8(0x10), cpu.ReadMemory(0x0300))
	assert.Equal(uint8(0x10), cpu.ReadMemory(0x4000))
	assert.Equal(uint8(0x10), cpu.ReadMemory(0x5001))
}

func TestAslMemory(t *testing.T) {
	assert := assert.New(t)

	program := []uint8{
		0x06, 0x10, // ASL $10
		0x0E, 0x00, 0x03, // ASL $0300
		0x00,
	}

	cpu := NewCpu()
	cpu.WriteMemory(0x10, 0x81)
	cpu.WriteMemory(0x0300, 0x21)

	err := cpu.LoadAndRun(program, ORIGIN_DEFAULT)
	assert.NoError(err)
	assert.Equal(uint8(0x02), cpu.ReadMemory(0x10))
	assert.Equal(uint8(0x42), cpu.ReadMemory(0x0300))
	assert.Equal(uint8(0), cpu.A)
	assert.False(cpu.Status.Test(FLAG_CARRY))
	assert.False(cpu.Status.Test(FLAG_ZERO))
}

func TestBranches(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		opcode uint8
		status Status
		taken  bool
	}){
		{"bcc_taken", 0x90, 0, true},
		{"bcc", 0x90, Status(FLAG_CARRY), false},
		{"bcs_taken", 0xB0, Status(FLAG_CARRY), true},
		{"bcs", 0xB0, 0, false},
		{"beq_taken", 0xF0, Status(FLAG_ZERO), true},
		{"beq", 0xF0, 0, false},
		{"bne_taken", 0xD0, 0, true},
		{"bne", 0xD0, Status(FLAG_ZERO), false},
		{"bmi_taken", 0x30, Status(FLAG_NEGATIVE), true},
		{"bmi", 0x30, 0, false},
		{"bpl_taken", 0x10, 0, true},
		{"bpl", 0x10, Status(FLAG_NEGATIVE), false},
		{"bvc_taken", 0x50, 0, true},
		{"bvc", 0x50, Status(FLAG_OVERFLOW), false},
		{"bvs_taken", 0x70, Status(FLAG_OVERFLOW), true},
		{"bvs", 0x70, 0, false},
	}

	for _, entry := range table {
		cpu := NewCpu()
		err := cpu.Load([]uint8{entry.opcode, 0x10}, ORIGIN_DEFAULT)
		assert.NoError(err)
		cpu.Reset()
		cpu.Status = entry.status | STATUS_IDLE

		err = cpu.Step()
		assert.NoError(err, entry.name)
		if entry.taken {
			assert.Equal(uint16(0x8012), cpu.Pc, entry.name)
		} else {
			assert.Equal(uint16(0x8002), cpu.Pc, entry.name)
		}
		assert.Equal(entry.status|STATUS_IDLE, cpu.Status, entry.name)
	}
}

func TestBranch_Loop(t *testing.T) {
	assert := assert.New(t)

	// Count X up until it wraps to zero.
	program := []uint8{
		0xE8,       // loop: INX
		0xD0, 0xFD, // BNE loop
		0x00,
	}

	cpu := NewCpu()
	err := cpu.LoadAndRun(program, 0x0600)
	assert.NoError(err)
	assert.Equal(uint8(0), cpu.X)
	assert.True(cpu.Status.Test(FLAG_ZERO))
	assert.Equal(256*2+1, cpu.Steps)
	assert.Equal(256*4+7, cpu.Cycles)
	assert.Equal(uint16(0x0604), cpu.Pc)
}

func TestClearFlags(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	err := cpu.Load([]uint8{0x18, 0xD8, 0x58, 0xB8, 0x00}, ORIGIN_DEFAULT)
	assert.NoError(err)
	cpu.Reset()
	cpu.Status = 0xFF

	err = cpu.Run()
	assert.NoError(err)
	assert.Equal(Status(0xFF)&^Status(FLAG_CARRY|FLAG_DECIMAL|FLAG_INTERRUPT|FLAG_OVERFLOW), cpu.Status)
}

func TestBrk(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	err := cpu.LoadAndRun([]uint8{0xA9, 0x01, 0x00, 0xA9, 0x02, 0x00}, ORIGIN_DEFAULT)
	assert.NoError(err)
	assert.Equal(STATE_HALTED, cpu.State)
	assert.Equal(uint8(0x01), cpu.A)
	assert.Equal(uint16(0x8003), cpu.Pc)
	assert.Equal(2, cpu.Steps)
	assert.Equal(2+7, cpu.Cycles)

	// Not resumable without a reset.
	assert.ErrorIs(cpu.Step(), ErrCpuHalted)
	assert.ErrorIs(cpu.Run(), ErrCpuHalted)
	assert.Equal(uint16(0x8003), cpu.Pc)

	cpu.Reset()
	assert.NoError(cpu.Run())
	assert.Equal(uint16(0x8003), cpu.Pc)
}

func TestUnimplementedOpcode(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	err := cpu.LoadAndRun([]uint8{0xA9, 0x07, 0xFF, 0xA9, 0x09, 0x00}, ORIGIN_DEFAULT)
	assert.Equal(ErrUnimplementedOpcode{Opcode: 0xFF, Pc: 0x8002}, err)
	assert.Equal(STATE_FAULTED, cpu.State)
	assert.Equal(err, cpu.Fault)
	assert.Equal(uint8(0x07), cpu.A)
	assert.Equal(uint16(0x8002), cpu.Pc)
	assert.Equal(1, cpu.Steps)

	// Terminal: further steps report the same fault and change nothing.
	err = cpu.Step()
	assert.True(errors.Is(err, ErrUnimplementedOpcode{}))
	assert.Equal(uint8(0x07), cpu.A)
	assert.Equal(uint16(0x8002), cpu.Pc)

	err = cpu.Run()
	assert.True(errors.Is(err, ErrUnimplementedOpcode{}))
	assert.Contains(cpu.String(), "faulted")
}

func TestCpu_String(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	err := cpu.LoadAndRun([]uint8{0xA9, 0x80, 0x00}, ORIGIN_DEFAULT)
	assert.NoError(err)

	expected := "" +
		"   pc: 8003\n" +
		"    a: 80\n" +
		"    x: 00\n" +
		"    y: 00\n" +
		"   sr: A0 Nv-bdizc\n" +
		"state: halted\n"
	assert.Equal(expected, cpu.String())
}

func TestDefines(t *testing.T) {
	assert := assert.New(t)

	defines := map[string]string{}
	for key, value := range Defines() {
		defines[key] = value
	}
	assert.Equal("0xfffc", defines["RESET_VECTOR"])
	assert.Equal("0x8000", defines["ORIGIN_DEFAULT"])
}

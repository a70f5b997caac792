package cpu

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	assert := assert.New(t)

	desc, err := Lookup(0xA9, 0x8000)
	assert.NoError(err)
	assert.Equal(Descriptor{0xA9, INS_LDA, 2, 2, MODE_IMMEDIATE}, desc)

	desc, err = Lookup(0x7D, 0x8000)
	assert.NoError(err)
	assert.Equal(INS_ADC, desc.Kind)
	assert.Equal(MODE_ABSOLUTE_X, desc.Mode)

	_, err = Lookup(0xFF, 0x1234)
	assert.Equal(ErrUnimplementedOpcode{Opcode: 0xFF, Pc: 0x1234}, err)
	assert.True(errors.Is(err, ErrUnimplementedOpcode{}))

	var unimpl ErrUnimplementedOpcode
	assert.True(errors.As(err, &unimpl))
	assert.Equal(uint16(0x1234), unimpl.Pc)
}

func TestInstructionTable(t *testing.T) {
	assert := assert.New(t)

	count := 0
	for opcode := range 256 {
		desc, err := Lookup(uint8(opcode), 0)
		if err != nil {
			continue
		}
		count++
		assert.Equal(uint8(opcode), desc.Opcode)
		assert.Equal(1+desc.Mode.Operands(), desc.Length, desc.String())
		assert.True(desc.Cycles >= 2, desc.String())

		enc, ok := Encoding(desc.Kind, desc.Mode)
		assert.True(ok)
		assert.Equal(desc, enc)
	}
	assert.Equal(len(instructionList), count)

	// Every kind is reachable.
	for kind := range Kinds() {
		assert.NotEmpty(slices.Collect(Opcodes(kind)), kind.String())
	}
}

func TestOpcodes(t *testing.T) {
	assert := assert.New(t)

	var opcodes []uint8
	for desc := range Opcodes(INS_ASL) {
		opcodes = append(opcodes, desc.Opcode)
	}
	assert.Equal([]uint8{0x06, 0x0A, 0x0E, 0x16, 0x1E}, opcodes)

	_, ok := Encoding(INS_STA, MODE_IMMEDIATE)
	assert.False(ok)
}

func TestKind(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("LDA", INS_LDA.String())
	assert.Equal("CLV", INS_CLV.String())
	assert.Equal("Kind(22)", Kind(22).String())

	assert.Equal(22, len(slices.Collect(Kinds())))

	branches := []Kind{INS_BCC, INS_BCS, INS_BEQ, INS_BMI, INS_BNE, INS_BPL, INS_BVC, INS_BVS}
	for kind := range Kinds() {
		assert.Equal(slices.Contains(branches, kind), kind.IsBranch(), kind.String())
	}
}

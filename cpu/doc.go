// Package cpu implements the processor and assembler for a 6502 style system.
//
// The CPU consists of an 8-bit accumulator (A), two 8-bit index registers
// (X and Y), an 8-bit status register, a 16-bit program counter (Pc) and a
// flat 64KiB memory. Instructions are decoded through a static opcode table
// into a Descriptor, the operand address is resolved from the addressing
// mode, and the instruction semantics are applied to the CPU state.
//
// The supported instruction set is LDA, STA, TAX, INX, INY, AND, ADC, ASL,
// BIT, the eight conditional branches, CLC, CLD, CLI, CLV and BRK, which
// halts the processor.
//
// The assembler accepts classic 6502 syntax, supporting labels, equates,
// macros, data directives and compile-time expression evaluation.
package cpu

package cpu

import (
	"errors"

	"github.com/ezrec/mos6502/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrCpuHalted             = errors.New(f("cpu halted"))
	ErrInvalidAddressingMode = errors.New(f("invalid addressing mode"))
	ErrInvalidInstruction    = errors.New(f("invalid instruction"))

	// Assembler errors
	ErrEquateSyntax     = errors.New(f(".equ syntax"))
	ErrEquateDuplicate  = errors.New(f(".equ duplicated"))
	ErrEquateLoop       = errors.New(f(".equ recursion too deep"))
	ErrLabelDuplicate   = errors.New(f("label duplicated"))
	ErrMacroSyntax      = errors.New(f(".macro syntax"))
	ErrMacroNesting     = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate   = errors.New(f(".macro duplicated"))
	ErrMacroLonely      = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm  = errors.New(f(".endm without .macro"))
	ErrOrgSyntax        = errors.New(f(".org syntax"))
	ErrOrgRange         = errors.New(f("address out of range"))
	ErrDirectiveInvalid = errors.New(f("directive invalid"))
	ErrOperandMissing   = errors.New(f("operand missing"))
	ErrOperandInvalid   = errors.New(f("operand invalid"))
	ErrMnemonicInvalid  = errors.New(f("mnemonic invalid"))
	ErrModeInvalid      = errors.New(f("addressing mode not available"))
	ErrValueRange       = errors.New(f("value out of range"))
	ErrBranchRange      = errors.New(f("branch out of range"))
)

// ErrUnimplementedOpcode is a fetch of an opcode absent from the instruction table.
type ErrUnimplementedOpcode struct {
	Opcode uint8  // Opcode byte fetched.
	Pc     uint16 // Address the opcode was fetched from.
}

func (err ErrUnimplementedOpcode) Error() string {
	return f("unimplemented opcode $%02X at $%04X", err.Opcode, err.Pc)
}

// Is matches any ErrUnimplementedOpcode, regardless of opcode or address.
func (err ErrUnimplementedOpcode) Is(target error) (ok bool) {
	_, ok = target.(ErrUnimplementedOpcode)
	return
}

// ErrProgramTooLarge is a program image that does not fit in memory at its origin.
type ErrProgramTooLarge struct {
	Origin uint16
	Length int
}

func (err ErrProgramTooLarge) Error() string {
	return f("program too large: $%X bytes at $%04X", err.Length, err.Origin)
}

func (err ErrProgramTooLarge) Is(target error) (ok bool) {
	_, ok = target.(ErrProgramTooLarge)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a value or label", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}

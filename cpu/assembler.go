// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// ORIGIN, when defined as an equate, is the address assembly starts at
// if no .org directive precedes the first emitted byte.
const originEquate = "ORIGIN"

// Assembler is a single pass macro assembler for the 6502 instruction subset.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	origin int // Program origin, or -1 if not yet known.
	addr   int // Current assembly address, or -1 if not yet known.
	expand int // Count of macro expansions, for unique '@' labels.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// kindMap is a map of mnemonics to instruction kinds.
var kindMap = map[string]Kind{}

func init() {
	for kind := range Kinds() {
		kindMap[kind.String()] = kind
	}
}

var identRegexp = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)

// ParseNumber parses a numeric literal.
// Accepted forms are $hex, %binary, Go style 0x, 0b and 0o prefixes, and decimal.
func ParseNumber(word string) (value int, err error) {
	var v64 int64
	switch {
	case strings.HasPrefix(word, "$"):
		v64, err = strconv.ParseInt(word[1:], 16, 32)
	case strings.HasPrefix(word, "%"):
		v64, err = strconv.ParseInt(word[1:], 2, 32)
	default:
		v64, err = strconv.ParseInt(word, 0, 32)
	}
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)

	return
}

// valueOf returns the value of a simple word, which may be a number, an
// equate, or a label. A label that is not yet defined returns a link to be
// patched once assembly completes.
func (asm *Assembler) valueOf(word string) (value int, link *Link, err error) {
	var part byte
	if len(word) > 0 && (word[0] == '<' || word[0] == '>') {
		part = word[0]
		word = word[1:]
	}
	if len(word) == 0 {
		err = ErrOperandMissing
		return
	}

	for depth := 0; ; depth++ {
		equate, ok := asm.Equate[word]
		if !ok {
			break
		}
		if depth >= 16 {
			err = ErrEquateLoop
			return
		}
		word = equate
	}

	addr, ok := asm.Label[word]
	switch {
	case ok:
		value = addr
	case identRegexp.MatchString(word):
		link = &Link{Label: word, Part: part}
		return
	default:
		value, err = ParseNumber(word)
		if err != nil {
			err = ErrParseValue(word)
			return
		}
	}

	value = selectPart(value, part)

	return
}

// selectPart applies a '<' or '>' byte selector to a value.
func selectPart(value int, part byte) int {
	switch part {
	case '<':
		value &= 0xff
	case '>':
		value = (value >> 8) & 0xff
	}
	return value
}

func checkByte(value int) (b uint8, err error) {
	if value < -0x80 || value > 0xff {
		err = ErrValueRange
		return
	}
	b = uint8(value)
	return
}

func checkWord(value int) (w uint16, err error) {
	if value < -0x8000 || value > 0xffff {
		err = ErrValueRange
		return
	}
	w = uint16(value)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key := range asm.Equate {
		if !identRegexp.MatchString(key) || strings.Contains(key, ".") {
			continue
		}
		v, link, _err := asm.valueOf(key)
		if _err != nil || link != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt(v)
	}
	for key, addr := range asm.Label {
		if strings.Contains(key, ".") {
			continue
		}
		pred[key] = starlark.MakeInt(addr)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

var (
	charRegexp  = regexp.MustCompile(`'\\?[^']'`)
	parenRegexp = regexp.MustCompile(`\$\(([^()]|\([^()]*\))*\)`)
)

// parseLine parses a single line into words, handling equates, labels and macros.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = charRegexp.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			case "0":
				str = "\000"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = parenRegexp.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if strings.ToLower(words[0]) == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !identRegexp.MatchString(label) {
			err = ErrParseValue(label)
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentAddr()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		asm.expand++
		expand := asm.expand
		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", fmt.Sprintf("%v_%v_", name, expand))
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// defaultOrigin is the ORIGIN equate if numeric, else ORIGIN_DEFAULT.
func (asm *Assembler) defaultOrigin() int {
	equate, ok := asm.Equate[originEquate]
	if ok {
		value, err := ParseNumber(equate)
		if err == nil && value >= 0 && value < MEMORY_SIZE {
			return value
		}
	}

	return int(ORIGIN_DEFAULT)
}

// currentAddr gets the current assembly address.
func (asm *Assembler) currentAddr() int {
	if asm.addr < 0 {
		asm.addr = asm.defaultOrigin()
	}

	return asm.addr
}

// emit appends an opcode at the current address.
func (asm *Assembler) emit(lineno int, words []string, bytes []uint8, link *Link) (err error) {
	addr := asm.currentAddr()
	if addr+len(bytes) > MEMORY_SIZE {
		err = ErrOrgRange
		return
	}
	if asm.origin < 0 {
		asm.origin = addr
	}

	asm.Opcode = append(asm.Opcode, Opcode{
		LineNo: lineno,
		Addr:   uint16(addr),
		Words:  words,
		Bytes:  bytes,
		Link:   link,
	})
	asm.addr += len(bytes)

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.origin = -1
	asm.addr = -1
	asm.expand = 0
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	maps.Insert(asm.Equate, Defines())
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && strings.ToLower(words[0]) == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && strings.ToLower(words[0]) == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of forward references.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]
		if op.Link == nil {
			continue
		}
		lineno = op.LineNo
		line = strings.Join(op.Words, " ")
		err = asm.link(op)
		if err != nil {
			return
		}
	}

	origin := asm.origin
	if origin < 0 {
		origin = asm.defaultOrigin()
	}

	prog = &Program{
		Origin:  uint16(origin),
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// link patches a forward reference into an opcode.
func (asm *Assembler) link(op *Opcode) (err error) {
	value, unresolved, err := asm.valueOf(op.Link.Label)
	if err != nil {
		return
	}
	if unresolved != nil {
		err = ErrLabelMissing(op.Link.Label)
		return
	}
	value = selectPart(value, op.Link.Part)

	n := len(op.Bytes)
	switch op.Link.Kind {
	case LINK_BYTE:
		var b uint8
		b, err = checkByte(value)
		if err != nil {
			return
		}
		op.Bytes[n-1] = b
	case LINK_WORD:
		var w uint16
		w, err = checkWord(value)
		if err != nil {
			return
		}
		op.Bytes[n-2] = uint8(w)
		op.Bytes[n-1] = uint8(w >> 8)
	case LINK_RELATIVE:
		offset := value - (int(op.Addr) + n)
		if offset < -0x80 || offset > 0x7f {
			err = ErrBranchRange
			return
		}
		op.Bytes[n-1] = uint8(int8(offset))
	}

	return
}

// operandForm is the syntactic shape of an instruction operand.
type operandForm int

const (
	formImplied operandForm = iota
	formAccumulator
	formImmediate
	formDirect
	formIndexedX
	formIndexedY
	formIndirectX
	formIndirectY
)

// splitOperand classifies an operand, returning the value text within it.
func splitOperand(text string) (form operandForm, value string, err error) {
	upper := strings.ToUpper(text)
	switch {
	case len(text) == 0:
		form = formImplied
		return
	case upper == "A":
		form = formAccumulator
		return
	case strings.HasPrefix(text, "#"):
		form, value = formImmediate, text[1:]
	case strings.HasPrefix(text, "(") && strings.HasSuffix(upper, ",X)"):
		form, value = formIndirectX, text[1:len(text)-3]
	case strings.HasPrefix(text, "(") && strings.HasSuffix(upper, "),Y"):
		form, value = formIndirectY, text[1:len(text)-3]
	case strings.HasPrefix(text, "("):
		err = ErrOperandInvalid
		return
	case strings.HasSuffix(upper, ",X"):
		form, value = formIndexedX, text[:len(text)-2]
	case strings.HasSuffix(upper, ",Y"):
		form, value = formIndexedY, text[:len(text)-2]
	default:
		form, value = formDirect, text
	}

	if len(value) == 0 {
		err = ErrOperandMissing
	}

	return
}

// encodeByte encodes an instruction with a single byte operand.
func encodeByte(kind Kind, mode Mode, value int, link *Link) (bytes []uint8, err error) {
	desc, ok := Encoding(kind, mode)
	if !ok {
		err = ErrModeInvalid
		return
	}
	if link != nil {
		link.Kind = LINK_BYTE
		bytes = []uint8{desc.Opcode, 0}
		return
	}
	b, err := checkByte(value)
	if err != nil {
		return
	}
	bytes = []uint8{desc.Opcode, b}
	return
}

// encodeAddress encodes an instruction using zero page addressing if the
// address is known to fit in the zero page, otherwise absolute addressing.
func encodeAddress(kind Kind, zpMode, absMode Mode, value int, link *Link) (bytes []uint8, err error) {
	_, hasZp := Encoding(kind, zpMode)
	abs, hasAbs := Encoding(kind, absMode)

	fitsZp := value >= 0 && value <= 0xff
	if link != nil {
		fitsZp = link.Part != 0
	}

	switch {
	case hasZp && (fitsZp || !hasAbs):
		bytes, err = encodeByte(kind, zpMode, value, link)
	case hasAbs:
		if link != nil {
			link.Kind = LINK_WORD
			bytes = []uint8{abs.Opcode, 0, 0}
			return
		}
		var w uint16
		w, err = checkWord(value)
		if err != nil {
			return
		}
		bytes = []uint8{abs.Opcode, uint8(w), uint8(w >> 8)}
	default:
		err = ErrModeInvalid
	}

	return
}

// encodeBranch encodes a relative branch from the current address.
func (asm *Assembler) encodeBranch(kind Kind, value int, link *Link) (bytes []uint8, err error) {
	desc, _ := Encoding(kind, MODE_RELATIVE)
	if link != nil {
		link.Kind = LINK_RELATIVE
		bytes = []uint8{desc.Opcode, 0}
		return
	}

	offset := value - (asm.currentAddr() + desc.Length)
	if offset < -0x80 || offset > 0x7f {
		err = ErrBranchRange
		return
	}
	bytes = []uint8{desc.Opcode, uint8(int8(offset))}

	return
}

// parseInstruction encodes a mnemonic and its operand text.
func (asm *Assembler) parseInstruction(kind Kind, operand string) (bytes []uint8, link *Link, err error) {
	form, text, err := splitOperand(operand)
	if err != nil {
		return
	}

	var value int
	if len(text) != 0 {
		value, link, err = asm.valueOf(text)
		if err != nil {
			return
		}
	}

	switch form {
	case formImplied:
		for _, mode := range []Mode{MODE_NONE, MODE_ACCUMULATOR} {
			desc, ok := Encoding(kind, mode)
			if ok {
				bytes = []uint8{desc.Opcode}
				return
			}
		}
		err = ErrOperandMissing
	case formAccumulator:
		desc, ok := Encoding(kind, MODE_ACCUMULATOR)
		if !ok {
			err = ErrModeInvalid
			return
		}
		bytes = []uint8{desc.Opcode}
	case formImmediate:
		bytes, err = encodeByte(kind, MODE_IMMEDIATE, value, link)
	case formIndirectX:
		bytes, err = encodeByte(kind, MODE_INDIRECT_X, value, link)
	case formIndirectY:
		bytes, err = encodeByte(kind, MODE_INDIRECT_Y, value, link)
	case formDirect:
		if kind.IsBranch() {
			bytes, err = asm.encodeBranch(kind, value, link)
		} else {
			bytes, err = encodeAddress(kind, MODE_ZEROPAGE, MODE_ABSOLUTE, value, link)
		}
	case formIndexedX:
		bytes, err = encodeAddress(kind, MODE_ZEROPAGE_X, MODE_ABSOLUTE_X, value, link)
	case formIndexedY:
		bytes, err = encodeAddress(kind, MODE_ZEROPAGE_Y, MODE_ABSOLUTE_Y, value, link)
	}

	return
}

// parseData emits one opcode per .byte or .word value.
func (asm *Assembler) parseData(words []string, lineno int, width int) (err error) {
	values := strings.FieldsFunc(strings.Join(words[1:], ","), func(r rune) bool { return r == ',' })
	if len(values) == 0 {
		err = ErrOperandMissing
		return
	}

	for _, word := range values {
		value, link, err := asm.valueOf(word)
		if err != nil {
			return err
		}
		bytes := make([]uint8, width)
		switch {
		case link != nil && width == 1:
			link.Kind = LINK_BYTE
		case link != nil:
			link.Kind = LINK_WORD
		case width == 1:
			bytes[0], err = checkByte(value)
		default:
			var w uint16
			w, err = checkWord(value)
			bytes[0] = uint8(w)
			bytes[1] = uint8(w >> 8)
		}
		if err != nil {
			return err
		}

		err = asm.emit(lineno, []string{words[0], word}, bytes, link)
		if err != nil {
			return err
		}
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	switch strings.ToLower(words[0]) {
	case ".org":
		if len(words) != 2 {
			err = ErrOrgSyntax
			return
		}
		value, link, err := asm.valueOf(words[1])
		if err != nil {
			return err
		}
		if link != nil {
			return ErrOrgSyntax
		}
		if value < 0 || value >= MEMORY_SIZE {
			return ErrOrgRange
		}
		if asm.origin >= 0 && value < asm.origin {
			return ErrOrgRange
		}
		asm.addr = value
		if len(asm.Opcode) == 0 {
			asm.origin = value
		}
	case ".byte":
		err = asm.parseData(words, lineno, 1)
	case ".word":
		err = asm.parseData(words, lineno, 2)
	default:
		if strings.HasPrefix(words[0], ".") {
			err = ErrDirectiveInvalid
			return
		}
		kind, ok := kindMap[strings.ToUpper(words[0])]
		if !ok {
			err = ErrMnemonicInvalid
			return
		}
		bytes, link, err := asm.parseInstruction(kind, strings.Join(words[1:], ""))
		if err != nil {
			return err
		}
		err = asm.emit(lineno, words, bytes, link)
		if err != nil {
			return err
		}
	}

	return
}

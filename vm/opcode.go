package vm

import (
	"fmt"
	"strings"
)

// Mnemonic is a symbolic operation name. The set is closed: every Mnemonic
// has exactly one catalogue entry, and both the encoder and the execution
// engine switch exhaustively over it.
type Mnemonic int

const (
	LOAD_CONST Mnemonic = iota // write an immediate into a memory cell
	READ_MEM                   // indirect read: dst = mem[mem[src] + offset]
	WRITE_MEM                  // copy one memory cell to another
	GTE                        // compare and store 1/0
)

// OPCODE_WIDTH is the bit width of the opcode field at bit 0 of every
// instruction.
const OPCODE_WIDTH = 7

// Field is one operand field of an instruction: a name for diagnostics and
// a declared bit width. Legal values are [0, 2^Width).
type Field struct {
	Name  string
	Width uint
}

// InstructionSpec maps a Mnemonic to its opcode value and ordered operand
// field layout.
type InstructionSpec struct {
	Opcode uint32
	Fields []Field
}

// Arity returns the number of operands the instruction takes.
func (spec InstructionSpec) Arity() int {
	return len(spec.Fields)
}

// Bytes returns the total encoded width of the instruction in bytes.
func (spec InstructionSpec) Bytes() int {
	bits := uint(OPCODE_WIDTH)
	for _, field := range spec.Fields {
		bits += field.Width
	}
	return int((bits + 7) / 8)
}

// catalogue is the fixed instruction table. Opcode values, field widths,
// and the resulting byte widths (6, 9, 8, 13) are part of the binary image
// format and must not change.
var catalogue = map[Mnemonic]InstructionSpec{
	LOAD_CONST: {Opcode: 111, Fields: []Field{
		{Name: "constant", Width: 11},
		{Name: "address", Width: 26},
	}},
	READ_MEM: {Opcode: 40, Fields: []Field{
		{Name: "offset", Width: 8},
		{Name: "src", Width: 26},
		{Name: "dst", Width: 26},
	}},
	WRITE_MEM: {Opcode: 101, Fields: []Field{
		{Name: "src", Width: 26},
		{Name: "dst", Width: 26},
	}},
	GTE: {Opcode: 68, Fields: []Field{
		{Name: "offset1", Width: 8},
		{Name: "addr1", Width: 26},
		{Name: "addr2", Width: 26},
		{Name: "result", Width: 26},
		{Name: "offset2", Width: 8},
	}},
}

// mnemonicName maps Mnemonics to their assembly language names.
var mnemonicName = map[Mnemonic]string{
	LOAD_CONST: "LOAD_CONST",
	READ_MEM:   "READ_MEM",
	WRITE_MEM:  "WRITE_MEM",
	GTE:        "GTE",
}

// opcodeMap and mnemonicMap are the reverse lookups used by the decoder and
// the parser.
var opcodeMap = map[uint32]Mnemonic{}
var mnemonicMap = map[string]Mnemonic{}

func init() {
	for m, spec := range catalogue {
		opcodeMap[spec.Opcode] = m
		mnemonicMap[mnemonicName[m]] = m
	}
}

// Spec returns the catalogue entry for the Mnemonic.
func (m Mnemonic) Spec() InstructionSpec {
	return catalogue[m]
}

// String returns the assembly language name of the Mnemonic.
func (m Mnemonic) String() string {
	name, ok := mnemonicName[m]
	if !ok {
		return fmt.Sprintf("Mnemonic(%d)", int(m))
	}
	return name
}

// MnemonicOf looks up a Mnemonic by its (case-insensitive) assembly name.
func MnemonicOf(name string) (m Mnemonic, ok bool) {
	m, ok = mnemonicMap[strings.ToUpper(name)]
	return
}

// Instruction is a decoded operation: a Mnemonic plus its concrete operand
// values, in catalogue field order.
type Instruction struct {
	Op   Mnemonic
	Args []uint32
}

// Encode packs the instruction into its fixed-width byte sequence:
// opcode first, then each operand field at its declared width, LSB-first.
// Operand values at or above 2^width fail with ErrOperandOutOfRange.
func (in Instruction) Encode() (buf []byte, err error) {
	spec, ok := catalogue[in.Op]
	if !ok {
		err = ErrUnknownMnemonic(in.Op.String())
		return
	}

	if len(in.Args) != spec.Arity() {
		err = &ErrArityMismatch{Op: in.Op, Want: spec.Arity(), Got: len(in.Args)}
		return
	}

	buf = make([]byte, spec.Bytes())
	packBits(buf, 0, OPCODE_WIDTH, spec.Opcode)

	bit := uint(OPCODE_WIDTH)
	for n, field := range spec.Fields {
		value := in.Args[n]
		if uint64(value) >= uint64(1)<<field.Width {
			buf = nil
			err = &ErrOperandOutOfRange{Op: in.Op, Field: field.Name, Value: value, Width: field.Width}
			return
		}
		packBits(buf, bit, field.Width, value)
		bit += field.Width
	}

	return
}

// String returns the assembly language representation of the instruction.
func (in Instruction) String() string {
	words := []string{in.Op.String()}
	for _, arg := range in.Args {
		words = append(words, fmt.Sprintf("%d", arg))
	}
	return strings.Join(words, " ")
}

// packBits writes the low 'width' bits of value into buf starting at bit
// offset 'bit', LSB-first.
func packBits(buf []byte, bit, width uint, value uint32) {
	for n := range width {
		if (value>>n)&1 != 0 {
			pos := bit + n
			buf[pos/8] |= 1 << (pos % 8)
		}
	}
}

// unpackBits reads a 'width' bit field from buf starting at bit offset
// 'bit', LSB-first.
func unpackBits(buf []byte, bit, width uint) (value uint32) {
	for n := range width {
		pos := bit + n
		if (buf[pos/8]>>(pos%8))&1 != 0 {
			value |= 1 << n
		}
	}
	return
}

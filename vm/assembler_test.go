package vm

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Statements))

	assert.Equal("0", asm.Equate["LINENO"])
}

func stEqual(t *testing.T, expected, statements []Statement) {
	assert := assert.New(t)

	assert.Equal(len(expected), len(statements))
	if len(expected) == len(statements) {
		for n := range len(expected) {
			assert.Equal(expected[n], statements[n])
		}
	}
}

func TestAssemblerBasic(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"LOAD_CONST 5 0  # seed the accumulator cell",
		"WRITE_MEM 0 10",
		"# comment-only lines produce no instruction",
		"",
		"read_mem 10 19 1",
		"GTE 0 1 2 3 0",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	expected := []Statement{
		{1, 0, []string{"LOAD_CONST", "5", "0"}, Instruction{LOAD_CONST, []uint32{5, 0}}},
		{2, 6, []string{"WRITE_MEM", "0", "10"}, Instruction{WRITE_MEM, []uint32{0, 10}}},
		{5, 14, []string{"read_mem", "10", "19", "1"}, Instruction{READ_MEM, []uint32{10, 19, 1}}},
		{6, 23, []string{"GTE", "0", "1", "2", "3", "0"}, Instruction{GTE, []uint32{0, 1, 2, 3, 0}}},
	}

	stEqual(t, expected, prog.Statements)

	image, err := prog.Binary()
	assert.NoError(err)
	assert.Equal(36, len(image))
	assert.Equal([]byte{0xef, 0x02, 0x00, 0x00, 0x00, 0x00}, image[:6])
}

func TestAssemblerNumerals(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"LOAD_CONST 0x10 0o17",
		"LOAD_CONST 0b101 16",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	expected := []Statement{
		{1, 0, []string{"LOAD_CONST", "0x10", "0o17"}, Instruction{LOAD_CONST, []uint32{16, 15}}},
		{2, 6, []string{"LOAD_CONST", "0b101", "16"}, Instruction{LOAD_CONST, []uint32{5, 16}}},
	}

	stEqual(t, expected, prog.Statements)
}

func TestAssemblerEqu(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		".equ BASE 0x10",
		"LOAD_CONST 1 BASE",
		"LOAD_CONST 2 $(BASE + 1)",
		".equ NEXT $(2 * BASE)",
		"LOAD_CONST 3 NEXT",
		"LOAD_CONST 4 $(LINENO)",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(errors.Unwrap(err))
	}

	assert.Equal(4, len(prog.Statements))
	assert.Equal(Instruction{LOAD_CONST, []uint32{1, 16}}, prog.Statements[0].Inst)
	assert.Equal(Instruction{LOAD_CONST, []uint32{2, 17}}, prog.Statements[1].Inst)
	assert.Equal(Instruction{LOAD_CONST, []uint32{3, 32}}, prog.Statements[2].Inst)
	assert.Equal(Instruction{LOAD_CONST, []uint32{4, 6}}, prog.Statements[3].Inst)
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("DST", "42")

	prog, err := asm.Parse(strings.NewReader("LOAD_CONST 7 DST"))
	assert.NoError(err)

	assert.Equal(1, len(prog.Statements))
	assert.Equal(Instruction{LOAD_CONST, []uint32{7, 42}}, prog.Statements[0].Inst)
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := []string{
		".macro SEED VALUE ADDR",
		"LOAD_CONST VALUE ADDR",
		"WRITE_MEM ADDR ADDR",
		".endm",
		"SEED 8 4",
		".equ BASE 0x10",
		"SEED BASE $(BASE + 1)",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	expected := []Statement{
		{2, 0, []string{"LOAD_CONST", "8", "4"}, Instruction{LOAD_CONST, []uint32{8, 4}}},
		{3, 6, []string{"WRITE_MEM", "4", "4"}, Instruction{WRITE_MEM, []uint32{4, 4}}},
		{2, 14, []string{"LOAD_CONST", "0x10", "0x11"}, Instruction{LOAD_CONST, []uint32{16, 17}}},
		{3, 20, []string{"WRITE_MEM", "0x11", "0x11"}, Instruction{WRITE_MEM, []uint32{17, 17}}},
	}

	stEqual(t, expected, prog.Statements)
}

func TestAssemblerListing(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader("LOAD_CONST 5 0"))
	assert.NoError(err)

	listing := &bytes.Buffer{}
	err = prog.Listing(listing)
	assert.NoError(err)
	assert.Equal("000000: ef 02 00 00 00 00  LOAD_CONST 5 0\n", listing.String())
}

func TestAssemblerErrSyntax(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// Various syntax errors
	table := [](struct {
		prog string
		line int
	}){
		{"BOGUS 1 2", 1},
		{"LOAD_CONST 1", 1},
		{"LOAD_CONST 1 2 3", 1},
		{"LOAD_CONST 2048 0", 1},
		{"LOAD_CONST 0 67108864", 1},
		{"READ_MEM 256 0 0", 1},
		{"GTE 0 0 0 0 256", 1},
		{"LOAD_CONST x 0", 1},
		{"LOAD_CONST -1 0", 1},
		{"LOAD_CONST $(\"aaa\") 0", 1},
		{"LOAD_CONST $(more(\"aaa\")) 0", 1},
		{"LOAD_CONST 1 0\nWRITE_MEM 0\n", 2},
		{".equ", 1},
		{".equ A", 1},
		{".equ A 1\n.equ A 2\n", 2},
		{".macro", 1},
		{".macro A B C\n.endm\nA 1\n", 3},
		{".macro A B\nLOAD_CONST B\n.endm\nA 1\n", 4},
		{".macro A B\n.macro C\n.endm\n.endm", 2},
		{".macro A\n.endm\n.macro A\n.endm\n", 3},
		{".macro A\n.endm\n.endm\n", 3},
		{".macro A\nLOAD_CONST 1 0\n", 2},
		{".endm", 1},
	}

	for _, entry := range table {
		_, err := asm.Parse(strings.NewReader(entry.prog))
		var se *ErrSyntax
		assert.NotNil(err, entry.prog)
		if err != nil {
			assert.True(errors.As(err, &se), entry.prog)
			assert.Equal(entry.line, se.LineNo, entry.prog)
		}
	}
}

func TestAssemblerLongLine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// Machine-generated sources can carry comments far past
	// bufio.Scanner's default 64KB token size.
	program := []string{
		"LOAD_CONST 5 0",
		"WRITE_MEM 0 10  # " + strings.Repeat("x", 70*1024),
		"READ_MEM 10 19 1",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(3, len(prog.Statements))
	assert.Equal(Instruction{READ_MEM, []uint32{10, 19, 1}}, prog.Statements[2].Inst)
}

func TestAssemblerReaderError(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	errRead := errors.New("read failed")
	input := io.MultiReader(
		strings.NewReader("LOAD_CONST 5 0\n"),
		iotest.ErrReader(errRead),
	)

	_, err := asm.Parse(input)
	assert.ErrorIs(err, errRead)

	var se *ErrSyntax
	assert.True(errors.As(err, &se))
}

func TestAssemblerMacroRecursion(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// Direct recursion.
	program := []string{
		".macro A",
		"A",
		".endm",
		"A",
	}
	_, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.ErrorIs(err, ErrMacroRecursion)

	var se *ErrSyntax
	assert.True(errors.As(err, &se))
	assert.Equal(4, se.LineNo)

	// Mutual recursion.
	program = []string{
		".macro A",
		"B",
		".endm",
		".macro B",
		"A",
		".endm",
		"A",
	}
	_, err = asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.ErrorIs(err, ErrMacroRecursion)

	// A macro may still invoke another macro, repeatedly.
	program = []string{
		".macro INNER ADDR",
		"LOAD_CONST 1 ADDR",
		".endm",
		".macro OUTER",
		"INNER 0",
		"INNER 1",
		".endm",
		"OUTER",
	}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(2, len(prog.Statements))
}

func TestAssemblerErrKinds(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	_, err := asm.Parse(strings.NewReader("BOGUS 1 2"))
	var um ErrUnknownMnemonic
	assert.True(errors.As(err, &um))
	assert.Equal("BOGUS", string(um))

	_, err = asm.Parse(strings.NewReader("LOAD_CONST 1"))
	var am *ErrArityMismatch
	assert.True(errors.As(err, &am))
	assert.Equal(LOAD_CONST, am.Op)
	assert.Equal(2, am.Want)
	assert.Equal(1, am.Got)

	_, err = asm.Parse(strings.NewReader("LOAD_CONST 2048 0"))
	var oor *ErrOperandOutOfRange
	assert.True(errors.As(err, &oor))
	assert.Equal("constant", oor.Field)
	assert.Equal(uint32(2048), oor.Value)
	assert.Equal(uint(11), oor.Width)
}

package vm

import (
	"errors"

	"github.com/CyberArt2718281/assembler-uvm/translate"
)

var f = translate.From

var (
	// Machine configuration errors
	ErrMemorySize = errors.New(f("memory size must be positive"))
	ErrTickBudget = errors.New(f("tick budget must be positive"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrMacroSyntax     = errors.New(f(".macro syntax"))
	ErrMacroNesting    = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate  = errors.New(f(".macro duplicated"))
	ErrMacroLonely     = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm = errors.New(f(".endm without .macro"))
	ErrMacroRecursion  = errors.New(f(".macro expands itself"))
)

// ErrUnknownMnemonic indicates a mnemonic not present in the catalogue.
type ErrUnknownMnemonic string

func (err ErrUnknownMnemonic) Error() string {
	return f("unknown mnemonic '%v'", string(err))
}

// ErrArityMismatch indicates an operand count that does not match the
// catalogue arity for the mnemonic.
type ErrArityMismatch struct {
	Op   Mnemonic
	Want int
	Got  int
}

func (err *ErrArityMismatch) Error() string {
	return f("%v takes %d operands, got %d", err.Op, err.Want, err.Got)
}

// ErrOperandOutOfRange indicates an operand value outside the declared bit
// width of its field.
type ErrOperandOutOfRange struct {
	Op    Mnemonic
	Field string
	Value uint32
	Width uint
}

func (err *ErrOperandOutOfRange) Error() string {
	max := (uint64(1) << err.Width) - 1
	return f("%v operand '%v' value %d outside [0, %d]", err.Op, err.Field, err.Value, max)
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrSyntax locates an assembly error on its source line.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrMacro locates an assembly error inside a macro expansion.
type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err *ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err *ErrMacro) Unwrap() error {
	return err.Err
}

// ErrInvalidOpcode indicates an opcode value with no catalogue entry.
type ErrInvalidOpcode struct {
	Opcode uint32
	Offset int
}

func (err *ErrInvalidOpcode) Error() string {
	return f("invalid opcode %d at offset %d", err.Opcode, err.Offset)
}

// ErrTruncatedInstruction indicates fewer image bytes remain than the
// decoded opcode requires.
type ErrTruncatedInstruction struct {
	Offset int
	Need   int
	Have   int
}

func (err *ErrTruncatedInstruction) Error() string {
	return f("truncated instruction at offset %d: need %d bytes, have %d", err.Offset, err.Need, err.Have)
}

// ErrOutOfBoundsAccess indicates a computed memory address outside the
// configured memory size.
type ErrOutOfBoundsAccess struct {
	Address uint64
	Size    int
}

func (err *ErrOutOfBoundsAccess) Error() string {
	return f("out of bounds access at address %d: memory size %d", err.Address, err.Size)
}

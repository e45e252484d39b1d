// Package vm implements the UVM instruction set, assembler, and execution engine.
//
// Instructions are variable-width across mnemonics but fixed-width per
// mnemonic: a 7-bit opcode field followed by the operand fields declared in
// the catalogue, packed LSB-first into a little-endian byte sequence.
//
// The assembler provides a line-oriented assembly language for the UVM
// instruction set, supporting equates, macros, and compile-time expression
// evaluation.
package vm

package vm

import (
	"fmt"
	"io"
	"iter"
)

// Statement is one assembled source line: its location, raw words, and the
// instruction it produced.
type Statement struct {
	LineNo int      // Source line number.
	Offset int      // Byte offset of the instruction in the image.
	Words  []string // Raw instruction words after substitution.
	Inst   Instruction
}

// Program is an ordered sequence of assembled statements. The binary image
// it produces has no internal structure beyond "instructions to be decoded
// sequentially starting at offset 0".
type Program struct {
	Statements []Statement
}

// Instructions iterates over the program's instructions with their byte
// offsets, in image order.
func (prog *Program) Instructions() iter.Seq2[int, Instruction] {
	return func(yield func(offset int, in Instruction) bool) {
		for _, st := range prog.Statements {
			if !yield(st.Offset, st.Inst) {
				return
			}
		}
	}
}

// At returns the statement whose encoding covers the given byte offset, or
// nil if no statement does.
func (prog *Program) At(offset int) *Statement {
	for n, st := range prog.Statements {
		if offset >= st.Offset && offset < st.Offset+st.Inst.Op.Spec().Bytes() {
			return &prog.Statements[n]
		}
	}

	return nil
}

// Binary encodes the whole program into one image: instruction encodings
// concatenated in order, no padding, no terminator. End-of-program is the
// image's byte length.
func (prog *Program) Binary() (image []byte, err error) {
	for _, in := range prog.Instructions() {
		var buf []byte
		buf, err = in.Encode()
		if err != nil {
			image = nil
			return
		}
		image = append(image, buf...)
	}

	return
}

// Listing writes a human-readable listing of the program: byte offset,
// encoded bytes, and the instruction for each statement.
func (prog *Program) Listing(w io.Writer) (err error) {
	for _, st := range prog.Statements {
		var buf []byte
		buf, err = st.Inst.Encode()
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, "%06x: % x  %v\n", st.Offset, buf, st.Inst)
		if err != nil {
			return
		}
	}

	return
}

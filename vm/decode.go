package vm

// Decode reads one instruction from the image at the given byte offset and
// returns it along with its encoded width, so the caller can compute the
// next program counter. Decoding never mutates any machine state.
//
// Fails with ErrInvalidOpcode if the opcode field matches no catalogue
// entry, and with ErrTruncatedInstruction if fewer bytes remain than the
// catalogue declares for the decoded opcode.
func Decode(image []byte, offset int) (in Instruction, width int, err error) {
	if offset < 0 || offset >= len(image) {
		err = &ErrTruncatedInstruction{Offset: offset, Need: 1, Have: 0}
		return
	}

	opcode := uint32(image[offset]) & ((1 << OPCODE_WIDTH) - 1)
	m, ok := opcodeMap[opcode]
	if !ok {
		err = &ErrInvalidOpcode{Opcode: opcode, Offset: offset}
		return
	}

	spec := catalogue[m]
	width = spec.Bytes()
	if offset+width > len(image) {
		err = &ErrTruncatedInstruction{Offset: offset, Need: width, Have: len(image) - offset}
		width = 0
		return
	}

	buf := image[offset : offset+width]
	args := make([]uint32, 0, spec.Arity())
	bit := uint(OPCODE_WIDTH)
	for _, field := range spec.Fields {
		args = append(args, unpackBits(buf, bit, field.Width))
		bit += field.Width
	}

	in = Instruction{Op: m, Args: args}

	return
}

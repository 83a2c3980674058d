// Package z80 decodes Z80 machine code into instructions annotated with the
// registers and flags they read and write.
//
// Decoding walks the opcode tables of the retrogolib Z80 CPU: the root
// table, the CB bit table, the ED extended table and the DD/FD index tables
// with their displaced CB encodings. The CPU tables provide the mnemonic and
// size of an encoding, the supported subset of them is mapped to instruction
// kinds with operands. Every other encoding is reported as DecodeError.
package z80

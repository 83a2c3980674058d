package z80

// Kind identifies the instruction variant. The set of kinds is closed,
// code that behaves per kind switches over all of them.
type Kind uint8

// Instruction kinds. Operand fields used by a kind are noted where they
// are not obvious from the name.
const (
	Nop Kind = iota
	Di
	Ei
	Scf
	Ccf
	Cpl
	ExDeHl
	ExAfAf

	LdRR       // LD Reg,Src
	LdRN       // LD Reg,N
	LdRIndHL   // LD Reg,(HL)
	LdIndHLR   // LD (HL),Reg
	LdIndHLN   // LD (HL),N
	LdAIndRR   // LD A,(Pair)
	LdIndRRA   // LD (Pair),A
	LdAIndNN   // LD A,(NN)
	LdIndNNA   // LD (NN),A
	LdRRNN     // LD Pair,NN
	LdRRIndNN  // LD Pair,(NN)
	LdIndNNRR  // LD (NN),Pair
	LdRIndIdx  // LD Reg,(Index+Disp)
	LdIndIdxR  // LD (Index+Disp),Reg
	LdIndIdxN  // LD (Index+Disp),N
	IncR       // INC Reg
	DecR       // DEC Reg
	IncIndHL   // INC (HL)
	DecIndHL   // DEC (HL)
	IncIndIdx  // INC (Index+Disp)
	DecIndIdx  // DEC (Index+Disp)
	IncRR      // INC Pair
	DecRR      // DEC Pair
	AddRRRR    // ADD Pair,Pair2
	SbcHLRR    // SBC HL,Pair2
	AddAR      // ADD A,Reg
	AddAN      // ADD A,N
	AddAIndHL  // ADD A,(HL)
	SubR       // SUB Reg
	SubN       // SUB N
	SubIndHL   // SUB (HL)
	AndR       // AND Reg
	AndN       // AND N
	AndIndHL   // AND (HL)
	XorR       // XOR Reg
	XorN       // XOR N
	XorIndHL   // XOR (HL)
	OrR        // OR Reg
	OrN        // OR N
	OrIndHL    // OR (HL)
	CpR        // CP Reg
	CpN        // CP N
	CpIndHL    // CP (HL)
	Rlca       // RLCA
	Rrca       // RRCA
	RlcR       // RLC Reg
	BitR       // BIT Bit,Reg
	BitIndIdx  // BIT Bit,(Index+Disp)
	ResR       // RES Bit,Reg
	ResIndHL   // RES Bit,(HL)
	ResIndIdx  // RES Bit,(Index+Disp)
	SetR       // SET Bit,Reg
	SetIndHL   // SET Bit,(HL)
	SetIndIdx  // SET Bit,(Index+Disp)
	Jp         // JP NN
	JpCond     // JP Cond,NN
	Jr         // JR Disp
	JrCond     // JR Cond,Disp
	Djnz       // DJNZ Disp
	Call       // CALL NN
	CallCond   // CALL Cond,NN
	Ret        // RET
	RetCond    // RET Cond
	Push       // PUSH Pair
	Pop        // POP Pair
	Ldir       // LDIR
	Outd       // OUTD
	OutIndCR   // OUT (C),Reg

	kindCount
)

var kindNames = [kindCount]string{
	Nop: "NOP", Di: "DI", Ei: "EI", Scf: "SCF", Ccf: "CCF", Cpl: "CPL",
	ExDeHl: "EX_DE_HL", ExAfAf: "EX_AF_AF",
	LdRR: "LD_R_R", LdRN: "LD_R_N", LdRIndHL: "LD_R_iHLi", LdIndHLR: "LD_iHLi_R",
	LdIndHLN: "LD_iHLi_N", LdAIndRR: "LD_A_iRRi", LdIndRRA: "LD_iRRi_A",
	LdAIndNN: "LD_A_iNNi", LdIndNNA: "LD_iNNi_A", LdRRNN: "LD_RR_NN",
	LdRRIndNN: "LD_RR_iNNi", LdIndNNRR: "LD_iNNi_RR", LdRIndIdx: "LD_R_iIXYpNi",
	LdIndIdxR: "LD_iIXYpNi_R", LdIndIdxN: "LD_iIXYpNi_N",
	IncR: "INC_R", DecR: "DEC_R", IncIndHL: "INC_iHLi", DecIndHL: "DEC_iHLi",
	IncIndIdx: "INC_iIXYpNi", DecIndIdx: "DEC_iIXYpNi", IncRR: "INC_RR", DecRR: "DEC_RR",
	AddRRRR: "ADD_RR_RR", SbcHLRR: "SBC_HL_RR",
	AddAR: "ADD_A_R", AddAN: "ADD_A_N", AddAIndHL: "ADD_A_iHLi",
	SubR: "SUB_R", SubN: "SUB_N", SubIndHL: "SUB_iHLi",
	AndR: "AND_R", AndN: "AND_N", AndIndHL: "AND_iHLi",
	XorR: "XOR_R", XorN: "XOR_N", XorIndHL: "XOR_iHLi",
	OrR: "OR_R", OrN: "OR_N", OrIndHL: "OR_iHLi",
	CpR: "CP_R", CpN: "CP_N", CpIndHL: "CP_iHLi",
	Rlca: "RLCA", Rrca: "RRCA", RlcR: "RLC_R",
	BitR: "BIT_N_R", BitIndIdx: "BIT_N_iIXYpNi",
	ResR: "RES_N_R", ResIndHL: "RES_N_iHLi", ResIndIdx: "RES_N_iIXYpNi",
	SetR: "SET_N_R", SetIndHL: "SET_N_iHLi", SetIndIdx: "SET_N_iIXYpNi",
	Jp: "JP_NN", JpCond: "JP_C_NN", Jr: "JR_NN", JrCond: "JR_C_NN", Djnz: "DJNZ_NN",
	Call: "CALL_NN", CallCond: "CALL_C_NN", Ret: "RET", RetCond: "RET_C",
	Push: "PUSH_RR", Pop: "POP_RR", Ldir: "LDIR", Outd: "OUTD", OutIndCR: "OUT_iCi_R",
}

func (k Kind) String() string {
	if k >= kindCount {
		return "UNKNOWN"
	}
	return kindNames[k]
}

// IsJump returns whether the kind transfers control within a routine.
func (k Kind) IsJump() bool {
	switch k {
	case Jp, JpCond, Jr, JrCond, Djnz:
		return true
	default:
		return false
	}
}

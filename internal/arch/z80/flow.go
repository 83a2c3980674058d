package z80

// flow sets the static successors, exit flag, call and jump targets of the
// instruction.
func flow(ins *Instruction) {
	next := ins.Next()

	switch ins.Kind {
	case Jp:
		ins.setJump(ins.NN)
		ins.Successors = []uint16{ins.NN}
	case JpCond:
		ins.setJump(ins.NN)
		ins.Successors = []uint16{ins.NN, next}
	case Jr:
		target := relativeTarget(ins)
		ins.setJump(target)
		ins.Successors = []uint16{target}
	case JrCond, Djnz:
		target := relativeTarget(ins)
		ins.setJump(target)
		ins.Successors = []uint16{target, next}

	case Call:
		ins.setCall(ins.NN, next)
		ins.Successors = []uint16{ins.NN}
	case CallCond:
		ins.setCall(ins.NN, next)
		ins.Successors = []uint16{ins.NN, next}

	case Ret:
		ins.IsExit = true
	case RetCond:
		ins.IsExit = true
		ins.Successors = []uint16{next}

	default:
		ins.Successors = []uint16{next}
	}
}

func (ins *Instruction) setJump(target uint16) {
	ins.isJump = true
	ins.jumpTarget = target
}

func (ins *Instruction) setCall(target, returnAddress uint16) {
	ins.isCall = true
	ins.callTarget = target
	ins.returnAddress = returnAddress
}

// relativeTarget returns the destination of a relative jump, the
// displacement is relative to the address following the instruction.
func relativeTarget(ins *Instruction) uint16 {
	return ins.Next() + uint16(ins.Disp)
}

package ir

import "tinygo.org/x/go-llvm"

// InstrKind classifies an instruction for the purposes of §4.4's
// statement-kind recognition. Everything not enumerated here is
// "transitive": it contributes to use-chains but is never itself a
// Statement.
type InstrKind int

const (
	KindOther InstrKind = iota
	KindReturn
	KindCondBranch
	KindSwitch
	KindInvoke
	KindStore
	KindCall
)

// Classify returns the statement kind of instruction v, or KindOther if
// v does not correspond to one of §4.4's recognized kinds (this also
// covers unconditional branches, which are explicitly excluded).
func Classify(v Value) InstrKind {
	switch v.v.InstructionOpcode() {
	case llvm.Ret:
		return KindReturn
	case llvm.Br:
		if v.v.IsConditional() {
			return KindCondBranch
		}
		return KindOther
	case llvm.Switch:
		return KindSwitch
	case llvm.Invoke:
		return KindInvoke
	case llvm.Store:
		return KindStore
	case llvm.Call:
		if isDebugIntrinsic(v) {
			return KindOther
		}
		return KindCall
	default:
		return KindOther
	}
}

// IsTerminator reports whether v ends its basic block (return, branch,
// switch, invoke, unreachable, …). The dynamic instrumenter uses this to
// decide whether a data tracer call must go before or after the
// statement instruction it traces (§4.6).
func IsTerminator(v Value) bool {
	switch v.v.InstructionOpcode() {
	case llvm.Ret, llvm.Br, llvm.Switch, llvm.IndirectBr, llvm.Invoke,
		llvm.Resume, llvm.Unreachable, llvm.CleanupRet, llvm.CatchRet, llvm.CatchSwitch:
		return true
	default:
		return false
	}
}

// isDebugIntrinsic reports whether a call instruction invokes one of
// LLVM's llvm.dbg.* debug intrinsics (llvm.dbg.declare, llvm.dbg.value,
// llvm.dbg.addr), which must never be elevated to statements.
func isDebugIntrinsic(call Value) bool {
	callee := call.v.CalledValue()
	if callee.IsNil() {
		return false
	}
	name := callee.Name()
	return len(name) >= 8 && name[:8] == "llvm.dbg"
}

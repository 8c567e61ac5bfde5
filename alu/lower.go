/*
 * Copyright 2025 The r600sfn Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package alu

import (
    `github.com/shaderkit/r600sfn/isa`
    `github.com/shaderkit/r600sfn/value`
)

// Shader is the sink the lowering helpers emit into. The implementation
// owns the value factory so that emitted instructions and later passes
// resolve registers through the same interning tables.
type Shader interface {
    ChipClass() isa.ChipClass
    HasFlag(f isa.ShaderFlag) bool
    ValueFactory() *value.Factory
    EmitInstruction(i Instr)
}

// Op2Options modify how a two-source operation is lowered.
type Op2Options uint8

const (
    Op2OptNone    Op2Options = 0
    Op2OptReverse Op2Options = 1 << iota
    Op2OptNegSrc1
)

// EmitAluOp1 lowers a vectorized single-source operation into one scalar
// instruction per write-mask component. Negation in extraFlags toggles
// against the operand's own negate modifier.
func EmitAluOp1(sh Shader, opcode AluOp, d value.DestSpec, s0 value.SrcSpec, extraFlags AluFlags) {
    vf := sh.ValueFactory()
    pin := d.DefaultPin()

    var ir *AluInstr
    for i := 0; i < d.NumComponents; i++ {
        if d.WriteMask & (1 << i) == 0 {
            continue
        }
        ir = NewAluInstrOp1(opcode, vf.Dest(d, i, pin), vf.Src(s0, i), FlagsWrite)

        if extraFlags.Test(FlagSrc0Abs) || s0.Abs {
            ir.SetFlag(FlagSrc0Abs)
        }
        if s0.Negate != extraFlags.Test(FlagSrc0Neg) {
            ir.SetFlag(FlagSrc0Neg)
        }
        if extraFlags.Test(FlagDstClamp) || d.Saturate {
            ir.SetFlag(FlagDstClamp)
        }
        sh.EmitInstruction(ir)
    }
    if ir != nil {
        ir.SetFlag(FlagLastInstr)
    }
}

// EmitAluOp2 lowers a vectorized two-source operation. Op2OptReverse swaps
// the operands (for ops the hardware only has in one direction),
// Op2OptNegSrc1 toggles the negate of the second operand before the swap.
func EmitAluOp2(sh Shader, opcode AluOp, d value.DestSpec, s0 value.SrcSpec, s1 value.SrcSpec, opts Op2Options) {
    vf := sh.ValueFactory()

    src0, src1 := &s0, &s1
    if opts & Op2OptReverse != 0 {
        src0, src1 = src1, src0
    }

    src1Negate := (opts & Op2OptNegSrc1 != 0) != src1.Negate

    pin := d.DefaultPin()
    var ir *AluInstr
    for i := 0; i < d.NumComponents; i++ {
        if d.WriteMask & (1 << i) == 0 {
            continue
        }
        ir = NewAluInstrOp2(opcode, vf.Dest(d, i, pin), vf.Src(*src0, i), vf.Src(*src1, i), FlagsWrite)

        if src0.Negate {
            ir.SetFlag(FlagSrc0Neg)
        }
        if src0.Abs {
            ir.SetFlag(FlagSrc0Abs)
        }
        if src1Negate {
            ir.SetFlag(FlagSrc1Neg)
        }
        if src1.Abs {
            ir.SetFlag(FlagSrc1Abs)
        }
        if d.Saturate {
            ir.SetFlag(FlagDstClamp)
        }
        sh.EmitInstruction(ir)
    }
    if ir != nil {
        ir.SetFlag(FlagLastInstr)
    }
}

// EmitAluOp2Int lowers an integer two-source operation; integer operands
// carry no float modifiers, so any are a lowering bug upstream.
func EmitAluOp2Int(sh Shader, opcode AluOp, d value.DestSpec, s0 value.SrcSpec, s1 value.SrcSpec, opts Op2Options) {
    if s0.Abs || s0.Negate || s1.Abs || s1.Negate {
        panic("alu: integer operation with float source modifiers")
    }
    EmitAluOp2(sh, opcode, d, s0, s1, opts)
}

// EmitAluOp3 lowers a vectorized three-source operation. shuffle reorders
// the operands into hardware argument order. Three-source ops have no
// absolute-value modifier.
func EmitAluOp3(sh Shader, opcode AluOp, d value.DestSpec, s [3]value.SrcSpec, shuffle [3]int) {
    vf := sh.ValueFactory()

    var src [3]*value.SrcSpec
    for j := 0; j < 3; j++ {
        src[j] = &s[shuffle[j]]
        if src[j].Abs {
            panic("alu: three-source operation with absolute-value modifier")
        }
    }

    pin := d.DefaultPin()
    var ir *AluInstr
    for i := 0; i < d.NumComponents; i++ {
        if d.WriteMask & (1 << i) == 0 {
            continue
        }
        ir = NewAluInstrOp3(opcode, vf.Dest(d, i, pin),
                            vf.Src(*src[0], i), vf.Src(*src[1], i), vf.Src(*src[2], i),
                            FlagsWrite)

        for j := 0; j < 3; j++ {
            if src[j].Negate {
                ir.SetFlag(srcNegFlags[j])
            }
        }
        if d.Saturate {
            ir.SetFlag(FlagDstClamp)
        }
        sh.EmitInstruction(ir)
    }
    if ir != nil {
        ir.SetFlag(FlagLastInstr)
    }
}

// EmitAluB2X converts a boolean (0 or ~0) into the target type by masking
// with the matching inline constant for one.
func EmitAluB2X(sh Shader, d value.DestSpec, s0 value.SrcSpec, maskSel int) {
    vf := sh.ValueFactory()
    pin := d.DefaultPin()

    var ir *AluInstr
    for i := 0; i < d.NumComponents; i++ {
        if d.WriteMask & (1 << i) == 0 {
            continue
        }
        ir = NewAluInstrOp2(Op2AndInt, vf.Dest(d, i, pin), vf.Src(s0, i), vf.InlineConst(maskSel, 0), FlagsWrite)
        if s0.Negate {
            ir.SetFlag(FlagSrc0Neg)
        }
        if s0.Abs {
            ir.SetFlag(FlagSrc0Abs)
        }
        sh.EmitInstruction(ir)
    }
    if ir != nil {
        ir.SetFlag(FlagLastInstr)
    }
}

// EmitAnyAllFComp2 reduces a two-component float comparison to a single
// boolean: compare per channel, then AND (all) or OR (any) the results.
func EmitAnyAllFComp2(sh Shader, opcode AluOp, d value.DestSpec, s0 value.SrcSpec, s1 value.SrcSpec) {
    vf := sh.ValueFactory()

    var tmp [2]*value.Register
    tmp[0] = vf.Temp(value.PinFree)
    tmp[1] = vf.Temp(value.PinFree)

    var ir *AluInstr
    for i := 0; i < 2; i++ {
        ir = NewAluInstrOp2(opcode, tmp[i], vf.Src(s0, i), vf.Src(s1, i), FlagsWrite)
        if s0.Abs {
            ir.SetFlag(FlagSrc0Abs)
        }
        if s0.Negate {
            ir.SetFlag(FlagSrc0Neg)
        }
        if s1.Abs {
            ir.SetFlag(FlagSrc1Abs)
        }
        if s1.Negate {
            ir.SetFlag(FlagSrc1Neg)
        }
        sh.EmitInstruction(ir)
    }
    ir.SetFlag(FlagLastInstr)

    combine := Op2AndInt
    if opcode == Op2SetneDx10 {
        combine = Op2OrInt
    }
    ir = NewAluInstrOp2(combine, vf.Dest(d, 0, value.PinFree), tmp[0], tmp[1], FlagsLastWrite)
    sh.EmitInstruction(ir)
}

// EmitAnyAllFComp reduces an nc-component float comparison via MAX4:
// unused lanes are padded so they cannot win, and the reduced maximum is
// compared against one.
func EmitAnyAllFComp(sh Shader, op AluOp, d value.DestSpec, s0 value.SrcSpec, s1 value.SrcSpec, nc int, all bool) {
    vf := sh.ValueFactory()

    v := vf.TempVec4(value.PinGroup)

    var s []value.VirtualValue
    for i := 0; i < nc; i++ {
        s = append(s, v[i])
    }
    for i := nc; i < 4; i++ {
        if all {
            s = append(s, vf.One())
        } else {
            s = append(s, vf.Zero())
        }
    }

    var ir *AluInstr
    for i := 0; i < nc; i++ {
        ir = NewAluInstrOp2(op, v[i], vf.Src(s0, i), vf.Src(s1, i), FlagsWrite)
        if s0.Abs {
            ir.SetFlag(FlagSrc0Abs)
        }
        if s0.Negate {
            ir.SetFlag(FlagSrc0Neg)
        }
        if s1.Abs {
            ir.SetFlag(FlagSrc1Abs)
        }
        if s1.Negate {
            ir.SetFlag(FlagSrc1Neg)
        }
        sh.EmitInstruction(ir)
    }
    if ir != nil {
        ir.SetFlag(FlagLastInstr)
    }

    maxVal := vf.Temp(value.PinFree)
    ir = NewAluInstr(Op1Max4, maxVal, s, FlagsLastWrite, 4)
    if all {
        ir.SetFlag(FlagSrc0Neg)
    }
    sh.EmitInstruction(ir)

    if all {
        if op == Op2Sete {
            op = Op2SeteDx10
        } else {
            op = Op2SetneDx10
        }
    } else {
        if op == Op2Sete {
            op = Op2SetneDx10
        } else {
            op = Op2SeteDx10
        }
    }

    ir = NewAluInstrOp2(op, vf.Dest(d, 0, value.PinFree), maxVal, vf.One(), FlagsLastWrite)
    if all {
        ir.SetFlag(FlagSrc1Neg)
    }
    sh.EmitInstruction(ir)
}

// EmitAnyAllIComp reduces an nc-component integer comparison with a tree
// of AND (all) or OR (any) combines.
func EmitAnyAllIComp(sh Shader, op AluOp, d value.DestSpec, s0 value.SrcSpec, s1 value.SrcSpec, nc int, all bool) {
    if s0.Abs || s0.Negate || s1.Abs || s1.Negate {
        panic("alu: integer comparison with float source modifiers")
    }

    vf := sh.ValueFactory()

    var v [6]*value.Register
    dest := vf.Dest(d, 0, value.PinFree)

    for i := 0; i < nc + nc / 2; i++ {
        v[i] = vf.Temp(value.PinFree)
    }

    combine := Op2OrInt
    if all {
        combine = Op2AndInt
    }

    var ir *AluInstr
    for i := 0; i < nc; i++ {
        ir = NewAluInstrOp2(op, v[i], vf.Src(s0, i), vf.Src(s1, i), FlagsWrite)
        sh.EmitInstruction(ir)
    }
    if ir != nil {
        ir.SetFlag(FlagLastInstr)
    }

    switch nc {
        case 2:
            sh.EmitInstruction(NewAluInstrOp2(combine, dest, v[0], v[1], FlagsLastWrite))
        case 3:
            sh.EmitInstruction(NewAluInstrOp2(combine, v[3], v[0], v[1], FlagsLastWrite))
            sh.EmitInstruction(NewAluInstrOp2(combine, dest, v[3], v[2], FlagsLastWrite))
        case 4:
            sh.EmitInstruction(NewAluInstrOp2(combine, v[4], v[0], v[1], FlagsWrite))
            sh.EmitInstruction(NewAluInstrOp2(combine, v[5], v[2], v[3], FlagsLastWrite))
            sh.EmitInstruction(NewAluInstrOp2(combine, dest, v[4], v[5], FlagsLastWrite))
        default:
            panic("alu: unsupported component count for integer reduction")
    }
}

// EmitDot lowers an n-element dot product onto the four-slot DOT4,
// zero-padding the unused element pairs.
func EmitDot(sh Shader, d value.DestSpec, s0 value.SrcSpec, s1 value.SrcSpec, n int) {
    vf := sh.ValueFactory()
    dest := vf.Dest(d, 0, value.PinFree)

    srcs := make([]value.VirtualValue, 8)
    for i := 0; i < n; i++ {
        srcs[2*i] = vf.Src(s0, i)
        srcs[2*i+1] = vf.Src(s1, i)
    }
    for i := n; i < 4; i++ {
        srcs[2*i] = vf.Zero()
        srcs[2*i+1] = vf.Zero()
    }

    op := Op2Dot4Ieee
    if sh.HasFlag(isa.ShLegacyMathRules) {
        op = Op2Dot4
    }

    ir := NewAluInstr(op, dest, srcs, FlagsLastWrite, 4)
    applyDotMods(ir, s0, s1, d)
    sh.EmitInstruction(ir)
}

// EmitFdph lowers the homogeneous dot product: three element pairs plus
// 1.0 * src1.w.
func EmitFdph(sh Shader, d value.DestSpec, s0 value.SrcSpec, s1 value.SrcSpec) {
    vf := sh.ValueFactory()
    dest := vf.Dest(d, 0, value.PinFree)

    srcs := make([]value.VirtualValue, 8)
    for i := 0; i < 3; i++ {
        srcs[2*i] = vf.Src(s0, i)
        srcs[2*i+1] = vf.Src(s1, i)
    }
    srcs[6] = vf.One()
    srcs[7] = vf.Src(s1, 3)

    op := Op2Dot4Ieee
    if sh.HasFlag(isa.ShLegacyMathRules) {
        op = Op2Dot4
    }

    ir := NewAluInstr(op, dest, srcs, FlagsLastWrite, 4)
    applyDotMods(ir, s0, s1, d)
    sh.EmitInstruction(ir)
}

func applyDotMods(ir *AluInstr, s0 value.SrcSpec, s1 value.SrcSpec, d value.DestSpec) {
    if s0.Negate {
        ir.SetFlag(FlagSrc0Neg)
    }
    if s0.Abs {
        ir.SetFlag(FlagSrc0Abs)
    }
    if s1.Negate {
        ir.SetFlag(FlagSrc1Neg)
    }
    if s1.Abs {
        ir.SetFlag(FlagSrc1Abs)
    }
    if d.Saturate {
        ir.SetFlag(FlagDstClamp)
    }
}

// EmitCreateVec assembles a vector from per-component scalar sources with
// channel-pinned moves.
func EmitCreateVec(sh Shader, d value.DestSpec, srcs []value.SrcSpec) {
    vf := sh.ValueFactory()

    var ir *AluInstr
    for i := range srcs {
        if d.WriteMask & (1 << i) == 0 {
            continue
        }
        ir = NewAluInstrOp1(Op1Mov, vf.Dest(d, i, value.PinChan), vf.Src(srcs[i], 0), FlagsWrite)

        if d.Saturate {
            ir.SetFlag(FlagDstClamp)
        }
        if srcs[i].Negate {
            ir.SetFlag(FlagSrc0Neg)
        }
        if srcs[i].Abs {
            ir.SetFlag(FlagSrc0Abs)
        }
        sh.EmitInstruction(ir)
    }
    if ir != nil {
        ir.SetFlag(FlagLastInstr)
    }
}

// EmitAluI2OrF2B1 compares each component against zero with the source on
// the left.
func EmitAluI2OrF2B1(sh Shader, opcode AluOp, d value.DestSpec, s0 value.SrcSpec) {
    vf := sh.ValueFactory()

    pin := value.PinNone
    if d.NumComponents == 1 {
        pin = value.PinFree
    }

    var ir *AluInstr
    for i := 0; i < 4; i++ {
        if d.WriteMask & (1 << i) == 0 {
            continue
        }
        ir = NewAluInstrOp2(opcode, vf.Dest(d, i, pin), vf.Src(s0, i), vf.Zero(), FlagsWrite)
        sh.EmitInstruction(ir)
    }
    if ir != nil {
        ir.SetFlag(FlagLastInstr)
    }
}

// EmitAluCombWithZero compares each component against zero with zero on
// the left (for ops where the hardware argument order is fixed).
func EmitAluCombWithZero(sh Shader, opcode AluOp, d value.DestSpec, s0 value.SrcSpec) {
    vf := sh.ValueFactory()
    pin := d.DefaultPin()

    var ir *AluInstr
    for i := 0; i < 4; i++ {
        if d.WriteMask & (1 << i) == 0 {
            continue
        }
        ir = NewAluInstrOp2(opcode, vf.Dest(d, i, pin), vf.Zero(), vf.Src(s0, i), FlagsWrite)
        sh.EmitInstruction(ir)
    }
    if ir != nil {
        ir.SetFlag(FlagLastInstr)
    }
}

// EmitAluTransOp1EG lowers a transcendental single-source operation for
// chips with a dedicated transcendental slot; every component ends its own
// instruction group.
func EmitAluTransOp1EG(sh Shader, opcode AluOp, d value.DestSpec, s0 value.SrcSpec) {
    vf := sh.ValueFactory()
    pin := d.DefaultPin()

    for i := 0; i < d.NumComponents; i++ {
        if d.WriteMask & (1 << i) == 0 {
            continue
        }
        ir := NewAluInstrOp1(opcode, vf.Dest(d, i, pin), vf.Src(s0, i), FlagsLastWrite)
        if s0.Negate {
            ir.SetFlag(FlagSrc0Neg)
        }
        if s0.Abs {
            ir.SetFlag(FlagSrc0Abs)
        }
        if d.Saturate {
            ir.SetFlag(FlagDstClamp)
        }
        ir.SetFlag(FlagIsTrans)
        sh.EmitInstruction(ir)
    }
}

// EmitAluTransOp1Cayman lowers a transcendental single-source operation on
// cayman, which has no transcendental slot and instead replicates the
// computation across the vector slots.
func EmitAluTransOp1Cayman(sh Shader, opcode AluOp, d value.DestSpec, s0 value.SrcSpec) {
    vf := sh.ValueFactory()
    pin := d.DefaultPin()

    ncomp := 3
    if d.NumComponents == 4 {
        ncomp = 4
    }

    for j := 0; j < ncomp; j++ {
        if d.WriteMask & (1 << j) == 0 {
            continue
        }
        srcs := make([]value.VirtualValue, ncomp)
        dest := vf.Dest(d, j, pin)

        for i := 0; i < ncomp; i++ {
            srcs[i] = vf.Src(s0, j)
        }

        ir := NewAluInstr(opcode, dest, srcs, FlagsLastWrite, ncomp)
        if s0.Abs {
            ir.SetFlag(FlagSrc0Abs)
        }
        if s0.Negate {
            ir.SetFlag(FlagSrc0Neg)
        }
        if d.Saturate {
            ir.SetFlag(FlagDstClamp)
        }
        ir.SetFlag(FlagIsCaymanTrans)
        sh.EmitInstruction(ir)
    }
}

// EmitAluTransOp2EG lowers a transcendental two-source operation with a
// dedicated transcendental slot.
func EmitAluTransOp2EG(sh Shader, opcode AluOp, d value.DestSpec, s0 value.SrcSpec, s1 value.SrcSpec) {
    vf := sh.ValueFactory()
    pin := d.DefaultPin()

    for i := 0; i < 4; i++ {
        if d.WriteMask & (1 << i) == 0 {
            continue
        }
        ir := NewAluInstrOp2(opcode, vf.Dest(d, i, pin), vf.Src(s0, i), vf.Src(s1, i), FlagsLastWrite)
        if s0.Negate {
            ir.SetFlag(FlagSrc0Neg)
        }
        if s0.Abs {
            ir.SetFlag(FlagSrc0Abs)
        }
        if s1.Negate {
            ir.SetFlag(FlagSrc1Neg)
        }
        if s1.Abs {
            ir.SetFlag(FlagSrc1Abs)
        }
        if d.Saturate {
            ir.SetFlag(FlagDstClamp)
        }
        ir.SetFlag(FlagIsTrans)
        sh.EmitInstruction(ir)
    }
}

// EmitAluTransOp2Cayman lowers a transcendental two-source operation on
// cayman by replicating the operand pair over all four slots.
func EmitAluTransOp2Cayman(sh Shader, opcode AluOp, d value.DestSpec, s0 value.SrcSpec, s1 value.SrcSpec) {
    vf := sh.ValueFactory()
    const lastSlot = 4

    for k := 0; k < d.NumComponents; k++ {
        if d.WriteMask & (1 << k) == 0 {
            continue
        }
        srcs := make([]value.VirtualValue, 2 * lastSlot)
        dest := vf.Dest(d, k, value.PinFree)

        for i := 0; i < lastSlot; i++ {
            srcs[2*i] = vf.Src(s0, k)
            srcs[2*i+1] = vf.Src(s1, k)
        }

        ir := NewAluInstr(opcode, dest, srcs, FlagsLastWrite, lastSlot)
        if s0.Negate {
            ir.SetFlag(FlagSrc0Neg)
        }
        if s0.Abs {
            ir.SetFlag(FlagSrc0Abs)
        }
        if s1.Negate {
            ir.SetFlag(FlagSrc1Neg)
        }
        if s1.Abs {
            ir.SetFlag(FlagSrc1Abs)
        }
        if d.Saturate {
            ir.SetFlag(FlagDstClamp)
        }
        ir.SetFlag(FlagIsCaymanTrans)
        sh.EmitInstruction(ir)
    }
}

// EmitAluF2I32OrU32EG converts float to integer in two steps: truncate,
// then convert. The unsigned conversion runs on the transcendental unit.
func EmitAluF2I32OrU32EG(sh Shader, opcode AluOp, d value.DestSpec, s0 value.SrcSpec) {
    vf := sh.ValueFactory()

    var reg [4]*value.Register
    numComp := d.NumComponents

    var ir *AluInstr
    for i := 0; i < numComp; i++ {
        reg[i] = vf.Temp(value.PinFree)
        ir = NewAluInstrOp1(Op1Trunc, reg[i], vf.Src(s0, i), FlagsLastWrite)
        if s0.Abs {
            ir.SetFlag(FlagSrc0Abs)
        }
        if s0.Negate {
            ir.SetFlag(FlagSrc0Neg)
        }
        sh.EmitInstruction(ir)
    }

    pin := d.DefaultPin()
    for i := 0; i < numComp; i++ {
        ir = NewAluInstrOp1(opcode, vf.Dest(d, i, pin), reg[i], FlagsWrite)
        if opcode == Op1FltToUint {
            ir.SetFlag(FlagIsTrans)
            ir.SetFlag(FlagLastInstr)
        }
        sh.EmitInstruction(ir)
    }
    ir.SetFlag(FlagLastInstr)
}

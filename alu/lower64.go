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

// Doubles live in adjacent channel pairs, low word first. Most 64-bit
// hardware ops want the high word in the first operand slot, so the
// lowering below frequently swaps the halves.

import (
    `github.com/shaderkit/r600sfn/value`
)

// EmitAluMov64 copies a 64-bit value word by word. The sign modifiers
// apply to the high word only.
func EmitAluMov64(sh Shader, d value.DestSpec, s0 value.SrcSpec) {
    vf := sh.ValueFactory()

    var ir *AluInstr
    for i := 0; i < d.NumComponents; i++ {
        for c := 0; c < 2; c++ {
            ir = NewAluInstrOp1(Op1Mov, vf.Dest(d, 2*i+c, value.PinFree), vf.Src64(s0, i, c), FlagsWrite)
            sh.EmitInstruction(ir)
        }
        if s0.Abs {
            ir.SetFlag(FlagSrc0Abs)
        }
        if s0.Negate {
            ir.SetFlag(FlagSrc0Neg)
        }
    }
    if ir != nil {
        ir.SetFlag(FlagLastInstr)
    }
}

// EmitAluNeg64 negates by flipping the sign bit of the high word.
func EmitAluNeg64(sh Shader, d value.DestSpec, s0 value.SrcSpec) {
    vf := sh.ValueFactory()
    group := NewAluGroup()

    var ir *AluInstr
    for i := 0; i < d.NumComponents; i++ {
        for c := 0; c < 2; c++ {
            ir = NewAluInstrOp1(Op1Mov, vf.Dest(d, 2*i+c, value.PinChan), vf.Src64(s0, i, c), FlagsWrite)
            group.AddInstruction(ir)
        }
        ir.SetFlag(FlagSrc0Neg)
    }
    if ir != nil {
        ir.SetFlag(FlagLastInstr)
    }
    sh.EmitInstruction(group)
}

// EmitAluAbs64 clears the sign bit of the high word.
func EmitAluAbs64(sh Shader, d value.DestSpec, s0 value.SrcSpec) {
    vf := sh.ValueFactory()

    if d.NumComponents != 1 {
        panic("alu: 64-bit abs expects a scalar destination")
    }

    sh.EmitInstruction(NewAluInstrOp1(Op1Mov, vf.Dest(d, 0, value.PinChan), vf.Src64(s0, 0, 0), FlagsWrite))

    ir := NewAluInstrOp1(Op1Mov, vf.Dest(d, 1, value.PinChan), vf.Src64(s0, 0, 1), FlagsLastWrite)
    ir.SetFlag(FlagSrc0Abs)
    sh.EmitInstruction(ir)
}

// EmitAluOp1_64 lowers a componentwise 64-bit single-source operation;
// switchChan feeds the halves in swapped order for ops that want the high
// word first.
func EmitAluOp1_64(sh Shader, opcode AluOp, d value.DestSpec, s0 value.SrcSpec, switchChan bool) {
    vf := sh.ValueFactory()
    group := NewAluGroup()

    swz := [2]int{0, 1}
    if switchChan {
        swz[0], swz[1] = 1, 0
    }

    var ir *AluInstr
    for i := 0; i < d.NumComponents; i++ {
        ir = NewAluInstrOp1(opcode, vf.Dest(d, 2*i, value.PinChan), vf.Src64(s0, i, swz[0]), FlagsWrite)
        group.AddInstruction(ir)
        if s0.Abs {
            ir.SetFlag(FlagSrc0Abs)
        }
        if s0.Negate {
            ir.SetFlag(FlagSrc0Neg)
        }

        ir = NewAluInstrOp1(opcode, vf.Dest(d, 2*i+1, value.PinChan), vf.Src64(s0, i, swz[1]), FlagsWrite)
        group.AddInstruction(ir)
    }
    if ir != nil {
        ir.SetFlag(FlagLastInstr)
    }
    sh.EmitInstruction(group)
}

// EmitAluOp2_64 lowers a 64-bit two-source operation onto a slot group.
// Both operand slots take the high words first, then the low words; the
// 64-bit multiply needs three high-word issues before the low word.
func EmitAluOp2_64(sh Shader, opcode AluOp, d value.DestSpec, s0 value.SrcSpec, s1 value.SrcSpec, switchSrc bool) {
    vf := sh.ValueFactory()
    group := NewAluGroup()

    order := [2]int{0, 1}
    if switchSrc {
        order[0], order[1] = 1, 0
    }
    srcs := [2]*value.SrcSpec{&s0, &s1}

    numEmit0 := 1
    if opcode == Op2Mul64 {
        numEmit0 = 3
    }
    if numEmit0 != 1 && d.NumComponents != 1 {
        panic("alu: 64-bit multiply expects a scalar destination")
    }

    src0Abs, src1Abs := FlagSrc0Abs, FlagSrc1Abs
    src0Neg, src1Neg := FlagSrc0Neg, FlagSrc1Neg
    if switchSrc {
        src0Abs, src1Abs = src1Abs, src0Abs
        src0Neg, src1Neg = src1Neg, src0Neg
    }

    var ir *AluInstr
    for k := 0; k < d.NumComponents; k++ {
        i := 0
        for ; i < numEmit0; i++ {
            var dest value.PRegister
            flags := FlagsEmpty
            if i < 2 {
                dest = vf.Dest(d, i, value.PinChan)
                flags = FlagsWrite
            } else {
                dest = vf.DummyDest(i)
            }

            ir = NewAluInstrOp2(opcode, dest,
                                vf.Src64(*srcs[order[0]], k, 1),
                                vf.Src64(*srcs[order[1]], k, 1),
                                flags)

            if s0.Abs {
                ir.SetFlag(src0Abs)
            }
            if s1.Abs {
                ir.SetFlag(src1Abs)
            }
            if s0.Negate {
                ir.SetFlag(src0Neg)
            }
            if s1.Negate {
                ir.SetFlag(src1Neg)
            }
            if d.Saturate && i == 0 {
                ir.SetFlag(FlagDstClamp)
            }
            group.AddInstruction(ir)
        }

        var dest value.PRegister
        flags := FlagsEmpty
        if i == 1 {
            dest = vf.Dest(d, i, value.PinChan)
            flags = FlagsWrite
        } else {
            dest = vf.DummyDest(i)
        }
        ir = NewAluInstrOp2(opcode, dest,
                            vf.Src64(*srcs[order[0]], k, 0),
                            vf.Src64(*srcs[order[1]], k, 0),
                            flags)
        group.AddInstruction(ir)
    }
    if ir != nil {
        ir.SetFlag(FlagLastInstr)
    }
    sh.EmitInstruction(group)
}

// EmitAluOp2_64OneDst lowers a 64-bit two-source operation with a single
// 32-bit result (the comparisons) as one fused two-slot instruction.
func EmitAluOp2_64OneDst(sh Shader, opcode AluOp, d value.DestSpec, s0 value.SrcSpec, s1 value.SrcSpec, switchOrder bool) {
    vf := sh.ValueFactory()

    order := [2]int{0, 1}
    if switchOrder {
        order[0], order[1] = 1, 0
    }
    srcs := [2]*value.SrcSpec{&s0, &s1}

    src0Abs, src1Abs := FlagSrc0Abs, FlagSrc1Abs
    src0Neg, src1Neg := FlagSrc0Neg, FlagSrc1Neg
    if switchOrder {
        src0Abs, src1Abs = src1Abs, src0Abs
        src0Neg, src1Neg = src1Neg, src0Neg
    }

    var ir *AluInstr
    for k := 0; k < d.NumComponents; k++ {
        src := []value.VirtualValue{
            vf.Src64(*srcs[order[0]], k, 1),
            vf.Src64(*srcs[order[1]], k, 1),
            vf.Src64(*srcs[order[0]], k, 0),
            vf.Src64(*srcs[order[1]], k, 0),
        }

        ir = NewAluInstr(opcode, vf.Dest(d, 2*k, value.PinChan), src, FlagsWrite, 2)

        if s0.Abs {
            ir.SetFlag(src0Abs)
        }
        if s1.Abs {
            ir.SetFlag(src1Abs)
        }
        if s0.Negate {
            ir.SetFlag(src0Neg)
        }
        if s1.Negate {
            ir.SetFlag(src1Neg)
        }
        ir.SetFlag(Flag64Bit)
        sh.EmitInstruction(ir)
    }
    if ir != nil {
        ir.SetFlag(FlagLastInstr)
    }
}

// EmitAluOp1Trans64 lowers a 64-bit transcendental. The hardware op takes
// the high and low words as two separate operands and needs a third issue
// whose result is discarded; SQRT_64 flushes negative inputs through the
// absolute value of the high word.
func EmitAluOp1Trans64(sh Shader, opcode AluOp, d value.DestSpec, s0 value.SrcSpec) {
    vf := sh.ValueFactory()
    group := NewAluGroup()

    var ir *AluInstr
    for i := 0; i < 3; i++ {
        var dest value.PRegister
        flags := FlagsEmpty
        if i < 2 {
            dest = vf.Dest(d, i, value.PinChan)
            flags = FlagsWrite
        } else {
            dest = vf.DummyDest(i)
        }

        ir = NewAluInstrOp2(opcode, dest, vf.Src64(s0, 0, 1), vf.Src64(s0, 0, 0), flags)

        if s0.Abs || opcode == Op1Sqrt64 {
            ir.SetFlag(FlagSrc1Abs)
        }
        if s0.Negate {
            ir.SetFlag(FlagSrc1Neg)
        }
        group.AddInstruction(ir)
    }
    if ir != nil {
        ir.SetFlag(FlagLastInstr)
    }
    sh.EmitInstruction(group)
}

// EmitAluFma64 lowers a 64-bit fused multiply-add: three high-word issues
// and one low-word issue, result in the first two slots.
func EmitAluFma64(sh Shader, opcode AluOp, d value.DestSpec, s [3]value.SrcSpec) {
    vf := sh.ValueFactory()
    group := NewAluGroup()

    var ir *AluInstr
    for i := 0; i < 4; i++ {
        chn := 0
        if i < 3 {
            chn = 1
        }

        var dest value.PRegister
        flags := FlagsEmpty
        if i < 2 {
            dest = vf.Dest(d, i, value.PinChan)
            flags = FlagsWrite
        } else {
            dest = vf.DummyDest(i)
        }

        ir = NewAluInstrOp3(opcode, dest,
                            vf.Src64(s[0], 0, chn),
                            vf.Src64(s[1], 0, chn),
                            vf.Src64(s[2], 0, chn),
                            flags)

        if i < 3 {
            for j := 0; j < 3; j++ {
                if s[j].Negate {
                    ir.SetFlag(srcNegFlags[j])
                }
            }
        }
        group.AddInstruction(ir)
    }
    if ir != nil {
        ir.SetFlag(FlagLastInstr)
    }
    sh.EmitInstruction(group)
}

// EmitAluB2F64 converts a boolean to 0.0 or 1.0 in double precision by
// masking the exponent pattern into the high word.
func EmitAluB2F64(sh Shader, d value.DestSpec, s0 value.SrcSpec) {
    vf := sh.ValueFactory()
    group := NewAluGroup()

    var ir *AluInstr
    for i := 0; i < d.NumComponents; i++ {
        ir = NewAluInstrOp2(Op2AndInt, vf.Dest(d, 2*i, value.PinGroup), vf.Src(s0, i), vf.Zero(), FlagsWrite)
        group.AddInstruction(ir)

        ir = NewAluInstrOp2(Op2AndInt, vf.Dest(d, 2*i+1, value.PinGroup), vf.Src(s0, i), vf.Literal(0x3ff00000), FlagsWrite)
        group.AddInstruction(ir)
    }
    if ir != nil {
        ir.SetFlag(FlagLastInstr)
    }
    sh.EmitInstruction(group)
}

// EmitAluI2F64 converts a 32-bit integer to a double. The input is split
// into a high and a low byte group so each part converts exactly to float,
// then the two doubles are summed.
func EmitAluI2F64(sh Shader, op AluOp, d value.DestSpec, s0 value.SrcSpec) {
    vf := sh.ValueFactory()
    group := NewAluGroup()

    if d.NumComponents != 1 {
        panic("alu: int to double expects a scalar destination")
    }

    tmpx := vf.Temp(value.PinFree)
    sh.EmitInstruction(NewAluInstrOp2(Op2AndInt, tmpx, vf.Src(s0, 0), vf.Literal(0xffffff00), FlagsWrite))
    tmpy := vf.Temp(value.PinFree)
    sh.EmitInstruction(NewAluInstrOp2(Op2AndInt, tmpy, vf.Src(s0, 0), vf.Literal(0xff), FlagsLastWrite))

    tmpx2 := vf.Temp(value.PinFree)
    tmpy2 := vf.Temp(value.PinFree)
    sh.EmitInstruction(NewAluInstrOp1(op, tmpx2, tmpx, FlagsLastWrite))
    sh.EmitInstruction(NewAluInstrOp1(op, tmpy2, tmpy, FlagsLastWrite))

    tmpx3 := vf.TempChan(0, value.PinChan)
    tmpy3 := vf.TempChan(1, value.PinChan)
    tmpz3 := vf.TempChan(2, value.PinChan)
    tmpw3 := vf.TempChan(3, value.PinChan)

    group.AddInstruction(NewAluInstrOp1(Op1Flt32ToFlt64, tmpx3, tmpx2, FlagsWrite))
    group.AddInstruction(NewAluInstrOp1(Op1Flt32ToFlt64, tmpy3, vf.Zero(), FlagsWrite))
    group.AddInstruction(NewAluInstrOp1(Op1Flt32ToFlt64, tmpz3, tmpy2, FlagsWrite))
    group.AddInstruction(NewAluInstrOp1(Op1Flt32ToFlt64, tmpw3, vf.Zero(), FlagsLastWrite))
    sh.EmitInstruction(group)

    group = NewAluGroup()
    group.AddInstruction(NewAluInstrOp2(Op2Add64, vf.Dest(d, 0, value.PinChan), tmpy3, tmpw3, FlagsWrite))
    group.AddInstruction(NewAluInstrOp2(Op2Add64, vf.Dest(d, 1, value.PinChan), tmpx3, tmpz3, FlagsWrite))
    sh.EmitInstruction(group)
}

// EmitAluF2F64 widens a float; the low word of the result is the
// conversion of zero.
func EmitAluF2F64(sh Shader, d value.DestSpec, s0 value.SrcSpec) {
    vf := sh.ValueFactory()
    group := NewAluGroup()

    if d.NumComponents != 1 {
        panic("alu: float widening expects a scalar destination")
    }

    group.AddInstruction(NewAluInstrOp1(Op1Flt32ToFlt64, vf.Dest(d, 0, value.PinChan), vf.Src(s0, 0), FlagsWrite))
    group.AddInstruction(NewAluInstrOp1(Op1Flt32ToFlt64, vf.Dest(d, 1, value.PinChan), vf.Zero(), FlagsLastWrite))
    sh.EmitInstruction(group)
}

// EmitAluF2F32 narrows a double. The op consumes both words across two
// slots; only the first slot's result is kept.
func EmitAluF2F32(sh Shader, d value.DestSpec, s0 value.SrcSpec) {
    vf := sh.ValueFactory()
    group := NewAluGroup()

    group.AddInstruction(NewAluInstrOp1(Op1Flt64ToFlt32, vf.Dest(d, 0, value.PinChan), vf.Src64(s0, 0, 1), FlagsWrite))
    group.AddInstruction(NewAluInstrOp1(Op1Flt64ToFlt32, vf.DummyDest(1), vf.Src64(s0, 0, 0), FlagsLast))
    sh.EmitInstruction(group)
}

// EmitAluVec2_64 packs two doubles into the four channels of one vec4.
func EmitAluVec2_64(sh Shader, d value.DestSpec, s0 value.SrcSpec, s1 value.SrcSpec) {
    vf := sh.ValueFactory()

    var ir *AluInstr
    for i := 0; i < 2; i++ {
        ir = NewAluInstrOp1(Op1Mov, vf.Dest(d, i, value.PinChan), vf.Src64(s0, 0, i), FlagsWrite)
        sh.EmitInstruction(ir)
    }
    for i := 0; i < 2; i++ {
        ir = NewAluInstrOp1(Op1Mov, vf.Dest(d, i+2, value.PinChan), vf.Src64(s1, 1, i), FlagsWrite)
        sh.EmitInstruction(ir)
    }
    ir.SetFlag(FlagLastInstr)
}

// EmitPack64_2x32Split packs two 32-bit values into a 64-bit pair.
func EmitPack64_2x32Split(sh Shader, d value.DestSpec, s0 value.SrcSpec, s1 value.SrcSpec) {
    vf := sh.ValueFactory()
    srcs := [2]value.SrcSpec{s0, s1}

    var ir *AluInstr
    for i := 0; i < 2; i++ {
        ir = NewAluInstrOp1(Op1Mov, vf.Dest(d, i, value.PinNone), vf.Src(srcs[i], 0), FlagsWrite)
        sh.EmitInstruction(ir)
    }
    ir.SetFlag(FlagLastInstr)
}

// EmitPack64_2x32 packs a two-component vector into a 64-bit pair.
func EmitPack64_2x32(sh Shader, d value.DestSpec, s0 value.SrcSpec) {
    vf := sh.ValueFactory()

    var ir *AluInstr
    for i := 0; i < 2; i++ {
        ir = NewAluInstrOp1(Op1Mov, vf.Dest(d, i, value.PinNone), vf.Src(s0, i), FlagsWrite)
        sh.EmitInstruction(ir)
    }
    ir.SetFlag(FlagLastInstr)
}

// EmitUnpack64_2x32 unpacks a 64-bit pair into a two-component vector.
func EmitUnpack64_2x32(sh Shader, d value.DestSpec, s0 value.SrcSpec) {
    vf := sh.ValueFactory()

    var ir *AluInstr
    for i := 0; i < 2; i++ {
        ir = NewAluInstrOp1(Op1Mov, vf.Dest(d, i, value.PinNone), vf.Src64(s0, 0, i), FlagsWrite)
        sh.EmitInstruction(ir)
    }
    ir.SetFlag(FlagLastInstr)
}

// EmitUnpack64_2x32Split extracts one word of a 64-bit pair.
func EmitUnpack64_2x32Split(sh Shader, d value.DestSpec, s0 value.SrcSpec, comp int) {
    vf := sh.ValueFactory()
    sh.EmitInstruction(NewAluInstrOp1(Op1Mov, vf.Dest(d, 0, value.PinFree), vf.Src64(s0, 0, comp), FlagsLastWrite))
}

// EmitPack32_2x16Split packs two half floats into one 32-bit word.
func EmitPack32_2x16Split(sh Shader, d value.DestSpec, s0 value.SrcSpec, s1 value.SrcSpec) {
    vf := sh.ValueFactory()

    x := vf.Temp(value.PinFree)
    y := vf.Temp(value.PinFree)
    yy := vf.Temp(value.PinFree)

    sh.EmitInstruction(NewAluInstrOp1(Op1Flt32ToFlt16, x, vf.Src(s0, 0), FlagsLastWrite))
    sh.EmitInstruction(NewAluInstrOp1(Op1Flt32ToFlt16, y, vf.Src(s1, 0), FlagsLastWrite))
    sh.EmitInstruction(NewAluInstrOp2(Op2LshlInt, yy, y, vf.Literal(16), FlagsLastWrite))
    sh.EmitInstruction(NewAluInstrOp2(Op2OrInt, vf.Dest(d, 0, value.PinFree), x, yy, FlagsLastWrite))
}

// EmitUnpack32_2x16SplitX extracts the low half float of a 32-bit word.
func EmitUnpack32_2x16SplitX(sh Shader, d value.DestSpec, s0 value.SrcSpec) {
    vf := sh.ValueFactory()
    sh.EmitInstruction(NewAluInstrOp1(Op1Flt16ToFlt32, vf.Dest(d, 0, value.PinFree), vf.Src(s0, 0), FlagsLastWrite))
}

// EmitUnpack32_2x16SplitY extracts the high half float of a 32-bit word.
func EmitUnpack32_2x16SplitY(sh Shader, d value.DestSpec, s0 value.SrcSpec) {
    vf := sh.ValueFactory()
    tmp := vf.Temp(value.PinFree)
    sh.EmitInstruction(NewAluInstrOp2(Op2LshrInt, tmp, vf.Src(s0, 0), vf.Literal(16), FlagsLastWrite))
    sh.EmitInstruction(NewAluInstrOp1(Op1Flt16ToFlt32, vf.Dest(d, 0, value.PinFree), tmp, FlagsLastWrite))
}

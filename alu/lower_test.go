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
    `testing`

    `github.com/stretchr/testify/require`
    `github.com/shaderkit/r600sfn/isa`
    `github.com/shaderkit/r600sfn/value`
)

// emitSink collects lowered instructions without running any pass over
// them.
type emitSink struct {
    chip  isa.ChipClass
    flags uint32
    vf    *value.Factory
    out   []Instr
}

func newEmitSink(chip isa.ChipClass, flags ...isa.ShaderFlag) *emitSink {
    s := &emitSink{chip: chip, vf: value.NewFactory()}
    for _, f := range flags {
        s.flags |= 1 << f
    }
    return s
}

func (self *emitSink) ChipClass() isa.ChipClass      { return self.chip }
func (self *emitSink) HasFlag(f isa.ShaderFlag) bool { return self.flags & (1 << f) != 0 }
func (self *emitSink) ValueFactory() *value.Factory  { return self.vf }
func (self *emitSink) EmitInstruction(i Instr)       { self.out = append(self.out, i) }

func (self *emitSink) alu(k int) *AluInstr {
    i, ok := self.out[k].(*AluInstr)
    if !ok {
        panic("emitted instruction is not a plain ALU instruction")
    }
    return i
}

func (self *emitSink) group(k int) *AluGroup {
    g, ok := self.out[k].(*AluGroup)
    if !ok {
        panic("emitted instruction is not an ALU group")
    }
    return g
}

func srcVec(sh *emitSink, names ...string) value.SrcSpec {
    s := value.SrcSpec{Swizzle: value.NoSwizzle}
    for _, n := range names {
        s.Elems = append(s.Elems, sh.vf.SrcFromString(n))
    }
    return s
}

func TestEmitAluOp1(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 2, WriteMask: 0x3, SSA: true}
    s0 := srcVec(sh, "R1.x", "R1.y")
    s0.Negate = true

    /* the extra negate cancels the operand negate */
    EmitAluOp1(sh, Op1Mov, d, s0, NewFlags(FlagSrc0Neg))

    require.Len(t, sh.out, 2)
    require.False(t, sh.alu(0).HasFlag(FlagSrc0Neg))
    require.False(t, sh.alu(1).HasFlag(FlagSrc0Neg))
    require.False(t, sh.alu(0).HasFlag(FlagLastInstr))
    require.True(t, sh.alu(1).HasFlag(FlagLastInstr))
    require.Equal(t, 0, sh.alu(0).DestChan())
    require.Equal(t, 1, sh.alu(1).DestChan())
}

func TestEmitAluOp1WriteMask(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 4, WriteMask: 0xa, SSA: true}
    s0 := srcVec(sh, "R1.x", "R1.y", "R1.z", "R1.w")

    EmitAluOp1(sh, Op1Floor, d, s0, FlagsEmpty)

    require.Len(t, sh.out, 2)
    require.Equal(t, 1, sh.alu(0).DestChan())
    require.Equal(t, 3, sh.alu(1).DestChan())
}

func TestEmitAluOp2Reverse(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}
    s0 := srcVec(sh, "R1.x")
    s1 := srcVec(sh, "R2.x")

    EmitAluOp2(sh, Op2Setge, d, s0, s1, Op2OptReverse)

    require.Len(t, sh.out, 1)
    ir := sh.alu(0)
    require.True(t, ir.Src(0).EqualTo(s1.Elems[0]))
    require.True(t, ir.Src(1).EqualTo(s0.Elems[0]))
    require.False(t, ir.HasFlag(FlagSrc0Neg))
    require.False(t, ir.HasFlag(FlagSrc1Neg))
}

func TestEmitAluOp2NegSrc1(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}

    EmitAluOp2(sh, Op2Add, d, srcVec(sh, "R1.x"), srcVec(sh, "R2.x"), Op2OptNegSrc1)

    ir := sh.alu(0)
    require.True(t, ir.HasFlag(FlagSrc1Neg))
    require.True(t, ir.HasFlag(FlagLastInstr))
}

func TestEmitAluOp2IntRejectsModifiers(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}
    s0 := srcVec(sh, "R1.x")
    s1 := srcVec(sh, "R2.x")
    s1.Negate = true

    require.Panics(t, func() {
        EmitAluOp2Int(sh, Op2AddInt, d, s0, s1, Op2OptNone)
    })
}

func TestEmitAluOp3Shuffle(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}

    s := [3]value.SrcSpec{
        srcVec(sh, "R1.x"),
        srcVec(sh, "R2.x"),
        srcVec(sh, "R3.x"),
    }
    s[2].Negate = true

    EmitAluOp3(sh, Op3Muladd, d, s, [3]int{2, 0, 1})

    ir := sh.alu(0)
    require.True(t, ir.HasFlag(FlagOp3))
    require.True(t, ir.Src(0).EqualTo(s[2].Elems[0]))
    require.True(t, ir.Src(1).EqualTo(s[0].Elems[0]))
    require.True(t, ir.Src(2).EqualTo(s[1].Elems[0]))

    /* the negate modifier follows its operand through the shuffle */
    require.True(t, ir.HasFlag(FlagSrc0Neg))
    require.False(t, ir.HasFlag(FlagSrc2Neg))
}

func TestEmitAluOp3RejectsAbs(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}

    s := [3]value.SrcSpec{
        srcVec(sh, "R1.x"),
        srcVec(sh, "R2.x"),
        srcVec(sh, "R3.x"),
    }
    s[1].Abs = true

    require.Panics(t, func() {
        EmitAluOp3(sh, Op3Muladd, d, s, [3]int{0, 1, 2})
    })
}

func TestEmitDot(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}

    EmitDot(sh, d, srcVec(sh, "R1.x", "R1.y"), srcVec(sh, "R2.x", "R2.y"), 2)

    ir := sh.alu(0)
    require.Equal(t, Op2Dot4Ieee, ir.Opcode())
    require.Equal(t, 4, ir.AluSlots())
    require.Len(t, ir.Sources(), 8)

    /* unused element pairs are padded with zero */
    for i := 4; i < 8; i++ {
        require.NotNil(t, ir.Src(i).AsInlineConst())
    }
    require.True(t, ir.HasFlag(FlagWrite))
    require.True(t, ir.HasFlag(FlagLastInstr))
}

func TestEmitDotLegacyMathRules(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen, isa.ShLegacyMathRules)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}

    EmitDot(sh, d, srcVec(sh, "R1.x", "R1.y", "R1.z"), srcVec(sh, "R2.x", "R2.y", "R2.z"), 3)
    require.Equal(t, Op2Dot4, sh.alu(0).Opcode())
}

func TestEmitFdph(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}
    s1 := srcVec(sh, "R2.x", "R2.y", "R2.z", "R2.w")

    EmitFdph(sh, d, srcVec(sh, "R1.x", "R1.y", "R1.z", "R1.w"), s1)

    ir := sh.alu(0)
    require.Len(t, ir.Sources(), 8)
    require.NotNil(t, ir.Src(6).AsInlineConst())
    require.True(t, ir.Src(7).EqualTo(s1.Elems[3]))
}

func TestEmitAnyAllFComp2(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}

    EmitAnyAllFComp2(sh, Op2Sete, d, srcVec(sh, "R1.x", "R1.y"), srcVec(sh, "R2.x", "R2.y"))

    require.Len(t, sh.out, 3)
    require.Equal(t, Op2Sete, sh.alu(0).Opcode())
    require.Equal(t, Op2Sete, sh.alu(1).Opcode())
    require.True(t, sh.alu(1).HasFlag(FlagLastInstr))
    require.Equal(t, Op2AndInt, sh.alu(2).Opcode())

    /* compare results feed the combine */
    require.True(t, sh.alu(2).Src(0).EqualTo(sh.alu(0).Dest()))
    require.True(t, sh.alu(2).Src(1).EqualTo(sh.alu(1).Dest()))
}

func TestEmitAnyAllFComp2Any(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}

    EmitAnyAllFComp2(sh, Op2SetneDx10, d, srcVec(sh, "R1.x", "R1.y"), srcVec(sh, "R2.x", "R2.y"))
    require.Equal(t, Op2OrInt, sh.alu(2).Opcode())
}

func TestEmitAnyAllFComp(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}

    EmitAnyAllFComp(sh, Op2Sete, d, srcVec(sh, "R1.x", "R1.y"), srcVec(sh, "R2.x", "R2.y"), 2, true)

    /* two compares, the MAX4 reduction, the final compare against one */
    require.Len(t, sh.out, 4)

    max4 := sh.alu(2)
    require.Equal(t, Op1Max4, max4.Opcode())
    require.Equal(t, 4, max4.AluSlots())
    require.True(t, max4.HasFlag(FlagSrc0Neg))

    /* unused lanes are padded so they cannot win the reduction */
    require.NotNil(t, max4.Src(2).AsInlineConst())
    require.NotNil(t, max4.Src(3).AsInlineConst())

    final := sh.alu(3)
    require.Equal(t, Op2SeteDx10, final.Opcode())
    require.True(t, final.HasFlag(FlagSrc1Neg))
    require.NotNil(t, final.Src(1).AsInlineConst())
}

func TestEmitAnyAllFCompAny(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}

    EmitAnyAllFComp(sh, Op2Sete, d, srcVec(sh, "R1.x", "R1.y", "R1.z"), srcVec(sh, "R2.x", "R2.y", "R2.z"), 3, false)

    require.Len(t, sh.out, 5)
    final := sh.alu(4)
    require.Equal(t, Op2SetneDx10, final.Opcode())
    require.False(t, final.HasFlag(FlagSrc1Neg))
}

func TestEmitAnyAllIComp(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}

    EmitAnyAllIComp(sh, Op2SeteInt, d,
                    srcVec(sh, "R1.x", "R1.y", "R1.z", "R1.w"),
                    srcVec(sh, "R2.x", "R2.y", "R2.z", "R2.w"), 4, true)

    /* four compares and a three-node combine tree */
    require.Len(t, sh.out, 7)
    for k := 4; k < 7; k++ {
        require.Equal(t, Op2AndInt, sh.alu(k).Opcode())
    }
    require.True(t, sh.alu(6).Src(0).EqualTo(sh.alu(4).Dest()))
    require.True(t, sh.alu(6).Src(1).EqualTo(sh.alu(5).Dest()))
}

func TestEmitAnyAllICompRejectsModifiers(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}
    s0 := srcVec(sh, "R1.x", "R1.y")
    s0.Abs = true

    require.Panics(t, func() {
        EmitAnyAllIComp(sh, Op2SeteInt, d, s0, srcVec(sh, "R2.x", "R2.y"), 2, false)
    })
}

func TestEmitCreateVec(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 3, WriteMask: 0x7, SSA: true}

    EmitCreateVec(sh, d, []value.SrcSpec{
        srcVec(sh, "R1.x"),
        srcVec(sh, "R2.y"),
        srcVec(sh, "R3.z"),
    })

    require.Len(t, sh.out, 3)
    for k := 0; k < 3; k++ {
        ir := sh.alu(k)
        require.Equal(t, Op1Mov, ir.Opcode())
        require.Equal(t, k, ir.DestChan())
        require.Equal(t, value.PinChan, ir.Dest().Pin())
    }
    require.True(t, sh.alu(2).HasFlag(FlagLastInstr))
}

func TestEmitTransOp1EG(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 2, WriteMask: 0x3, SSA: true}

    EmitAluTransOp1EG(sh, Op1RecipIeee, d, srcVec(sh, "R1.x", "R1.y"))

    require.Len(t, sh.out, 2)
    for k := 0; k < 2; k++ {
        ir := sh.alu(k)
        require.Equal(t, 1, ir.AluSlots())
        require.True(t, ir.HasFlag(FlagIsTrans))
        /* each transcendental closes its own group */
        require.True(t, ir.HasFlag(FlagLastInstr))
    }
}

func TestEmitTransOp1Cayman(t *testing.T) {
    sh := newEmitSink(isa.ChipCayman)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}
    s0 := srcVec(sh, "R1.x")

    EmitAluTransOp1Cayman(sh, Op1RecipIeee, d, s0)

    require.Len(t, sh.out, 1)
    ir := sh.alu(0)
    require.Equal(t, 3, ir.AluSlots())
    require.True(t, ir.HasFlag(FlagIsCaymanTrans))
    require.False(t, ir.HasFlag(FlagIsTrans))

    /* the operand is replicated across the slots */
    require.Len(t, ir.Sources(), 3)
    for i := 0; i < 3; i++ {
        require.True(t, ir.Src(i).EqualTo(s0.Elems[0]))
    }
}

func TestEmitTransOp2Cayman(t *testing.T) {
    sh := newEmitSink(isa.ChipCayman)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}
    s0 := srcVec(sh, "R1.x")
    s1 := srcVec(sh, "R2.x")

    EmitAluTransOp2Cayman(sh, Op2MulhiUint, d, s0, s1)

    ir := sh.alu(0)
    require.Equal(t, 4, ir.AluSlots())
    require.Len(t, ir.Sources(), 8)
    require.True(t, ir.Src(6).EqualTo(s0.Elems[0]))
    require.True(t, ir.Src(7).EqualTo(s1.Elems[0]))
}

func TestEmitAluF2U32EG(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 2, WriteMask: 0x3, SSA: true}

    EmitAluF2I32OrU32EG(sh, Op1FltToUint, d, srcVec(sh, "R1.x", "R1.y"))

    require.Len(t, sh.out, 4)
    require.Equal(t, Op1Trunc, sh.alu(0).Opcode())
    require.Equal(t, Op1Trunc, sh.alu(1).Opcode())

    /* the unsigned conversion runs on the trans unit, one per group */
    for k := 2; k < 4; k++ {
        ir := sh.alu(k)
        require.Equal(t, Op1FltToUint, ir.Opcode())
        require.True(t, ir.HasFlag(FlagIsTrans))
        require.True(t, ir.HasFlag(FlagLastInstr))
        require.True(t, ir.Src(0).EqualTo(sh.alu(k - 2).Dest()))
    }
}

func TestEmitAluF2I32EG(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 2, WriteMask: 0x3, SSA: true}

    EmitAluF2I32OrU32EG(sh, Op1FltToInt, d, srcVec(sh, "R1.x", "R1.y"))

    require.False(t, sh.alu(2).HasFlag(FlagIsTrans))
    require.False(t, sh.alu(2).HasFlag(FlagLastInstr))
    require.True(t, sh.alu(3).HasFlag(FlagLastInstr))
}

func TestEmitAluMov64(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}
    s0 := srcVec(sh, "R1.x", "R1.y")
    s0.Negate = true

    EmitAluMov64(sh, d, s0)

    require.Len(t, sh.out, 2)
    /* the sign modifier applies to the high word only */
    require.False(t, sh.alu(0).HasFlag(FlagSrc0Neg))
    require.True(t, sh.alu(1).HasFlag(FlagSrc0Neg))
    require.True(t, sh.alu(1).HasFlag(FlagLastInstr))
    require.True(t, sh.alu(0).Src(0).EqualTo(s0.Elems[0]))
    require.True(t, sh.alu(1).Src(0).EqualTo(s0.Elems[1]))
}

func TestEmitAluOp2_64Mul(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}
    s0 := srcVec(sh, "R1.x", "R1.y")
    s1 := srcVec(sh, "R2.x", "R2.y")

    EmitAluOp2_64(sh, Op2Mul64, d, s0, s1, false)

    require.Len(t, sh.out, 1)
    g := sh.group(0)
    issues := g.Instructions()
    require.Len(t, issues, 4)

    /* three high-word issues, then the low word */
    for k := 0; k < 3; k++ {
        require.True(t, issues[k].Src(0).EqualTo(s0.Elems[1]))
        require.True(t, issues[k].Src(1).EqualTo(s1.Elems[1]))
    }
    require.True(t, issues[3].Src(0).EqualTo(s0.Elems[0]))
    require.True(t, issues[3].Src(1).EqualTo(s1.Elems[0]))

    /* only the first two slots carry the result */
    require.True(t, issues[0].HasFlag(FlagWrite))
    require.True(t, issues[1].HasFlag(FlagWrite))
    require.False(t, issues[2].HasFlag(FlagWrite))
    require.False(t, issues[3].HasFlag(FlagWrite))
    require.True(t, issues[3].HasFlag(FlagLastInstr))
}

func TestEmitAluOp2_64MulRejectsVector(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 2, WriteMask: 0x3, SSA: true}
    s0 := srcVec(sh, "R1.x", "R1.y", "R1.z", "R1.w")

    require.Panics(t, func() {
        EmitAluOp2_64(sh, Op2Mul64, d, s0, s0, false)
    })
}

func TestEmitAluOp2_64OneDst(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}
    s0 := srcVec(sh, "R1.x", "R1.y")
    s1 := srcVec(sh, "R2.x", "R2.y")

    EmitAluOp2_64OneDst(sh, Op2Setge64, d, s0, s1, false)

    require.Len(t, sh.out, 1)
    ir := sh.alu(0)
    require.Equal(t, 2, ir.AluSlots())
    require.True(t, ir.HasFlag(Flag64Bit))

    /* high words in the first slot, low words in the second */
    require.True(t, ir.Src(0).EqualTo(s0.Elems[1]))
    require.True(t, ir.Src(1).EqualTo(s1.Elems[1]))
    require.True(t, ir.Src(2).EqualTo(s0.Elems[0]))
    require.True(t, ir.Src(3).EqualTo(s1.Elems[0]))
}

func TestEmitAluOp1Trans64Sqrt(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}
    s0 := srcVec(sh, "R1.x", "R1.y")

    EmitAluOp1Trans64(sh, Op1Sqrt64, d, s0)

    g := sh.group(0)
    issues := g.Instructions()
    require.Len(t, issues, 3)

    for _, ir := range issues {
        require.True(t, ir.Src(0).EqualTo(s0.Elems[1]))
        require.True(t, ir.Src(1).EqualTo(s0.Elems[0]))
        /* square root flushes the sign through the high word */
        require.True(t, ir.HasFlag(FlagSrc1Abs))
    }
    require.True(t, issues[0].HasFlag(FlagWrite))
    require.True(t, issues[1].HasFlag(FlagWrite))
    require.False(t, issues[2].HasFlag(FlagWrite))
}

func TestEmitAluB2F64(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}

    EmitAluB2F64(sh, d, srcVec(sh, "R1.x"))

    g := sh.group(0)
    issues := g.Instructions()
    require.Len(t, issues, 2)

    require.Equal(t, Op2AndInt, issues[0].Opcode())
    require.NotNil(t, issues[0].Src(1).AsInlineConst())

    /* the high word masks in the exponent pattern of 1.0 */
    lit := issues[1].Src(1).AsLiteral()
    require.NotNil(t, lit)
    require.Equal(t, uint32(0x3ff00000), lit.Value())
}

func TestEmitAluI2F64(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}

    EmitAluI2F64(sh, Op1IntToFlt, d, srcVec(sh, "R1.x"))

    /* two byte-group masks, two int conversions, the widening group and
     * the 64-bit add group */
    require.Len(t, sh.out, 6)

    require.Equal(t, Op2AndInt, sh.alu(0).Opcode())
    require.Equal(t, uint32(0xffffff00), sh.alu(0).Src(1).AsLiteral().Value())
    require.Equal(t, uint32(0xff), sh.alu(1).Src(1).AsLiteral().Value())

    widen := sh.group(4)
    require.Len(t, widen.Instructions(), 4)
    for _, ir := range widen.Instructions() {
        require.Equal(t, Op1Flt32ToFlt64, ir.Opcode())
    }

    sum := sh.group(5)
    require.Len(t, sum.Instructions(), 2)
    for _, ir := range sum.Instructions() {
        require.Equal(t, Op2Add64, ir.Opcode())
    }
}

func TestEmitAluF2F32(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}
    s0 := srcVec(sh, "R1.x", "R1.y")

    EmitAluF2F32(sh, d, s0)

    g := sh.group(0)
    issues := g.Instructions()
    require.Len(t, issues, 2)
    require.True(t, issues[0].HasFlag(FlagWrite))
    require.True(t, issues[0].Src(0).EqualTo(s0.Elems[1]))
    require.False(t, issues[1].HasFlag(FlagWrite))
}

func TestEmitPack32_2x16Split(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}

    EmitPack32_2x16Split(sh, d, srcVec(sh, "R1.x"), srcVec(sh, "R2.x"))

    require.Len(t, sh.out, 4)
    require.Equal(t, Op1Flt32ToFlt16, sh.alu(0).Opcode())
    require.Equal(t, Op1Flt32ToFlt16, sh.alu(1).Opcode())
    require.Equal(t, Op2LshlInt, sh.alu(2).Opcode())
    require.Equal(t, uint32(16), sh.alu(2).Src(1).AsLiteral().Value())
    require.Equal(t, Op2OrInt, sh.alu(3).Opcode())
}

func TestEmitUnpack32_2x16SplitY(t *testing.T) {
    sh := newEmitSink(isa.ChipEvergreen)
    d := value.DestSpec{ID: 1, NumComponents: 1, WriteMask: 0x1, SSA: true}

    EmitUnpack32_2x16SplitY(sh, d, srcVec(sh, "R1.x"))

    require.Len(t, sh.out, 2)
    require.Equal(t, Op2LshrInt, sh.alu(0).Opcode())
    require.Equal(t, Op1Flt16ToFlt32, sh.alu(1).Opcode())
    require.True(t, sh.alu(1).Src(0).EqualTo(sh.alu(0).Dest()))
}

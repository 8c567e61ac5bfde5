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

package shader

import (
    `testing`

    `github.com/stretchr/testify/require`
    `github.com/shaderkit/r600sfn/alu`
    `github.com/shaderkit/r600sfn/isa`
)

func instrs(sh *Shader) []*alu.AluInstr {
    var out []*alu.AluInstr
    sh.AluInstructions(func(i *alu.AluInstr) {
        out = append(out, i)
    })
    return out
}

func TestCopyPropFwd(t *testing.T) {
    sh := FromString("ALU ADD S1.x : R0.x R0.y {WL}\n"+
                     "ALU MOV S2.y : S1.x {WL}\n"+
                     "ALU MUL_IEEE S3.z : S2.y R0.z {WL}\n", isa.ChipEvergreen)

    in := instrs(sh)
    add, mov, mul := in[0], in[1], in[2]

    require.True(t, CopyPropFwd{}.Apply(sh))

    /* the consumer now reads the moved value directly */
    require.Same(t, add.Dest(), mul.Src(0).AsRegister())
    require.Empty(t, mov.Dest().Uses())

    /* nothing was removed yet; that is the dead code pass's job */
    require.Len(t, instrs(sh), 3)

    require.False(t, CopyPropFwd{}.Apply(sh))
}

func TestCopyPropFwdHonorsChannelPins(t *testing.T) {
    sh := FromString("ALU ADD S1.y : R0.x R0.y {WL}\n"+
                     "ALU MOV S2.x@chan : S1.y@chan {WL}\n"+
                     "ALU MUL_IEEE S3.z : S2.x R0.z {WL}\n", isa.ChipEvergreen)

    mul := instrs(sh)[2]

    /* the move's destination promises channel x, the source is pinned to
     * channel y, so the substitution must not happen */
    require.False(t, CopyPropFwd{}.Apply(sh))
    require.Equal(t, "S2.x@chan", mul.Src(0).String())
}

func TestCopyPropBwd(t *testing.T) {
    sh := FromString("ALU ADD S1.x : R0.x R0.y {W}\n"+
                     "ALU MOV S2.y : S1.x {WL}\n"+
                     "ALU MUL_IEEE S3.z : S2.y S2.y {WL}\n", isa.ChipEvergreen)

    in := instrs(sh)
    add, mul := in[0], in[2]

    require.True(t, CopyPropBwd{}.Apply(sh))

    /* the producer writes the move's destination, the move is gone */
    require.Same(t, mul.Src(0).AsRegister(), add.Dest())
    require.Equal(t, []*alu.AluInstr{add, mul}, instrs(sh))

    require.False(t, CopyPropBwd{}.Apply(sh))
}

func TestCopyPropBwdNeedsSingleConsumer(t *testing.T) {
    sh := FromString("ALU ADD S1.x : R0.x R0.y {W}\n"+
                     "ALU MOV S2.y : S1.x {WL}\n"+
                     "ALU MUL_IEEE S3.z : S1.x S2.y {WL}\n", isa.ChipEvergreen)

    /* S1.x has a second consumer, so the producer cannot be retargeted */
    require.False(t, CopyPropBwd{}.Apply(sh))
    require.Len(t, instrs(sh), 3)
}

func TestDCE(t *testing.T) {
    sh := FromString("ALU ADD S1.x : R0.x R0.y {WL}\n"+
                     "ALU MUL_IEEE S2.y : S1.x S1.x {WL}\n"+
                     "ALU PRED_SETE __.x : S1.x I[0] {EP}\n", isa.ChipEvergreen)

    in := instrs(sh)
    add, mul, pred := in[0], in[1], in[2]

    require.True(t, DCE{}.Apply(sh))

    /* the unused multiply dies; the predicate keeps the add alive */
    require.Equal(t, []*alu.AluInstr{add, pred}, instrs(sh))
    require.False(t, add.Dest().HasUse(mul))
    require.True(t, add.Dest().HasUse(pred))

    require.False(t, DCE{}.Apply(sh))
}

func TestDCECascades(t *testing.T) {
    sh := FromString("ALU ADD S1.x : R0.x R0.y {WL}\n"+
                     "ALU MUL_IEEE S2.y : S1.x S1.x {WL}\n"+
                     "ALU MOV S3.z : S2.y {WL}\n", isa.ChipEvergreen)

    require.True(t, DCE{}.Apply(sh))

    /* removing the tail frees the whole chain */
    require.Empty(t, instrs(sh))
}

func TestDCESkipsGroupMembers(t *testing.T) {
    sh := NewShader(isa.ChipEvergreen)
    vf := sh.ValueFactory()

    group := alu.NewAluGroup()
    require.True(t, group.AddInstruction(alu.ParseAluInstr("ALU ADD S1.x@chan : R0.x R0.y {WL}", vf)))
    sh.EmitInstruction(group)

    /* group placement is already paid for; members stay even when unused */
    require.False(t, DCE{}.Apply(sh))
    require.Len(t, instrs(sh), 1)
}

func TestOptimize(t *testing.T) {
    sh := FromString("ALU ADD S1.x : R0.x R0.y {WL}\n"+
                     "ALU MOV S2.y : S1.x {WL}\n"+
                     "ALU PRED_SETE __.x : S2.y I[0] {EP}\n", isa.ChipEvergreen)

    in := instrs(sh)
    add, pred := in[0], in[2]

    Optimize(sh)

    /* the move is propagated forward and then collected */
    require.Equal(t, []*alu.AluInstr{add, pred}, instrs(sh))
    require.Same(t, add.Dest(), pred.Src(0).AsRegister())
}

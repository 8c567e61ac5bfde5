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

func TestShaderRoundTrip(t *testing.T) {
    text := "BLOCK_START\n" +
            "ALU MOV S1.x : KC0[0].x {WL}\n" +
            "ALU ADD S2.y : S1.x -R1.y {WL}\n" +
            "BLOCK_END\n" +
            "BLOCK_START\n" +
            "ALU MUL_IEEE S3.z : S2.y S2.y {WL}\n" +
            "BLOCK_END\n"

    sh := FromString(text, isa.ChipEvergreen)
    require.Equal(t, text, sh.String())
}

func TestFromStringProgramOrder(t *testing.T) {
    sh := FromString("BLOCK_START\n"+
                     "ALU MOV S1.x : R0.x {WL}\n"+
                     "ALU MOV S2.y : R0.y {WL}\n"+
                     "BLOCK_END\n"+
                     "BLOCK_START\n"+
                     "ALU ADD S3.z : S1.x S2.y {WL}\n"+
                     "BLOCK_END\n", isa.ChipEvergreen)

    require.Len(t, sh.Blocks(), 2)
    require.Len(t, sh.Blocks()[0].Instructions(), 2)
    require.Len(t, sh.Blocks()[1].Instructions(), 1)

    index := 0
    sh.Instructions(func(i alu.Instr) {
        require.Equal(t, index, i.Index())
        index++
    })

    require.Equal(t, 0, sh.Blocks()[0].Instructions()[0].BlockID())
    require.Equal(t, 1, sh.Blocks()[1].Instructions()[0].BlockID())
}

func TestFromStringWithoutBlockMarkers(t *testing.T) {
    sh := FromString("# input of the first pass\n"+
                     "ALU MOV S1.x : R0.x {WL}\n"+
                     "\n"+
                     "ALU MOV S2.y : R0.y {WL}\n", isa.ChipEvergreen)

    require.Len(t, sh.Blocks(), 1)
    require.Len(t, sh.Blocks()[0].Instructions(), 2)
}

func TestFromStringSharesFactory(t *testing.T) {
    sh := FromString("ALU MOV S1.x : R0.x {WL}\n"+
                     "ALU ADD S2.y : S1.x R0.y {WL}\n", isa.ChipEvergreen)

    mov := sh.Blocks()[0].Instructions()[0].(*alu.AluInstr)
    add := sh.Blocks()[0].Instructions()[1].(*alu.AluInstr)

    /* one interned register carries the def-use edge */
    require.Same(t, mov.Dest(), add.Src(0).AsRegister())
    require.True(t, mov.Dest().HasUse(add))
}

func TestShaderFlags(t *testing.T) {
    sh := NewShader(isa.ChipCayman, isa.ShLegacyMathRules)
    require.True(t, sh.HasFlag(isa.ShLegacyMathRules))
    require.False(t, sh.HasFlag(isa.ShTransSlotOnly))

    sh.SetFlag(isa.ShTransSlotOnly)
    require.True(t, sh.HasFlag(isa.ShTransSlotOnly))
    require.Equal(t, isa.ChipCayman, sh.ChipClass())
}

func TestAluInstructionsDescendsGroups(t *testing.T) {
    sh := NewShader(isa.ChipEvergreen)
    vf := sh.ValueFactory()

    group := alu.NewAluGroup()
    x := alu.ParseAluInstr("ALU ADD S1.x@chan : R0.x R0.y {W}", vf)
    y := alu.ParseAluInstr("ALU ADD S1.y@chan : R0.z R0.w {WL}", vf)
    require.True(t, group.AddInstruction(x))
    require.True(t, group.AddInstruction(y))

    sh.EmitInstruction(group)
    sh.EmitInstruction(alu.ParseAluInstr("ALU MOV S2.z : S1.x {WL}", vf))

    /* group members inherit the group's program position */
    require.Equal(t, 0, x.BlockID())
    require.Equal(t, 0, x.Index())

    var seen []*alu.AluInstr
    sh.AluInstructions(func(i *alu.AluInstr) {
        seen = append(seen, i)
    })
    require.Len(t, seen, 3)
    require.Same(t, x, seen[0])
    require.Same(t, y, seen[1])
}

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
    `strings`

    `github.com/shaderkit/r600sfn/alu`
    `github.com/shaderkit/r600sfn/isa`
    `github.com/shaderkit/r600sfn/value`
)

// Block is one straight-line run of instructions; control flow between
// blocks is owned by the surrounding clause structure, not modeled here.
type Block struct {
    id     int
    instrs []alu.Instr
}

func (self *Block) ID() int                    { return self.id }
func (self *Block) Instructions() []alu.Instr  { return self.instrs }

// Shader is the instruction sink and program container. It owns the value
// factory, so every register mentioned anywhere in the program resolves to
// one interned object.
type Shader struct {
    chipClass isa.ChipClass
    flags     uint32
    vf        *value.Factory
    blocks    []*Block
    nextIndex int
}

func NewShader(chipClass isa.ChipClass, flags ...isa.ShaderFlag) *Shader {
    self := &Shader{
        chipClass: chipClass,
        vf:        value.NewFactory(),
    }
    for _, f := range flags {
        self.flags |= 1 << f
    }
    self.StartBlock()
    return self
}

func (self *Shader) ChipClass() isa.ChipClass   { return self.chipClass }
func (self *Shader) ValueFactory() *value.Factory { return self.vf }

func (self *Shader) HasFlag(f isa.ShaderFlag) bool {
    return self.flags & (1 << f) != 0
}

func (self *Shader) SetFlag(f isa.ShaderFlag) {
    self.flags |= 1 << f
}

func (self *Shader) Blocks() []*Block { return self.blocks }

// StartBlock opens a new instruction block and returns it.
func (self *Shader) StartBlock() *Block {
    b := &Block{id: len(self.blocks)}
    self.blocks = append(self.blocks, b)
    return b
}

// EmitInstruction appends i to the current block, stamping its program
// order position.
func (self *Shader) EmitInstruction(i alu.Instr) {
    b := self.blocks[len(self.blocks)-1]
    i.SetBlockID(b.id, self.nextIndex)
    self.nextIndex++
    b.instrs = append(b.instrs, i)
}

// Instructions iterates the whole program in order.
func (self *Shader) Instructions(fn func(i alu.Instr)) {
    for _, b := range self.blocks {
        for _, i := range b.instrs {
            fn(i)
        }
    }
}

// AluInstructions iterates every single ALU instruction in program order,
// descending into groups.
func (self *Shader) AluInstructions(fn func(i *alu.AluInstr)) {
    self.Instructions(func(i alu.Instr) {
        switch p := i.(type) {
            case *alu.AluInstr : fn(p)
            case *alu.AluGroup :
                for _, m := range p.Instructions() {
                    fn(m)
                }
        }
    })
}

func (self *Shader) String() string {
    var sb strings.Builder
    for _, b := range self.blocks {
        sb.WriteString("BLOCK_START\n")
        for _, i := range b.instrs {
            sb.WriteString(i.String())
            sb.WriteString("\n")
        }
        sb.WriteString("BLOCK_END\n")
    }
    return sb.String()
}

// FromString rebuilds a program from the textual form produced by String.
// Block markers are optional; bare instruction lines land in one block.
func FromString(text string, chipClass isa.ChipClass, flags ...isa.ShaderFlag) *Shader {
    self := NewShader(chipClass, flags...)
    started := false

    for _, line := range strings.Split(text, "\n") {
        line = strings.TrimSpace(line)
        switch {
            case line == "" || strings.HasPrefix(line, "#"):
                continue
            case line == "BLOCK_START":
                if started {
                    self.StartBlock()
                }
                started = true
            case line == "BLOCK_END":
                continue
            default:
                self.EmitInstruction(alu.ParseAluInstr(line, self.vf))
        }
    }
    return self
}

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
    `strings`

    `github.com/shaderkit/r600sfn/value`
)

// String renders the instruction in the assembly-like form ParseAluInstr
// reads back:
//
//   ALU OP [CLAMP] DEST : SRCS [+ SRCS ...] {WLEP} [VEC_nnn] [CF]
//
// Unwritten destinations print as a placeholder channel, negated sources
// with a leading '-', absolute sources wrapped in '|'.
func (self *AluInstr) String() string {
    var sb strings.Builder

    if self.flags.Test(FlagIsLDS) {
        sb.WriteString("ALU LDS ")
        sb.WriteString(LDSOpInfoOf(self.ldsOpcode).Name)
        sb.WriteString(" __.x : ")
    } else {
        sb.WriteString("ALU ")
        sb.WriteString(OpInfo(self.opcode).Name)
        if self.flags.Test(FlagDstClamp) {
            sb.WriteString(" CLAMP")
        }
        sb.WriteString(" ")
        if self.dest != nil {
            if self.flags.Test(FlagWrite) {
                sb.WriteString(self.dest.String())
            } else {
                sb.WriteString("__.")
                sb.WriteByte(value.ChanChars[self.dest.Chan()])
                if self.dest.Pin() != value.PinNone {
                    sb.WriteString("@")
                    sb.WriteString(self.dest.Pin().String())
                }
            }
        } else {
            sb.WriteString("__.")
            sb.WriteByte(value.ChanChars[self.DestChan()])
        }
        sb.WriteString(" : ")
    }

    nsrc := self.NSrcPerSlot()
    for s := 0; s < self.slots; s++ {
        if s > 0 {
            sb.WriteString(" +")
        }
        for i := 0; i < nsrc; i++ {
            if s > 0 || i > 0 {
                sb.WriteString(" ")
            }
            neg := self.flags.Test(srcNegFlags[i])
            abs := i < 2 && self.flags.Test(srcAbsFlags[i])
            if neg {
                sb.WriteString("-")
            }
            if abs {
                sb.WriteString("|")
            }
            sb.WriteString(self.src[i + s * nsrc].String())
            if abs {
                sb.WriteString("|")
            }
        }
    }

    sb.WriteString(" {")
    if self.flags.Test(FlagWrite) {
        sb.WriteString("W")
    }
    if self.flags.Test(FlagLastInstr) {
        sb.WriteString("L")
    }
    if self.flags.Test(FlagUpdateExec) {
        sb.WriteString("E")
    }
    if self.flags.Test(FlagUpdatePred) {
        sb.WriteString("P")
    }
    sb.WriteString("}")

    if self.bankSwizzle != VecUnknown {
        sb.WriteString(" ")
        sb.WriteString(self.bankSwizzle.String())
    }
    if self.cfType != CFAlu {
        sb.WriteString(" ")
        sb.WriteString(cfAluNames[self.cfType])
    }
    return sb.String()
}

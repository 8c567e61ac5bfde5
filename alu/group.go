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

const (
    numVecSlots = 4
    transSlot   = 4
    numSlots    = 5
)

// AluGroup is one VLIW issue bundle: up to four vector slots bound to the
// x..w channels plus one transcendental slot, all sharing a single
// read-port reservation.
type AluGroup struct {
    InstrBase
    slots [numSlots]*AluInstr
    rpr   ReadportReservation
}

func NewAluGroup() *AluGroup {
    return &AluGroup{rpr: NewReadportReservation()}
}

func (self *AluGroup) ReadportReserver() ReadportReservation     { return self.rpr }
func (self *AluGroup) SetReadportReserver(r ReadportReservation) { self.rpr = r }

// Slot returns the instruction occupying slot i, or nil.
func (self *AluGroup) Slot(i int) *AluInstr { return self.slots[i] }

// Instructions returns the occupied slots in issue order.
func (self *AluGroup) Instructions() []*AluInstr {
    var out []*AluInstr
    for _, i := range self.slots {
        if i != nil {
            out = append(out, i)
        }
    }
    return out
}

// AddInstruction places a single-slot instruction into the group: the
// vector slot matching its destination channel, or the transcendental
// slot. It fails without modifying the group when the slot is taken or
// when no bank swizzle satisfies the shared read-port reservation.
func (self *AluGroup) AddInstruction(instr *AluInstr) bool {
    if instr.AluSlots() != 1 {
        return false
    }
    if instr.HasFlag(FlagIsTrans) {
        return self.addToSlot(instr, transSlot)
    }
    slot := instr.DestChan()
    if slot < 0 || slot >= numVecSlots {
        return false
    }
    return self.addToSlot(instr, slot)
}

func (self *AluGroup) addToSlot(instr *AluInstr, slot int) bool {
    if self.slots[slot] != nil {
        return false
    }
    if !self.tryReserveReadports(instr) {
        return false
    }
    self.slots[slot] = instr
    instr.SetParentGroup(self)
    return true
}

func (self *AluGroup) tryReserveReadports(instr *AluInstr) bool {
    nsrc := instr.NSrcPerSlot()
    if nsrc > maxGPRReadPorts {
        nsrc = maxGPRReadPorts
    }

    var src [3]value.VirtualValue
    for i := 0; i < nsrc; i++ {
        src[i] = instr.Src(i)
    }

    for bs := Vec012; bs != VecUnknown; bs++ {
        rpr := self.rpr
        if rpr.ScheduleVecSrc(src, nsrc, bs) {
            self.rpr = rpr
            instr.SetBankSwizzle(bs)
            return true
        }
    }
    return false
}

// SetBlockID propagates the position to every member instruction.
func (self *AluGroup) SetBlockID(block int, index int) {
    self.InstrBase.SetBlockID(block, index)
    for _, i := range self.slots {
        if i != nil {
            i.SetBlockID(block, index)
        }
    }
}

// SetScheduled marks the group and all member instructions scheduled.
func (self *AluGroup) SetScheduled() {
    self.InstrBase.SetScheduled()
    for _, i := range self.slots {
        if i != nil {
            i.SetScheduled()
        }
    }
}

// Ready reports whether every member instruction is ready to issue.
func (self *AluGroup) Ready() bool {
    for _, i := range self.required {
        if !i.IsScheduled() {
            return false
        }
    }
    for _, i := range self.slots {
        if i != nil && !i.Ready() {
            return false
        }
    }
    return true
}

// HasLDSAccess reports whether any slot touches local data share state.
func (self *AluGroup) HasLDSAccess() bool {
    for _, i := range self.slots {
        if i != nil && i.HasLDSAccess() {
            return true
        }
    }
    return false
}

func (self *AluGroup) String() string {
    var sb strings.Builder
    sb.WriteString("ALU_GROUP_BEGIN\n")
    for _, i := range self.slots {
        if i != nil {
            sb.WriteString("  ")
            sb.WriteString(i.String())
            sb.WriteString("\n")
        }
    }
    sb.WriteString("ALU_GROUP_END")
    return sb.String()
}

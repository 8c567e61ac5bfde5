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

package value

import (
    `fmt`
)

// RegFlag is a per-register property bit.
type RegFlag uint8

const (
    // RegSSA marks a register that is written exactly once.
    RegSSA RegFlag = iota

    // RegAddrOrIdx marks a register used as an indirect address or buffer
    // index; such registers live in the dedicated address register file.
    RegAddrOrIdx

    regFlagCount
)

// Register is a virtual GPR with one channel. It records which instructions
// currently read it (uses) and which write it with the write flag set
// (parents); the lists are maintained by the instruction mutation paths and
// must stay exact at all times.
type Register struct {
    valueBase
    flags   uint8
    uses    []InstrUser
    parents []InstrUser
}

func NewRegister(sel int, chn int, pin Pin) *Register {
    return &Register{valueBase: valueBase{sel: sel, chn: chn, pin: pin}}
}

func NewRegisterSSA(sel int, chn int, pin Pin) *Register {
    r := NewRegister(sel, chn, pin)
    r.SetFlag(RegSSA)
    return r
}

func (self *Register) virtualValue() {}

func (self *Register) HasFlag(f RegFlag) bool { return self.flags & (1 << f) != 0 }
func (self *Register) SetFlag(f RegFlag)      { self.flags |= 1 << f }

func (self *Register) AsRegister() PRegister          { return self }
func (self *Register) AsUniform() *UniformValue       { return nil }
func (self *Register) AsInlineConst() *InlineConstant { return nil }
func (self *Register) AsLiteral() *LiteralConstant    { return nil }
func (self *Register) AsArrayValue() *LocalArrayValue { return nil }
func (self *Register) GetAddr() VirtualValue          { return nil }

func (self *Register) Uses() []InstrUser    { return self.uses }
func (self *Register) Parents() []InstrUser { return self.parents }

func (self *Register) AddUse(i InstrUser) {
    if !self.HasUse(i) {
        self.uses = append(self.uses, i)
    }
}

func (self *Register) DelUse(i InstrUser) {
    for n, u := range self.uses {
        if u == i {
            self.uses = append(self.uses[:n], self.uses[n + 1:]...)
            return
        }
    }
}

func (self *Register) HasUse(i InstrUser) bool {
    for _, u := range self.uses {
        if u == i {
            return true
        }
    }
    return false
}

func (self *Register) AddParent(i InstrUser) {
    for _, p := range self.parents {
        if p == i {
            return
        }
    }
    self.parents = append(self.parents, i)
}

func (self *Register) DelParent(i InstrUser) {
    for n, p := range self.parents {
        if p == i {
            self.parents = append(self.parents[:n], self.parents[n + 1:]...)
            return
        }
    }
}

func (self *Register) Ready(block int, index int) bool {
    for _, p := range self.parents {
        if p == nil {
            continue
        }
        if p.BlockID() < block || (p.BlockID() == block && p.Index() < index) {
            if !p.IsScheduled() {
                return false
            }
        }
    }
    return true
}

func (self *Register) EqualTo(other VirtualValue) bool {
    r, ok := other.(*Register)
    if !ok {
        return false
    }
    return self.sel == r.sel &&
           self.chn == r.chn &&
           self.HasFlag(RegSSA) == r.HasFlag(RegSSA)
}

func (self *Register) String() string {
    prefix := "R"
    if self.HasFlag(RegSSA) {
        prefix = "S"
    }
    s := fmt.Sprintf("%s%d.%c", prefix, self.sel, ChanChars[self.chn])
    if self.pin != PinNone {
        s += "@" + self.pin.String()
    }
    return s
}

// LocalArray is an indexed register array occupying a contiguous range of
// the register file. Directly addressed elements are interned so that the
// same (offset, channel) pair always yields the same element identity.
type LocalArray struct {
    valueBase
    nchan  int
    size   int
    values []*LocalArrayValue
}

func NewLocalArray(baseSel int, nchan int, size int, firstChan int) *LocalArray {
    if nchan < 1 || nchan > 4 || firstChan + nchan > 4 {
        panic("value: invalid local array channel range")
    }
    return &LocalArray{
        valueBase: valueBase{sel: baseSel, chn: firstChan, pin: PinArray},
        nchan:     nchan,
        size:      size,
        values:    make([]*LocalArrayValue, nchan * size),
    }
}

func (self *LocalArray) virtualValue() {}

func (self *LocalArray) NChannels() int { return self.nchan }
func (self *LocalArray) Size() int      { return self.size }

func (self *LocalArray) AsRegister() PRegister          { return nil }
func (self *LocalArray) AsUniform() *UniformValue       { return nil }
func (self *LocalArray) AsInlineConst() *InlineConstant { return nil }
func (self *LocalArray) AsLiteral() *LiteralConstant    { return nil }
func (self *LocalArray) AsArrayValue() *LocalArrayValue { return nil }
func (self *LocalArray) GetAddr() VirtualValue          { return nil }

func (self *LocalArray) EqualTo(other VirtualValue) bool {
    a, ok := other.(*LocalArray)
    if !ok {
        return false
    }
    return self.sel == a.sel && self.nchan == a.nchan && self.size == a.size
}

func (self *LocalArray) String() string {
    return fmt.Sprintf("A%d[0:%d].%s", self.sel, self.size, ChanChars[self.chn:self.chn + self.nchan])
}

// Element returns the array element at the given offset and channel. A nil
// addr selects a direct access; elements of direct accesses are interned.
// Indirectly addressed elements are distinct per request because each
// carries its own address value.
func (self *LocalArray) Element(offset int, addr VirtualValue, chn int) *LocalArrayValue {
    if chn < 0 || chn >= self.nchan || offset < 0 || offset >= self.size {
        panic(fmt.Sprintf("value: array access A%d[%d].%c out of range", self.sel, offset, ChanChars[chn]))
    }
    if addr == nil {
        idx := self.size * chn + offset
        if self.values[idx] == nil {
            self.values[idx] = newLocalArrayValue(self, offset, nil, chn)
        }
        return self.values[idx]
    }
    return newLocalArrayValue(self, offset, addr, chn)
}

// LocalArrayValue is one element of a LocalArray, optionally behind an
// indirect address register. It is a register for all use/parent tracking
// purposes and always carries PinArray.
type LocalArrayValue struct {
    Register
    array *LocalArray
    addr  VirtualValue
}

func newLocalArrayValue(array *LocalArray, offset int, addr VirtualValue, chn int) *LocalArrayValue {
    v := &LocalArrayValue{
        Register: *NewRegister(array.Sel() + offset, array.Chan() + chn, PinArray),
        array:    array,
        addr:     addr,
    }
    return v
}

func (self *LocalArrayValue) virtualValue() {}

func (self *LocalArrayValue) Array() *LocalArray { return self.array }
func (self *LocalArrayValue) Addr() VirtualValue { return self.addr }

func (self *LocalArrayValue) AsRegister() PRegister          { return self }
func (self *LocalArrayValue) AsArrayValue() *LocalArrayValue { return self }

func (self *LocalArrayValue) GetAddr() VirtualValue { return self.addr }

func (self *LocalArrayValue) Ready(block int, index int) bool {
    if self.addr != nil {
        if r := self.addr.AsRegister(); r != nil && !r.Ready(block, index) {
            return false
        }
    }
    return self.Register.Ready(block, index)
}

func (self *LocalArrayValue) EqualTo(other VirtualValue) bool {
    v, ok := other.(*LocalArrayValue)
    if !ok {
        return false
    }
    if self.Sel() != v.Sel() || self.Chan() != v.Chan() || self.array != v.array {
        return false
    }
    if (self.addr == nil) != (v.addr == nil) {
        return false
    }
    return self.addr == nil || self.addr.EqualTo(v.addr)
}

func (self *LocalArrayValue) String() string {
    base := self.Sel() - self.array.Sel()
    if self.addr != nil {
        if base > 0 {
            return fmt.Sprintf("A%d[%s+%d].%c", self.array.Sel(), self.addr, base, ChanChars[self.Chan()])
        }
        return fmt.Sprintf("A%d[%s].%c", self.array.Sel(), self.addr, ChanChars[self.Chan()])
    }
    return fmt.Sprintf("A%d[%d].%c", self.array.Sel(), base, ChanChars[self.Chan()])
}

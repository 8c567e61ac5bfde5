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

// Package value implements the virtual value model of the R600 shader
// backend. A virtual value is one of a closed set of variants: a plain
// register, an element of a local register array, a constant-buffer
// (uniform) access, a 32-bit literal, or a hardware inline constant.
//
// Registers track back-references to the instructions that read them
// (uses) and write them (parents); every instruction mutation keeps these
// lists consistent synchronously.
package value

// Chan index to channel letter; entries past 'w' are used by debug output
// for virtual channels.
const ChanChars = "xyzw01?_"

// Pin constrains how the register allocator may place a virtual register.
type Pin uint8

const (
    PinNone Pin = iota
    PinChan     // fixed to its channel, bank free
    PinGroup    // allocated as part of a vec4 group
    PinChgr     // fixed channel inside a fixed group
    PinFully    // fully pre-allocated, must not move at all
    PinFree     // no constraint, not yet counted for pressure
    PinArray    // element of an indexed register array
)

func (self Pin) String() string {
    switch self {
        case PinNone  : return "none"
        case PinChan  : return "chan"
        case PinGroup : return "group"
        case PinChgr  : return "chgr"
        case PinFully : return "fully"
        case PinFree  : return "free"
        case PinArray : return "array"
        default       : panic("value: invalid pin")
    }
}

// PinFromString resolves a textual pin name as printed by Pin.String.
func PinFromString(s string) (Pin, bool) {
    return pinFromString(s)
}

func pinFromString(s string) (Pin, bool) {
    switch s {
        case "none"  : return PinNone, true
        case "chan"  : return PinChan, true
        case "group" : return PinGroup, true
        case "chgr"  : return PinChgr, true
        case "fully" : return PinFully, true
        case "free"  : return PinFree, true
        case "array" : return PinArray, true
        default      : return PinNone, false
    }
}

// InstrUser is the view a value has of the instructions referencing it.
// Identity of the interface value (the instruction pointer behind it) is
// what the use and parent lists are keyed on.
type InstrUser interface {
    BlockID() int
    Index() int
    IsScheduled() bool
}

// VirtualValue is the closed sum of all operand variants. The As* accessors
// perform variant matching and return nil when the value is of a different
// kind.
type VirtualValue interface {
    Sel() int
    Chan() int
    Pin() Pin
    String() string

    // EqualTo reports structural equality between two values of any variant.
    EqualTo(other VirtualValue) bool

    // GetAddr returns the indirect address value hidden behind this operand
    // (the array index register of an indirectly addressed array element, or
    // the buffer index register of an indexed uniform), or nil.
    GetAddr() VirtualValue

    AsRegister() PRegister
    AsUniform() *UniformValue
    AsInlineConst() *InlineConstant
    AsLiteral() *LiteralConstant
    AsArrayValue() *LocalArrayValue

    virtualValue()
}

// PRegister is the writable-register capability shared by plain registers
// and local array elements.
type PRegister interface {
    VirtualValue

    HasFlag(f RegFlag) bool
    SetFlag(f RegFlag)
    SetPin(p Pin)
    SetChan(c int)

    AddUse(i InstrUser)
    DelUse(i InstrUser)
    HasUse(i InstrUser) bool
    Uses() []InstrUser

    AddParent(i InstrUser)
    DelParent(i InstrUser)
    Parents() []InstrUser

    // Ready reports whether the value produced by this register can be
    // consumed at program position (block, index): every write preceding
    // that position must already be scheduled.
    Ready(block int, index int) bool
}

// valueBase carries the fields common to every variant.
type valueBase struct {
    sel int
    chn int
    pin Pin
}

func (self *valueBase) Sel() int  { return self.sel }
func (self *valueBase) Chan() int { return self.chn }
func (self *valueBase) Pin() Pin  { return self.pin }

func (self *valueBase) SetPin(p Pin) { self.pin = p }
func (self *valueBase) SetChan(c int) { self.chn = c }

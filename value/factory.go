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
    `strconv`
    `strings`
)

// DestSpec describes the destination of one generic front-end operation
// before lowering: an abstract value vector identified by ID, with up to 4
// components selected by WriteMask.
type DestSpec struct {
    ID            int
    NumComponents int
    WriteMask     uint8
    Saturate      bool
    SSA           bool
}

// DefaultPin is the pin lowering applies to scalar SSA results: they may
// land on any channel, everything else stays unconstrained until the
// per-component destinations are created.
func (self DestSpec) DefaultPin() Pin {
    if self.SSA && self.NumComponents == 1 {
        return PinFree
    }
    return PinNone
}

// SrcSpec describes one source vector of a generic front-end operation.
// Swizzle maps destination components to elements; Negate and Abs apply to
// the whole vector.
type SrcSpec struct {
    Elems   []VirtualValue
    Swizzle [4]int
    Negate  bool
    Abs     bool
}

// NoSwizzle is the identity swizzle.
var NoSwizzle = [4]int{0, 1, 2, 3}

// Factory creates and interns virtual values. Interning matters: the use
// and parent lists are keyed on object identity, so parsing the same
// register name twice must return the same object.
type Factory struct {
    nextSel   int
    nextChan  int
    nextDummy int
    regs      map[int64]*Register
    ssaRegs   map[int64]*Register
    dests     map[int64]*Register
    arrays    map[int]*LocalArray
}

func NewFactory() *Factory {
    return &Factory{
        nextSel: 1024,
        regs:    make(map[int64]*Register),
        ssaRegs: make(map[int64]*Register),
        dests:   make(map[int64]*Register),
        arrays:  make(map[int]*LocalArray),
    }
}

func regKey(sel int, chn int) int64 {
    return int64(sel) << 3 | int64(chn)
}

// Temp allocates a fresh SSA register on the next rotation channel.
func (self *Factory) Temp(pin Pin) *Register {
    r := self.TempChan(self.nextChan, pin)
    self.nextChan = (self.nextChan + 1) & 3
    return r
}

// TempChan allocates a fresh SSA register on a fixed channel.
func (self *Factory) TempChan(chn int, pin Pin) *Register {
    sel := self.nextSel
    self.nextSel++
    r := NewRegisterSSA(sel, chn, pin)
    self.ssaRegs[regKey(sel, chn)] = r
    return r
}

// TempVec4 allocates four fresh SSA registers spanning the channels.
func (self *Factory) TempVec4(pin Pin) [4]*Register {
    sel := self.nextSel
    self.nextSel++
    var v [4]*Register
    for c := 0; c < 4; c++ {
        v[c] = NewRegisterSSA(sel, c, pin)
        self.ssaRegs[regKey(sel, c)] = v[c]
    }
    return v
}

// DummyDest returns a throwaway destination for slots whose result is
// discarded. Dummies are channel-pinned and never SSA so nothing tries to
// propagate through them.
func (self *Factory) DummyDest(chn int) *Register {
    self.nextDummy++
    return NewRegister(dummySelBase + self.nextDummy, chn, PinChan)
}

// dummySelBase keeps throwaway destinations out of the interned selector
// space.
const dummySelBase = 1 << 20

// Register returns the interned non-SSA register (sel, chn).
func (self *Factory) Register(sel int, chn int, pin Pin) *Register {
    k := regKey(sel, chn)
    r := self.regs[k]
    if r == nil {
        r = NewRegister(sel, chn, pin)
        self.regs[k] = r
    }
    return r
}

// AllocArray declares a local register array starting at baseSel.
func (self *Factory) AllocArray(baseSel int, nchan int, size int, firstChan int) *LocalArray {
    if _, ok := self.arrays[baseSel]; ok {
        panic(fmt.Sprintf("value: array A%d already allocated", baseSel))
    }
    a := NewLocalArray(baseSel, nchan, size, firstChan)
    self.arrays[baseSel] = a
    return a
}

func (self *Factory) Zero() VirtualValue   { return NewInlineConstant(AluSrc0, 0) }
func (self *Factory) One() VirtualValue    { return NewInlineConstant(AluSrc1, 0) }
func (self *Factory) OneInt() VirtualValue { return NewInlineConstant(AluSrc1Int, 0) }

func (self *Factory) Literal(v uint32) VirtualValue {
    return NewLiteralConstant(v)
}

func (self *Factory) InlineConst(sel int, chn int) VirtualValue {
    return NewInlineConstant(sel, chn)
}

func (self *Factory) Uniform(index int, chn int, bank int) VirtualValue {
    return NewUniformValue(index, chn, bank, nil)
}

// Dest materializes the per-component destination register of a generic
// operation. Components of the same DestSpec are interned so repeated
// lowering steps talk about the same register.
func (self *Factory) Dest(d DestSpec, comp int, pin Pin) *Register {
    k := int64(d.ID) << 3 | int64(comp)
    if r, ok := self.dests[k]; ok {
        if pin != PinNone && (r.Pin() == PinNone || r.Pin() == PinFree) {
            r.SetPin(pin)
        }
        return r
    }
    sel := self.nextSel
    self.nextSel++
    var r *Register
    if d.SSA {
        r = NewRegisterSSA(sel, comp & 3, pin)
    } else {
        r = NewRegister(sel, comp & 3, pin)
    }
    self.dests[k] = r
    return r
}

// Src resolves component comp of a source vector.
func (self *Factory) Src(s SrcSpec, comp int) VirtualValue {
    return s.Elems[s.Swizzle[comp]]
}

// Src64 resolves the low (chn = 0) or high (chn = 1) half of the 64-bit
// element selected by comp. 64-bit values occupy channel pairs.
func (self *Factory) Src64(s SrcSpec, comp int, chn int) VirtualValue {
    return s.Elems[2 * s.Swizzle[comp] + chn]
}

func chanFromByte(c byte) int {
    n := strings.IndexByte(ChanChars, c)
    if n < 0 || n > 3 {
        panic(fmt.Sprintf("value: invalid channel %q", string(c)))
    }
    return n
}

// SrcFromString parses the textual form of any source operand. Unknown
// syntax panics: the format is an internal round-trip artifact, not an
// untrusted surface.
func (self *Factory) SrcFromString(s string) VirtualValue {
    if len(s) < 2 {
        panic(fmt.Sprintf("value: malformed value %q", s))
    }
    switch {
        case s[0] == 'S' || s[0] == 'R' : return self.regFromString(s)
        case s[0] == 'L'                : return self.literalFromString(s)
        case s[0] == 'I'                : return self.inlineFromString(s)
        case s[0] == 'A'                : return self.arrayValueFromString(s)
        case strings.HasPrefix(s, "KC") : return self.uniformFromString(s)
        default                         : panic(fmt.Sprintf("value: malformed value %q", s))
    }
}

// DestFromString parses the textual form of a destination register.
func (self *Factory) DestFromString(s string) PRegister {
    if s[0] == 'A' {
        return self.arrayValueFromString(s)
    }
    return self.regFromString(s)
}

func (self *Factory) regFromString(s string) *Register {
    ssa := s[0] == 'S'
    if !ssa && s[0] != 'R' {
        panic(fmt.Sprintf("value: malformed register %q", s))
    }

    pin := PinNone
    if at := strings.IndexByte(s, '@'); at >= 0 {
        p, ok := pinFromString(s[at + 1:])
        if !ok {
            panic(fmt.Sprintf("value: invalid pin in %q", s))
        }
        pin = p
        s = s[:at]
    }

    dot := strings.IndexByte(s, '.')
    if dot < 0 || dot + 2 != len(s) {
        panic(fmt.Sprintf("value: malformed register %q", s))
    }
    sel, err := strconv.Atoi(s[1:dot])
    if err != nil {
        panic(fmt.Sprintf("value: malformed register %q", s))
    }
    chn := chanFromByte(s[dot + 1])

    k := regKey(sel, chn)
    pool := self.regs
    if ssa {
        pool = self.ssaRegs
    }
    if r, ok := pool[k]; ok {
        if pin != PinNone {
            r.SetPin(pin)
        }
        return r
    }

    var r *Register
    if ssa {
        r = NewRegisterSSA(sel, chn, pin)
        if sel >= self.nextSel {
            self.nextSel = sel + 1
        }
    } else {
        r = NewRegister(sel, chn, pin)
    }
    pool[k] = r
    return r
}

func (self *Factory) literalFromString(s string) *LiteralConstant {
    if !strings.HasPrefix(s, "L[0x") || !strings.HasSuffix(s, "]") {
        panic(fmt.Sprintf("value: malformed literal %q", s))
    }
    v, err := strconv.ParseUint(s[4:len(s) - 1], 16, 32)
    if err != nil {
        panic(fmt.Sprintf("value: malformed literal %q", s))
    }
    return NewLiteralConstant(uint32(v))
}

func (self *Factory) inlineFromString(s string) *InlineConstant {
    if !strings.HasPrefix(s, "I[") {
        panic(fmt.Sprintf("value: malformed inline constant %q", s))
    }
    end := strings.IndexByte(s, ']')
    if end < 0 {
        panic(fmt.Sprintf("value: malformed inline constant %q", s))
    }
    name := s[2:end]
    sel, ok := inlineConstSels[name]
    if !ok {
        panic(fmt.Sprintf("value: unknown inline constant %q", name))
    }
    chn := 0
    if end + 1 < len(s) {
        if s[end + 1] != '.' || end + 3 != len(s) {
            panic(fmt.Sprintf("value: malformed inline constant %q", s))
        }
        chn = chanFromByte(s[end + 2])
    }
    return NewInlineConstant(sel, chn)
}

func (self *Factory) uniformFromString(s string) *UniformValue {
    // "KC0[3].x" or "KC[S1.x][3].y" for indexed buffers
    body := s[2:]

    var bank int
    var addr VirtualValue

    if body[0] == '[' {
        end := strings.IndexByte(body, ']')
        if end < 0 {
            panic(fmt.Sprintf("value: malformed uniform %q", s))
        }
        addr = self.SrcFromString(body[1:end])
        body = body[end + 1:]
    } else {
        end := strings.IndexByte(body, '[')
        if end < 0 {
            panic(fmt.Sprintf("value: malformed uniform %q", s))
        }
        b, err := strconv.Atoi(body[:end])
        if err != nil {
            panic(fmt.Sprintf("value: malformed uniform %q", s))
        }
        bank = b
        body = body[end:]
    }

    if body[0] != '[' {
        panic(fmt.Sprintf("value: malformed uniform %q", s))
    }
    end := strings.IndexByte(body, ']')
    if end < 0 || end + 3 != len(body) || body[end + 1] != '.' {
        panic(fmt.Sprintf("value: malformed uniform %q", s))
    }
    index, err := strconv.Atoi(body[1:end])
    if err != nil {
        panic(fmt.Sprintf("value: malformed uniform %q", s))
    }
    chn := chanFromByte(body[end + 2])
    return NewUniformValue(index, chn, bank, addr)
}

func (self *Factory) arrayValueFromString(s string) *LocalArrayValue {
    // "A2[1].x", "A2[S3.x].y" or "A2[S3.x+1].y"
    open := strings.IndexByte(s, '[')
    close_ := strings.LastIndexByte(s, ']')
    if open < 2 || close_ < open || close_ + 3 != len(s) || s[close_ + 1] != '.' {
        panic(fmt.Sprintf("value: malformed array access %q", s))
    }
    base, err := strconv.Atoi(s[1:open])
    if err != nil {
        panic(fmt.Sprintf("value: malformed array access %q", s))
    }
    array := self.arrays[base]
    if array == nil {
        panic(fmt.Sprintf("value: access to undeclared array A%d", base))
    }
    // Element takes the channel relative to the array's first channel
    chn := chanFromByte(s[close_ + 2]) - array.Chan()

    idx := s[open + 1:close_]
    if n, err := strconv.Atoi(idx); err == nil {
        return array.Element(n, nil, chn)
    }

    offset := 0
    if plus := strings.LastIndexByte(idx, '+'); plus >= 0 {
        offset, err = strconv.Atoi(idx[plus + 1:])
        if err != nil {
            panic(fmt.Sprintf("value: malformed array offset %q", s))
        }
        idx = idx[:plus]
    }
    return array.Element(offset, self.SrcFromString(idx), chn)
}

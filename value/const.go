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

// Hardware inline constant selectors. The numeric values follow the R600
// ISA source selector encoding; everything at or above AluSrcParamBase is
// not a GPR access and consumes no read port.
const (
    AluSrcLDSOQA     = 219
    AluSrcLDSOQB     = 220
    AluSrcLDSOQAPop  = 221
    AluSrcLDSOQBPop  = 222
    AluSrcLDSDirectA = 223
    AluSrcLDSDirectB = 224
    AluSrcTimeHi     = 227
    AluSrcTimeLo     = 228
    AluSrcMaskHi     = 229
    AluSrcMaskLo     = 230
    AluSrcHwWaveID   = 231
    AluSrcSimdID     = 232
    AluSrc0          = 248
    AluSrc1          = 249
    AluSrc1Int       = 250
    AluSrcM1Int      = 251
    AluSrc05         = 252
    AluSrcLiteral    = 253
    AluSrcPV         = 254
    AluSrcPS         = 255

    AluSrcParamBase = 219
)

var inlineConstNames = map[int]string{
    AluSrcLDSOQA:     "LDS_OQ_A",
    AluSrcLDSOQB:     "LDS_OQ_B",
    AluSrcLDSOQAPop:  "LDS_OQ_A_POP",
    AluSrcLDSOQBPop:  "LDS_OQ_B_POP",
    AluSrcLDSDirectA: "LDS_DIRECT_A",
    AluSrcLDSDirectB: "LDS_DIRECT_B",
    AluSrcTimeHi:     "TIME_HI",
    AluSrcTimeLo:     "TIME_LO",
    AluSrcMaskHi:     "MASK_HI",
    AluSrcMaskLo:     "MASK_LO",
    AluSrcHwWaveID:   "HW_WAVE_ID",
    AluSrcSimdID:     "SIMD_ID",
    AluSrc0:          "0",
    AluSrc1:          "1.0",
    AluSrc1Int:       "1",
    AluSrcM1Int:      "-1",
    AluSrc05:         "0.5",
    AluSrcLiteral:    "LITERAL",
    AluSrcPV:         "PV",
    AluSrcPS:         "PS",
}

var inlineConstSels = func() map[string]int {
    m := make(map[string]int, len(inlineConstNames))
    for sel, name := range inlineConstNames {
        m[name] = sel
    }
    return m
}()

// LiteralConstant is a 32-bit immediate carried inside the ALU clause.
type LiteralConstant struct {
    valueBase
    value uint32
}

func NewLiteralConstant(v uint32) *LiteralConstant {
    return &LiteralConstant{
        valueBase: valueBase{sel: AluSrcLiteral, chn: 0, pin: PinNone},
        value:     v,
    }
}

func (self *LiteralConstant) virtualValue() {}

func (self *LiteralConstant) Value() uint32 { return self.value }

func (self *LiteralConstant) AsRegister() PRegister          { return nil }
func (self *LiteralConstant) AsUniform() *UniformValue       { return nil }
func (self *LiteralConstant) AsInlineConst() *InlineConstant { return nil }
func (self *LiteralConstant) AsLiteral() *LiteralConstant    { return self }
func (self *LiteralConstant) AsArrayValue() *LocalArrayValue { return nil }
func (self *LiteralConstant) GetAddr() VirtualValue          { return nil }

func (self *LiteralConstant) EqualTo(other VirtualValue) bool {
    l, ok := other.(*LiteralConstant)
    return ok && self.value == l.value
}

func (self *LiteralConstant) String() string {
    return fmt.Sprintf("L[0x%x]", self.value)
}

// InlineConstant is a hardware-provided source such as 0, 1.0, the previous
// vector result (PV) or the LDS output queues. PV accesses are per channel;
// every other selector ignores the channel.
type InlineConstant struct {
    valueBase
}

func NewInlineConstant(sel int, chn int) *InlineConstant {
    if _, ok := inlineConstNames[sel]; !ok {
        panic(fmt.Sprintf("value: invalid inline constant selector %d", sel))
    }
    return &InlineConstant{valueBase: valueBase{sel: sel, chn: chn, pin: PinNone}}
}

func (self *InlineConstant) virtualValue() {}

func (self *InlineConstant) AsRegister() PRegister          { return nil }
func (self *InlineConstant) AsUniform() *UniformValue       { return nil }
func (self *InlineConstant) AsInlineConst() *InlineConstant { return self }
func (self *InlineConstant) AsLiteral() *LiteralConstant    { return nil }
func (self *InlineConstant) AsArrayValue() *LocalArrayValue { return nil }
func (self *InlineConstant) GetAddr() VirtualValue          { return nil }

func (self *InlineConstant) EqualTo(other VirtualValue) bool {
    c, ok := other.(*InlineConstant)
    if !ok || self.sel != c.sel {
        return false
    }
    return self.sel != AluSrcPV || self.chn == c.chn
}

func (self *InlineConstant) String() string {
    if self.sel == AluSrcPV {
        return fmt.Sprintf("I[PV].%c", ChanChars[self.chn])
    }
    return fmt.Sprintf("I[%s]", inlineConstNames[self.sel])
}

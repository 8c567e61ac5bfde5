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

// UniformValue is a constant-buffer (kcache) access. A plain uniform reads
// constant bank `kcacheBank` at `sel`; an indexed uniform additionally goes
// through a buffer address register, which then counts as an extra register
// read for dependency purposes.
type UniformValue struct {
    valueBase
    kcacheBank int
    bufAddr    VirtualValue
}

func NewUniformValue(sel int, chn int, kcacheBank int, bufAddr VirtualValue) *UniformValue {
    return &UniformValue{
        valueBase:  valueBase{sel: sel, chn: chn, pin: PinNone},
        kcacheBank: kcacheBank,
        bufAddr:    bufAddr,
    }
}

func (self *UniformValue) virtualValue() {}

func (self *UniformValue) KCacheBank() int       { return self.kcacheBank }
func (self *UniformValue) BufAddr() VirtualValue { return self.bufAddr }

func (self *UniformValue) AsRegister() PRegister          { return nil }
func (self *UniformValue) AsUniform() *UniformValue       { return self }
func (self *UniformValue) AsInlineConst() *InlineConstant { return nil }
func (self *UniformValue) AsLiteral() *LiteralConstant    { return nil }
func (self *UniformValue) AsArrayValue() *LocalArrayValue { return nil }

func (self *UniformValue) GetAddr() VirtualValue { return self.bufAddr }

func (self *UniformValue) EqualTo(other VirtualValue) bool {
    u, ok := other.(*UniformValue)
    if !ok {
        return false
    }
    if self.sel != u.sel || self.chn != u.chn || self.kcacheBank != u.kcacheBank {
        return false
    }
    if (self.bufAddr == nil) != (u.bufAddr == nil) {
        return false
    }
    return self.bufAddr == nil || self.bufAddr.EqualTo(u.bufAddr)
}

func (self *UniformValue) String() string {
    if self.bufAddr != nil {
        return fmt.Sprintf("KC[%s][%d].%c", self.bufAddr, self.sel, ChanChars[self.chn])
    }
    return fmt.Sprintf("KC%d[%d].%c", self.kcacheBank, self.sel, ChanChars[self.chn])
}

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
    `fmt`
    `strings`

    `github.com/shaderkit/r600sfn/value`
)

var bankSwizzlesByName = func() map[string]BankSwizzle {
    m := make(map[string]BankSwizzle, len(bankSwizzleNames))
    for bs, name := range bankSwizzleNames {
        m[name] = bs
    }
    return m
}()

var cfAluByName = func() map[string]CFAluOp {
    m := make(map[string]CFAluOp, len(cfAluNames))
    for cf, name := range cfAluNames {
        m[name] = cf
    }
    return m
}()

type srcMods struct {
    neg bool
    abs bool
}

// OpFromName resolves the textual opcode name used in listings.
func OpFromName(name string) (AluOp, bool) {
    op, ok := aluOpsByName[name]
    return op, ok
}

// ParseAluInstr reads back the textual form produced by AluInstr.String.
// Registers resolve through vf so that repeated mentions of the same
// register share one object and the use lists stay consistent. Malformed
// input panics; the format is an internal exchange format, not user input.
func ParseAluInstr(s string, vf *value.Factory) *AluInstr {
    tok := strings.Fields(s)
    if len(tok) < 4 || tok[0] != "ALU" {
        panic(fmt.Sprintf("alu: malformed instruction %q", s))
    }
    tok = tok[1:]

    isLDS := false
    if tok[0] == "LDS" {
        isLDS = true
        tok = tok[1:]
    }

    var opcode AluOp
    var ldsOpcode LDSOp
    nsrc := -1

    if isLDS {
        op, ok := ldsOpsByName[tok[0]]
        if !ok {
            panic(fmt.Sprintf("alu: unknown LDS opcode %q", tok[0]))
        }
        ldsOpcode = op
        nsrc = LDSOpInfoOf(op).NSrc
    } else {
        op, ok := aluOpsByName[tok[0]]
        if !ok {
            panic(fmt.Sprintf("alu: unknown opcode %q", tok[0]))
        }
        opcode = op
        nsrc = NSrc(op)
    }
    tok = tok[1:]

    flags := FlagsEmpty
    if !isLDS && tok[0] == "CLAMP" {
        flags.Set(FlagDstClamp)
        tok = tok[1:]
    }

    /* destination, then the ':' separator */
    var dest value.PRegister
    fallbackChan := 0

    if strings.HasPrefix(tok[0], "__.") {
        rest := tok[0][3:]
        fallbackChan = strings.IndexByte(value.ChanChars, rest[0])
        if fallbackChan < 0 {
            panic(fmt.Sprintf("alu: invalid placeholder channel in %q", tok[0]))
        }
        if len(rest) > 2 && rest[1] == '@' {
            pin, ok := value.PinFromString(rest[2:])
            if !ok {
                panic(fmt.Sprintf("alu: invalid pin in %q", tok[0]))
            }
            d := vf.DummyDest(fallbackChan)
            d.SetPin(pin)
            dest = d
        }
    } else if !isLDS {
        dest = vf.DestFromString(tok[0])
    } else {
        panic(fmt.Sprintf("alu: LDS instruction with destination %q", tok[0]))
    }
    tok = tok[1:]

    if tok[0] != ":" {
        panic(fmt.Sprintf("alu: expected ':' in %q", s))
    }
    tok = tok[1:]

    /* source slots, separated by '+', up to the flag block */
    var src []value.VirtualValue
    var mods [][]srcMods
    slot := []srcMods(nil)

    for len(tok) > 0 && !strings.HasPrefix(tok[0], "{") {
        t := tok[0]
        tok = tok[1:]

        if t == "+" {
            mods = append(mods, slot)
            slot = nil
            continue
        }

        var m srcMods
        if strings.HasPrefix(t, "-") && len(t) > 1 {
            m.neg = true
            t = t[1:]
        }
        if strings.HasPrefix(t, "|") && strings.HasSuffix(t, "|") && len(t) > 2 {
            m.abs = true
            t = t[1 : len(t)-1]
        }
        src = append(src, vf.SrcFromString(t))
        slot = append(slot, m)
    }
    mods = append(mods, slot)

    if isLDS {
        if len(src) != nsrc {
            panic(fmt.Sprintf("alu: %s expects %d sources, got %d", LDSOpInfoOf(ldsOpcode).Name, nsrc, len(src)))
        }
    } else if nsrc > 0 && len(src) % nsrc != 0 {
        panic(fmt.Sprintf("alu: %s source count %d is not a multiple of %d", OpInfo(opcode).Name, len(src), nsrc))
    }

    /* modifiers come from the first slot; repeats must agree */
    for i, m := range mods[0] {
        if m.neg {
            flags.Set(srcNegFlags[i])
        }
        if m.abs {
            flags.Set(srcAbsFlags[i])
        }
    }
    for _, ms := range mods[1:] {
        for i, m := range ms {
            if m != mods[0][i] {
                panic(fmt.Sprintf("alu: inconsistent source modifiers across slots in %q", s))
            }
        }
    }

    if len(tok) == 0 {
        panic(fmt.Sprintf("alu: missing flag block in %q", s))
    }
    for _, c := range strings.Trim(tok[0], "{}") {
        switch c {
            case 'W' : flags.Set(FlagWrite)
            case 'L' : flags.Set(FlagLastInstr)
            case 'E' : flags.Set(FlagUpdateExec)
            case 'P' : flags.Set(FlagUpdatePred)
            default  : panic(fmt.Sprintf("alu: unknown flag %q in %q", c, s))
        }
    }
    tok = tok[1:]

    bankSwizzle := VecUnknown
    cfType := CFAlu

    for len(tok) > 0 {
        if bs, ok := bankSwizzlesByName[tok[0]]; ok {
            bankSwizzle = bs
        } else if cf, ok := cfAluByName[tok[0]]; ok {
            cfType = cf
        } else {
            panic(fmt.Sprintf("alu: unexpected trailing token %q in %q", tok[0], s))
        }
        tok = tok[1:]
    }

    var instr *AluInstr
    if isLDS {
        instr = NewLDSInstrSrcs(ldsOpcode, src, flags)
    } else {
        slots := 1
        if nsrc > 0 {
            slots = len(src) / nsrc
        }
        instr = NewAluInstr(opcode, dest, src, flags, slots)
        instr.fallbackChan = fallbackChan
    }
    instr.SetBankSwizzle(bankSwizzle)
    instr.SetCFType(cfType)
    return instr
}

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

    log `github.com/sirupsen/logrus`
    `github.com/shaderkit/r600sfn/value`
)

// Instr is the common contract of schedulable instruction stream entries
// (single ALU instructions and ALU groups).
type Instr interface {
    fmt.Stringer
    BlockID() int
    Index() int
    IsScheduled() bool
    SetBlockID(block int, index int)
    SetScheduled()
    Ready() bool
}

// InstrBase carries the program-order identity shared by all instruction
// kinds: position within the shader, scheduling state, and the explicit
// ordering dependencies an external scheduler must honor.
type InstrBase struct {
    blockID   int
    index     int
    scheduled bool
    required  []Instr
}

func (self *InstrBase) BlockID() int      { return self.blockID }
func (self *InstrBase) Index() int        { return self.index }
func (self *InstrBase) IsScheduled() bool { return self.scheduled }
func (self *InstrBase) SetScheduled()     { self.scheduled = true }

func (self *InstrBase) SetBlockID(block int, index int) {
    self.blockID = block
    self.index = index
}

func (self *InstrBase) RequiredInstr() []Instr { return self.required }

func (self *InstrBase) AddRequiredInstr(i Instr) {
    self.required = append(self.required, i)
}

// AluInstr is one machine ALU instruction: an opcode (regular or LDS, never
// both), an optional destination, nsrc * slots ordered sources and the
// modifier flag set. Multi-slot instructions represent VLIW-fused
// per-component computations that Split can break apart again.
type AluInstr struct {
    InstrBase
    opcode       AluOp
    ldsOpcode    LDSOp
    dest         value.PRegister
    src          []value.VirtualValue
    flags        AluFlags
    bankSwizzle  BankSwizzle
    cfType       CFAluOp
    slots        int
    fallbackChan int
    parentGroup  *AluGroup
    extraDeps    []value.PRegister
}

// NewAluInstr is the canonical constructor. The source count must be
// exactly NSrc(opcode) * slots; a write flag requires a destination. Both
// violations are bugs in the producing code and panic.
func NewAluInstr(opcode AluOp, dest value.PRegister, src []value.VirtualValue, flags AluFlags, slots int) *AluInstr {
    self := &AluInstr{
        opcode:      opcode,
        dest:        dest,
        src:         src,
        flags:       flags,
        bankSwizzle: VecUnknown,
        cfType:      CFAlu,
        slots:       slots,
    }

    if NSrc(opcode) == 3 {
        self.flags.Set(FlagOp3)
    }

    if len(src) != NSrc(opcode) * slots {
        panic(fmt.Sprintf("alu: %s expects %d*%d sources, got %d", OpInfo(opcode).Name, NSrc(opcode), slots, len(src)))
    }

    if self.flags.Test(FlagWrite) && dest == nil {
        panic("alu: write flag is set, but no destination register is given")
    }

    self.updateUses()
    return self
}

// NewAluInstrChan constructs a source- and destination-less instruction
// that only pins down a result channel (used for NOP padding).
func NewAluInstrChan(opcode AluOp, chn int) *AluInstr {
    self := NewAluInstr(opcode, nil, nil, FlagsEmpty, 1)
    self.fallbackChan = chn
    return self
}

func NewAluInstrOp1(opcode AluOp, dest value.PRegister, src0 value.VirtualValue, flags AluFlags) *AluInstr {
    return NewAluInstr(opcode, dest, []value.VirtualValue{src0}, flags, 1)
}

func NewAluInstrOp2(opcode AluOp, dest value.PRegister, src0 value.VirtualValue, src1 value.VirtualValue, flags AluFlags) *AluInstr {
    return NewAluInstr(opcode, dest, []value.VirtualValue{src0, src1}, flags, 1)
}

func NewAluInstrOp3(opcode AluOp, dest value.PRegister, src0 value.VirtualValue, src1 value.VirtualValue, src2 value.VirtualValue, flags AluFlags) *AluInstr {
    return NewAluInstr(opcode, dest, []value.VirtualValue{src0, src1, src2}, flags, 1)
}

// NewLDSInstr constructs a local data share operation; the address operand
// always comes first, the data operands (either may be nil) follow.
func NewLDSInstr(op LDSOp, addr value.VirtualValue, src0 value.VirtualValue, src1 value.VirtualValue) *AluInstr {
    self := &AluInstr{
        ldsOpcode:   op,
        bankSwizzle: VecUnknown,
        cfType:      CFAlu,
        slots:       1,
    }
    self.flags.Set(FlagIsLDS)

    self.src = append(self.src, addr)
    if src0 != nil {
        self.src = append(self.src, src0)
        if src1 != nil {
            self.src = append(self.src, src1)
        }
    }
    self.updateUses()
    return self
}

// NewLDSInstrSrcs constructs an LDS operation from a raw source list
// (address first).
func NewLDSInstrSrcs(op LDSOp, src []value.VirtualValue, flags AluFlags) *AluInstr {
    self := &AluInstr{
        ldsOpcode:   op,
        src:         src,
        flags:       flags,
        bankSwizzle: VecUnknown,
        cfType:      CFAlu,
        slots:       1,
    }
    self.flags.Set(FlagIsLDS)
    self.updateUses()
    return self
}

// updateUses registers this instruction in the use lists of every register
// it reads, including the address registers hidden behind array elements
// and indexed uniforms, and in the parent list of a written destination.
func (self *AluInstr) updateUses() {
    for _, s := range self.src {
        if r := s.AsRegister(); r != nil {
            r.AddUse(self)
            if r.Pin() == value.PinArray {
                if av := s.AsArrayValue(); av != nil && av.Addr() != nil {
                    if ar := av.Addr().AsRegister(); ar != nil {
                        ar.AddUse(self)
                    }
                }
            }
        }
        if u := s.AsUniform(); u != nil && u.BufAddr() != nil {
            if ar := u.BufAddr().AsRegister(); ar != nil {
                ar.AddUse(self)
            }
        }
    }

    if self.dest != nil && self.flags.Test(FlagWrite) {
        self.dest.AddParent(self)

        if av := self.dest.AsArrayValue(); av != nil && av.Addr() != nil {
            if ar := av.Addr().AsRegister(); ar != nil {
                ar.AddUse(self)
            }
        }
    }
}

func (self *AluInstr) Opcode() AluOp    { return self.opcode }
func (self *AluInstr) LDSOpcode() LDSOp { return self.ldsOpcode }

func (self *AluInstr) Dest() value.PRegister         { return self.dest }
func (self *AluInstr) Sources() []value.VirtualValue { return self.src }
func (self *AluInstr) Src(i int) value.VirtualValue  { return self.src[i] }

func (self *AluInstr) AluSlots() int { return self.slots }

func (self *AluInstr) HasFlag(f AluFlag) bool { return self.flags.Test(f) }
func (self *AluInstr) SetFlag(f AluFlag)      { self.flags.Set(f) }
func (self *AluInstr) ResetFlag(f AluFlag)    { self.flags.Reset(f) }

func (self *AluInstr) BankSwizzle() BankSwizzle       { return self.bankSwizzle }
func (self *AluInstr) SetBankSwizzle(bs BankSwizzle)  { self.bankSwizzle = bs }

func (self *AluInstr) CFType() CFAluOp          { return self.cfType }
func (self *AluInstr) SetCFType(cf CFAluOp)     { self.cfType = cf }

func (self *AluInstr) ParentGroup() *AluGroup         { return self.parentGroup }
func (self *AluInstr) SetParentGroup(g *AluGroup)     { self.parentGroup = g }

// NSrcPerSlot is the source arity of one slot; for LDS instructions the
// whole source list belongs to the single slot.
func (self *AluInstr) NSrcPerSlot() int {
    if self.flags.Test(FlagIsLDS) {
        return len(self.src)
    }
    return NSrc(self.opcode)
}

// DestChan is the channel a result would land on, whether or not a real
// destination register exists.
func (self *AluInstr) DestChan() int {
    if self.dest != nil {
        return self.dest.Chan()
    }
    return self.fallbackChan
}

// AddExtraDependency adds a register this instruction must wait on beyond
// its literal operands (indirect addressing hazards).
func (self *AluInstr) AddExtraDependency(v value.VirtualValue) {
    if r := v.AsRegister(); r != nil {
        for _, d := range self.extraDeps {
            if d == r {
                return
            }
        }
        self.extraDeps = append(self.extraDeps, r)
    }
}

// CanCopyPropagate reports whether this instruction is a plain register
// move that a copy-propagation pass may eliminate at all.
func (self *AluInstr) CanCopyPropagate() bool {
    if self.opcode != Op1Mov {
        return false
    }
    if self.flags.Test(FlagSrc0Abs) || self.flags.Test(FlagSrc0Neg) || self.flags.Test(FlagDstClamp) {
        return false
    }
    return self.flags.Test(FlagWrite)
}

// CanPropagateSrc reports whether the moved value may be substituted
// forward into this move's consumers. Propagating forward must not lose a
// channel constraint the destination already promises.
func (self *AluInstr) CanPropagateSrc() bool {
    if !self.CanCopyPropagate() {
        return false
    }

    srcReg := self.src[0].AsRegister()
    if srcReg == nil {
        return true
    }

    if !self.dest.HasFlag(value.RegSSA) {
        return false
    }

    if self.dest.Pin() == value.PinFully {
        return self.dest.EqualTo(srcReg)
    }

    if self.dest.Pin() == value.PinChan {
        return srcReg.Pin() == value.PinNone ||
               (srcReg.Pin() == value.PinChan && srcReg.Chan() == self.dest.Chan())
    }

    return self.dest.Pin() == value.PinNone || self.dest.Pin() == value.PinFree
}

// CanPropagateDest reports whether this move's destination may replace the
// destination of the instruction producing the moved value (backward
// propagation). The mirror of CanPropagateSrc from the source register's
// perspective.
func (self *AluInstr) CanPropagateDest() bool {
    if !self.CanCopyPropagate() {
        return false
    }

    srcReg := self.src[0].AsRegister()
    if srcReg == nil {
        return false
    }

    if srcReg.Pin() == value.PinFully {
        return false
    }

    if !srcReg.HasFlag(value.RegSSA) {
        return false
    }

    if srcReg.Pin() == value.PinChan {
        return self.dest.Pin() == value.PinNone || self.dest.Pin() == value.PinFree ||
               ((self.dest.Pin() == value.PinChan || self.dest.Pin() == value.PinGroup) &&
                srcReg.Chan() == self.dest.Chan())
    }

    return srcReg.Pin() == value.PinNone || srcReg.Pin() == value.PinFree
}

// ReplaceSource substitutes newSrc for every operand equal to oldSrc. It
// returns false, with operands untouched, when the substitution would be
// illegal: read-port conflicts across the slots, an array element operand
// (possible untracked indirect access), or a second indirect address in
// the same instruction.
func (self *AluInstr) ReplaceSource(oldSrc value.PRegister, newSrc value.VirtualValue) bool {
    if !self.checkReadportValidation(oldSrc, newSrc) {
        return false
    }

    /* the old source may have been accessed indirectly without the use
     * being tracked, so never replace array elements */
    if oldSrc.Pin() == value.PinArray {
        return false
    }

    if newSrc.GetAddr() != nil {
        for _, s := range self.src {
            addr := s.GetAddr()
            /* can't have two different indirect addresses in one instruction */
            if addr != nil && !addr.EqualTo(newSrc.GetAddr()) {
                return false
            }
        }
    }

    if self.dest != nil {
        /* no array writes combined with array reads under different
         * indirect addresses */
        if self.dest.Pin() == value.PinArray && newSrc.Pin() == value.PinArray {
            dav := self.dest.AsArrayValue().Addr()
            sav := newSrc.AsArrayValue().Addr()
            if dav != nil && sav != nil && dav.AsRegister() != nil && !dav.EqualTo(sav) {
                return false
            }
        }
    }

    /* this instruction may hold a group-wide read port reservation; retry
     * the placement with the substituted operand set before committing */
    if self.slots * self.NSrcPerSlot() > 2 || self.parentGroup != nil {
        rpr := NewReadportReservation()
        if self.parentGroup != nil {
            rpr = self.parentGroup.ReadportReserver()
        }

        nsrc := self.NSrcPerSlot()
        var src [3]value.VirtualValue

        for s := 0; s < self.slots; s++ {
            for i := 0; i < nsrc; i++ {
                olds := self.src[i + nsrc * s]
                if oldSrc.EqualTo(olds) {
                    src[i] = newSrc
                } else {
                    src[i] = olds
                }
            }
            bs := Vec012
            for bs != VecUnknown {
                if rpr.ScheduleVecSrc(src, nsrc, bs) {
                    break
                }
                bs++
            }
            if bs == VecUnknown {
                return false
            }
        }
        if self.parentGroup != nil {
            self.parentGroup.SetReadportReserver(rpr)
        }
    }

    process := false
    for i := range self.src {
        if oldSrc.EqualTo(self.src[i]) {
            self.src[i] = newSrc
            process = true
        }
    }
    if process {
        if r := newSrc.AsRegister(); r != nil {
            r.AddUse(self)
        }
        oldSrc.DelUse(self)
    }
    return process
}

// checkReadportValidation precomputes the read-port trial for every slot
// with oldSrc replaced by newSrc, so a later commit cannot leave the
// instruction partially invalid.
func (self *AluInstr) checkReadportValidation(oldSrc value.PRegister, newSrc value.VirtualValue) bool {
    if len(self.src) < 3 {
        return true
    }

    nsrc := self.NSrcPerSlot()
    rprSum := NewReadportReservation()

    for s := 0; s < self.slots; s++ {
        var src [3]value.VirtualValue
        for i := 0; i < nsrc; i++ {
            v := self.src[s * nsrc + i]
            if oldSrc.EqualTo(v) {
                v = newSrc
            }
            src[i] = v
        }

        ok := false
        for bs := Vec012; bs != VecUnknown; bs++ {
            rpr := rprSum
            if rpr.ScheduleVecSrc(src, nsrc, bs) {
                rprSum = rpr
                ok = true
                break
            }
        }
        if !ok {
            return false
        }
    }
    return true
}

// ReplaceDest retargets the written destination register. moveInstr is the
// move being folded away; its last-in-group flag decides whether this
// instruction keeps one.
func (self *AluInstr) ReplaceDest(newDest value.PRegister, moveInstr *AluInstr) bool {
    if self.dest.EqualTo(newDest) {
        return false
    }

    if len(self.dest.Uses()) > 1 {
        return false
    }

    if newDest.Pin() == value.PinArray {
        return false
    }

    if self.dest.Pin() == value.PinChan && newDest.Chan() != self.dest.Chan() {
        return false
    }

    if self.dest.Pin() == value.PinChan {
        if newDest.Pin() == value.PinGroup {
            newDest.SetPin(value.PinChgr)
        } else {
            newDest.SetPin(value.PinChan)
        }
    }

    if self.flags.Test(FlagWrite) {
        self.dest.DelParent(self)
        newDest.AddParent(self)
    }
    self.dest = newDest

    if !moveInstr.HasFlag(FlagLastInstr) {
        self.flags.Reset(FlagLastInstr)
    }

    if self.flags.Test(FlagIsCaymanTrans) {
        /* copy propagation may move the result to the w channel, but only
         * three slots were allocated; cayman transcendentals must compute
         * all components together */
        if self.dest.Chan() == 3 && self.slots < 4 {
            self.slots = 4
            if len(self.src) != 3 {
                panic("alu: cayman transcendental with unexpected source count")
            }
            self.src = append(self.src, self.src[0])
        }
    }

    return true
}

// SetSources replaces the whole operand list, keeping the use lists exact.
func (self *AluInstr) SetSources(src []value.VirtualValue) {
    for _, s := range self.src {
        if r := s.AsRegister(); r != nil {
            r.DelUse(self)
        }
    }
    self.src = src
    for _, s := range self.src {
        if r := s.AsRegister(); r != nil {
            r.AddUse(self)
        }
    }
}

// PinSourcesToChan fixes all register sources to their current channel so
// a scheduler does not have to re-derive a legal assignment.
func (self *AluInstr) PinSourcesToChan() {
    for _, s := range self.src {
        if r := s.AsRegister(); r != nil {
            if r.Pin() == value.PinFree {
                r.SetPin(value.PinChan)
            } else if r.Pin() == value.PinGroup {
                r.SetPin(value.PinChgr)
            }
        }
    }
}

// AllowedDestChanMask is the set of channels a retargeted destination may
// use. Multi-slot instructions are channel-bound except for cayman
// transcendentals, which replicate across their slots.
func (self *AluInstr) AllowedDestChanMask() uint8 {
    if self.slots != 1 {
        if self.flags.Test(FlagIsCaymanTrans) {
            return (1 << self.slots) - 1
        }
        return 0
    }
    return 0xf
}

// IndirectAddr resolves the indirect address register behind the
// destination or any source. isRel is true for a relative array access,
// isIndex for an indexed constant buffer.
func (self *AluInstr) IndirectAddr() (addr value.PRegister, isRel bool, isIndex bool) {
    if self.dest != nil {
        if av := self.dest.AsArrayValue(); av != nil && av.Addr() != nil {
            if r := av.Addr().AsRegister(); r != nil {
                return r, false, false
            }
        }
    }

    for _, s := range self.src {
        if av := s.AsArrayValue(); av != nil && av.Addr() != nil {
            if r := av.Addr().AsRegister(); r != nil {
                return r, true, false
            }
        }
        if u := s.AsUniform(); u != nil && u.BufAddr() != nil {
            if r := u.BufAddr().AsRegister(); r != nil {
                return r, false, true
            }
        }
    }
    return nil, false, false
}

// Split decomposes a fused multi-slot instruction into an AluGroup of
// independent single-slot instructions, one per channel. Returns nil when
// there is nothing to split.
func (self *AluInstr) Split(vf *value.Factory) *AluGroup {
    if self.slots == 1 {
        return nil
    }

    log.Tracef("split %v", self)

    group := NewAluGroup()
    nsrc := self.NSrcPerSlot()

    self.dest.DelParent(self)

    for s := 0; s < self.slots; s++ {
        var dst value.PRegister
        if self.dest.Chan() == s {
            dst = self.dest
        } else {
            dst = vf.DummyDest(s)
        }

        if dst.Pin() != value.PinChgr {
            pin := value.PinChan
            if dst.Pin() == value.PinGroup && self.dest.Chan() == s {
                pin = value.PinChgr
            }
            dst.SetPin(pin)
        }

        var src []value.VirtualValue
        for i := 0; i < nsrc; i++ {
            oldSrc := self.src[s * nsrc + i]
            // pin the source to its channel so the scheduler does not
            // have to check whether a channel switch is possible
            if r := oldSrc.AsRegister(); r != nil {
                if r.Pin() == value.PinFree || r.Pin() == value.PinNone {
                    r.SetPin(value.PinChan)
                } else if r.Pin() == value.PinGroup {
                    r.SetPin(value.PinChgr)
                }
            }
            src = append(src, oldSrc)
        }

        instr := NewAluInstr(self.opcode, dst, src, FlagsEmpty, 1)
        instr.SetBlockID(self.blockID, self.index)

        if s == 0 || !self.flags.Test(Flag64Bit) {
            for k, f := range srcNegFlags {
                if k < nsrc && self.flags.Test(f) {
                    instr.SetFlag(f)
                }
            }
            for k, f := range srcAbsFlags {
                if k < nsrc && self.flags.Test(f) {
                    instr.SetFlag(f)
                }
            }
        }
        if self.flags.Test(FlagDstClamp) {
            instr.SetFlag(FlagDstClamp)
        }

        if s == self.dest.Chan() {
            instr.SetFlag(FlagWrite)
        }

        self.dest.AddParent(instr)
        log.Tracef("   %v", instr)

        if !group.AddInstruction(instr) {
            panic(fmt.Sprintf("alu: unable to schedule %v into %v", instr, group))
        }
    }
    group.SetBlockID(self.blockID, self.index)

    for _, s := range self.src {
        if r := s.AsRegister(); r != nil {
            r.DelUse(self)
        }
    }
    return group
}

// RegisterPriority scores the register pressure change of scheduling this
// instruction: defining a fresh unpinned SSA value increases pressure,
// writing a pre-allocated register or retiring the last pending use of a
// source decreases it, and uniform sources are free.
func (self *AluInstr) RegisterPriority() int {
    priority := 0
    if self.flags.Test(FlagNoScheduleBias) {
        return priority
    }

    if self.dest != nil {
        if self.dest.HasFlag(value.RegSSA) && self.flags.Test(FlagWrite) {
            if self.dest.Pin() != value.PinGroup && self.dest.Pin() != value.PinChgr {
                priority--
            }
        } else {
            // pre-allocated, scheduling it early cannot raise pressure
            priority++
        }
    }

    for _, s := range self.src {
        if r := s.AsRegister(); r != nil && r.HasFlag(value.RegSSA) {
            pending := 0
            for _, b := range r.Uses() {
                if !b.IsScheduled() {
                    pending++
                }
            }
            if pending == 1 {
                priority++
            }
        }
        if s.AsUniform() != nil {
            priority++
        }
    }
    return priority
}

// PropagateDeath drops this instruction's source uses when its result is
// no longer consumed, and reports whether the instruction may actually be
// removed from the stream.
func (self *AluInstr) PropagateDeath() bool {
    if self.dest == nil {
        return true
    }

    if self.dest.Pin() == value.PinGroup || self.dest.Pin() == value.PinChan {
        switch self.opcode {
            case Op2InterpX, Op2InterpXY, Op2InterpZ, Op2InterpZW:
                self.flags.Reset(FlagWrite)
                return false
        }
    }

    if self.dest.Pin() == value.PinArray {
        return false
    }

    if self.flags.Test(FlagIsCaymanTrans) {
        return false
    }

    for _, s := range self.src {
        if r := s.AsRegister(); r != nil {
            r.DelUse(self)
        }
    }
    return true
}

// Ready implements the scheduler readiness predicate. It is side-effect
// free and idempotent.
func (self *AluInstr) Ready() bool {
    /* instructions are shuffled by the scheduler, so required ops must be
     * scheduled before this one becomes ready */
    for _, i := range self.required {
        if !i.IsScheduled() {
            return false
        }
    }

    for _, s := range self.src {
        if r := s.AsRegister(); r != nil {
            if !r.Ready(self.blockID, self.index) {
                return false
            }
        }
        if u := s.AsUniform(); u != nil && u.BufAddr() != nil {
            if r := u.BufAddr().AsRegister(); r != nil && !r.Ready(self.blockID, self.index) {
                return false
            }
        }
    }

    if self.dest != nil && !self.dest.HasFlag(value.RegSSA) {
        if self.dest.Pin() == value.PinArray {
            av := self.dest.AsArrayValue()
            /* a true indirect write must wait until every instruction
             * writing the old value has been scheduled */
            if addr := av.Addr(); addr != nil {
                if r := addr.AsRegister(); r != nil && !r.Ready(self.blockID, self.index) {
                    return false
                }
                if !self.dest.Ready(self.blockID, self.index - 1) {
                    return false
                }
            }
        }

        /* re-writing a register must wait for earlier reads, otherwise a
         * consumer could observe the updated value */
        for _, u := range self.dest.Uses() {
            if u.BlockID() <= self.blockID && u.Index() < self.index && !u.IsScheduled() {
                return false
            }
        }
    }

    for _, r := range self.extraDeps {
        if !r.Ready(self.blockID, self.index) {
            return false
        }
    }

    return true
}

// HasLDSAccess reports whether this instruction touches local data share
// state, either as an LDS operation or by popping the LDS output queues.
func (self *AluInstr) HasLDSAccess() bool {
    return self.flags.Test(FlagIsLDS) || self.HasLDSQueueRead()
}

func (self *AluInstr) HasLDSQueueRead() bool {
    for _, s := range self.src {
        if ic := s.AsInlineConst(); ic != nil {
            if ic.Sel() == value.AluSrcLDSOQAPop || ic.Sel() == value.AluSrcLDSOQBPop {
                return true
            }
        }
    }
    return false
}

// IsEqualTo reports structural equality of two instructions; not
// program-order identity.
func (self *AluInstr) IsEqualTo(lhs *AluInstr) bool {
    if lhs.opcode != self.opcode || lhs.ldsOpcode != self.ldsOpcode ||
       lhs.bankSwizzle != self.bankSwizzle || lhs.cfType != self.cfType ||
       lhs.flags != self.flags {
        return false
    }

    if self.dest != nil {
        if lhs.dest == nil {
            return false
        }
        if self.flags.Test(FlagWrite) {
            if !self.dest.EqualTo(lhs.dest) {
                return false
            }
        } else {
            if self.dest.Chan() != lhs.dest.Chan() {
                return false
            }
        }
    } else {
        if lhs.dest != nil {
            return false
        }
    }

    if len(self.src) != len(lhs.src) {
        return false
    }

    for i := range self.src {
        if !self.src[i].EqualTo(lhs.src[i]) {
            return false
        }
    }
    return true
}

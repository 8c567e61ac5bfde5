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
    `sync/atomic`

    `github.com/oleiade/lane`
    log `github.com/sirupsen/logrus`
    `github.com/shaderkit/r600sfn/alu`
    `github.com/shaderkit/r600sfn/value`
)

// Pass counters, exposed through the debug package.
var (
    FwdCount   int64
    BwdCount   int64
    DCECount   int64
    SweepCount int64
)

// Optimize runs the ALU-level cleanup passes to a fixed point.
func Optimize(sh *Shader) {
    for {
        atomic.AddInt64(&SweepCount, 1)
        progress := false
        progress = CopyPropFwd{}.Apply(sh) || progress
        progress = CopyPropBwd{}.Apply(sh) || progress
        progress = DCE{}.Apply(sh) || progress
        if !progress {
            return
        }
    }
}

// CopyPropFwd substitutes the source of a plain move into every consumer
// of the move's destination.
type CopyPropFwd struct{}

func (self CopyPropFwd) Apply(sh *Shader) bool {
    progress := false

    sh.AluInstructions(func(i *alu.AluInstr) {
        if !i.CanPropagateSrc() {
            return
        }

        src := i.Src(0)
        dest := i.Dest()

        /* ReplaceSource mutates the use list, so iterate a snapshot */
        uses := append([]value.InstrUser(nil), dest.Uses()...)
        for _, u := range uses {
            consumer, ok := u.(*alu.AluInstr)
            if !ok || consumer == i {
                continue
            }
            if consumer.ReplaceSource(dest, src) {
                log.Debugf("copy-prop fwd: %v into %v", i, consumer)
                atomic.AddInt64(&FwdCount, 1)
                progress = true
            }
        }
    })
    return progress
}

// CopyPropBwd folds a move away by retargeting the instruction producing
// its source value directly at the move's destination.
type CopyPropBwd struct{}

func (self CopyPropBwd) Apply(sh *Shader) bool {
    dead := make(map[*alu.AluInstr]struct{})

    sh.AluInstructions(func(i *alu.AluInstr) {
        if i.ParentGroup() != nil || !i.CanPropagateDest() {
            return
        }

        src := i.Src(0).AsRegister()
        if src == nil || len(src.Parents()) != 1 || len(src.Uses()) != 1 {
            return
        }

        parent, ok := src.Parents()[0].(*alu.AluInstr)
        if !ok {
            return
        }

        if parent.ReplaceDest(i.Dest(), i) {
            log.Debugf("copy-prop bwd: fold %v into %v", i, parent)
            i.Dest().DelParent(i)
            i.PropagateDeath()
            atomic.AddInt64(&BwdCount, 1)
            dead[i] = struct{}{}
        }
    })

    if len(dead) == 0 {
        return false
    }
    removeDead(sh, dead)
    return true
}

func removeDead(sh *Shader, dead map[*alu.AluInstr]struct{}) {
    for _, b := range sh.blocks {
        out := b.instrs[:0]
        for _, i := range b.instrs {
            if ai, ok := i.(*alu.AluInstr); ok {
                if _, ok := dead[ai]; ok {
                    continue
                }
            }
            out = append(out, i)
        }
        b.instrs = out
    }
}

// DCE removes instructions whose written value is never consumed,
// retiring their source uses so earlier producers can die too.
type DCE struct{}

func (self DCE) Apply(sh *Shader) bool {
    dead := make(map[*alu.AluInstr]struct{})
    q := lane.NewQueue()

    sh.AluInstructions(func(i *alu.AluInstr) {
        if i.ParentGroup() == nil {
            q.Enqueue(i)
        }
    })

    for !q.Empty() {
        i := q.Dequeue().(*alu.AluInstr)
        if _, ok := dead[i]; ok {
            continue
        }
        if i.ParentGroup() != nil || !self.unused(i) {
            continue
        }
        if !i.PropagateDeath() {
            continue
        }
        log.Debugf("dce: %v", i)
        atomic.AddInt64(&DCECount, 1)
        dead[i] = struct{}{}

        /* retired uses may have freed the producers of our sources */
        for _, s := range i.Sources() {
            if r := s.AsRegister(); r != nil {
                for _, p := range r.Parents() {
                    if pi, ok := p.(*alu.AluInstr); ok {
                        q.Enqueue(pi)
                    }
                }
            }
        }
    }

    if len(dead) == 0 {
        return false
    }
    removeDead(sh, dead)
    return true
}

func (self DCE) unused(i *alu.AluInstr) bool {
    if i.HasLDSAccess() {
        return false
    }
    if i.HasFlag(alu.FlagUpdateExec) || i.HasFlag(alu.FlagUpdatePred) {
        return false
    }
    if !i.HasFlag(alu.FlagWrite) || i.Dest() == nil {
        return false
    }
    return len(i.Dest().Uses()) == 0
}

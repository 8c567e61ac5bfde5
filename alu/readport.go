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
    `github.com/shaderkit/r600sfn/value`
)

const (
    maxGPRReadPorts = 3
    maxChanChannels = 4
    maxKCachePairs  = 2
    maxLiteralSlots = 4
)

// cycleVec maps a bank swizzle and a source position to the read cycle the
// operand is fetched in. Two operands reading different registers of the
// same channel in the same cycle collide.
var cycleVec = [6][3]int{
    Vec012: {0, 1, 2},
    Vec021: {0, 2, 1},
    Vec120: {1, 2, 0},
    Vec102: {1, 0, 2},
    Vec201: {2, 0, 1},
    Vec210: {2, 1, 0},
}

// ReadportReservation records which (cycle, channel) register fetches, which
// kcache lines and which literal dwords a group of ALU instructions has
// already claimed. It is a small value type: callers copy it, attempt a
// trial placement and keep the copy only on success.
type ReadportReservation struct {
    hwGPR      [maxGPRReadPorts][maxChanChannels]int
    kcacheSel  [maxKCachePairs]int
    kcacheBank [maxKCachePairs]int
    literals   [maxLiteralSlots]int64
    nLiterals  int
}

// NewReadportReservation returns an empty reservation.
func NewReadportReservation() ReadportReservation {
    var r ReadportReservation
    for c := range r.hwGPR {
        for b := range r.hwGPR[c] {
            r.hwGPR[c][b] = -1
        }
    }
    for i := range r.kcacheSel {
        r.kcacheSel[i] = -1
        r.kcacheBank[i] = -1
    }
    return r
}

// ScheduleVecSrc attempts to place up to three source operands under one
// bank-swizzle permutation. On success the reservation is updated and true
// is returned; on failure the reservation keeps its previous state.
func (self *ReadportReservation) ScheduleVecSrc(src [3]value.VirtualValue, nsrc int, swz BankSwizzle) bool {
    trial := *self

    for i := 0; i < nsrc; i++ {
        v := src[i]
        if v == nil {
            continue
        }

        switch {
            case v.AsInlineConst() != nil:
                // Inline constants are broadcast and never consume a port.

            case v.AsLiteral() != nil:
                if !trial.reserveLiteral(v.AsLiteral().Value(), i & 1) {
                    return false
                }

            case v.AsUniform() != nil:
                if !trial.reserveKCache(v.AsUniform()) {
                    return false
                }

            default:
                if !trial.reserveGPR(v.Sel(), v.Chan(), cycleVec[swz][i]) {
                    return false
                }
        }
    }

    *self = trial
    return true
}

// reserveGPR claims channel chn of the register file in the given read
// cycle. Re-reading the same register in the same cycle is free.
func (self *ReadportReservation) reserveGPR(sel int, chn int, cycle int) bool {
    if self.hwGPR[cycle][chn] == -1 {
        self.hwGPR[cycle][chn] = sel
        return true
    }
    return self.hwGPR[cycle][chn] == sel
}

// reserveKCache claims one of the constant cache line pairs; a group may
// address at most maxKCachePairs distinct lines.
func (self *ReadportReservation) reserveKCache(u *value.UniformValue) bool {
    line := u.Sel() >> 4
    for i := 0; i < maxKCachePairs; i++ {
        if self.kcacheSel[i] == -1 {
            self.kcacheSel[i] = line
            self.kcacheBank[i] = u.KCacheBank()
            return true
        }
        if self.kcacheSel[i] == line && self.kcacheBank[i] == u.KCacheBank() {
            return true
        }
    }
    return false
}

// reserveLiteral claims a literal dword slot. Literal slots come in pairs;
// a value re-used at the same parity is shared.
func (self *ReadportReservation) reserveLiteral(v uint32, parity int) bool {
    key := int64(v) << 1 | int64(parity)
    for i := 0; i < self.nLiterals; i++ {
        if self.literals[i] == key {
            return true
        }
    }
    if self.nLiterals == maxLiteralSlots {
        return false
    }
    self.literals[self.nLiterals] = key
    self.nLiterals++
    return true
}

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

// Package isa carries the target description shared by every stage of the
// shader compiler: the chip generation being targeted and the shader-wide
// option flags that change instruction selection.
package isa

import (
    `fmt`
)

// ChipClass identifies the R600-family GPU generation. Higher generations
// are strict supersets as far as the ALU instruction set is concerned, so
// ordered comparisons against chip classes are meaningful.
type ChipClass uint8

const (
    ChipR600 ChipClass = iota
    ChipR700
    ChipEvergreen
    ChipCayman
)

func (self ChipClass) String() string {
    switch self {
        case ChipR600      : return "R600"
        case ChipR700      : return "R700"
        case ChipEvergreen : return "EVERGREEN"
        case ChipCayman    : return "CAYMAN"
        default            : panic(fmt.Sprintf("isa: invalid chip class %d", uint8(self)))
    }
}

// ShaderFlag is a shader-wide option toggled by the driver before lowering
// starts.
type ShaderFlag uint8

const (
    // ShLegacyMathRules selects the non-IEEE dot product opcodes for APIs
    // that require legacy multiply semantics.
    ShLegacyMathRules ShaderFlag = iota

    // ShTransSlotOnly forces transcendental operations into the trans unit
    // even on chips where the vector units could execute them.
    ShTransSlotOnly

    ShaderFlagCount
)

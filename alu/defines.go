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

// Package alu implements the machine ALU instruction model of the R600
// shader backend: instruction construction and mutation, read-port and
// bank-swizzle legality, copy-propagation legality, multi-slot splitting,
// scheduler readiness, and a reversible textual form.
package alu

import (
    `fmt`
)

// AluOp is a regular ALU opcode with an arity of 1 to 3 sources.
type AluOp uint16

const (
    OpInvalid AluOp = iota

    Op0Nop

    Op1Mov
    Op1MovaInt
    Op1Floor
    Op1Ceil
    Op1Fract
    Op1Rndne
    Op1Trunc
    Op1ExpIeee
    Op1LogClamped
    Op1LogIeee
    Op1RecipIeee
    Op1RecipsqrtIeee
    Op1SqrtIeee
    Op1Sin
    Op1Cos
    Op1FltToInt
    Op1FltToUint
    Op1IntToFlt
    Op1UintToFlt
    Op1BcntInt
    Op1BfrevInt
    Op1NotInt
    Op1Max4
    Op1Flt32ToFlt64
    Op1Flt64ToFlt32
    Op1Flt32ToFlt16
    Op1Flt16ToFlt32
    Op1Fract64
    Op1Sqrt64
    Op1Recip64
    Op1Recipsqrt64
    Op1InterpLoadP0

    Op2Add
    Op2Mul
    Op2MulIeee
    Op2Max
    Op2Min
    Op2MaxDx10
    Op2MinDx10
    Op2Sete
    Op2Setne
    Op2Setgt
    Op2Setge
    Op2SeteDx10
    Op2SetneDx10
    Op2SetgtDx10
    Op2SetgeDx10
    Op2SeteInt
    Op2SetneInt
    Op2SetgtInt
    Op2SetgeInt
    Op2SetgtUint
    Op2SetgeUint
    Op2AddInt
    Op2SubInt
    Op2AndInt
    Op2OrInt
    Op2XorInt
    Op2LshlInt
    Op2LshrInt
    Op2AshrInt
    Op2MulloInt
    Op2MulhiInt
    Op2MulloUint
    Op2MulhiUint
    Op2BfmInt
    Op2Dot4
    Op2Dot4Ieee
    Op2PredSete
    Op2PredSetne
    Op2PredSetgt
    Op2PredSetge
    Op2PredSeteInt
    Op2PredSetneInt
    Op2Kille
    Op2Killgt
    Op2InterpX
    Op2InterpXY
    Op2InterpZ
    Op2InterpZW
    Op2Add64
    Op2Mul64
    Op2Max64
    Op2Min64
    Op2Sete64
    Op2Setne64
    Op2Setgt64
    Op2Setge64

    Op3Muladd
    Op3MuladdIeee
    Op3Fma
    Op3Cnde
    Op3Cndgt
    Op3Cndge
    Op3CndeInt
    Op3CndgtInt
    Op3CndgeInt
    Op3BfiInt
    Op3Fma64
    Op3Muladd64
)

// AluOpInfo is the static opcode metadata: source arity, canonical name and
// whether the opcode executes in the transcendental unit on pre-Cayman
// chips (Cayman replicates transcendentals across the vector slots).
type AluOpInfo struct {
    NSrc  int
    Name  string
    Trans bool
}

var aluOps = map[AluOp]AluOpInfo{
    Op0Nop: {0, "NOP", false},

    Op1Mov:           {1, "MOV", false},
    Op1MovaInt:       {1, "MOVA_INT", false},
    Op1Floor:         {1, "FLOOR", false},
    Op1Ceil:          {1, "CEIL", false},
    Op1Fract:         {1, "FRACT", false},
    Op1Rndne:         {1, "RNDNE", false},
    Op1Trunc:         {1, "TRUNC", false},
    Op1ExpIeee:       {1, "EXP_IEEE", true},
    Op1LogClamped:    {1, "LOG_CLAMPED", true},
    Op1LogIeee:       {1, "LOG_IEEE", true},
    Op1RecipIeee:     {1, "RECIP_IEEE", true},
    Op1RecipsqrtIeee: {1, "RECIPSQRT_IEEE", true},
    Op1SqrtIeee:      {1, "SQRT_IEEE", true},
    Op1Sin:           {1, "SIN", true},
    Op1Cos:           {1, "COS", true},
    Op1FltToInt:      {1, "FLT_TO_INT", true},
    Op1FltToUint:     {1, "FLT_TO_UINT", true},
    Op1IntToFlt:      {1, "INT_TO_FLT", true},
    Op1UintToFlt:     {1, "UINT_TO_FLT", true},
    Op1BcntInt:       {1, "BCNT_INT", false},
    Op1BfrevInt:      {1, "BFREV_INT", false},
    Op1NotInt:        {1, "NOT_INT", false},
    Op1Max4:          {1, "MAX4", false},
    Op1Flt32ToFlt64:  {1, "FLT32_TO_FLT64", false},
    Op1Flt64ToFlt32:  {1, "FLT64_TO_FLT32", false},
    Op1Flt32ToFlt16:  {1, "FLT32_TO_FLT16", false},
    Op1Flt16ToFlt32:  {1, "FLT16_TO_FLT32", false},
    Op1Fract64:       {1, "FRACT_64", false},
    Op1Sqrt64:        {2, "SQRT_64", true},
    Op1Recip64:       {2, "RECIP_64", true},
    Op1Recipsqrt64:   {2, "RECIPSQRT_64", true},
    Op1InterpLoadP0:  {1, "INTERP_LOAD_P0", false},

    Op2Add:          {2, "ADD", false},
    Op2Mul:          {2, "MUL", false},
    Op2MulIeee:      {2, "MUL_IEEE", false},
    Op2Max:          {2, "MAX", false},
    Op2Min:          {2, "MIN", false},
    Op2MaxDx10:      {2, "MAX_DX10", false},
    Op2MinDx10:      {2, "MIN_DX10", false},
    Op2Sete:         {2, "SETE", false},
    Op2Setne:        {2, "SETNE", false},
    Op2Setgt:        {2, "SETGT", false},
    Op2Setge:        {2, "SETGE", false},
    Op2SeteDx10:     {2, "SETE_DX10", false},
    Op2SetneDx10:    {2, "SETNE_DX10", false},
    Op2SetgtDx10:    {2, "SETGT_DX10", false},
    Op2SetgeDx10:    {2, "SETGE_DX10", false},
    Op2SeteInt:      {2, "SETE_INT", false},
    Op2SetneInt:     {2, "SETNE_INT", false},
    Op2SetgtInt:     {2, "SETGT_INT", false},
    Op2SetgeInt:     {2, "SETGE_INT", false},
    Op2SetgtUint:    {2, "SETGT_UINT", false},
    Op2SetgeUint:    {2, "SETGE_UINT", false},
    Op2AddInt:       {2, "ADD_INT", false},
    Op2SubInt:       {2, "SUB_INT", false},
    Op2AndInt:       {2, "AND_INT", false},
    Op2OrInt:        {2, "OR_INT", false},
    Op2XorInt:       {2, "XOR_INT", false},
    Op2LshlInt:      {2, "LSHL_INT", false},
    Op2LshrInt:      {2, "LSHR_INT", false},
    Op2AshrInt:      {2, "ASHR_INT", false},
    Op2MulloInt:     {2, "MULLO_INT", true},
    Op2MulhiInt:     {2, "MULHI_INT", true},
    Op2MulloUint:    {2, "MULLO_UINT", true},
    Op2MulhiUint:    {2, "MULHI_UINT", true},
    Op2BfmInt:       {2, "BFM_INT", false},
    Op2Dot4:         {2, "DOT4", false},
    Op2Dot4Ieee:     {2, "DOT4_IEEE", false},
    Op2PredSete:     {2, "PRED_SETE", false},
    Op2PredSetne:    {2, "PRED_SETNE", false},
    Op2PredSetgt:    {2, "PRED_SETGT", false},
    Op2PredSetge:    {2, "PRED_SETGE", false},
    Op2PredSeteInt:  {2, "PRED_SETE_INT", false},
    Op2PredSetneInt: {2, "PRED_SETNE_INT", false},
    Op2Kille:        {2, "KILLE", false},
    Op2Killgt:       {2, "KILLGT", false},
    Op2InterpX:      {2, "INTERP_X", false},
    Op2InterpXY:     {2, "INTERP_XY", false},
    Op2InterpZ:      {2, "INTERP_Z", false},
    Op2InterpZW:     {2, "INTERP_ZW", false},
    Op2Add64:        {2, "ADD_64", false},
    Op2Mul64:        {2, "MUL_64", false},
    Op2Max64:        {2, "MAX_64", false},
    Op2Min64:        {2, "MIN_64", false},
    Op2Sete64:       {2, "SETE_64", false},
    Op2Setne64:      {2, "SETNE_64", false},
    Op2Setgt64:      {2, "SETGT_64", false},
    Op2Setge64:      {2, "SETGE_64", false},

    Op3Muladd:     {3, "MULADD", false},
    Op3MuladdIeee: {3, "MULADD_IEEE", false},
    Op3Fma:        {3, "FMA", false},
    Op3Cnde:       {3, "CNDE", false},
    Op3Cndgt:      {3, "CNDGT", false},
    Op3Cndge:      {3, "CNDGE", false},
    Op3CndeInt:    {3, "CNDE_INT", false},
    Op3CndgtInt:   {3, "CNDGT_INT", false},
    Op3CndgeInt:   {3, "CNDGE_INT", false},
    Op3BfiInt:     {3, "BFI_INT", false},
    Op3Fma64:      {3, "FMA_64", false},
    Op3Muladd64:   {3, "MULADD_64", false},
}

// NSrc returns the per-slot source arity of op.
func NSrc(op AluOp) int {
    info, ok := aluOps[op]
    if !ok {
        panic(fmt.Sprintf("alu: invalid opcode %d", uint16(op)))
    }
    return info.NSrc
}

// OpInfo returns the static metadata of op.
func OpInfo(op AluOp) AluOpInfo {
    info, ok := aluOps[op]
    if !ok {
        panic(fmt.Sprintf("alu: invalid opcode %d", uint16(op)))
    }
    return info
}

// LDSOp is a local data share opcode. Its arity counts the address operand.
type LDSOp uint16

const (
    LDSInvalid LDSOp = iota
    LDSWrite
    LDSWriteRel
    LDSAdd
    LDSSub
    LDSAnd
    LDSOr
    LDSXor
    LDSMinInt
    LDSMaxInt
    LDSMinUint
    LDSMaxUint
    LDSAddRet
    LDSSubRet
    LDSAndRet
    LDSOrRet
    LDSXorRet
    LDSXchgRet
    LDSCmpXchgRet
    LDSReadRet
)

// LDSOpInfo is the static LDS opcode metadata; NSrc is the total operand
// count including the leading address.
type LDSOpInfo struct {
    NSrc int
    Name string
}

var ldsOps = map[LDSOp]LDSOpInfo{
    LDSWrite:      {2, "WRITE"},
    LDSWriteRel:   {3, "WRITE_REL"},
    LDSAdd:        {2, "ADD"},
    LDSSub:        {2, "SUB"},
    LDSAnd:        {2, "AND"},
    LDSOr:         {2, "OR"},
    LDSXor:        {2, "XOR"},
    LDSMinInt:     {2, "MIN_INT"},
    LDSMaxInt:     {2, "MAX_INT"},
    LDSMinUint:    {2, "MIN_UINT"},
    LDSMaxUint:    {2, "MAX_UINT"},
    LDSAddRet:     {2, "ADD_RET"},
    LDSSubRet:     {2, "SUB_RET"},
    LDSAndRet:     {2, "AND_RET"},
    LDSOrRet:      {2, "OR_RET"},
    LDSXorRet:     {2, "XOR_RET"},
    LDSXchgRet:    {2, "XCHG_RET"},
    LDSCmpXchgRet: {3, "CMP_XCHG_RET"},
    LDSReadRet:    {1, "READ_RET"},
}

// LDSOpInfoOf returns the static metadata of op.
func LDSOpInfoOf(op LDSOp) LDSOpInfo {
    info, ok := ldsOps[op]
    if !ok {
        panic(fmt.Sprintf("alu: invalid LDS opcode %d", uint16(op)))
    }
    return info
}

// Name tables for the parser, built once at init; the opcode tables are
// immutable afterwards so no lazy population is needed.
var (
    aluOpsByName = func() map[string]AluOp {
        m := make(map[string]AluOp, len(aluOps))
        for op, info := range aluOps {
            m[info.Name] = op
        }
        return m
    }()

    ldsOpsByName = func() map[string]LDSOp {
        m := make(map[string]LDSOp, len(ldsOps))
        for op, info := range ldsOps {
            m[info.Name] = op
        }
        return m
    }()
)

// AluFlag is one instruction modifier bit.
type AluFlag uint8

const (
    FlagWrite AluFlag = iota
    FlagLastInstr
    FlagSrc0Neg
    FlagSrc1Neg
    FlagSrc2Neg
    FlagSrc0Abs
    FlagSrc1Abs
    FlagSrc0Rel
    FlagSrc1Rel
    FlagSrc2Rel
    FlagDstClamp
    FlagUpdateExec
    FlagUpdatePred
    FlagIsLDS
    FlagIsTrans
    FlagIsCaymanTrans
    Flag64Bit
    FlagOp3
    FlagNoScheduleBias
    aluFlagCount
)

// AluFlags is the modifier bit set of one instruction.
type AluFlags uint32

func (self AluFlags) Test(f AluFlag) bool { return self & (1 << f) != 0 }

func (self *AluFlags) Set(f AluFlag)   { *self |= 1 << f }
func (self *AluFlags) Reset(f AluFlag) { *self &^= 1 << f }

// NewFlags builds a flag set from individual flags.
func NewFlags(flags ...AluFlag) AluFlags {
    var fs AluFlags
    for _, f := range flags {
        fs.Set(f)
    }
    return fs
}

// Common flag combinations used by the lowering helpers.
var (
    FlagsEmpty     = NewFlags()
    FlagsWrite     = NewFlags(FlagWrite)
    FlagsLast      = NewFlags(FlagLastInstr)
    FlagsLastWrite = NewFlags(FlagWrite, FlagLastInstr)
)

// Per-source modifier flag lookup; abs only exists for the first two
// sources in the hardware encoding.
var (
    srcNegFlags = [3]AluFlag{FlagSrc0Neg, FlagSrc1Neg, FlagSrc2Neg}
    srcAbsFlags = [2]AluFlag{FlagSrc0Abs, FlagSrc1Abs}
    srcRelFlags = [3]AluFlag{FlagSrc0Rel, FlagSrc1Rel, FlagSrc2Rel}
)

// BankSwizzle names one of the six operand-to-cycle permutations an
// instruction may use to read its sources without port conflicts.
type BankSwizzle uint8

const (
    Vec012 BankSwizzle = iota
    Vec021
    Vec120
    Vec102
    Vec201
    Vec210
    VecUnknown
)

var bankSwizzleNames = map[BankSwizzle]string{
    Vec012: "VEC_012",
    Vec021: "VEC_021",
    Vec120: "VEC_120",
    Vec102: "VEC_102",
    Vec201: "VEC_201",
    Vec210: "VEC_210",
}

func (self BankSwizzle) String() string {
    if s, ok := bankSwizzleNames[self]; ok {
        return s
    }
    return "VEC_UNKNOWN"
}

// CFAluOp annotates an instruction with the control-flow behavior of the
// clause it terminates.
type CFAluOp uint8

const (
    CFAlu CFAluOp = iota
    CFAluPushBefore
    CFAluPopAfter
    CFAluPop2After
    CFAluExtended
    CFAluBreak
    CFAluContinue
    CFAluElseAfter
)

// CFAlu itself has no textual form; a plain clause prints nothing.
var cfAluNames = map[CFAluOp]string{
    CFAluPushBefore: "PUSH_BEFORE",
    CFAluPopAfter:   "POP_AFTER",
    CFAluPop2After:  "POP2_AFTER",
    CFAluExtended:   "EXTENDED",
    CFAluBreak:      "BREAK",
    CFAluContinue:   "CONT",
    CFAluElseAfter:  "ELSE_AFTER",
}

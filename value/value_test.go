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
    `testing`

    `github.com/stretchr/testify/require`
)

type fakeUser struct {
    block     int
    index     int
    scheduled bool
}

func (self *fakeUser) BlockID() int      { return self.block }
func (self *fakeUser) Index() int        { return self.index }
func (self *fakeUser) IsScheduled() bool { return self.scheduled }

func TestValueStringRoundTrip(t *testing.T) {
    vf := NewFactory()
    vf.AllocArray(2, 2, 4, 0)

    for _, s := range []string{
        "R1.x",
        "R0.w",
        "S1024.y@free",
        "S12.z@chan",
        "R7.x@fully",
        "L[0x0]",
        "L[0xdeadbeef]",
        "L[0x3ff00000]",
        "I[0]",
        "I[1.0]",
        "I[1]",
        "I[-1]",
        "I[0.5]",
        "I[PV].z",
        "I[PS]",
        "I[LDS_OQ_A_POP]",
        "KC0[3].x",
        "KC1[7].w",
        "KC[S3.x][3].y",
        "A2[1].x",
        "A2[0].y",
        "A2[S3.x].y",
        "A2[S3.x+1].y",
    } {
        v := vf.SrcFromString(s)
        require.Equal(t, s, v.String())
    }
}

func TestFactoryInterning(t *testing.T) {
    vf := NewFactory()

    r1 := vf.SrcFromString("R1.x")
    r2 := vf.SrcFromString("R1.x")
    require.Same(t, r1, r2)

    s1 := vf.SrcFromString("S100.y")
    s2 := vf.SrcFromString("S100.y")
    require.Same(t, s1, s2)

    /* SSA and non-SSA registers with the same sel are distinct values */
    require.False(t, vf.SrcFromString("R100.y").EqualTo(s1))

    /* a pin suffix updates the interned register in place */
    s3 := vf.SrcFromString("S100.y@chan")
    require.Same(t, s1, s3)
    require.Equal(t, PinChan, s1.Pin())
}

func TestFactoryTempAllocation(t *testing.T) {
    vf := NewFactory()

    a := vf.Temp(PinFree)
    b := vf.Temp(PinFree)
    require.NotEqual(t, a.Sel(), b.Sel())
    require.True(t, a.HasFlag(RegSSA))
    require.NotEqual(t, a.Chan(), b.Chan())

    v := vf.TempVec4(PinGroup)
    for c := 0; c < 4; c++ {
        require.Equal(t, c, v[c].Chan())
        require.Equal(t, PinGroup, v[c].Pin())
        require.Equal(t, v[0].Sel(), v[c].Sel())
    }

    /* parsing an SSA name must not collide with future temps */
    r := vf.SrcFromString("S2000.x")
    tmp := vf.Temp(PinFree)
    require.Greater(t, tmp.Sel(), r.Sel())
}

func TestDestSpecInterning(t *testing.T) {
    vf := NewFactory()
    d := DestSpec{ID: 1, NumComponents: 2, WriteMask: 0x3, SSA: true}

    r0 := vf.Dest(d, 0, PinNone)
    r1 := vf.Dest(d, 1, PinNone)
    require.NotSame(t, r0, r1)
    require.Same(t, r0, vf.Dest(d, 0, PinNone))

    /* a stronger pin upgrades a free or unset one */
    vf.Dest(d, 0, PinChan)
    require.Equal(t, PinChan, r0.Pin())
}

func TestRegisterReady(t *testing.T) {
    r := NewRegister(1, 0, PinNone)

    early := &fakeUser{block: 0, index: 5}
    late := &fakeUser{block: 1, index: 2}
    r.AddParent(early)
    r.AddParent(late)

    /* the early writer is pending */
    require.False(t, r.Ready(0, 10))

    early.scheduled = true
    require.True(t, r.Ready(0, 10))

    /* the later writer never blocks an earlier position */
    require.True(t, r.Ready(1, 0))

    late.scheduled = true
    require.True(t, r.Ready(2, 0))
}

func TestArrayValueReadyChecksAddr(t *testing.T) {
    vf := NewFactory()
    arr := vf.AllocArray(4, 1, 8, 0)

    addr := NewRegister(10, 0, PinNone)
    writer := &fakeUser{block: 0, index: 1}
    addr.AddParent(writer)

    elem := arr.Element(2, addr, 0)
    require.False(t, elem.Ready(0, 5))

    writer.scheduled = true
    require.True(t, elem.Ready(0, 5))
}

func TestLocalArrayBounds(t *testing.T) {
    arr := NewLocalArray(2, 2, 4, 0)

    require.NotNil(t, arr.Element(3, nil, 1))
    require.Panics(t, func() { arr.Element(4, nil, 0) })
    require.Panics(t, func() { arr.Element(0, nil, 2) })

    /* direct elements are interned, indirect ones are not */
    require.Same(t, arr.Element(1, nil, 0), arr.Element(1, nil, 0))
    addr := NewRegister(10, 0, PinNone)
    require.NotSame(t, arr.Element(1, addr, 0), arr.Element(1, addr, 0))
}

func TestUseListMaintenance(t *testing.T) {
    r := NewRegister(1, 0, PinNone)
    u1 := &fakeUser{}
    u2 := &fakeUser{}

    r.AddUse(u1)
    r.AddUse(u1)
    r.AddUse(u2)
    require.Len(t, r.Uses(), 2)

    r.DelUse(u1)
    require.Len(t, r.Uses(), 1)
    require.False(t, r.HasUse(u1))
    require.True(t, r.HasUse(u2))
}

func TestInlineConstantEquality(t *testing.T) {
    pvx := NewInlineConstant(AluSrcPV, 0)
    pvy := NewInlineConstant(AluSrcPV, 1)
    require.False(t, pvx.EqualTo(pvy))
    require.True(t, pvx.EqualTo(NewInlineConstant(AluSrcPV, 0)))

    /* only PV is per channel */
    one := NewInlineConstant(AluSrc1, 0)
    require.True(t, one.EqualTo(NewInlineConstant(AluSrc1, 2)))
}

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

package debug

import (
    `testing`

    `github.com/stretchr/testify/require`
    `github.com/shaderkit/r600sfn/isa`
    `github.com/shaderkit/r600sfn/shader`
)

func TestGetStats(t *testing.T) {
    base := GetStats()
    sh := shader.FromString("ALU ADD S1.x : R0.x R0.y {WL}\n"+
                            "ALU MOV S2.y : S1.x {WL}\n"+
                            "ALU MUL_IEEE S3.z : S2.y R0.z {WL}\n", isa.ChipEvergreen)

    shader.Optimize(sh)
    st := GetStats()

    require.Greater(t, st.Sweeps, base.Sweeps)
    require.Greater(t, st.CopyProp.Forward, base.CopyProp.Forward)
    require.Greater(t, st.DCE.Removed, base.DCE.Removed)
}

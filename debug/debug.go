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
    `sync/atomic`

    `github.com/shaderkit/r600sfn/shader`
)

// A Stats records statistics about the optimizer passes.
type Stats struct {
    Sweeps  int
    CopyProp PassStats
    DCE      PassStats
}

// A PassStats records how many instructions a pass rewrote or removed.
type PassStats struct {
    Forward  int
    Backward int
    Removed  int
}

// GetStats returns statistics accumulated by the optimizer since process start.
func GetStats() Stats {
    return Stats{
        Sweeps: int(atomic.LoadInt64(&shader.SweepCount)),
        CopyProp: PassStats{
            Forward:  int(atomic.LoadInt64(&shader.FwdCount)),
            Backward: int(atomic.LoadInt64(&shader.BwdCount)),
        },
        DCE: PassStats{
            Removed: int(atomic.LoadInt64(&shader.DCECount)),
        },
    }
}

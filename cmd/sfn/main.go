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

package main

import (
    `fmt`
    `os`
    `strings`

    `github.com/davecgh/go-spew/spew`
    log `github.com/sirupsen/logrus`
    `github.com/spf13/cobra`
    `github.com/shaderkit/r600sfn/alu`
    `github.com/shaderkit/r600sfn/debug`
    `github.com/shaderkit/r600sfn/isa`
    `github.com/shaderkit/r600sfn/shader`
    `github.com/shaderkit/r600sfn/value`
)

var (
    verbose  bool
    chipName string
)

var rootCmd = &cobra.Command{
    Use:   "sfn",
    Short: "Tooling for the r600 ALU instruction model.",
    PersistentPreRun: func(cmd *cobra.Command, args []string) {
        if verbose {
            log.SetLevel(log.DebugLevel)
        }
    },
}

var roundtripCmd = &cobra.Command{
    Use:   "roundtrip <file>",
    Short: "Parse an instruction listing and print it back.",
    Args:  cobra.ExactArgs(1),
    RunE: func(cmd *cobra.Command, args []string) error {
        sh, err := loadShader(args[0])
        if err != nil {
            return err
        }
        fmt.Print(sh.String())
        return nil
    },
}

var copypropCmd = &cobra.Command{
    Use:   "copyprop <file>",
    Short: "Run copy propagation and dead-code elimination on a listing.",
    Args:  cobra.ExactArgs(1),
    RunE: func(cmd *cobra.Command, args []string) error {
        sh, err := loadShader(args[0])
        if err != nil {
            return err
        }
        shader.Optimize(sh)
        fmt.Print(sh.String())
        if verbose {
            st := debug.GetStats()
            log.Debugf("sweeps=%d fwd=%d bwd=%d dce=%d",
                st.Sweeps, st.CopyProp.Forward, st.CopyProp.Backward, st.DCE.Removed)
        }
        return nil
    },
}

var lowerCmd = &cobra.Command{
    Use:   "lower <op> <srcvec>...",
    Short: "Lower a generic vector operation and print the instruction stream.",
    Long: "Each source vector is a comma-separated list of operands, one per\n" +
          "component, e.g. `lower ADD R1.x,R1.y,R1.z R2.x,R2.y,R2.z`.",
    Args: cobra.MinimumNArgs(2),
    RunE: func(cmd *cobra.Command, args []string) (err error) {
        chip, err := chipFromName(chipName)
        if err != nil {
            return err
        }
        op, ok := alu.OpFromName(args[0])
        if !ok {
            return fmt.Errorf("unknown opcode %q", args[0])
        }
        if len(args)-1 != alu.NSrc(op) {
            return fmt.Errorf("%s takes %d source vectors, got %d", args[0], alu.NSrc(op), len(args)-1)
        }
        defer func() {
            if r := recover(); r != nil {
                err = fmt.Errorf("lower: %v", r)
            }
        }()

        sh := shader.NewShader(chip)
        vf := sh.ValueFactory()
        srcs := make([]value.SrcSpec, 0, len(args)-1)
        nc := 0

        for _, arg := range args[1:] {
            s := value.SrcSpec{Swizzle: value.NoSwizzle}
            for _, name := range strings.Split(arg, ",") {
                s.Elems = append(s.Elems, vf.SrcFromString(name))
            }
            if nc == 0 {
                nc = len(s.Elems)
            } else if len(s.Elems) != nc {
                return fmt.Errorf("source vectors disagree on component count")
            }
            srcs = append(srcs, s)
        }

        d := value.DestSpec{
            ID:            1,
            NumComponents: nc,
            WriteMask:     uint8(1 << nc) - 1,
            SSA:           true,
        }
        switch alu.NSrc(op) {
            case 1  : alu.EmitAluOp1(sh, op, d, srcs[0], alu.FlagsEmpty)
            case 2  : alu.EmitAluOp2(sh, op, d, srcs[0], srcs[1], alu.Op2OptNone)
            case 3  : alu.EmitAluOp3(sh, op, d, [3]value.SrcSpec{srcs[0], srcs[1], srcs[2]}, [3]int{0, 1, 2})
            default : return fmt.Errorf("%s is not lowerable here", args[0])
        }
        fmt.Print(sh.String())
        return nil
    },
}

var dumpCmd = &cobra.Command{
    Use:   "dump <file>",
    Short: "Parse an instruction listing and dump the in-memory form.",
    Args:  cobra.ExactArgs(1),
    RunE: func(cmd *cobra.Command, args []string) error {
        sh, err := loadShader(args[0])
        if err != nil {
            return err
        }
        sh.AluInstructions(func(instr *alu.AluInstr) {
            spew.Fdump(os.Stdout, instr)
        })
        return nil
    },
}

func loadShader(path string) (sh *shader.Shader, err error) {
    chip, err := chipFromName(chipName)
    if err != nil {
        return nil, err
    }
    data, err := os.ReadFile(path)
    if err != nil {
        return nil, err
    }
    defer func() {
        if r := recover(); r != nil {
            err = fmt.Errorf("%s: %v", path, r)
        }
    }()
    return shader.FromString(string(data), chip), nil
}

func chipFromName(name string) (isa.ChipClass, error) {
    switch strings.ToLower(name) {
        case "r600"      : return isa.ChipR600, nil
        case "r700"      : return isa.ChipR700, nil
        case "evergreen" : return isa.ChipEvergreen, nil
        case "cayman"    : return isa.ChipCayman, nil
        default          : return 0, fmt.Errorf("unknown chip class %q", name)
    }
}

func main() {
    rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
    rootCmd.PersistentFlags().StringVar(&chipName, "chip", "evergreen", "chip class (r600, r700, evergreen, cayman)")
    rootCmd.AddCommand(roundtripCmd)
    rootCmd.AddCommand(copypropCmd)
    rootCmd.AddCommand(lowerCmd)
    rootCmd.AddCommand(dumpCmd)

    if err := rootCmd.Execute(); err != nil {
        os.Exit(1)
    }
}

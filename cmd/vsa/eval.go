package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kolkov/vsa/internal/ssa"
	"github.com/kolkov/vsa/vsa"
)

func newEvalCmd() *cobra.Command {
	var configPath, programPath, exprPath, vertex string
	var asArray bool
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate a single expression against the fixpoint state at one vertex",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(configPath, programPath, exprPath, vertex, asArray)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to the YAML run configuration (required)")
	cmd.Flags().StringVar(&programPath, "program", "", "path to the JSON program file (required)")
	cmd.Flags().StringVar(&exprPath, "expr", "", "path to a JSON-encoded expression (required)")
	cmd.Flags().StringVar(&vertex, "vertex", "", "vertex ID whose fixpoint state to evaluate against (required)")
	cmd.Flags().BoolVar(&asArray, "array", false, "evaluate as a memory (array) expression instead of scalar")
	cmd.MarkFlagRequired("config")
	cmd.MarkFlagRequired("program")
	cmd.MarkFlagRequired("expr")
	cmd.MarkFlagRequired("vertex")
	return cmd
}

func runEval(configPath, programPath, exprPath, vertex string, asArray bool) error {
	cfg, err := loadRunConfig(configPath)
	if err != nil {
		return err
	}
	pf, err := readProgramFile(programPath)
	if err != nil {
		return err
	}
	prog, vars, err := loadProgram(pf)
	if err != nil {
		return err
	}

	dcfg := cfg.toDriverConfig()
	if sp, ok := vars[cfg.SP]; ok {
		dcfg.SP = sp
	}
	if mem, ok := vars[cfg.Mem]; ok {
		dcfg.Mem = mem
	}

	d, err := vsa.Analyze(prog, driverConfigToVSA(dcfg))
	if err != nil {
		return err
	}
	state := d.StateAt(ssa.VertexID(vertex))
	if state == nil {
		return fmt.Errorf("eval: vertex %q was never reached", vertex)
	}

	raw, err := os.ReadFile(exprPath)
	if err != nil {
		return fmt.Errorf("eval: %w", err)
	}
	expr, err := decodeExpr(json.RawMessage(raw), vars)
	if err != nil {
		return fmt.Errorf("eval: %w", err)
	}

	memMax := dcfg.MemMax
	if memMax <= 0 {
		memMax = 1 << 16
	}
	if asArray {
		fmt.Println(vsa.EvalArray(state, expr, memMax).String())
	} else {
		fmt.Println(vsa.EvalScalar(state, expr, memMax).String())
	}
	return nil
}

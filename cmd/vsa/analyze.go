package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kolkov/vsa/internal/driver"
	"github.com/kolkov/vsa/internal/ssa"
	"github.com/kolkov/vsa/vsa"
)

func newAnalyzeCmd() *cobra.Command {
	var configPath, programPath string
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the fixpoint dataflow over a program and print the state at each vertex",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(configPath, programPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to the YAML run configuration (required)")
	cmd.Flags().StringVar(&programPath, "program", "", "path to the JSON program file (required)")
	cmd.MarkFlagRequired("config")
	cmd.MarkFlagRequired("program")
	return cmd
}

func runAnalyze(configPath, programPath string) error {
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

	ids := make([]string, 0, len(pf.Vertices))
	for id := range pf.Vertices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		state := d.StateAt(ssa.VertexID(id))
		fmt.Printf("%s: %s\n", id, vsa.Pretty(state))
	}
	fmt.Fprintln(os.Stderr, d.Stats().String())
	return nil
}

func driverConfigToVSA(dc driver.Config) vsa.Config {
	return vsa.Config{
		InitialMem:     dc.InitialMem,
		SP:             dc.SP,
		Mem:            dc.Mem,
		NMeets:         dc.NMeets,
		SignednessHack: dc.SignednessHack,
		MemMax:         dc.MemMax,
		Logger:         dc.Logger,
	}
}

func readProgramFile(path string) (programFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return programFile{}, fmt.Errorf("program: %w", err)
	}
	var pf programFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return programFile{}, fmt.Errorf("program: %w", err)
	}
	return pf, nil
}

package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/CyberArt2718281/assembler-uvm/interp"
	"github.com/CyberArt2718281/assembler-uvm/vm"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] image_file trace_file",
	Short: "Execute a binary image and write a memory trace.",
	Long: `Execute a binary image and write a memory trace.
	The run stops at end of program, on a fault, or once the tick budget is
	consumed. The trace is written even when the run faults, so partial
	state remains inspectable; a fault exits with status 2.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if getFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		cfg := vm.Config{
			MemorySize: getInt(cmd, "memory"),
			TickBudget: getInt(cmd, "ticks"),
		}

		ip, err := interp.New(cfg)
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}
		ip.Verbose = getFlag(cmd, "verbose")

		err = ip.LoadFile(args[0])
		if err != nil {
			log.Errorf("%v: %v", args[0], err)
			os.Exit(1)
		}

		runErr := ip.Run()

		from := getInt(cmd, "from")
		to := getInt(cmd, "to")
		if to < 0 {
			to = cfg.MemorySize - 1
		}

		rep, err := ip.Report(from, to)
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}

		trace, err := os.Create(args[1])
		if err != nil {
			log.Errorf("%v: %v", args[1], err)
			os.Exit(1)
		}
		defer trace.Close()

		err = rep.WriteXML(trace)
		if err != nil {
			log.Errorf("%v: %v", args[1], err)
			os.Exit(1)
		}

		if runErr != nil {
			log.Errorf("%v: %v", args[0], runErr)
			os.Exit(2)
		}

		log.Infof("%v after %d ticks", ip.Machine.Reason(), ip.Machine.Ticks)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Int("memory", 100000, "memory size in words")
	runCmd.Flags().Int("ticks", 100000, "tick budget for the run")
	runCmd.Flags().Int("from", 0, "first address of the trace range")
	runCmd.Flags().Int("to", -1, "last address of the trace range (default memory-1)")
}

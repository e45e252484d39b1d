package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/CyberArt2718281/assembler-uvm/vm"
)

// asmCmd represents the asm command
var asmCmd = &cobra.Command{
	Use:   "asm [flags] source_file output_file",
	Short: "Assemble a source file into a binary image.",
	Long: `Assemble a source file into a binary image.
	Source is UTF-8 text, one instruction per line; '#' starts a comment.
	On failure no output file is written.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if getFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		asm := &vm.Assembler{Verbose: getFlag(cmd, "verbose")}
		for _, define := range getStringArray(cmd, "define") {
			name, value, ok := strings.Cut(define, "=")
			if !ok {
				log.Errorf("bad define '%v': want NAME=VALUE", define)
				os.Exit(1)
			}
			asm.Predefine(name, value)
		}

		input, err := os.Open(args[0])
		if err != nil {
			log.Errorf("%v: %v", args[0], err)
			os.Exit(1)
		}
		defer input.Close()

		prog, err := asm.Parse(input)
		if err != nil {
			log.Errorf("%v: %v", args[0], err)
			os.Exit(1)
		}

		image, err := prog.Binary()
		if err != nil {
			log.Errorf("%v: %v", args[0], err)
			os.Exit(1)
		}

		if getFlag(cmd, "listing") {
			err = prog.Listing(os.Stdout)
			if err != nil {
				log.Errorf("listing: %v", err)
				os.Exit(1)
			}
		}

		err = os.WriteFile(args[1], image, 0o644)
		if err != nil {
			log.Errorf("%v: %v", args[1], err)
			os.Exit(1)
		}

		log.Infof("assembled %d instructions, %d bytes", len(prog.Statements), len(image))
	},
}

func init() {
	rootCmd.AddCommand(asmCmd)
	asmCmd.Flags().Bool("listing", false, "print an assembly listing to stdout")
	asmCmd.Flags().StringArrayP("define", "D", nil, "predefine an equate (NAME=VALUE)")
}

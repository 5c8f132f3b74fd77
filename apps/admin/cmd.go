package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/report"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf  *core.Config
	codec report.Codec
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  report -out FILE WORKBOOK [WORKBOOK ...] - merge class workbooks and write the performance report")
	fmt.Println("  initdb                                   - create the database schema if it does not exist")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	reportCmd := flag.NewFlagSet("report", flag.ContinueOnError)
	reportOut := reportCmd.String("out", "class_performance_report.xlsx", "The output workbook path.")

	switch args[1] {
	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if reportCmd.NArg() == 0 {
			reportCmd.Usage()
			return errHelp
		}
		return cli.generateReport(*reportOut, reportCmd.Args())
	case "initdb":
		return cli.initDB()
	default:
		cli.printUsage()
		return errHelp
	}
}

// fig2b-arrhythmicity plots shank angular velocity at each titrated
// stimulation level beside arrhythmicity over the session.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/carbocation/dbsfigures/figure"
	"github.com/carbocation/dbsfigures/titration"
)

// Special value that is to be set using ldflags
// E.g.: go build -ldflags "-X main.builddate=`date -u +%Y-%m-%d:%H:%M:%S%Z`"
var builddate string

func main() {
	fmt.Fprintf(os.Stderr, "This fig2b-arrhythmicity binary was built at: %s\n", builddate)

	var dir, arrPath, name string
	flag.StringVar(&dir, "dir", "", "Folder holding shankav_<level>.csv for each titrated level.")
	flag.StringVar(&arrPath, "arr", "", "(Optional) Path to the arrhythmicity table. Defaults to arr_table.csv inside --dir.")
	flag.StringVar(&name, "name", "fig2b_arrhythmicity_threshold", "Base name of the output files.")
	flags := figure.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if dir == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}
	if arrPath == "" {
		arrPath = filepath.Join(dir, "arr_table.csv")
	}
	if flags.Formats == "" && os.Getenv(figure.EnvPrefix+"_FORMATS") == "" {
		flags.Formats = "png,svg"
	}

	if err := run(dir, arrPath, name, flags); err != nil {
		log.Fatalln(err)
	}
}

func run(dir, arrPath, name string, flags *figure.Flags) error {
	_, settings, err := flags.Resolve()
	if err != nil {
		return err
	}

	traces, err := titration.LoadTraces(dir)
	if err != nil {
		return err
	}

	series, err := titration.LoadArrhythmicity(arrPath)
	if err != nil {
		return err
	}

	layout, err := titration.ThresholdFigure(traces, series)
	if err != nil {
		return err
	}

	_, err = layout.Save(name, settings)
	return err
}

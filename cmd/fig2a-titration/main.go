// fig2a-titration plots percent time freezing at each stimulation level of a
// titration session, with the therapeutic window shaded.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/carbocation/dbsfigures/figure"
	"github.com/carbocation/dbsfigures/titration"
)

// Special value that is to be set using ldflags
// E.g.: go build -ldflags "-X main.builddate=`date -u +%Y-%m-%d:%H:%M:%S%Z`"
var builddate string

func main() {
	fmt.Fprintf(os.Stderr, "This fig2a-titration binary was built at: %s\n", builddate)

	var input, name string
	flag.StringVar(&input, "input", "", "Path to the titration output (CSV, TSV, xlsx or xls) with 'Stim Level' and 'freezes' columns.")
	flag.StringVar(&name, "name", "fig2a_titration_freezing", "Base name of the output files.")
	flags := figure.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if input == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(input, name, flags); err != nil {
		log.Fatalln(err)
	}
}

func run(input, name string, flags *figure.Flags) error {
	_, settings, err := flags.Resolve()
	if err != nil {
		return err
	}

	levels, err := titration.LoadLevels(input)
	if err != nil {
		return err
	}

	layout, err := titration.FreezingFigure(levels)
	if err != nil {
		return err
	}

	_, err = layout.Save(name, settings)
	return err
}

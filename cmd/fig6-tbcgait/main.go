// fig6-tbcgait draws the turning and barrier course gait outcomes per
// condition and per patient, averaging the two walking tasks.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/carbocation/dbsfigures/figure"
	"github.com/carbocation/dbsfigures/gait"
)

// Special value that is to be set using ldflags
// E.g.: go build -ldflags "-X main.builddate=`date -u +%Y-%m-%d:%H:%M:%S%Z`"
var builddate string

func main() {
	fmt.Fprintf(os.Stderr, "This fig6-tbcgait binary was built at: %s\n", builddate)

	var input, name string
	flag.StringVar(&input, "input", "", "Path to MergedTBCMetrics (CSV, xlsx or xls).")
	flag.StringVar(&name, "name", "fig6_tbc_gait", "Base name of the output files.")
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
	cfg, settings, err := flags.Resolve()
	if err != nil {
		return err
	}

	obs, err := gait.LoadTBC(input, cfg)
	if err != nil {
		return err
	}

	layout, err := gait.TBCPanels(obs, cfg, settings.Seed).Layout(cfg)
	if err != nil {
		return err
	}

	_, err = layout.Save(name, settings)
	return err
}

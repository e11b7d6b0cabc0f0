// fig4-safety summarizes the stimulation side-effect surveys of each model
// and draws one donut per model.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/carbocation/dbsfigures/figure"
	"github.com/carbocation/dbsfigures/safety"
)

// Special value that is to be set using ldflags
// E.g.: go build -ldflags "-X main.builddate=`date -u +%Y-%m-%d:%H:%M:%S%Z`"
var builddate string

func main() {
	fmt.Fprintf(os.Stderr, "This fig4-safety binary was built at: %s\n", builddate)

	var sipPath, tbcPath, name string
	flag.StringVar(&sipPath, "sip", "", "Path to the stepping-in-place side-effect survey (xlsx, xls or CSV).")
	flag.StringVar(&tbcPath, "tbc", "", "Path to the turning and barrier course side-effect survey (xlsx, xls or CSV).")
	flag.StringVar(&name, "name", "fig4_safety", "Base name of the output files.")
	flags := figure.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if sipPath == "" || tbcPath == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(sipPath, tbcPath, name, flags); err != nil {
		log.Fatalln(err)
	}
}

func run(sipPath, tbcPath, name string, flags *figure.Flags) error {
	cfg, settings, err := flags.Resolve()
	if err != nil {
		return err
	}

	surveys := make(map[safety.Survey][]safety.Response)
	for _, in := range []struct {
		survey safety.Survey
		path   string
	}{{safety.SIP, sipPath}, {safety.TBC, tbcPath}} {
		rs, err := safety.Load(in.path)
		if err != nil {
			return err
		}
		log.Printf("Read %d %s survey responses from %s\n", len(rs), in.survey, in.path)
		surveys[in.survey] = rs
	}

	panels := safety.Summarize(safety.Cohorts, surveys)

	_, err = safety.Render(panels, cfg, settings, name)
	return err
}

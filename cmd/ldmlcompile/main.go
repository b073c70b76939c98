package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/aretext/ldmlcompile/internal/ldml/config"
	"github.com/aretext/ldmlcompile/internal/ldml/emit"
	"github.com/aretext/ldmlcompile/internal/ldml/graph"
	"github.com/aretext/ldmlcompile/internal/ucd"
)

var inputDir = flag.String("input", "./transforms", "directory of CLDR transform XML files")
var configPath = flag.String("config", "", "override file for the supplemental rule table / script map")
var logpath = flag.String("log", "", "log to file")
var verbose = flag.Bool("v", false, "log dropped and skipped rules/transforms")

func main() {
	flag.Usage = printUsage
	flag.Parse()
	if len(flag.Args()) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	log.SetFlags(log.Ltime | log.Lmicroseconds | log.Llongfile)
	if *logpath != "" {
		logFile, err := os.Create(*logpath)
		if err != nil {
			exitWithError(err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	} else {
		log.SetOutput(ioutil.Discard)
	}

	outputDir := flag.Arg(0)

	doc, err := config.Load(*configPath)
	if err != nil {
		exitWithError(err)
	}

	oracle := ucd.NewStd()
	linker := graph.NewLinker(oracle, doc.RuleMap, *verbose)

	log.Printf("Loading transforms from %q\n", *inputDir)
	if err := linker.LoadDir(*inputDir); err != nil {
		exitWithError(err)
	}

	if err := linker.Link(doc.Supplemental); err != nil {
		exitWithError(err)
	}

	for _, m := range linker.Missing {
		logOrPrint(*verbose, "missing dependency: %s -> %s", m.From, m.To)
	}
	for _, u := range linker.Unreachable {
		logOrPrint(*verbose, "unreachable transform dropped: %s", u.Name)
	}

	log.Printf("Writing %d transforms, %d steps, %d rules to %q\n",
		len(linker.AllTransforms), len(linker.AllSteps), len(linker.AllRules), outputDir)

	if err := emit.WriteTables(outputDir, linker, doc.ScriptMap); err != nil {
		exitWithError(err)
	}
}

func logOrPrint(verbose bool, format string, args ...interface{}) {
	if verbose {
		log.Printf(format, args...)
	}
}

func printUsage() {
	f := flag.CommandLine.Output()
	fmt.Fprintf(f, "Usage: %s [OPTIONS] OUTPUT_DIR\n", os.Args[0])
	flag.PrintDefaults()
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "%v\n", err)
	os.Exit(1)
}

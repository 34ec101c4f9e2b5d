/*******************************************************************************
*
* Copyright 2025 nachotacos69
*
* This file is part of GE2Extra.
*
* GE2Extra is free software: you can redistribute it and/or modify it under the
* terms of the GNU General Public License as published by the Free Software
* Foundation, either version 3 of the License, or (at your option) any later
* version.
*
* GE2Extra is distributed in the hope that it will be useful, but WITHOUT ANY
* WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR
* A PARTICULAR PURPOSE. See the GNU General Public License for more details.
*
* You should have received a copy of the GNU General Public License along with
* GE2Extra. If not, see <http://www.gnu.org/licenses/>.
*
*******************************************************************************/

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/ogier/pflag"

	"github.com/nachotacos69/GE2Extra/src/res-extract/extract"
	"github.com/nachotacos69/GE2Extra/src/res-extract/pres"
)

//VersionString returns the version of this program.
func VersionString() string {
	return "res-extract 1.0"
}

type options struct {
	inputFileName string
	localized     bool
	languages     []string
	outputDir     string
	configFile    string
}

//languageList collects repeated --language flags and validates each label.
type languageList []string

//String implements the pflag.Value interface.
func (l *languageList) String() string {
	return strings.Join(*l, ",")
}

//Set implements the pflag.Value interface.
func (l *languageList) Set(value string) error {
	if !pres.KnownLanguage(value) {
		return fmt.Errorf("unknown language '%s' (choose from: %s)", value, strings.Join(pres.Languages6, ", "))
	}
	*l = append(*l, value)
	return nil
}

func main() {
	opts, earlyExit := parseArgs()
	if earlyExit {
		return
	}

	cfg, err := readConfig(opts.configFile)
	if err != nil {
		showError(err)
		os.Exit(1)
	}

	//flags override configuration values
	if opts.outputDir == "" {
		opts.outputDir = cfg.Output
	}
	if len(opts.languages) == 0 {
		opts.languages = cfg.Languages
	}
	//the default output root is the archive name without its extension, next
	//to the archive itself
	if opts.outputDir == "" {
		opts.outputDir = strings.TrimSuffix(opts.inputFileName, filepath.Ext(opts.inputFileName))
	}

	env := extract.CurrentEnvironment()
	env.RDPDirs = cfg.RDPDirs
	env.Languages = pres.NewLanguageFilter(opts.languages)

	extractor := extract.NewExtractor(env)
	defer extractor.Close()
	extractor.Progress = os.Stdout
	extractor.OnDiagnostic = func(d extract.Diagnostic) {
		if d.Kind.IsFatal() {
			showError(errors.New(d.String()))
		} else {
			ShowWarning(d.String())
		}
	}

	extractor.ExtractFile(opts.inputFileName, opts.localized, opts.outputDir)

	if extractor.Report.HasFatal() {
		os.Exit(2)
	}
}

func parseArgs() (result options, exit bool) {
	var opts options
	var languages languageList
	showVersion := false

	//ContinueOnError so that flag errors exit with the usage status 1 below;
	//status 2 is reserved for fatal archive errors
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.Usage = printHelp
	flags.BoolVar(&opts.localized, "localized", false, "parse the archive as a localized container")
	flags.StringVar(&opts.outputDir, "output", "", "output root directory")
	flags.StringVar(&opts.configFile, "config", "", "TOML configuration file")
	flags.BoolVar(&showVersion, "version", false, "print version and exit")
	flags.Var(&languages, "language", "restrict localized extraction to this language (repeatable)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	if showVersion {
		fmt.Println(VersionString())
		return opts, true
	}

	args := flags.Args()
	if len(args) != 1 {
		showError(errors.New("exactly one archive path is required"))
		printHelp()
		os.Exit(1)
	}
	opts.inputFileName = args[0]
	opts.languages = languages
	return opts, false
}

func printHelp() {
	program := os.Args[0]
	fmt.Printf("Usage: %s <options> <archive>\n\nOptions:\n", program)
	fmt.Println("  --localized\t\tParse the archive as a localized (multi-language) container")
	fmt.Println("  --language NAME\tRestrict localized extraction to this language (may be repeated)")
	fmt.Println("  --output DIR\t\tWrite extracted files below DIR (default: archive name without extension)")
	fmt.Println("  --config FILE\t\tRead defaults from a TOML configuration file")
	fmt.Println("  --version\t\tPrint version information")
}

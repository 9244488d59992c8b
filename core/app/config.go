package app

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
)

// ErrDuplicateParameter is returned if two plugins register the same parameter.
var ErrDuplicateParameter = errors.New("parameter registered twice")

func printList(title string, a []string) {
	if len(a) == 0 {
		return
	}
	sort.Strings(a)
	fmt.Printf("\n%s: \n   - %s\n", title, strings.Join(a, "\n   - "))
}

// merges the flag sets of all plugins per config.
func normalizeFlagSets(params map[string][]*flag.FlagSet) (map[string]*flag.FlagSet, error) {
	fs := make(map[string]*flag.FlagSet)
	for cfgName, flagSets := range params {

		if _, has := cfgNames[cfgName]; !has {
			return nil, errors.Wrap(ErrConfigDoesNotExist, cfgName)
		}

		flagsUnderSameCfg := flag.NewFlagSet("", flag.ContinueOnError)
		var duplicate string
		for _, flagSet := range flagSets {
			flagSet.VisitAll(func(f *flag.Flag) {
				if flagsUnderSameCfg.Lookup(f.Name) != nil {
					duplicate = f.Name
					return
				}
				flagsUnderSameCfg.AddFlag(f)
			})
		}
		if duplicate != "" {
			return nil, errors.Wrapf(ErrDuplicateParameter, "%s in %s", duplicate, cfgName)
		}
		fs[cfgName] = flagsUnderSameCfg
	}
	return fs, nil
}

// loads the config file, the default values of the flags and the environment variables.
func loadCfg(flagSets map[string]*flag.FlagSet) error {
	if err := nodeConfig.LoadFile(*nodeCfgFilePath); err != nil {
		if hasFlag(flag.CommandLine, CfgConfigFilePathNodeConfig) {
			// if a file was explicitly specified, raise the error
			return err
		}
		fmt.Printf("No config file found via '%s'. Loading default settings.\n", *nodeCfgFilePath)
	}

	// load the flags to set the default values
	if err := nodeConfig.LoadFlagSet(flagSets["nodeConfig"]); err != nil {
		return err
	}

	// load the env vars after default values from flags were set (otherwise the env vars are not added because the keys don't exist)
	if err := nodeConfig.LoadEnvironmentVars(""); err != nil {
		return err
	}

	// load the flags again to overwrite env vars that were also set via command line
	return nodeConfig.LoadFlagSet(flagSets["nodeConfig"])
}

func hasFlag(flagSet *flag.FlagSet, name string) bool {
	has := false
	flagSet.Visit(func(f *flag.Flag) {
		if f.Name == name {
			has = true
		}
	})
	return has
}

// prints the loaded configuration, but hides sensitive information.
func printConfig(maskedKeys []string) {
	nodeConfig.Print(maskedKeys)

	printList("The following plugins are enabled", nodeConfig.Strings(CfgNodeEnablePlugins))
	printList("The following plugins are disabled", nodeConfig.Strings(CfgNodeDisablePlugins))
	fmt.Println()
}

// adds the given flag sets to flag.CommandLine and then parses them.
func parseFlags(flagSets map[string]*flag.FlagSet) {
	for _, flagSet := range flagSets {
		flag.CommandLine.AddFlagSet(flagSet)
	}
	flag.Parse()
}

// hides all non essential flags from the help/usage text.
func hideConfigFlags(flagSets map[string]*flag.FlagSet) {
	hide := func(f *flag.Flag) {
		_, notHidden := nonHiddenFlag[f.Name]
		f.Hidden = !notHidden
	}

	flag.VisitAll(hide)
	for _, flagSet := range flagSets {
		flagSet.VisitAll(hide)
	}
}

// prints out the version of this node.
func printVersion(flagSets map[string]*flag.FlagSet) {
	if *version {
		fmt.Println(Name + " " + Version)
		os.Exit(0)
	}

	if *help {
		if !*helpFull {
			hideConfigFlags(flagSets)
		}
		flag.Usage()
		os.Exit(0)
	}
}

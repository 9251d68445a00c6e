// Package flagx has helpers for splitting a single os.Args vector between
// independent flag sets: the global flags parsed by the config layer and the
// per-subcommand flags parsed by the CLI layer.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// Filter returns the subset of args belonging to the given flags, so a
// flag.FlagSet can parse them without tripping over arguments it does not
// know about.
//
// valueFlags take a value ("-e stage" or "--env=stage"), boolFlags do not
// ("-debug"). Both spellings with one or two dashes should be listed.
func Filter(args []string, valueFlags, boolFlags []string) []string {
	withValue := toSet(valueFlags)
	bare := toSet(boolFlags)

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "--flag=value" form, valid for both kinds.
		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := withValue[name]; ok {
				filtered = append(filtered, arg)
			} else if _, ok := bare[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := bare[arg]; ok {
			filtered = append(filtered, arg)
			continue
		}

		if _, ok := withValue[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// Strip is the complement of Filter: it returns args with the given flags
// (and their values) removed. What remains is the subcommand name and the
// subcommand's own arguments.
func Strip(args []string, valueFlags, boolFlags []string) []string {
	withValue := toSet(valueFlags)
	bare := toSet(boolFlags)

	rest := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := withValue[name]; ok {
				continue
			}
			if _, ok := bare[name]; ok {
				continue
			}
			rest = append(rest, arg)
			continue
		}

		if _, ok := bare[arg]; ok {
			continue
		}

		if _, ok := withValue[arg]; ok {
			if i+1 < len(args) {
				i++
			}
			continue
		}

		rest = append(rest, arg)
	}

	return rest
}

// JSONConfigFlag extracts the config file path provided via -c or -config.
//
// Only these two flags are parsed; everything else in os.Args is ignored, so
// other packages can define their own flags without interference. Returns ""
// when neither flag is present.
func JSONConfigFlag() string {
	var config string

	args := Filter(os.Args[1:], []string{"-c", "-config", "--config"}, nil)

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return config
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

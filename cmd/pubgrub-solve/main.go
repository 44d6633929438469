// Command pubgrub-solve resolves a small in-memory package universe against
// one root package (chosen with -r, at any version >=1.0.0), printing either
// the selected versions or an explained failure.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	vsolver "github.com/sdboyer/vsolver"
	"github.com/sdboyer/vsolver/version"
)

func main() {
	var (
		verbose = pflag.BoolP("verbose", "v", false, "log unit propagation and conflict resolution at debug level")
		root    = pflag.StringP("root", "r", "app", "key of the root package to resolve from")
	)
	pflag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	universe := demoUniverse()
	rootReq, err := version.ParseRange(*root, ">=1.0.0")
	if err != nil {
		fmt.Fprintln(os.Stderr, "pubgrub-solve:", err)
		os.Exit(2)
	}

	provider := vsolver.NewCachingProvider[string, version.Range](universe)
	selected, err := vsolver.NewSolver[string, version.Range](provider, log).Solve([]version.Range{rootReq})
	if err != nil {
		reportFailure(err)
		os.Exit(1)
	}

	sort.Slice(selected, func(i, j int) bool { return selected[i].Key() < selected[j].Key() })
	for _, r := range selected {
		fmt.Println(r)
	}
}

func reportFailure(err error) {
	fmt.Fprintln(os.Stderr, "pubgrub-solve: no solution")
	fmt.Fprintln(os.Stderr, err)
}

// demoUniverse is a small fixed package set used to exercise the solver from
// the command line without a real package index behind it.
func demoUniverse() *registry {
	reg := newRegistry()
	reg.addVersion("app", "1.0.0", version.MustParseRange("lib", ">=1.0.0, <3.0.0"))
	reg.addVersion("lib", "1.5.0", version.MustParseRange("util", "^1.0.0"))
	reg.addVersion("lib", "2.0.0", version.MustParseRange("util", "^2.0.0"))
	reg.addVersion("util", "1.2.0")
	reg.addVersion("util", "2.0.1")
	return reg
}

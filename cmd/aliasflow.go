package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"sort"
	"strings"

	"github.com/BarrensZeppelin/dataflow"
	"github.com/BarrensZeppelin/dataflow/alias"
	"github.com/BarrensZeppelin/dataflow/internal/maps"
	"github.com/BarrensZeppelin/dataflow/pkgutil"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var dir = flag.String("dir", "", "alternative directory to run the go build tool in")
var verbose = flag.Bool("v", false, "print per-block facts for every analysed function")

func main() {
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("Specify a package query on the command line")
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Fatal("Failed to close", f)
			}
		}()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	pkgs, err := pkgutil.LoadPackagesWithConfig(&packages.Config{
		Mode:  pkgutil.LoadMode,
		Tests: true,
		Dir:   *dir,
	}, flag.Args()...)

	if err != nil {
		log.Fatalf("Loading packages failed: %v", err)
	}

	log.Printf("Loaded %d packages", len(pkgs))

	prog, _ := ssautil.AllPackages(pkgs, ssa.InstantiateGenerics)
	prog.Build()

	log.Println("Built packages")

	funs := maps.Keys(ssautil.AllFunctions(prog))
	sort.Slice(funs, func(i, j int) bool {
		return funs[i].String() < funs[j].String()
	})

	// Every function is analysed independently, so the work spreads over
	// the CPUs without further coordination.
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	reports := make([]string, len(funs))
	for i, fun := range funs {
		i, fun := i, fun
		g.Go(func() error {
			if len(fun.Blocks) == 0 {
				return nil // external function, no body to analyse
			}
			reports[i] = report(fun, alias.Analyze(fun))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}

	analysed := 0
	for _, r := range reports {
		if r == "" {
			continue
		}
		analysed++
		if *verbose {
			fmt.Print(r)
		}
	}

	log.Printf("Analysed %d functions", analysed)
}

func report(fun *ssa.Function, res *dataflow.Result[alias.Fact]) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:\n", fun)
	for _, b := range fun.Blocks {
		fmt.Fprintf(&sb, "  %d: in  %v\n", b.Index, res.FactBefore(b))
		fmt.Fprintf(&sb, "     out %v\n", res.FactAfter(b))
	}
	return sb.String()
}

package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

/*
	This package provides a utility CLI to generate the dependency graph of the
	packages inside a module. You can get the explanations on how to use it
	with `go build && ./depgraph help`.
*/

type config struct {
	Modname    string   `yaml:"modname"`
	Includes   []string `yaml:"includes"`
	Excludes   []string `yaml:"excludes"`
	Interfaces []string `yaml:"interfaces"`
}

func main() {

	app := &cli.App{
		Name:      "depgraph",
		Usage:     "generate a dot graph",
		UsageText: "./depgraph [--config | --modname ] source ",
		Description: `This utility recursively parses a folder and extracts for
each package that it finds the list of its dependencies, then it generates a
graphviz representation of the whole. Test files are excluded by default.
Since there might be a lot of dependencies, one can provide a yaml config file
in order to scope the parsing. The config format is the following:

modname: MODULE_NAME
includes:
	- go.dedis.ch/custody/*
	- ...
excludes:
	- go.dedis.ch/custody/core/.*(types|json)
	- ...
interfaces:
	- core/execution
	- ...

"includes" and "excludes" are two lists of regular expressions.

If "includes" is empty then everything is included. Otherwise, the program only
keeps the package AND dependencies that are specified in the includes list.

Each package AND dependency is checked against the "excludes" list and discarded
if it matches any of the elements.

"interfaces" is used to mark specific packages that should be displayed
differently. In this case those packages are outlined by a green background.

Packages and their dependencies are sorted and the graph built accordingly.

Examples:

./depgraph --modname "go.dedis.ch/custody" -o graph.dot -F ./
./depgraph --config internal/depgraph/dep.yml -o graph.dot -F ./

The following commands can be used to generate a visual representation from the
output of depgraph using DOT:

dot -Tpdf graph.dot -o graph.pdf
dot -Gdpi=300 -Tpng graph.dot -o graph.png -Gsplines=ortho`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a yaml config file",
			},
			&cli.StringFlag{
				Name: "modname",
				Usage: "the module name, convenient when no config file is " +
					"given. It overwrites the value of the config file.",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "save the result to the given file instead of stdout",
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"F"},
				Usage:   "overwrite the output file when it exists",
			},
			&cli.BoolFlag{
				Name:    "withTest",
				Aliases: []string{"t"},
				Usage:   "include the test files in the graph",
			},
		},
		Action: run,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

// run is the main action of the CLI.
func run(c *cli.Context) error {

	root := c.Args().First()
	if root == "" {
		return xerrors.Errorf("please provide the folder path")
	}

	cfg := config{}

	configPath := c.String("config")
	if configPath != "" {
		buf, err := os.ReadFile(configPath)
		if err != nil {
			return xerrors.Errorf("failed to read config file: %v", err)
		}

		err = yaml.Unmarshal(buf, &cfg)
		if err != nil {
			return xerrors.Errorf("failed to unmarshal config: %v", err)
		}

		cfg.Modname = cfg.Modname + "/"
	}

	if c.String("modname") != "" {
		// The "/" builds the full package name. If the module name is
		// mod.ch/module, then a package 'pancake' inside it should be
		// mod.ch/module/pancake, but the parsing will only extract 'pancake'.
		cfg.Modname = c.String("modname") + "/"
	}

	fset := token.NewFileSet()
	out := os.Stdout

	if c.String("out") != "" {

		_, err := os.Stat(c.String("out"))
		if !os.IsNotExist(err) && !c.Bool("force") {
			return xerrors.Errorf("file '%s' already exist, use '-F' to "+
				"overwrite", c.String("out"))
		}

		out, err = os.Create(c.String("out"))
		if err != nil {
			return xerrors.Errorf("failed to create output file: %v", err)
		}
	}

	// Bag of interfaces, done with a dummy map.
	interfaces := make(map[string]struct{})
	for _, it := range cfg.Interfaces {
		interfaces[it] = struct{}{}
	}

	// edges contains, for every package, the bag of its dependencies.
	edges := make(map[string]map[string]struct{})

	// visit is called on every file and folder under the root.
	visit := func(path string, f os.FileInfo, err error) error {
		if err != nil {
			return xerrors.Errorf("got an error while walking: %v", err)
		}

		if f.IsDir() || !strings.HasSuffix(f.Name(), ".go") {
			return nil
		}

		// Test files are skipped unless otherwise asked.
		if !c.Bool("withTest") && strings.HasSuffix(f.Name(), "_test.go") {
			return nil
		}

		astFile, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return xerrors.Errorf("failed to parse file: %v", err)
		}

		path = filepath.Dir(path)
		// This is the full package path. From "crypto" we want
		// "go.dedis.ch/custody/crypto".
		pkg := cfg.Modname + path

		if !isIncluded(pkg, cfg.Includes) || isExcluded(pkg, cfg.Excludes) {
			return nil
		}

		for _, s := range astFile.Imports {
			// An import path is always surrounded with "" so they are removed.
			dep := s.Path.Value[1 : len(s.Path.Value)-1]

			if !isIncluded(dep, cfg.Includes) || isExcluded(dep, cfg.Excludes) {
				continue
			}

			// When the package imports a package of the same module, only the
			// "relative" name is kept. From "go.dedis.ch/custody/core/sandbox"
			// we want only "core/sandbox".
			dep = strings.TrimPrefix(dep, cfg.Modname)

			name := pkg[len(cfg.Modname):]

			if edges[name] == nil {
				edges[name] = make(map[string]struct{})
			}

			edges[name][dep] = struct{}{}
		}

		return nil
	}

	err := filepath.Walk(root, visit)
	if err != nil {
		return xerrors.Errorf("failed to parse folder: %v", err)
	}

	// Bag of nodes, to keep track of every node added so that the interfaces
	// can be outlined later on.
	nodes := make(map[string]struct{})

	fmt.Fprintf(out, "strict digraph {\n")
	fmt.Fprintf(out, "labelloc=\"t\";\n")
	fmt.Fprintf(out, "label = <Package dependencies of Custody "+
		"<font point-size='10'><br/>(generated %s)</font>>;\n",
		time.Now().Format("2 Jan 06 - 15:04:05"))
	fmt.Fprint(out, "graph [fontname = \"helvetica\"];\n")
	fmt.Fprint(out, "node [fontname = \"helvetica\"];\n")
	fmt.Fprint(out, "edge [fontname = \"helvetica\"];\n")
	fmt.Fprint(out, "node [shape=box,style=rounded];\n")
	// To have (more or less) deterministic result
	fmt.Fprint(out, "start=0;\n")
	fmt.Fprint(out, "ratio = fill;\n")
	fmt.Fprint(out, "rankdir=\"LR\";\n")

	// Packages are sorted to improve the rendering.
	packages := make([]string, 0, len(edges))
	for pkg := range edges {
		packages = append(packages, pkg)
	}

	sort.Strings(packages)

	for _, pkg := range packages {
		nodes[pkg] = struct{}{}

		// So are the dependencies of each package.
		deps := make([]string, 0, len(edges[pkg]))
		for dep := range edges[pkg] {
			deps = append(deps, dep)
		}

		sort.Strings(deps)

		for _, dep := range deps {
			nodes[dep] = struct{}{}
			fmt.Fprintf(out, "\"%v\" -> \"%v\" [minlen=1];\n", pkg, dep)
		}
	}

	// outlines the interface nodes
	for node := range nodes {
		_, found := interfaces[node]
		if found {
			fmt.Fprintf(out, "\"%s\" [style=filled fillcolor=olivedrab1];\n", node)
		}
	}

	fmt.Fprintf(out, "}\n")

	return nil

}

func isIncluded(path string, includes []string) bool {
	if len(includes) == 0 {
		return true
	}

	return matchAny(path, includes)
}

func isExcluded(path string, excludes []string) bool {
	return matchAny(path, excludes)
}

func matchAny(el string, slice []string) bool {
	for _, e := range slice {
		reg := regexp.MustCompile(e)

		if reg.MatchString(el) {
			return true
		}
	}

	return false
}

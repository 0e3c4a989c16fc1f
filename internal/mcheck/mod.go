package main

// This package provides a custom check for "go vet" that verifies that no
// comment of the source tree exceeds the maximum length. It can be used like
// the following:
//
//	go build && go vet -vettool=./mcheck -commentLen ./...
//
// Files starting with a "// Code generated..." comment are ignored, and so
// are the "//go:generate" directives.

import (
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/unitchecker"
)

// maxCommentLen is the maximum length of a comment line.
var maxCommentLen = 80

var commentAnalyzer = &analysis.Analyzer{
	Name: "commentLen",
	Doc:  "checks the lengths of comments",
	Run:  run,
}

func main() {
	unitchecker.Main(
		commentAnalyzer,
	)
}

// run checks every comment of the files in the pass.
func run(pass *analysis.Pass) (interface{}, error) {
fileLoop:
	for _, file := range pass.Files {
		isFirst := true
		for _, cg := range file.Comments {
			for _, c := range cg.List {
				if isFirst && strings.HasPrefix(c.Text, "// Code generated") {
					continue fileLoop
				}

				// a /* */ comment can span multiple lines
				lines := strings.Split(c.Text, "\n")
				for _, line := range lines {
					if strings.HasPrefix(line, "//go:generate") {
						continue
					}

					if len(line) > maxCommentLen {
						pass.Reportf(c.Pos(), "Comment too long: %s (%d)",
							line, len(line))
					}
				}

				isFirst = false
			}
		}
	}

	return nil, nil
}

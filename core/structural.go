package core

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/kweller/codetriage/internal/contract"
	"github.com/kweller/codetriage/schema"
)

// Structural rule codes.
const (
	RuleReadFailure = "AST000"
	RuleSyntaxError = "AST001"
	RuleComplexity  = "AST100"
	RuleArgCount    = "AST101"
	RuleFuncLength  = "AST102"
	RuleMethodCount = "AST200"
)

// Structural thresholds beyond the configurable complexity one.
const (
	MaxArgs      = 7
	MaxFuncLines = 50
	MaxMethods   = 20
)

// CollectSourceFiles enumerates Go source files under root, skipping
// excluded directories. Paths are returned sorted for determinism.
func CollectSourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && contract.ShouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".go") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// AnalyzeFiles runs the structural analyzer over all files using a worker
// pool. One file's failure never aborts sibling work; results are sorted
// so repeated runs over unchanged input yield identical finding lists.
func AnalyzeFiles(files []string, complexityThreshold, workers int) []schema.Finding {
	fileCh := make(chan string, len(files))
	resultCh := make(chan []schema.Finding, len(files))
	var wg sync.WaitGroup

	// Start worker pool
	for range workers {
		wg.Go(func() {
			for f := range fileCh {
				resultCh <- AnalyzeFile(f, complexityThreshold)
			}
		})
	}

	// Send files to worker channel
	for _, f := range files {
		fileCh <- f
	}
	close(fileCh)

	// Wait for all workers to finish processing
	wg.Wait()
	close(resultCh)

	var findings []schema.Finding
	for fs := range resultCh {
		findings = append(findings, fs...)
	}
	sortFindings(findings)
	return findings
}

// sortFindings orders findings by location then rule for stable output.
func sortFindings(findings []schema.Finding) {
	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Location.File != b.Location.File {
			return a.Location.File < b.Location.File
		}
		if a.Location.Line != b.Location.Line {
			return a.Location.Line < b.Location.Line
		}
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		return a.Message < b.Message
	})
}

// AnalyzeFile analyzes a single source file. Internal failures never
// escape; unreadable or unparsable files degrade to findings.
func AnalyzeFile(path string, complexityThreshold int) []schema.Finding {
	src, err := os.ReadFile(path)
	if err != nil {
		return []schema.Finding{{
			Type:     schema.TypeBug,
			Severity: schema.SeverityHigh,
			Location: schema.Location{File: path},
			Message:  fmt.Sprintf("failed to analyze file: %v", err),
			RuleID:   RuleReadFailure,
		}}
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.SkipObjectResolution)
	if err != nil {
		return []schema.Finding{syntaxFinding(path, err)}
	}

	return analyzeTree(fset, file, path, complexityThreshold)
}

// syntaxFinding converts a parse error into exactly one critical finding,
// carrying the parser-reported position when one is available.
func syntaxFinding(path string, err error) schema.Finding {
	line, column := 0, 0
	message := err.Error()
	var list scanner.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		line = list[0].Pos.Line
		column = list[0].Pos.Column
		message = list[0].Msg
	}
	return schema.Finding{
		Type:     schema.TypeBug,
		Severity: schema.SeverityCritical,
		Location: schema.Location{
			File:   path,
			Line:   line,
			Column: column,
		},
		Message: "syntax error: " + message,
		RuleID:  RuleSyntaxError,
	}
}

// analyzeTree walks the file's declarations, checking each function and
// counting methods per receiver type.
func analyzeTree(fset *token.FileSet, file *ast.File, path string, complexityThreshold int) []schema.Finding {
	var findings []schema.Finding

	methodCounts := make(map[string]int)
	methodFirstPos := make(map[string]token.Pos)

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		findings = append(findings, analyzeFunction(fset, fn, path, complexityThreshold)...)

		if recv := receiverTypeName(fn); recv != "" {
			methodCounts[recv]++
			if _, seen := methodFirstPos[recv]; !seen {
				methodFirstPos[recv] = fn.Pos()
			}
		}
	}

	// Receiver types are the class analogue: too many methods on one
	// type in one file suggests it should be decomposed.
	types := make([]string, 0, len(methodCounts))
	for name := range methodCounts {
		types = append(types, name)
	}
	sort.Strings(types)
	for _, name := range types {
		count := methodCounts[name]
		if count <= MaxMethods {
			continue
		}
		pos := fset.Position(methodFirstPos[name])
		findings = append(findings, schema.Finding{
			Type:     schema.TypeCodeSmell,
			Severity: schema.SeverityMedium,
			Location: schema.Location{
				File:   path,
				Line:   pos.Line,
				Column: pos.Column,
			},
			Message: fmt.Sprintf("Type '%s' has too many methods (%d). Consider splitting it.", name, count),
			RuleID:  RuleMethodCount,
		})
	}

	return findings
}

// analyzeFunction checks one declared function for complexity, parameter
// count and length violations.
func analyzeFunction(fset *token.FileSet, fn *ast.FuncDecl, path string, complexityThreshold int) []schema.Finding {
	var findings []schema.Finding

	start := fset.Position(fn.Pos())
	name := fn.Name.Name

	complexity := functionComplexity(fn.Body)
	if complexity > complexityThreshold {
		severity := schema.SeverityMedium
		if complexity > complexityThreshold*2 {
			severity = schema.SeverityHigh
		}
		findings = append(findings, schema.Finding{
			Type:     schema.TypeComplexity,
			Severity: severity,
			Location: schema.Location{
				File:     path,
				Line:     start.Line,
				Column:   start.Column,
				Function: name,
			},
			Message: fmt.Sprintf("Function '%s' has high cyclomatic complexity (%d)", name, complexity),
			RuleID:  RuleComplexity,
		})
	}

	if args := parameterCount(fn.Type); args > MaxArgs {
		findings = append(findings, schema.Finding{
			Type:     schema.TypeCodeSmell,
			Severity: schema.SeverityMedium,
			Location: schema.Location{
				File:     path,
				Line:     start.Line,
				Column:   start.Column,
				Function: name,
			},
			Message: fmt.Sprintf("Function '%s' has too many arguments (%d)", name, args),
			RuleID:  RuleArgCount,
		})
	}

	end := fset.Position(fn.End())
	if length := end.Line - start.Line; length > MaxFuncLines {
		findings = append(findings, schema.Finding{
			Type:     schema.TypeMaintainability,
			Severity: schema.SeverityLow,
			Location: schema.Location{
				File:     path,
				Line:     start.Line,
				Column:   start.Column,
				EndLine:  end.Line,
				Function: name,
			},
			Message: fmt.Sprintf("Function '%s' is very long (%d lines)", name, length),
			RuleID:  RuleFuncLength,
		})
	}

	return findings
}

// functionComplexity computes cyclomatic complexity for a function body:
// base 1 plus one per branch point. Non-default switch cases and select
// cases count as branches, and each short-circuit operator adds one, so
// a chain of N operands contributes N-1. Function literals nested in the
// body count toward the enclosing declared function.
func functionComplexity(body *ast.BlockStmt) int {
	complexity := 1
	if body == nil {
		return complexity
	}
	ast.Inspect(body, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.IfStmt:
			complexity++
		case *ast.ForStmt:
			complexity++
		case *ast.RangeStmt:
			complexity++
		case *ast.CaseClause:
			if len(node.List) > 0 {
				complexity++
			}
		case *ast.CommClause:
			if node.Comm != nil {
				complexity++
			}
		case *ast.BinaryExpr:
			if node.Op == token.LAND || node.Op == token.LOR {
				complexity++
			}
		}
		return true
	})
	return complexity
}

// parameterCount counts declared parameters, honoring grouped names like
// func(a, b, c int).
func parameterCount(ft *ast.FuncType) int {
	if ft.Params == nil {
		return 0
	}
	count := 0
	for _, field := range ft.Params.List {
		if len(field.Names) == 0 {
			count++ // unnamed parameter
			continue
		}
		count += len(field.Names)
	}
	return count
}

// receiverTypeName returns the named type of a method receiver, or ""
// for plain functions.
func receiverTypeName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}
	expr := fn.Recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	switch generic := expr.(type) { // generic receivers
	case *ast.IndexExpr:
		expr = generic.X
	case *ast.IndexListExpr:
		expr = generic.X
	}
	if ident, ok := expr.(*ast.Ident); ok {
		return ident.Name
	}
	return ""
}

package output

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/everse/unified-api/pkg/graph"
)

// RunSummary carries the numbers of one pipeline run for console reporting.
type RunSummary struct {
	Indicators       int
	Tools            int
	Dimensions       int
	Edges            int
	ValidEdges       int
	ValidationErrors []string
	APIDir           string
	Duration         time.Duration
}

// PrintRunSummary prints a formatted pipeline summary with colors
func PrintRunSummary(s RunSummary) {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	bold.Println("Unified API - Generation Report")
	bold.Println("================================")
	fmt.Printf("Indicators: %d\n", s.Indicators)
	fmt.Printf("Tools:      %d\n", s.Tools)
	fmt.Printf("Dimensions: %d\n", s.Dimensions)
	fmt.Println()

	if len(s.ValidationErrors) == 0 {
		green.Printf("Relationships: %d (all valid)\n", s.Edges)
	} else {
		fmt.Printf("Relationships: %d\n", s.Edges)
		yellow.Printf("Valid: %d, errors: %d\n", s.ValidEdges, len(s.ValidationErrors))
	}

	if len(s.ValidationErrors) > 0 {
		fmt.Println()
		red.Println("VALIDATION ERRORS:")
		for _, msg := range s.ValidationErrors {
			yellow.Printf("  %s\n", msg)
		}
	}

	fmt.Println()
	cyan.Printf("API written to: %s\n", s.APIDir)
	fmt.Printf("Completed in: %s\n", s.Duration.Round(time.Millisecond))

	if len(s.ValidationErrors) == 0 {
		green.Println("✓ All relationships resolved cleanly!")
	}
}

// PrintConnectivity prints the structural report of the built graph.
func PrintConnectivity(report *graph.ConnectivityReport) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	bold.Println("Graph Connectivity")
	bold.Println("==================")
	fmt.Printf("Nodes: %d\n", report.Nodes)
	fmt.Printf("Edges: %d (deduplicated)\n", report.Edges)
	fmt.Printf("Components: %d\n", report.Components)
	fmt.Printf("Max degree: %d\n", report.MaxDegree)

	if len(report.Isolated) == 0 {
		green.Println("✓ No isolated entities")
		return
	}
	yellow.Printf("Isolated entities: %d\n", len(report.Isolated))
	for _, key := range report.Isolated {
		yellow.Printf("  %s\n", key)
	}
}

// PrintCheckReport prints the result of a deployment check.
func PrintCheckReport(baseURL string, errors []string) {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)

	bold.Println("Deployment Check")
	bold.Println("================")
	fmt.Printf("Base URL: %s\n", baseURL)

	if len(errors) == 0 {
		green.Println("✓ All required endpoints are reachable and valid")
		return
	}
	red.Printf("FAILED: %d endpoint(s)\n", len(errors))
	for _, msg := range errors {
		red.Printf("  %s\n", msg)
	}
}

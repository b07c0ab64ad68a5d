// cmd/tools/worker-generator/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"financial-health-workers/pkg/registry"
)

func main() {
	activity := flag.String("activity", "", "Activity ID from registry (e.g., health.score.calculate)")
	outputDir := flag.String("output", "./internal/workers/", "Root directory for generated workers")
	registryPath := flag.String("registry", "", "Path to the activity registry (defaults to the built-in registry)")
	force := flag.Bool("force", false, "Overwrite existing files")
	flag.Parse()

	if *activity == "" {
		fmt.Fprintln(os.Stderr, "Error: -activity is required")
		flag.Usage()
		os.Exit(1)
	}

	reg, err := loadRegistry(*registryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading registry: %v\n", err)
		os.Exit(1)
	}

	a := reg.Find(*activity)
	if a == nil {
		fmt.Fprintf(os.Stderr, "Error: activity %s not found in registry\n", *activity)
		os.Exit(1)
	}

	data, err := newWorkerData(a)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	dir := filepath.Join(*outputDir, mapCategoryToDirectory(a.Category), a.TaskType)
	written, err := Generate(data, dir, *force)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating worker: %v\n", err)
		os.Exit(1)
	}
	for _, path := range written {
		fmt.Printf("Wrote %s\n", path)
	}
	fmt.Printf("\nRegister the worker in cmd/worker-manager with:\n  manager.Register(%s.TaskType, config.GetWorkerConfig(cfg, %s.TaskType), handler.Handle)\n",
		data.PackageName, data.PackageName)
}

func loadRegistry(path string) (*registry.ActivityRegistry, error) {
	if path == "" {
		return registry.Default()
	}
	return registry.Load(path)
}

func mapCategoryToDirectory(category string) string {
	if category == "" {
		return "misc"
	}
	return category
}

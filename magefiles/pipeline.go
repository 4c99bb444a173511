//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// RunAll builds the CLI and runs the monthly job: wipe, import input/,
// scrape, summarise and export to output/.
func RunAll() error {
	mg.Deps(Init, Build)
	return sh.RunV(binPath, "run-all")
}

// Scrape re-scrapes the tables already in the database.
func Scrape() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "batch")
}

// Report prints per-portfolio and completion statistics.
func Report() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "report")
}

// Export writes the JSON reports to output/.
func Export() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "export")
}

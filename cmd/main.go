package main

import (
	"fmt"
	"os"

	"github.com/ostafen/carver/cmd/cmd"
	"github.com/ostafen/carver/internal/env"
)

func main() {
	PrintLogo()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func PrintLogo() {
	fmt.Println("                             ")
	fmt.Println("  ___ __ _ _ ____   _____ _ __ ")
	fmt.Println(" / __/ _` | '__\\ \\ / / _ \\ '__|")
	fmt.Println("| (_| (_| | |   \\ V /  __/ |   ")
	fmt.Println(" \\___\\__,_|_|    \\_/ \\___|_|   ")
	fmt.Println()
	fmt.Println("Signature based file carver")
	fmt.Println()
	fmt.Printf("Version:   %s\n", env.Version)
	fmt.Printf("Commit:    %s\n", env.CommitHash)
	fmt.Printf("Build Time: %s\n", env.BuildTime)
	fmt.Println(" ")
}

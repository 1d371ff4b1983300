package main

import "surveillance-dashboard/internal/cli"

func main() {
	cli.Execute()
}

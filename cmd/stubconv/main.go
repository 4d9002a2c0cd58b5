package main

import "stubconv/internal/cli"

func main() {
	cli.Execute()
}

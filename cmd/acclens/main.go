package main

import "acclens/internal/cli"

func main() {
	cli.Execute()
}

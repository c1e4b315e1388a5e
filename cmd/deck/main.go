package main

import "github.com/tessro/deck/internal/cli"

func main() {
	cli.Execute()
}

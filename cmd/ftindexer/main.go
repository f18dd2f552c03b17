package main

import "github.com/vietddude/ftindexer/internal/cli"

func main() {
	cli.Execute()
}

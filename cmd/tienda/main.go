package main

import "github.com/vietddude/tienda/internal/cli"

func main() {
	cli.Execute()
}

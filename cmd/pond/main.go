package main

import "github.com/felixgeelhaar/pond/cmd/pond/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/hyperpolymath/betlang/cmd/bet/commands"

func main() {
	commands.Execute()
}

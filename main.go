package main

import "github.com/homebudget/homebudget/cmd"

func main() {
	cmd.Execute()
}

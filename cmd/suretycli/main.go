package main

import "go.suretynet.io/surety/cmd/suretycli/commands"

func main() {
	commands.Execute()
}

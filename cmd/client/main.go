package main

import "minetrack/cmd/client/cmd"

func main() {
	cmd.Execute()
}

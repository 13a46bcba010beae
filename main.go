package main

import "github.com/selflayer/selflayer-cli/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/example/fumoto-monitor/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/pable/go-nba-metrics/cmd"

func main() {
	cmd.Execute()
}

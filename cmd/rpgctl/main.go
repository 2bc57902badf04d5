package main

import "rpg_tracker/internal/cli"

func main() {
	cli.Execute()
}

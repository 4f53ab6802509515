package main

import "github.com/KaramelBytes/filmstats-cli/cmd"

func main() {
	cmd.Execute()
}

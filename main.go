package main

import "github.com/KaramelBytes/musictrends-cli/cmd"

func main() {
	cmd.Execute()
}

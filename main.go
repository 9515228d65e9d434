package main

import "github.com/KaramelBytes/dataset-explorer/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/demoforge/aioctx/cmd/aioctx/cmd"

func main() {
	cmd.Execute()
}

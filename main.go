package main

import "github.com/hostfetch/hostfetch/cmd"

func main() {
	cmd.Execute()
}

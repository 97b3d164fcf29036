package main

import "github.com/example/inline-waitlist/cmd"

func main() {
	cmd.Execute()
}

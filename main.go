package main

import "github.com/ludaludaed/atomic-shared-pointer/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/josephgoksu/reachinspect/cmd"

func main() {
	cmd.Execute()
}

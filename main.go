package main

import "github.com/mj1618/wmpolicy/cmd"

func main() {
	cmd.Execute()
}

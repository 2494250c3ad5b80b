package main

import "github.com/streambinder/wavgrab/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/AnTengye/casebrief/cmd"

func main() {
	cmd.Execute()
}

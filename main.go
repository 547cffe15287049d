package main

import "addressbook/cmd"

func main() {
	cmd.Execute()
}

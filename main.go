package main

import "admanager-sync/cmd"

func main() {
	cmd.Execute()
}

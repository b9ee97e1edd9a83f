package main

import "transfer-relay/cmd"

func main() {
	cmd.Execute()
}

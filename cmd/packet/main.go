package main

import "github.com/packetapp/packet-go/cmd/packet/commands"

func main() {
	commands.Execute()
}

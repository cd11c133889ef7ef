package main

import "github.com/heitonbg/WebServiceWithChatBotForMaxHack/cmd/taskbot/root"

func main() {
	root.Execute()
}

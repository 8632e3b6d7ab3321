package main

import (
	"profilestats/cmd/profilestats/commands"
	"profilestats/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}

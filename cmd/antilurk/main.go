package main

import (
	"fmt"
	"os"

	"antilurk/internal/theme"
)

func main() {
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "init":
		cmdInit()
	case "status":
		cmdStatus()
	case "view":
		cmdAction("view")
	case "like":
		cmdAction("like")
	case "repost":
		cmdAction("repost")
	case "follow":
		cmdAction("follow")
	case "reply":
		cmdAction("reply")
	case "settings":
		cmdSettings()
	case "prefs":
		cmdPrefs()
	case "publish":
		cmdPublish()
	case "fetch":
		cmdFetch()
	case "reset":
		cmdReset()
	case "monitor":
		cmdMonitor()
	default:
		printHelp()
	}
}

func printHelp() {
	theme.PrintBanner()
	fmt.Println("Usage: antilurk <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  init      Create a config file at ./antilurk.yaml")
	fmt.Println("  status    Show budget, stats, tier, and labels")
	fmt.Println("  view      Spend budget on a feed item")
	fmt.Println("  like      Record a like (earns budget)")
	fmt.Println("  repost    Record a repost (earns budget)")
	fmt.Println("  follow    Record a follow (earns budget)")
	fmt.Println("  reply     Record a reply (badge only)")
	fmt.Println("  settings  Update budget settings")
	fmt.Println("  prefs     Update badge preferences")
	fmt.Println("  publish   Publish the badge record")
	fmt.Println("  fetch     Fetch a badge record by DID")
	fmt.Println("  reset     Reset the post budget")
	fmt.Println("  monitor   Serve metrics and show a status readout")
}

package theme

import (
	"fmt"
)

// Banner returns the anti-lurk CLI banner.
func Banner() string {
	const cyan = "\033[36m"
	const magenta = "\033[35m"
	const yellow = "\033[33m"
	const reset = "\033[0m"

	art := "" +
		"  ◆◇◆   " + magenta + "ANTI-LURK" + reset + "   ◆◇◆\n" +
		cyan + "   ▄██▄ ▄██▄   earn your feed\n" + reset +
		yellow + "   ─────────────────────────────\n" + reset +
		"   post budgets + engagement badges for the open social web\n"
	return art
}

// PrintBanner prints the banner to stdout.
func PrintBanner() {
	fmt.Print(Banner())
}

package display

import (
	"fmt"
	"os"

	"github.com/mediabatch/convertron/internal/logging"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if logging.Magenta != "" {
		fmt.Fprint(os.Stdout, logging.Magenta)
	}
	fmt.Fprint(os.Stdout, `  ____                          _
 / ___|___  _ ____   _____ _ __| |_ _ __ ___  _ __
| |   / _ \| '_ \ \ / / _ \ '__| __| '__/ _ \| '_ \
| |__| (_) | | | \ V /  __/ |  | |_| | | (_) | | | |
 \____\___/|_| |_|\_/ \___|_|   \__|_|  \___/|_| |_|
`)
	if logging.Magenta != "" {
		fmt.Fprintln(os.Stdout, logging.NC)
	}
}

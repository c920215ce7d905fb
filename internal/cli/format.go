package cli

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	infoColor    = color.New(color.FgCyan)
	labelColor   = color.New(color.FgWhite, color.Bold)
	dimColor     = color.New(color.Faint)
)

func printSuccess(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", successColor.Sprint("✓"), fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", warningColor.Sprint("!"), fmt.Sprintf(format, args...))
}

func printError(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", errorColor.Sprint("✗"), fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", infoColor.Sprint("•"), fmt.Sprintf(format, args...))
}

func printSection(title string) {
	fmt.Printf("\n%s\n", sectionTitleColor.Sprint(title))
}

func printLabelValue(label, value string) {
	fmt.Printf("  %s %s\n", labelColor.Sprintf("%-12s", label+":"), value)
}

func printList(paths []string) {
	for _, p := range paths {
		fmt.Printf("  %s %s\n", dimColor.Sprint("-"), p)
	}
}

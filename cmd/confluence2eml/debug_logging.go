package main

import (
	"fmt"
	"os"
)

func debugLog(format string, a ...any) {
	if Verbose {
		string := fmt.Sprintf(format, a...)
		fmt.Fprintf(os.Stderr, "[confluence2eml] %s", string)
	}
}

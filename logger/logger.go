// Package logger provides debug-gated diagnostic output for the
// compiler and runtime. Logging is silent unless Debug is enabled, so
// it costs nothing in normal embedding use.
package logger

import "fmt"

// Debug gates all output from I, W and E. Host programs embedding the
// interpreter flip this on to trace compilation and execution.
var Debug = false

func I(format string, a ...any) {
	if Debug {
		fmt.Printf("[INFO] "+format+"\n", a...)
	}
}

func W(format string, a ...any) {
	if Debug {
		fmt.Printf("[WARN] "+format+"\n", a...)
	}
}

func E(format string, a ...any) {
	if Debug {
		fmt.Printf("[ERROR] "+format+"\n", a...)
	}
}

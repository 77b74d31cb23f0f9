package system

import "log"

// LogFunc receives tagged diagnostic lines ("[*] ...", "[!] ...").
type LogFunc func(format string, v ...interface{})

// Logf carries session and camera diagnostics. It writes through the std
// logger, which the terminal host points at tourcam.log.
var Logf LogFunc = log.Printf

func discard(string, ...interface{}) {}

// SetLogger routes diagnostics to f. A nil f drops them.
func SetLogger(f LogFunc) {
	if f == nil {
		f = discard
	}
	Logf = f
}

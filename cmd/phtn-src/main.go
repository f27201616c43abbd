// cmd/phtn-src/main.go
package main

import (
	"phtnsrc/internal/app"
	"phtnsrc/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }

package main

import (
	"os"

	"jobsh"
)

func main() {
	// Group runners are this binary re-executed; they never get past here.
	if jobsh.RunnerInit() {
		return
	}
	os.Exit(Execute())
}

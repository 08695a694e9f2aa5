package jobsh

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultPrompt shows the shell pid, like "jobsh[4242]$ ".
const DefaultPrompt = "jobsh[%p]$ "

// GetPrompt expands format, falling back to JOBSH_PROMPT and then
// DefaultPrompt when it is empty.
func GetPrompt(format string) string {
	if format == "" {
		format = os.Getenv("JOBSH_PROMPT")
	}
	if format == "" {
		format = DefaultPrompt
	}
	return expandPromptVariables(format)
}

func expandPromptVariables(prompt string) string {
	gs := GetGlobalState()
	hostname, _ := os.Hostname()

	replacer := strings.NewReplacer(
		"%u", os.Getenv("USER"),
		"%h", hostname,
		"%w", gs.GetCWD(),
		"%W", shortenPath(gs.GetCWD()),
		"%p", strconv.Itoa(gs.GetShellPID()),
		"%?", strconv.Itoa(gs.GetLastExitStatus()),
		"%t", time.Now().Format("15:04:05"),
		"%$", "$",
	)
	return replacer.Replace(prompt)
}

func shortenPath(path string) string {
	home := os.Getenv("HOME")
	if home != "" && strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}

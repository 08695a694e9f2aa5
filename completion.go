package jobsh

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Completer implements readline.AutoCompleter: command names from the
// built-ins and $PATH in command position, filenames elsewhere.
type Completer struct {
	commands     []string
	commandsLock sync.RWMutex
	loaded       chan struct{}
}

func NewCompleter(builtinNames []string) *Completer {
	c := &Completer{
		commands: append([]string(nil), builtinNames...),
		loaded:   make(chan struct{}),
	}
	go c.loadCommands()
	return c
}

func (c *Completer) loadCommands() {
	defer close(c.loaded)
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		files, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, file := range files {
			info, err := file.Info()
			if err != nil || !info.Mode().IsRegular() || info.Mode().Perm()&0111 == 0 {
				continue
			}
			c.commandsLock.Lock()
			c.commands = append(c.commands, file.Name())
			c.commandsLock.Unlock()
		}
	}
}

// Loaded is closed once $PATH has been scanned.
func (c *Completer) Loaded() <-chan struct{} { return c.loaded }

func (c *Completer) Do(line []rune, pos int) (newLine [][]rune, length int) {
	lineStr := string(line[:pos])
	word := lineStr[strings.LastIndexAny(lineStr, " \t")+1:]

	if commandPosition(strings.TrimSuffix(lineStr, word)) {
		return c.completeCommands(word)
	}
	return completeFilenames(word)
}

// commandPosition reports whether the next word starts a command: the line
// is empty or ends with a control operator.
func commandPosition(before string) bool {
	before = strings.TrimSpace(before)
	if before == "" {
		return true
	}
	for _, op := range []string{"&&", "||", "|", ";", "&"} {
		if strings.HasSuffix(before, op) {
			return true
		}
	}
	return false
}

func (c *Completer) completeCommands(prefix string) (newLine [][]rune, length int) {
	c.commandsLock.RLock()
	defer c.commandsLock.RUnlock()

	seen := make(map[string]bool)
	var matches []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) && !seen[cmd] {
			seen[cmd] = true
			matches = append(matches, cmd)
		}
	}
	sort.Strings(matches)

	for _, cmd := range matches {
		newLine = append(newLine, []rune(cmd[len(prefix):]))
	}
	if len(newLine) == 1 {
		newLine[0] = append(newLine[0], ' ')
	}
	return newLine, len(prefix)
}

func completeFilenames(word string) (newLine [][]rune, length int) {
	dir, prefix := filepath.Split(word)
	if dir == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, len(prefix)
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, prefix) {
			completion := name[len(prefix):]
			if entry.IsDir() {
				completion += "/"
			}
			newLine = append(newLine, []rune(completion))
		}
	}
	return newLine, len(prefix)
}

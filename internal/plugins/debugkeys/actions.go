package debugkeys

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cast"

	"github.com/ensemble-cli/ensemble/internal/logging"
	"github.com/ensemble-cli/ensemble/internal/plugin"
	"github.com/ensemble-cli/ensemble/internal/util"
)

// maxValueWidth bounds how many terminal columns one hub value may take in
// the debug dump.
const maxValueWidth = 60

// Action is one key binding: a printable label for the help listing, a
// short description, and the function to run on the keypress.
type Action struct {
	Label string
	Help  string
	Run   func(shared *plugin.SharedContext)
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	keyStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

// puts writes a diagnostic line straight to stderr. Raw mode needs the
// explicit carriage return.
func puts(s string) {
	fmt.Fprint(os.Stderr, s+"\r\n")
}

// defaultActions returns the built-in key map.
func defaultActions() map[byte]Action {
	return map[byte]Action{
		0x0a: {Label: `\n`, Help: "Output a blank line", Run: echoNewline},
		0x0d: {Label: `\n`, Help: "Output a blank line", Run: echoNewline},
		0x1b: {Label: "<Esc>", Help: "Output a block of newlines and the current time", Run: terminalBlock},
		0x04: {Label: "^D", Help: "Print debugging information on the hub", Run: debugInfo},
		'+':  {Label: "+", Help: "Increase logging verbosity", Run: adjustLevel(-4)},
		'-':  {Label: "-", Help: "Decrease logging verbosity", Run: adjustLevel(4)},
	}
}

// mergeActions overlays extra bindings on the defaults.
func mergeActions(base, extra map[byte]Action) map[byte]Action {
	merged := make(map[byte]Action, len(base)+len(extra))
	for k, a := range base {
		merged[k] = a
	}
	for k, a := range extra {
		merged[k] = a
	}
	return merged
}

func echoNewline(*plugin.SharedContext) {
	puts("")
}

func terminalBlock(*plugin.SharedContext) {
	puts(strings.Repeat("\r\n", 8) + "The time is now: " + time.Now().Format(time.DateTime))
	puts("")
}

// debugInfo dumps the hub's keys, their latest values and subscriber
// counts, plus the current log level.
func debugInfo(shared *plugin.SharedContext) {
	puts(titleStyle.Render("*** BEGIN DEBUG INFO ***"))

	puts("Hub keys:")
	keys := shared.Hub.Keys()
	if len(keys) == 0 {
		puts(dimStyle.Render("  (nothing published yet)"))
	}
	maxlen := 0
	for _, k := range keys {
		if len(k) > maxlen {
			maxlen = len(k)
		}
	}
	for _, k := range keys {
		v, _ := shared.Hub.Latest(k)
		puts(fmt.Sprintf("  %-*s = %s  (subscribers: %d)",
			maxlen, k, renderValue(v), shared.Hub.SubscriberCount(k)))
	}

	puts("Log level: " + logging.LevelName(shared.Log.Level()))
	puts(titleStyle.Render("*** END DEBUG INFO ***"))
}

// adjustLevel returns an action shifting the log level threshold. Negative
// deltas make logging more verbose.
func adjustLevel(delta int) func(*plugin.SharedContext) {
	return func(shared *plugin.SharedContext) {
		level := shared.Log.Adjust(delta)
		puts("Log level now at " + logging.LevelName(level))
	}
}

// printHelp lists every bound key with its description. Duplicate labels
// (such as \n bound to both LF and CR) collapse into one line.
func printHelp(actions map[byte]Action) {
	puts(titleStyle.Render("Keys I know about for debugging:"))

	seen := make(map[string]bool)
	lines := make([]string, 0, len(actions)+1)
	for _, a := range actions {
		if seen[a.Label] {
			continue
		}
		seen[a.Label] = true
		lines = append(lines, fmt.Sprintf("  %s %s", keyStyle.Render(fmt.Sprintf("%-5s", a.Label)), a.Help))
	}
	sort.Strings(lines)
	for _, line := range lines {
		puts(line)
	}
	puts(fmt.Sprintf("  %s Print this message", keyStyle.Render(fmt.Sprintf("%-5s", "?"))))
}

// renderValue formats an arbitrary hub value for display, truncated so a
// large payload does not flood the terminal.
func renderValue(v any) string {
	s, err := cast.ToStringE(v)
	if err != nil {
		s = fmt.Sprintf("%v", v)
	}
	return util.TruncateDisplay(s, maxValueWidth)
}

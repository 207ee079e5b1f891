// Package repl implements an interactive unit conversion shell.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/sambeau/unitconv/pkg/units"
	uerrors "github.com/sambeau/unitconv/pkg/units/errors"
)

const PROMPT = ">> "
const PROMPT_STRICT = "!> "

const LOGO = `
█░█ █▄░█ █ ▀█▀ █▀▀ █▀█ █▄░█ █░█
█▄█ █░▀█ █ ░█░ █▄▄ █▄█ █░▀█ ▀▄▀ `

var commands = []string{":categories", ":options", ":find", ":strict", ":help", "exit", "quit"}

// REPL evaluates conversion lines against an engine. It holds the session
// state (strict mode) and is independent of terminal I/O.
type REPL struct {
	engine *units.Engine
	strict bool
	words  []string
}

// New creates a REPL session.
func New(engine *units.Engine, strict bool) *REPL {
	if engine == nil {
		engine = units.NewEngine(nil)
	}
	r := &REPL{engine: engine, strict: strict}

	reg := engine.Registry()
	r.words = append(r.words, commands...)
	for _, name := range reg.Names() {
		r.words = append(r.words, string(name))
	}
	r.words = append(r.words, reg.IDs()...)
	return r
}

// Strict reports whether conversions are category-checked.
func (r *REPL) Strict() bool {
	return r.strict
}

// Eval evaluates one input line. It returns the text to print and whether
// the session should end.
func (r *REPL) Eval(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return "", false
	case trimmed == "exit" || trimmed == "quit":
		return "Goodbye!", true
	case strings.HasPrefix(trimmed, ":"):
		return r.command(trimmed), false
	default:
		return r.convert(trimmed), false
	}
}

// convert handles "VALUE FROM [to] TO" lines.
func (r *REPL) convert(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 4 && (fields[2] == "to" || fields[2] == "in") {
		fields = append(fields[:2], fields[3])
	}
	if len(fields) != 3 {
		return "usage: VALUE FROM TO (e.g. 1 hours seconds)"
	}

	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return fmt.Sprintf("not a number: %s", fields[0])
	}
	req := units.Request{Value: value, Source: fields[1], Target: fields[2]}

	if r.strict {
		result, err := r.engine.ConvertStrict(req)
		if err != nil {
			return err.Error()
		}
		return formatResult(result, req.Target)
	}
	return formatResult(r.engine.Convert(req), req.Target)
}

func formatResult(v float64, unit string) string {
	return strconv.FormatFloat(v, 'g', -1, 64) + " " + unit
}

// command handles REPL meta-commands that start with ':'
func (r *REPL) command(line string) string {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]
	reg := r.engine.Registry()

	switch cmd {
	case ":help", ":h", ":?":
		return strings.Join([]string{
			"Convert:",
			"  VALUE FROM TO        e.g. 1 hours seconds, 1 kibibytes to bytesIEC",
			"",
			"REPL Commands:",
			"  :categories          List categories",
			"  :options NAME        List the units of a category",
			"  :find UNIT           Show the category a unit belongs to",
			"  :strict [on|off]     Toggle category-checked conversion",
			"  :help, :h, :?        Show this help",
			"  exit, quit           Exit the REPL",
		}, "\n")

	case ":categories":
		var sb strings.Builder
		for i, c := range reg.Categories() {
			if i > 0 {
				sb.WriteString("\n")
			}
			fmt.Fprintf(&sb, "%-14s %d units", c.Name, len(c.Units))
		}
		return sb.String()

	case ":options":
		if len(args) != 1 {
			return "usage: :options CATEGORY"
		}
		if !reg.IsCategoryName(args[0]) {
			names := make([]string, 0, len(reg.Names()))
			for _, n := range reg.Names() {
				names = append(names, string(n))
			}
			return uerrors.NewUnknownCategory(args[0], names).Error()
		}
		var sb strings.Builder
		for i, o := range reg.Options(args[0]) {
			if i > 0 {
				sb.WriteString("\n")
			}
			fmt.Fprintf(&sb, "%-28s %s", o.Value, o.Label)
		}
		return sb.String()

	case ":find":
		if len(args) != 1 {
			return "usage: :find UNIT"
		}
		c, ok := reg.FindCategory(args[0])
		if !ok {
			return uerrors.NewUnknownUnit(args[0], reg.IDs()).Error()
		}
		return string(c.Name)

	case ":strict":
		if len(args) == 1 {
			switch args[0] {
			case "on":
				r.strict = true
			case "off":
				r.strict = false
			default:
				return "usage: :strict [on|off]"
			}
		}
		if r.strict {
			return "strict mode on"
		}
		return "strict mode off"

	default:
		return fmt.Sprintf("Unknown command: %s (type :help for commands)", cmd)
	}
}

// Complete returns completion suggestions for the word being typed
func (r *REPL) Complete(line string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	// Don't complete if line ends with whitespace
	if line[len(line)-1] == ' ' || line[len(line)-1] == '\t' {
		return nil
	}

	words := strings.Fields(line)
	lastWord := words[len(words)-1]
	prefix := strings.TrimSuffix(line, lastWord)

	var matches []string
	for _, word := range r.words {
		if strings.HasPrefix(word, lastWord) {
			matches = append(matches, prefix+word)
		}
	}
	return matches
}

// Start runs the REPL on the terminal with line editing, history, and tab completion
func Start(out io.Writer, version string, r *REPL) {
	line := liner.NewLiner()
	defer line.Close()

	// Enable Ctrl+C to abort current line
	line.SetCtrlCAborts(true)
	line.SetCompleter(r.Complete)

	// Load command history from file
	historyFile := filepath.Join(os.TempDir(), ".unitconv_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	// Save history on exit
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(out, "%s", LOGO)
	fmt.Fprintln(out, "v", version)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit")
	fmt.Fprintln(out, "Use Tab for completion, ↑↓ for history")
	fmt.Fprintln(out, "Type ':help' for REPL commands")
	fmt.Fprintln(out, "")

	for {
		prompt := PROMPT
		if r.strict {
			prompt = PROMPT_STRICT
		}
		input, err := line.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				fmt.Fprintln(out, "^C")
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}

		result, exit := r.Eval(input)
		if result != "" {
			fmt.Fprintln(out, result)
		}
		if exit {
			return
		}
	}
}

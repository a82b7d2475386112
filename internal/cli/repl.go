package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/lilggamegenuis/apeval"
	"github.com/lilggamegenuis/apeval/internal/cli/config"
)

// session holds the evaluation settings shared by one-shot and interactive
// use. The precision and style can change between expressions in the REPL,
// so each expression gets a fresh evaluation context.
type session struct {
	precision int
	styleName string
	digits    int
	log       *slog.Logger
	out       io.Writer
	errw      io.Writer
}

func newSession(cfg *config.Config, log *slog.Logger, out, errw io.Writer) *session {
	return &session{
		precision: cfg.Precision,
		styleName: cfg.Style,
		digits:    cfg.Digits,
		log:       log,
		out:       out,
		errw:      errw,
	}
}

// eval evaluates one expression and prints the result or the error.
// It reports whether evaluation succeeded.
func (s *session) eval(expr string) bool {
	d, err := apeval.EvalString(expr,
		apeval.Prec(s.precision),
		apeval.WithCatalog(apeval.DefaultCatalog(style(s.styleName))))
	if err != nil {
		s.log.Debug("evaluation failed", "expr", expr, "err", err)
		fmt.Fprintf(s.errw, "Error: %v\n", err)
		return false
	}
	fmt.Fprintln(s.out, apeval.FormatPrec(d, s.digits))
	return true
}

// evalAll evaluates each argument as an expression. The error reports how
// many failed; each failure has already been printed.
func (s *session) evalAll(exprs []string) error {
	bad := 0
	for _, expr := range exprs {
		if !s.eval(expr) {
			bad++
		}
	}
	if bad > 0 {
		return fmt.Errorf("%d of %d expressions failed", bad, len(exprs))
	}
	return nil
}

// repl runs the interactive loop.
func (s *session) repl() error {
	home, _ := os.UserHomeDir()
	historyFile := ""
	if home != "" {
		historyFile = filepath.Join(home, ".apeval_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "apeval> ",
		HistoryFile:     historyFile,
		AutoComplete:    s.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	fmt.Fprintf(s.out, "apeval %s (precision %d, %s precedence)\n", Version, s.precision, s.styleName)
	fmt.Fprintln(s.out, "Type .help for commands, .quit to exit")
	fmt.Fprintln(s.out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ".") {
			if s.dotCommand(line) {
				return nil
			}
			continue
		}
		s.eval(line)
	}
}

// dotCommand handles a REPL dot-command and reports whether to exit.
func (s *session) dotCommand(line string) bool {
	parts := strings.Fields(line)
	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true

	case ".help":
		s.printHelp()

	case ".precision":
		if len(parts) < 2 {
			fmt.Fprintf(s.out, "precision is %d\n", s.precision)
			break
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 1 {
			fmt.Fprintln(s.errw, "Usage: .precision <digits>")
			break
		}
		s.precision = n

	case ".digits":
		if len(parts) < 2 {
			fmt.Fprintf(s.out, "display digits is %d\n", s.digits)
			break
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 0 {
			fmt.Fprintln(s.errw, "Usage: .digits <digits>")
			break
		}
		s.digits = n

	case ".style":
		if len(parts) < 2 {
			fmt.Fprintf(s.out, "style is %s\n", s.styleName)
			break
		}
		switch parts[1] {
		case "standard", "spreadsheet":
			s.styleName = parts[1]
		default:
			fmt.Fprintln(s.errw, "Usage: .style standard|spreadsheet")
		}

	case ".clear":
		fmt.Fprint(s.out, "\033[H\033[2J")

	default:
		fmt.Fprintf(s.errw, "Unknown command: %s (type .help for commands)\n", parts[0])
	}
	return false
}

func (s *session) printHelp() {
	help := `
Commands:
  .help             Show this help message
  .precision [n]    Show or set the computation precision
  .digits [n]       Show or set the display precision (0 = all)
  .style [name]     Show or set the precedence style
  .clear            Clear the screen
  .quit / .exit     Exit

Anything else is evaluated as an expression, e.g. sin(pi/6) or 2^64.
`
	fmt.Fprintln(s.out, help)
}

// completer offers the catalog's function and constant names along with the
// dot-commands.
func (s *session) completer() *readline.PrefixCompleter {
	cat := apeval.DefaultCatalog(style(s.styleName))
	var items []readline.PrefixCompleterInterface
	for _, name := range cat.FunctionNames() {
		items = append(items, readline.PcItem(name+"("))
	}
	for _, name := range cat.ConstantNames() {
		items = append(items, readline.PcItem(name))
	}
	for _, cmd := range []string{".help", ".precision", ".digits", ".style", ".clear", ".quit", ".exit"} {
		items = append(items, readline.PcItem(cmd))
	}
	return readline.NewPrefixCompleter(items...)
}

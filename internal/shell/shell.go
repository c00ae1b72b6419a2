// Package shell is a line-oriented interpreter over an expiremap.Map, used by
// the interactive CLI.
package shell

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"

	"expiremap/internal/config"
	"expiremap/internal/expiremap"
)

var (
	// ErrUnknownCommand is returned by Exec when the first word is not a command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage is returned by Exec for wrong arguments or unbalanced quotes.
	ErrUsage = errors.New("usage")
	// ErrQuit is returned by Exec for quit/exit.
	ErrQuit = errors.New("quit")
)

const helpText = `words are split on spaces; quote a value to keep spaces: set k "hello world" 1m
commands:
  set <key> <value> [ttl|none]  store a value (ttl like 500ms; none = never expires)
  get <key>                     print a value, or (nil)
  has <key>                     true if the key is live
  del <key>                     remove a key, expired or not
  deadline <key>                print when a key expires
  clear                         remove everything
  len                           stored entries, expired ones included
  size                          live entries (sweeps expired ones)
  purge                         sweep expired entries, print how many went
  keys | values | entries       list live data in insertion order
  ttl [d|none]                  show or change the default ttl
  help                          this text
  quit                          leave the shell`

// Shell executes commands against a string map.
type Shell struct {
	m      *expiremap.Map[string, string]
	out    io.Writer
	prompt string
	log    *slog.Logger
}

// New constructs a Shell writing results to out. An empty prompt disables
// prompting (used when input is not a terminal).
func New(m *expiremap.Map[string, string], out io.Writer, prompt string, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.Default()
	}
	return &Shell{m: m, out: out, prompt: prompt, log: logger}
}

// Run reads commands from in until EOF, quit, or ctx is canceled.
// Command errors are printed and do not stop the loop.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.prompt != "" {
			fmt.Fprint(s.out, s.prompt)
		}
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return nil
		}

		err := s.Exec(sc.Text())
		switch {
		case err == nil:
		case errors.Is(err, ErrQuit):
			return nil
		default:
			s.log.Debug("command failed", "line", sc.Text(), "error", err)
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

// Exec runs one command line. Blank lines and # comments are ignored.
// Words follow shell quoting rules, so values may contain spaces when quoted.
func (s *Shell) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	args, err := shellwords.Parse(line)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(args) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(args[0]), args[1:]

	switch cmd {
	case "set":
		return s.set(args)
	case "get":
		if len(args) != 1 {
			return usage("get <key>")
		}
		if v, ok := s.m.Get(args[0]); ok {
			s.println(v)
		} else {
			s.println("(nil)")
		}
	case "has":
		if len(args) != 1 {
			return usage("has <key>")
		}
		s.println(strconv.FormatBool(s.m.Has(args[0])))
	case "del", "delete":
		if len(args) != 1 {
			return usage("del <key>")
		}
		s.println(strconv.FormatBool(s.m.Delete(args[0])))
	case "deadline":
		if len(args) != 1 {
			return usage("deadline <key>")
		}
		s.deadline(args[0])
	case "clear":
		s.m.Clear()
		s.println("OK")
	case "len":
		s.println(strconv.Itoa(s.m.Len()))
	case "size":
		s.println(strconv.Itoa(s.m.LiveLen()))
	case "purge":
		s.println(strconv.Itoa(s.m.Purge()))
	case "keys":
		for k := range s.m.Keys() {
			s.println(k)
		}
	case "values":
		for v := range s.m.Values() {
			s.println(v)
		}
	case "entries":
		return s.entries()
	case "ttl":
		return s.ttl(args)
	case "help":
		s.println(helpText)
	case "quit", "exit":
		return ErrQuit
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
	return nil
}

func (s *Shell) set(args []string) error {
	switch len(args) {
	case 2:
		s.m.Set(args[0], args[1])
	case 3:
		ttl, err := config.ParseTTL(args[2])
		if err != nil {
			return fmt.Errorf("set %s: ttl: %w", args[0], err)
		}
		if d, ok := ttl.Get(); ok {
			s.m.SetTTL(args[0], args[1], d)
		} else {
			s.m.SetNoExpiry(args[0], args[1])
		}
	default:
		return usage("set <key> <value> [ttl|none]")
	}
	s.println("OK")
	return nil
}

func (s *Shell) deadline(key string) {
	at, ok := s.m.Deadline(key)
	switch {
	case !ok:
		s.println("(nil)")
	case at.IsZero():
		s.println("never")
	default:
		s.println(at.Format(time.RFC3339Nano))
	}
}

type entryJSON struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *Shell) entries() error {
	out := []entryJSON{}
	for k, v := range s.m.All() {
		out = append(out, entryJSON{Key: k, Value: v})
	}
	b, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}
	s.println(string(b))
	return nil
}

func (s *Shell) ttl(args []string) error {
	switch len(args) {
	case 0:
		s.println(FormatTTL(s.m.DefaultTTL().OrEmpty(), s.m.DefaultTTL().IsPresent()))
	case 1:
		ttl, err := config.ParseTTL(args[0])
		if err != nil {
			return fmt.Errorf("ttl: %w", err)
		}
		s.m.SetDefaultTTL(ttl)
		s.println("OK")
	default:
		return usage("ttl [d|none]")
	}
	return nil
}

// FormatTTL renders an optional duration the way the shell accepts it.
func FormatTTL(d time.Duration, ok bool) string {
	if !ok {
		return "none"
	}
	return d.String()
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}

func usage(form string) error {
	return fmt.Errorf("%w: %s", ErrUsage, form)
}

package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/peterh/liner"

	"github.com/leengari/secindex/internal/engine"
	"github.com/leengari/secindex/internal/executor"
)

const banner = "secidx shell. Type 'help' for commands, 'exit' or '\\q' to quit."

var keywords = []string{
	"CREATE", "UNIQUE", "INDEX", "DROP", "SHOW", "INDEXES", "INSERT", "INTO", "ID", "VALUES",
	"DELETE", "FROM", "SET", "SELECT", "WHERE", "LIMIT", "COUNT", "EXPLAIN", "SAVE", "LOAD",
	"AND", "OR", "IN", "LIKE", "IS", "NULL", "TRUE", "FALSE",
}

const help = `Statements:
  CREATE [UNIQUE] INDEX name (col TYPE, ...)   types: STRING INT32 INT64 UINT BOOL FLOAT DOUBLE TIME
  DROP INDEX name | SHOW INDEXES | COUNT name
  INSERT INTO name ID 'id' VALUES (v, ...)
  DELETE FROM name ID 'id'
  SET name ID 'id' (field = 'text', ...)
  SELECT FROM name [WHERE expr] [LIMIT n]
  EXPLAIN SELECT FROM name WHERE expr
  SAVE name | LOAD name
Shell:
  ls, list   list indexes
  exit, \q   quit`

// Start runs the interactive shell with line editing until the user quits.
// History is kept in historyPath when it is set.
func Start(eng *engine.Engine, historyPath string) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(complete)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Println(banner)
	for {
		input, err := line.Prompt("secidx> ")
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if !handleLine(eng, input, os.Stdout) {
			break
		}
	}

	if historyPath != "" {
		f, err := os.Create(historyPath)
		if err != nil {
			return fmt.Errorf("failed to save history: %w", err)
		}
		defer f.Close()
		if _, err := line.WriteHistory(f); err != nil {
			return fmt.Errorf("failed to save history: %w", err)
		}
	}
	return nil
}

// Run executes one statement per line of in, for piped input
func Run(eng *engine.Engine, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if !handleLine(eng, scanner.Text(), out) {
			return nil
		}
	}
	return scanner.Err()
}

// handleLine runs one input line and reports whether to keep going
func handleLine(eng *engine.Engine, line string, out io.Writer) bool {
	line = strings.TrimSpace(line)

	switch line {
	case "":
		return true
	case "exit", "\\q":
		return false
	case "help", "\\h":
		fmt.Fprintln(out, help)
		return true
	case "ls", "list":
		names := eng.Registry().List()
		fmt.Fprintln(out, "Indexes:")
		for _, name := range names {
			fmt.Fprintf(out, "  - %s\n", name)
		}
		return true
	}

	result, err := eng.Execute(line)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return true
	}
	PrintResult(out, result)
	return true
}

// complete offers keywords matching the last word of the line
func complete(line string) []string {
	start := strings.LastIndexAny(line, " (,") + 1
	word := strings.ToUpper(line[start:])
	if word == "" {
		return nil
	}

	var out []string
	for _, kw := range keywords {
		if strings.HasPrefix(kw, word) {
			out = append(out, line[:start]+kw)
		}
	}
	return out
}

// PrintResult renders a result as an aligned table
func PrintResult(w io.Writer, res *executor.Result) {
	if res.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", res.Error)
		return
	}

	if len(res.Columns) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

		// Header - show type if metadata available
		for i, col := range res.Columns {
			if i < len(res.Metadata) && res.Metadata[i].Type != "" {
				fmt.Fprintf(tw, "%s (%s)", col, res.Metadata[i].Type)
			} else {
				fmt.Fprintf(tw, "%s", col)
			}
			if i < len(res.Columns)-1 {
				fmt.Fprintf(tw, "\t")
			}
		}
		fmt.Fprintln(tw)

		// Separator
		for i := range res.Columns {
			fmt.Fprintf(tw, "---")
			if i < len(res.Columns)-1 {
				fmt.Fprintf(tw, "\t")
			}
		}
		fmt.Fprintln(tw)

		// Rows
		for _, row := range res.Rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		tw.Flush()
	}

	if res.Message != "" {
		fmt.Fprintln(w, res.Message)
	}
}

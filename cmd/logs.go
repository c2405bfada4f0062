package cmd

import (
	"fmt"
	"io"
	stdlog "log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hpcloud/tail"
	"github.com/spf13/cobra"

	"github.com/klondike-tools/dash/pkg/paths"
	"github.com/klondike-tools/dash/tui/theme"
)

// tailedLine is one log line tagged with the component it came from.
type tailedLine struct {
	component string
	line      string
}

// NewLogsCmd creates the `logs` command.
func NewLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the dash client's own log files",
		Long: `Prints the log files dash writes under the XDG state directory, one
file per component (cli, dashboard, live channels).

Examples:
  # Dump everything logged today
  dash logs

  # Follow new lines as they are written
  dash logs -f

  # Only the live channel components
  dash logs --component live-updates,live-presence
`,
		RunE: runLogs,
	}

	cmd.Flags().BoolP("follow", "f", false, "Follow log output")
	cmd.Flags().StringSlice("component", nil, "Filter by component names (comma-separated)")
	return cmd
}

func runLogs(cmd *cobra.Command, args []string) error {
	follow, _ := cmd.Flags().GetBool("follow")
	components, _ := cmd.Flags().GetStringSlice("component")

	files, err := filepath.Glob(filepath.Join(paths.LogDir(), "*.log"))
	if err != nil {
		return err
	}
	files = filterLogFiles(files, components)
	if len(files) == 0 {
		fmt.Println(theme.DefaultTheme.Muted.Render("No log files yet."))
		return nil
	}

	lineChan := make(chan tailedLine, 64)
	var wg sync.WaitGroup
	for _, path := range files {
		wg.Add(1)
		go tailLogFile(path, follow, lineChan, &wg)
	}
	go func() {
		wg.Wait()
		close(lineChan)
	}()

	t := theme.DefaultTheme
	for l := range lineChan {
		fmt.Printf("%s %s\n", t.Accent.Render("["+l.component+"]"), l.line)
	}
	return nil
}

// tailLogFile streams one file into the channel. With follow it keeps
// reading as the file grows and survives rotation.
func tailLogFile(path string, follow bool, out chan<- tailedLine, wg *sync.WaitGroup) {
	defer wg.Done()

	t, err := tail.TailFile(path, tail.Config{
		Follow: follow,
		ReOpen: follow,
		Logger: stdlog.New(io.Discard, "", 0),
	})
	if err != nil {
		return
	}

	component := componentFromLogFile(path)
	for line := range t.Lines {
		if line.Err != nil {
			continue
		}
		out <- tailedLine{component: component, line: line.Text}
	}
}

// componentFromLogFile strips the date suffix from "<component>-<date>.log".
func componentFromLogFile(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), ".log")
	if i := strings.LastIndex(name, "-20"); i > 0 {
		return name[:i]
	}
	return name
}

func filterLogFiles(files, components []string) []string {
	if len(components) == 0 {
		return files
	}
	want := make(map[string]bool, len(components))
	for _, c := range components {
		want[c] = true
	}
	out := files[:0]
	for _, f := range files {
		if want[componentFromLogFile(f)] {
			out = append(out, f)
		}
	}
	return out
}

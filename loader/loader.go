// Package loader discovers daily account-log files and runs the parser over
// them, one fresh scan per date.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/xyproto/unzip"

	"acclens/acclog"
	"acclens/market"
)

const filePrefix = "acc_log."

// suffixes is the fixed precedence order tried per date; the first existing
// file wins. Compressed variants come last so a plain file nearby always
// takes priority.
var suffixes = []string{".txt", ".txt.log", ".log", ".txt.xz", ".zip"}

// Loader reads trade records out of a directory of daily log files.
type Loader struct {
	dir    string
	parser *acclog.Parser
}

// New creates a Loader over dir using the default parser.
func New(dir string) *Loader {
	return &Loader{dir: dir, parser: acclog.New()}
}

// NewWithParser creates a Loader with a custom-configured parser (alternate
// pattern set or fee rate).
func NewWithParser(dir string, p *acclog.Parser) *Loader {
	return &Loader{dir: dir, parser: p}
}

// LoadAll parses the log for each date (YYYY-MM-DD) and concatenates the
// results in date-list order. Dates with no matching file or no extracted
// trades contribute nothing; there is no partial-failure signal beyond that.
func (l *Loader) LoadAll(dates []string) []market.Trade {
	var all []market.Trade
	for _, date := range dates {
		all = append(all, l.loadDate(date)...)
	}
	return all
}

func (l *Loader) loadDate(date string) []market.Trade {
	path, ok := l.findFile(date)
	if !ok {
		return nil
	}

	switch {
	case strings.HasSuffix(path, ".xz"):
		return l.parseXZ(path, date)
	case strings.HasSuffix(path, ".zip"):
		return l.parseZip(path, date)
	default:
		trades, err := l.parser.ParseFile(path, date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loader: skipping %s: %v\n", path, err)
			return nil
		}
		return trades
	}
}

func (l *Loader) findFile(date string) (string, bool) {
	for _, suf := range suffixes {
		path := filepath.Join(l.dir, filePrefix+date+suf)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

func (l *Loader) parseXZ(path, date string) []market.Trade {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loader: skipping %s: %v\n", path, err)
		return nil
	}
	defer f.Close()

	r, err := xz.NewReader(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loader: skipping %s: %v\n", path, err)
		return nil
	}
	return l.parser.Parse(r, date)
}

// parseZip extracts a zipped daily archive to a scratch directory and parses
// the plain log found inside it.
func (l *Loader) parseZip(path, date string) []market.Trade {
	tmp, err := os.MkdirTemp("", "acclens-zip-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "loader: skipping %s: %v\n", path, err)
		return nil
	}
	defer os.RemoveAll(tmp)

	if err := unzip.Extract(path, tmp); err != nil {
		fmt.Fprintf(os.Stderr, "loader: skipping %s: %v\n", path, err)
		return nil
	}

	for _, suf := range []string{".txt", ".txt.log", ".log"} {
		inner := filepath.Join(tmp, filePrefix+date+suf)
		if _, err := os.Stat(inner); err == nil {
			trades, err := l.parser.ParseFile(inner, date)
			if err != nil {
				fmt.Fprintf(os.Stderr, "loader: skipping %s: %v\n", path, err)
				return nil
			}
			return trades
		}
	}
	fmt.Fprintf(os.Stderr, "loader: %s holds no log for %s\n", path, date)
	return nil
}

// Dates lists the dates with a log file present in the directory, newest
// first. Duplicate dates across suffix variants collapse to one entry.
func (l *Loader) Dates() []string {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), filePrefix) {
			continue
		}
		rest := strings.TrimPrefix(e.Name(), filePrefix)
		for _, suf := range suffixes {
			if strings.HasSuffix(rest, suf) {
				date := strings.TrimSuffix(rest, suf)
				if date != "" {
					seen[date] = true
				}
				break
			}
		}
	}

	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

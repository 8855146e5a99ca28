package env

import (
	"bufio"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

// Load environment variables from the given file. Lines without an '=' and
// lines starting with '#' are ignored.
func Load(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	scanner.Split(bufio.ScanLines)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		b, a, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if err := os.Setenv(strings.TrimSpace(b), strings.TrimSpace(a)); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// MustHave returns the named environment variable. If not set, it writes to
// [os.Stderr] and terminates the program.
func MustHave(name string) string {
	x := os.Getenv(name)
	if x == "" {
		os.Stderr.WriteString("missing " + name + "\n")
		os.Exit(1)
	}
	return x
}

// Getenv returns the named environment variable, or def if it is not set.
func Getenv(name, def string) string {
	if x := os.Getenv(name); x != "" {
		return x
	}
	return def
}

// Signal returns a channel signalling termination.
func Signal() <-chan os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return quit
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/oksasatya/go-blog-publisher/internal/client"
)

const defaultAPIURL = "http://localhost:5000"

// readPassword is replaceable in tests; it is only used on a terminal.
var readPassword = term.ReadPassword

// app carries everything a command needs. Commands never touch os.Stdin or
// os.Stdout directly.
type app struct {
	apiURL      string
	sessionPath string

	in          *bufio.Reader
	out         io.Writer
	outMu       sync.Mutex
	interactive bool

	session *client.Session
	api     *client.Client
}

// open loads the session file and builds the client. Flags win over
// BLOG_API_URL and BLOGCTL_SESSION, which win over the session file.
func (a *app) open() error {
	path := a.sessionPath
	if path == "" {
		path = os.Getenv("BLOGCTL_SESSION")
	}
	if path == "" {
		path = client.DefaultSessionPath()
	}
	s, err := client.LoadSession(path)
	if err != nil {
		return err
	}

	url := a.apiURL
	if url == "" {
		url = os.Getenv("BLOG_API_URL")
	}
	if url == "" {
		url = s.APIURL
	}
	if url == "" {
		url = defaultAPIURL
	}
	s.APIURL = url

	a.session = s
	a.api = client.New(url, s)
	return nil
}

func (a *app) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

func (a *app) println(args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.out, args...)
}

// readLine prompts and reads one trimmed line. A partial line before EOF is
// returned as is.
func (a *app) readLine(prompt string) (string, error) {
	if prompt != "" {
		a.printf("%s: ", prompt)
	}
	line, err := a.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readMultiline reads lines until one consisting of a single ".".
func (a *app) readMultiline(prompt string) (string, error) {
	a.println(prompt + " (finish with a line containing only \".\")")
	var lines []string
	for {
		line, err := a.in.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "." {
			break
		}
		if trimmed != "" || err == nil {
			lines = append(lines, trimmed)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", err
		}
	}
	return strings.Join(lines, "\n"), nil
}

func (a *app) readSecret(prompt string) (string, error) {
	if !a.interactive {
		return a.readLine(prompt)
	}
	a.printf("%s: ", prompt)
	pw, err := readPassword(int(os.Stdin.Fd()))
	a.println()
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// confirm implements listing.Confirmer on top of the input stream.
func (a *app) Confirm(prompt string) bool {
	ans, err := a.readLine(prompt + " [y/N]")
	if err != nil {
		return false
	}
	switch strings.ToLower(ans) {
	case "y", "yes":
		return true
	}
	return false
}

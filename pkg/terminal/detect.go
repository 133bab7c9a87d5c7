// Package terminal identifies the terminal emulator and picks the graphics
// protocol used for image previews.
//
// Detection reads environment variables only; nothing is written to the
// terminal.
package terminal

import (
	"fmt"
	"os"
	"strings"
)

// Terminal identifies the terminal emulator in use.
type Terminal int

const (
	TermGeneric Terminal = iota
	TermGhostty
	TermKitty
	TermWezTerm
	TermITerm2
	TermVSCode
	TermTmux
)

var terminalNames = [...]string{
	TermGeneric: "generic",
	TermGhostty: "ghostty",
	TermKitty:   "kitty",
	TermWezTerm: "wezterm",
	TermITerm2:  "iterm2",
	TermVSCode:  "vscode",
	TermTmux:    "tmux",
}

func (t Terminal) String() string {
	if int(t) < len(terminalNames) {
		return terminalNames[t]
	}
	return "unknown"
}

// Env looks up an environment variable. os.Getenv satisfies it.
type Env func(string) string

// Detect identifies the terminal from env, most reliable signal first.
func Detect(env Env) Terminal {
	if env == nil {
		env = os.Getenv
	}
	switch strings.ToLower(env("TERM_PROGRAM")) {
	case "ghostty":
		return TermGhostty
	case "kitty":
		return TermKitty
	case "wezterm":
		return TermWezTerm
	case "iterm.app":
		return TermITerm2
	case "vscode":
		return TermVSCode
	}
	switch env("TERM") {
	case "xterm-ghostty":
		return TermGhostty
	case "xterm-kitty":
		return TermKitty
	}
	switch {
	case env("KITTY_WINDOW_ID") != "":
		return TermKitty
	case env("ITERM_SESSION_ID") != "", env("LC_TERMINAL") == "iTerm2":
		return TermITerm2
	case env("WEZTERM_EXECUTABLE") != "":
		return TermWezTerm
	case env("TMUX") != "":
		return TermTmux
	}
	return TermGeneric
}

// Protocol is an image rendering protocol.
type Protocol int

const (
	ProtocolNone Protocol = iota
	ProtocolKitty
	ProtocolITerm2
	ProtocolSixel
	ProtocolHalfblocks
)

var protocolNames = [...]string{
	ProtocolNone:       "none",
	ProtocolKitty:      "kitty",
	ProtocolITerm2:     "iterm2",
	ProtocolSixel:      "sixel",
	ProtocolHalfblocks: "halfblocks",
}

func (p Protocol) String() string {
	if int(p) < len(protocolNames) {
		return protocolNames[p]
	}
	return "unknown"
}

// ParseProtocol parses a protocol name. "auto" and "" return ok=false so
// the caller falls back to detection.
func ParseProtocol(s string) (p Protocol, ok bool, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ProtocolNone, false, nil
	case "kitty":
		return ProtocolKitty, true, nil
	case "iterm2":
		return ProtocolITerm2, true, nil
	case "sixel":
		return ProtocolSixel, true, nil
	case "halfblocks", "unicode":
		return ProtocolHalfblocks, true, nil
	case "none", "off":
		return ProtocolNone, true, nil
	}
	return ProtocolNone, false, fmt.Errorf("terminal: unknown graphics protocol %q", s)
}

// SelectProtocol returns the best protocol for term. Over SSH every
// graphics protocol degrades to halfblocks.
func SelectProtocol(term Terminal, env Env) Protocol {
	if env == nil {
		env = os.Getenv
	}
	if env("SSH_TTY") != "" || env("SSH_CONNECTION") != "" {
		return ProtocolHalfblocks
	}
	switch term {
	case TermGhostty, TermKitty, TermWezTerm:
		return ProtocolKitty
	case TermITerm2:
		return ProtocolITerm2
	}
	return ProtocolHalfblocks
}

// Resolve returns the protocol named by override, or the detected one
// when override is empty or "auto".
func Resolve(override string, env Env) (Protocol, error) {
	p, ok, err := ParseProtocol(override)
	if err != nil {
		return ProtocolNone, err
	}
	if ok {
		return p, nil
	}
	return SelectProtocol(Detect(env), env), nil
}

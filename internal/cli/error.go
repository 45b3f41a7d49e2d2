package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"

	"github.com/macropower/mdpkm/pkg/config"
	"github.com/macropower/mdpkm/pkg/instance"
	"github.com/macropower/mdpkm/pkg/platform"
)

// ErrorHandler renders err with fang's styles, followed by a hint when the
// error has a likely fix.
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	mustN(fmt.Fprintln(w, styles.ErrorHeader.String()))
	mustN(fmt.Fprintln(w, lipgloss.NewStyle().MarginLeft(2).Render(err.Error())))
	mustN(fmt.Fprintln(w))

	flag, rest := errorHint(err)
	if flag == "" {
		return
	}

	mustN(fmt.Fprintln(w, lipgloss.JoinHorizontal(
		lipgloss.Left,
		styles.ErrorText.UnsetWidth().Render("Try"),
		styles.Program.Flag.Render(flag),
		styles.ErrorText.UnsetWidth().UnsetMargins().UnsetTransform().PaddingLeft(1).Render(rest),
	)))
	mustN(fmt.Fprintln(w))
}

// errorHint returns a flag to suggest for err, and the rest of the sentence.
func errorHint(err error) (string, string) {
	switch {
	case isUsageError(err):
		return "--help", "for usage."
	case errors.Is(err, platform.ErrUnknownPlatform):
		return "--offline", "or set platforms.curseforge.apiKey in your config."
	case errors.Is(err, instance.ErrNotFound):
		return "instances", "to list configured instances."
	case errors.Is(err, config.ErrInvalid):
		return "--write-config", "after moving the invalid file away."
	}

	return "", ""
}

// XXX: this is a hack to detect usage errors.
// See: https://github.com/spf13/cobra/pull/2266
func isUsageError(err error) bool {
	s := err.Error()
	for _, prefix := range []string{
		"flag needs an argument:",
		"unknown flag:",
		"unknown shorthand flag:",
		"unknown command",
		"invalid argument",
	} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustN(_ int, err error) {
	must(err)
}

package log

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger provides user-friendly feedback about atlas rewrites
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
	out io.Writer      // every pterm line goes here, never to stdout by default
}

// 🎨 AtlasChangeType represents what happened to an atlas input
type AtlasChangeType int

const (
	AtlasScaled AtlasChangeType = iota
	AtlasUnchanged
	AtlasError
)

// 🖼️ AtlasChange represents the outcome for one atlas input
type AtlasChange struct {
	Type         AtlasChangeType
	Path         string
	Replacements int
	Error        error
}

// 🎯 NewUserLogger creates a user logger that prints to out
func NewUserLogger(ctx context.Context, out io.Writer) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
		out: out,
	}
}

// printer binds base to the logger's writer, with an optional emoji prefix
func (u *UserLogger) printer(base pterm.PrefixPrinter, prefix string) *pterm.PrefixPrinter {
	p := base.WithWriter(u.out)
	if prefix != "" {
		p = p.WithPrefix(pterm.Prefix{Text: prefix, Style: base.Prefix.Style})
	}
	return p
}

// 📝 LogAtlasChange logs the outcome for one atlas with emoji and formatting
func (u *UserLogger) LogAtlasChange(change AtlasChange) {
	relPath := filepath.Base(change.Path)

	var printer *pterm.PrefixPrinter
	var action string
	switch change.Type {
	case AtlasScaled:
		action = "Scaled"
		printer = u.printer(pterm.Success, "🔄")
	case AtlasUnchanged:
		action = "Unchanged"
		printer = u.printer(pterm.Info, "⏭️")
	default:
		action = "Error"
		printer = u.printer(pterm.Error, "❌")
	}

	msg := fmt.Sprintf("%s %s", action, relPath)
	if change.Replacements > 0 {
		msg += fmt.Sprintf(" (%d spans)", change.Replacements)
	}

	printer.Println(msg)
	if change.Error != nil {
		u.printer(pterm.Error, "").Println(change.Error)
		u.log.Error().Err(change.Error).Msg(msg)
		return
	}
	u.log.Info().Msg(msg)
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	if valid {
		u.printer(pterm.Success, "✅").Println(description)
		u.log.Info().Msg(description)
		return
	}
	if err != nil {
		u.printer(pterm.Error, "❌").Println(description)
		u.printer(pterm.Error, "").Println(err)
		u.log.Error().Err(err).Msg(description)
		return
	}
	u.printer(pterm.Warning, "⚠️").Println(description)
	u.log.Warn().Msg(description)
}

// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	outcomeIndent = 2 // spaces to indent outcome lines
)

// 🎯 Console prints operator-facing output and mirrors every line to the
// structured logger carried on the context.
type Console struct {
	out         io.Writer
	mu          sync.Mutex
	interactive bool
}

// 🏭 New creates a console writing to out. Progress bars are only drawn when
// out is a terminal.
func New(out io.Writer) *Console {
	interactive := false
	if f, ok := out.(*os.File); ok {
		interactive = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Console{out: out, interactive: interactive}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the console from context, or a console that discards
// everything when none was stored.
func FromContext(ctx context.Context) *Console {
	c, ok := ctx.Value(contextKey{}).(*Console)
	if !ok {
		return New(io.Discard)
	}
	return c
}

// 🎯 NewContext adds the console to context
func NewContext(ctx context.Context, c *Console) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

func (c *Console) println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, s)
}

// 📝 Header prints a section header
func (c *Console) Header(ctx context.Context, msg string) {
	name := color.New(color.Bold, color.FgCyan).Sprint("tabmigrate")
	c.println("\n" + name + " " + color.New(color.Faint).Sprint("• "+msg) + "\n")
	zerolog.Ctx(ctx).Info().Msg(msg)
}

// 📝 Success prints a success message
func (c *Console) Success(ctx context.Context, msg string) {
	c.println("✅ " + color.New(color.FgGreen).Sprint(msg))
	zerolog.Ctx(ctx).Info().Msg(msg)
}

// 📝 Warning prints a warning message
func (c *Console) Warning(ctx context.Context, msg string) {
	c.println("⚠️  " + color.New(color.FgYellow).Sprint(msg))
	zerolog.Ctx(ctx).Warn().Msg(msg)
}

// 📝 Error prints an error message
func (c *Console) Error(ctx context.Context, msg string) {
	c.println("❌ " + color.New(color.FgRed).Sprint(msg))
	zerolog.Ctx(ctx).Error().Msg(msg)
}

// 📝 Info prints an info message
func (c *Console) Info(ctx context.Context, msg string) {
	c.println("ℹ️  " + color.New(color.FgCyan).Sprint(msg))
	zerolog.Ctx(ctx).Info().Msg(msg)
}

func (c *Console) Infof(ctx context.Context, format string, args ...interface{}) {
	c.Info(ctx, fmt.Sprintf(format, args...))
}

func (c *Console) Warningf(ctx context.Context, format string, args ...interface{}) {
	c.Warning(ctx, fmt.Sprintf(format, args...))
}

func (c *Console) Errorf(ctx context.Context, format string, args ...interface{}) {
	c.Error(ctx, fmt.Sprintf(format, args...))
}

func (c *Console) Successf(ctx context.Context, format string, args ...interface{}) {
	c.Success(ctx, fmt.Sprintf(format, args...))
}

// 📝 Outcome prints one migrated record: "✓ name (detail)" or "✗ name: err".
func (c *Console) Outcome(ctx context.Context, name, detail string, err string) {
	indent := strings.Repeat(" ", outcomeIndent)
	if err == "" {
		line := indent + color.New(color.FgGreen).Sprint("✓") + " " + name
		if detail != "" {
			line += " " + color.New(color.Faint).Sprint("("+detail+")")
		}
		c.println(line)
		zerolog.Ctx(ctx).Info().Str("name", name).Msg("migrated")
		return
	}
	c.println(indent + color.New(color.FgRed).Sprint("✗") + " " + name + ": " + err)
	zerolog.Ctx(ctx).Error().Str("name", name).Str("error", err).Msg("migration failed")
}

// 📊 Table prints rows under header as a boxed table.
func (c *Console) Table(ctx context.Context, header []string, rows [][]string) error {
	data := pterm.TableData{header}
	data = append(data, rows...)

	out, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return err
	}
	c.println(out)
	return nil
}

// Progress tracks a batch of records.
type Progress interface {
	Increment()
	Stop()
}

type noopProgress struct{}

func (noopProgress) Increment() {}
func (noopProgress) Stop()      {}

type ptermProgress struct {
	bar *pterm.ProgressbarPrinter
}

func (p *ptermProgress) Increment() { p.bar.Increment() }
func (p *ptermProgress) Stop()      { _, _ = p.bar.Stop() }

// 📈 Progress starts a progress bar of total steps. Non-interactive consoles
// get a bar that draws nothing.
func (c *Console) Progress(ctx context.Context, title string, total int) Progress {
	if !c.interactive || total <= 0 {
		return noopProgress{}
	}
	bar, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle(title).
		WithWriter(c.out).
		WithRemoveWhenDone(true).
		Start()
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("progress bar unavailable")
		return noopProgress{}
	}
	return &ptermProgress{bar: bar}
}

// Package printer provides styled console output, carried through context so
// commands never construct their own.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/colonyops/gatekeep/internal/core/styles"
)

// Printer writes user-facing output. The zero value is not usable; construct
// with New.
type Printer struct {
	out   io.Writer
	quiet bool
}

// New creates a Printer writing to out.
func New(out io.Writer) *Printer {
	return &Printer{out: out}
}

// WithQuiet returns a copy of p that drops everything except errors.
func (p *Printer) WithQuiet(quiet bool) *Printer {
	cp := *p
	cp.quiet = quiet
	return &cp
}

// Out returns the writer output goes to.
func (p *Printer) Out() io.Writer { return p.out }

// Printf writes one plain line. Completion lines use this so machine
// consumers see them unstyled.
func (p *Printer) Printf(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Infof writes an informational line.
func (p *Printer) Infof(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", styles.MutedStyle.Render("•"), fmt.Sprintf(format, args...))
}

// Successf writes a success line.
func (p *Printer) Successf(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", styles.SuccessStyle.Render("✔"), fmt.Sprintf(format, args...))
}

// Success writes a success title with a muted detail line under it.
func (p *Printer) Success(title, detail string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", styles.SuccessStyle.Render("✔"), title)
	if detail != "" {
		fmt.Fprintf(p.out, "  %s\n", styles.MutedStyle.Render(detail))
	}
}

// Warnf writes a warning line.
func (p *Printer) Warnf(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", styles.WarningStyle.Render("●"), fmt.Sprintf(format, args...))
}

// Errorf writes an error line. Not silenced by quiet.
func (p *Printer) Errorf(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", styles.ErrorStyle.Render("✘"), fmt.Sprintf(format, args...))
}

// Section writes a bold section header.
func (p *Printer) Section(name string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s\n", styles.TitleStyle.Render(name))
}

// CheckItem writes an indented passing item.
func (p *Printer) CheckItem(label, detail string) {
	p.item(styles.SuccessStyle.Render("✔"), label, detail)
}

// WarnItem writes an indented warning item.
func (p *Printer) WarnItem(label, detail string) {
	p.item(styles.WarningStyle.Render("●"), label, detail)
}

// FailItem writes an indented failing item.
func (p *Printer) FailItem(label, detail string) {
	p.item(styles.ErrorStyle.Render("✘"), label, detail)
}

func (p *Printer) item(icon, label, detail string) {
	if p.quiet {
		return
	}
	if detail == "" {
		fmt.Fprintf(p.out, "  %s %s\n", icon, label)
		return
	}
	fmt.Fprintf(p.out, "  %s %s %s\n", icon, label, styles.MutedStyle.Render(detail))
}

type ctxKey struct{}

// WithCtx returns a context carrying p.
func WithCtx(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the context's printer, or a default stdout printer when the
// context carries none.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout)
}

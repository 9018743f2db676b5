package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/gatekeep/internal/core/styles"
)

type DocCmd struct {
	flags *Flags
}

func NewDocCmd(flags *Flags) *DocCmd {
	return &DocCmd{flags: flags}
}

func (cmd *DocCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "doc",
		Usage: "Reference documentation",
		Description: `Access reference documentation for gatekeep.

Use 'gatekeep doc cookie' to see the access cookie contract.
Use 'gatekeep doc config' to see the configuration reference.`,
		Commands: []*cli.Command{
			cmd.cookieCmd(),
			cmd.configCmd(),
		},
	})
	return app
}

func (cmd *DocCmd) cookieCmd() *cli.Command {
	return &cli.Command{
		Name:  "cookie",
		Usage: "Show the access cookie contract",
		Description: `Outputs the contract between the injected scripts and whatever issues
access cookies: cookie name, value format, and expiry semantics.`,
		Action: cmd.runCookie,
	}
}

func (cmd *DocCmd) runCookie(_ context.Context, c *cli.Command) error {
	return renderMarkdown(c.Root().Writer, cookieGuide)
}

func (cmd *DocCmd) configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show the configuration reference",
		Description: `Outputs every config key with its default and the flags and environment
variables that override it.`,
		Action: cmd.runConfig,
	}
}

func (cmd *DocCmd) runConfig(_ context.Context, c *cli.Command) error {
	return renderMarkdown(c.Root().Writer, configGuide)
}

// renderMarkdown pretty-prints markdown when stdout is a terminal and falls
// back to the raw text otherwise, so piped output stays plain.
func renderMarkdown(w io.Writer, content string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(w, content)
		return nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		fmt.Fprintln(w, content)
		return nil
	}

	rendered, err := r.Render(content)
	if err != nil {
		fmt.Fprintln(w, content)
		return nil
	}

	fmt.Fprint(w, rendered)
	return nil
}

const cookieGuide = `# Access Cookie Contract

The injected gate script decides whether a visitor may stay on a page by
inspecting one cookie. Anything that issues access (a login handler, a
payment callback, a staging proxy) must follow this contract.

## Cookie

| Property | Value |
|----------|-------|
| Name | ` + "`access`" + ` |
| Value | ` + "`<token>`" + ` or ` + "`<token>\\|<ISO-8601 expiry>`" + ` |
| Redirect on failure | ` + "`/sorry.html`" + ` |

The token part is opaque to the gate; only presence and expiry matter.

## Expiry semantics

- **No pipe in the value:** access never expires. ` + "`access=1`" + ` grants
  access until the cookie itself disappears.
- **Pipe followed by a date:** access lasts until that instant. The text
  after the first ` + "`|`" + ` is parsed with ` + "`new Date(...)`" + `, so any
  ISO-8601 timestamp works: ` + "`access=1|2026-09-01T00:00:00Z`" + `.
- **Expired or unparseable date:** treated as no access.

## Issuing a cookie

` + "```js" + `
const expiry = new Date(Date.now() + 24 * 60 * 60 * 1000);
document.cookie = "access=1|" + expiry.toISOString() + "; path=/";
` + "```" + `

## When checks happen

1. **Page load.** The gate runs synchronously at the top of ` + "`<head>`" + `,
   before any content renders. Without a valid cookie the browser is sent to
   ` + "`/sorry.html`" + ` via ` + "`location.replace`" + `, leaving no history entry.
2. **While the page is open.** The scheduler re-runs the same check on a
   randomized timer, between 10 and 25 seconds after the previous check. A
   cookie that expires mid-visit ends the visit within that window.

The ` + "`/sorry.html`" + ` page itself must not be processed, or visitors
without cookies will loop. Exclude it in the config:

` + "```yaml" + `
exclude:
  - "sorry.html"
` + "```"

const configGuide = `# Configuration Reference

gatekeep reads ` + "`gatekeep.yaml`" + ` from the working directory, falling
back to the user config directory. Every key has a working default, so no
config file is required. Flags override file values; ` + "`gatekeep init`" + `
writes a commented starter file.

## Keys

| Key | Default | Flag | Purpose |
|-----|---------|------|---------|
| ` + "`root`" + ` | ` + "`.`" + ` | ` + "`--root, -r`" + ` | Directory scanned for files |
| ` + "`extension`" + ` | ` + "`.html`" + ` | ` + "`--ext`" + ` | Filename suffix to process, matched case-insensitively |
| ` + "`backup_suffix`" + ` | ` + "`.bak`" + ` | ` + "`--backup-suffix`" + ` | Appended to a file's path to form its backup path |
| ` + "`exclude`" + ` | ` + "`[]`" + ` | ` + "`--exclude`" + ` | Doublestar patterns, relative to root, naming files to skip |
| ` + "`workers`" + ` | ` + "`1`" + ` | ` + "`--workers`" + ` | Concurrent file workers; 1 preserves strict walk order |
| ` + "`skip_unchanged`" + ` | ` + "`false`" + ` | ` + "`--skip-unchanged`" + ` | Skip backup and rewrite when a file already carries both scripts |
| ` + "`theme`" + ` | ` + "`tokyo-night`" + ` | | Output color palette |

## Exclude patterns

Patterns use doublestar globs matched against the path relative to root:

` + "```yaml" + `
exclude:
  - "sorry.html"       # the redirect target itself
  - "drafts/**"        # everything under drafts/
  - "**/vendor/**.html" # vendored pages anywhere
` + "```" + `

## Environment

| Variable | Overrides |
|----------|-----------|
| ` + "`GATEKEEP_CONFIG`" + ` | Config file path (` + "`--config, -c`" + `) |
| ` + "`GATEKEEP_LOG_LEVEL`" + ` | Log level (` + "`--log-level`" + `) |
| ` + "`GATEKEEP_LOG_FILE`" + ` | Log destination (` + "`--log-file`" + `) |`

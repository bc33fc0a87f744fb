package mcpserver

// LinkSyntaxContract describes the wikilink syntax Ansuz produces and the
// rules that govern how plain words resolve to link targets. LLM consumers
// should read it before materializing links on a user's behalf.
const LinkSyntaxContract = `# Ansuz Link Syntax

Ansuz turns plain words in Markdown into [[wikilinks]] that point at other
documents in the vault. This contract explains what counts as a link target
and what the materialized link looks like.

## Link targets

A document contributes up to three kinds of names to the shared index:

1. **Basename** — the file name without the ` + "`" + `.md` + "`" + ` extension.
   ` + "`" + `topics/apple.md` + "`" + ` contributes ` + "`" + `apple` + "`" + `.
2. **Aliases** — the YAML frontmatter ` + "`" + `aliases` + "`" + ` field, either a single
   string or a list of strings.
3. **Headings** — section titles, only when heading linking is enabled in the
   configuration, and only for the enabled heading levels.

All matching is case-insensitive. A document with ` + "`" + `ignore_linking: true` + "`" + `
in its frontmatter contributes nothing.

## Resolution

A word resolves to the target whose name it equals (exact match), or failing
that, whose name is the longest substring of the word that meets the
configured minimum length and position rules (partial match). A document
never links to itself: its own names are excluded while editing it.

## Materialized forms

` + "```" + `markdown
[[apple]]              word equals the target name
[[apple|Apples]]       word differs from the target name
[[apple#History|word]] target is a heading inside apple.md
` + "```" + `

The replacement always substitutes the exact word range reported by the
scan, never surrounding text.
`

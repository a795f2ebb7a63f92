package mcpserver

// DocumentFormatContract describes the canonical document format that
// LLM consumers should follow when creating or updating documents.
const DocumentFormatContract = `# Raido Document Format Contract

Every document stored in Raido MUST follow this structure.

## Structure

` + "```" + `markdown
---
title: Human-readable title
author: Jane Doe
tags:
  - tag-one
  - tag-two
---
# A heading

Body text, one block per line.

- unordered item
- another item

1. ordered item
2. another item
` + "```" + `

## Rules

1. **The front matter is mandatory.** The file has exactly three segments
   separated by ` + "`" + `---` + "`" + ` lines: an empty prologue, the YAML front matter, and
   the body. The first ` + "`" + `---` + "`" + ` must be the very first line of the file.
2. **Fields are closed-world.** The route's schema decides which fields may
   appear. Any field not declared in the schema is rejected, as is any
   missing required field or a value of the wrong type. Call ` + "`" + `list_routes` + "`" + `
   to see each route's fields before writing.
3. **Field types.** ` + "`" + `string` + "`" + `, ` + "`" + `number` + "`" + `, ` + "`" + `boolean` + "`" + `, ` + "`" + `date` + "`" + ` (ISO-8601,
   e.g. ` + "`" + `2025-01-15` + "`" + `), and ` + "`" + `string[]` + "`" + ` (YAML list of strings).
4. **The body is line-oriented.** Each line is one block:
   - ` + "`" + `# text` + "`" + ` is a heading; the number of leading ` + "`" + `#` + "`" + ` characters is the level.
   - ` + "`" + `- text` + "`" + ` is an unordered list item; ` + "`" + `1. text` + "`" + ` is an ordered one.
   - A blank line separates blocks and ends any list.
   - Anything else is a paragraph, kept verbatim.
5. **Lists do not nest.** Consecutive items of the same marker type form one
   list; switching marker type starts a new list.
6. **Validation is fail-closed.** An invalid document is never written; the
   error lists every problem at once. Use ` + "`" + `validate_document` + "`" + ` to dry-run
   content before ` + "`" + `create_document` + "`" + `.
7. **File names** use forward slashes, English (Latin) characters, and get a
   ` + "`" + `.md` + "`" + ` extension automatically.
8. **Encoding** is UTF-8 with a trailing newline.

## Example

` + "```" + `markdown
---
title: Weekly update
author: Alice
tags:
  - project-x
---
# Weekly update

Shipped the importer this week.

## Next

1. Finish the build pipeline
2. Write the release notes
` + "```" + `
`

package queries

// TSImports contains tree-sitter query patterns for TypeScript/TSX import
// extraction.
//
// The patterns match all ES module import forms that can bring a component
// binding into scope: named (with and without alias), default, and
// namespace imports. Type-only imports are matched too; they are filtered
// out by the extractor because a type binding can never be a JSX tag.
//
// Captures:
//   - @import.source - module specifier string
//   - @import.named / @import.alias - named import specifiers
//   - @import.default - default import binding
//   - @import.namespace - namespace import binding
const TSImports = `
; Import source - captured from all import forms
(import_statement
  source: (string (string_fragment) @import.source)
)

; Named imports: import { Button, Card as C } from './ui';
(import_specifier
  name: (identifier) @import.named
)

(import_specifier
  alias: (identifier) @import.alias
)

; Default import: import Button from './Button';
(import_statement
  (import_clause
    (identifier) @import.default
  )
)

; Namespace import: import * as UI from './ui';
(import_statement
  (import_clause
    (namespace_import
      (identifier) @import.namespace
    )
  )
)

; Type-only import statement: import type { Props } from './types';
(import_statement
  "type" @import.type.marker
)

; Per-symbol type import: import { type Props } from './types';
(import_specifier
  "type" @import.type.specifier.marker
  name: (identifier) @import.type.specifier.name
)
`

// JSImports is the JavaScript variant of TSImports. The javascript grammar
// shares the ES module node shapes but has no type-only forms.
const JSImports = `
(import_statement
  source: (string (string_fragment) @import.source)
)

(import_specifier
  name: (identifier) @import.named
)

(import_specifier
  alias: (identifier) @import.alias
)

(import_statement
  (import_clause
    (identifier) @import.default
  )
)

(import_statement
  (import_clause
    (namespace_import
      (identifier) @import.namespace
    )
  )
)
`

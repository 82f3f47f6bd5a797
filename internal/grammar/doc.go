// Package grammar holds the persistent stacks a TextMate tokenizer threads
// through a document.
//
// AttributedScopeStack tracks the active scope names together with the token
// attributes resolved for them, folding theme candidates into a packed
// tokenattr.Attributes as scopes are pushed. StateStack tracks the grammar
// rules entered so far. Both are persistent: pushing never mutates an
// existing node, so the states of successive lines share their common frames.
//
// ScopeMetadataProvider connects a theme to the stacks by answering, per scope
// name, which language, token type and theme candidates apply.
package grammar

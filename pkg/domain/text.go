package domain

import "strings"

// TextKind tells a literal string apart from a translation key.
type TextKind string

const (
	TextLiteral TextKind = "literal"
	TextKey     TextKind = "key"
)

// Translation key prefixes used by the datasets.
const (
	QuestionKeyPrefix = "questions."
	ButtonKeyPrefix   = "buttons."
)

// TextRef is either a literal string or a reference into the translation dictionary.
type TextRef struct {
	Kind  TextKind `json:"kind"`
	Value string   `json:"value"`
}

// Literal wraps s as literal text.
func Literal(s string) TextRef {
	return TextRef{Kind: TextLiteral, Value: s}
}

// TranslationKey wraps key as a dictionary reference.
func TranslationKey(key string) TextRef {
	return TextRef{Kind: TextKey, Value: key}
}

// RefWithPrefix classifies s as a translation key when it starts with prefix.
func RefWithPrefix(s, prefix string) TextRef {
	if strings.HasPrefix(s, prefix) {
		return TranslationKey(s)
	}
	return Literal(s)
}

// IsKey reports whether the reference must go through a translator.
func (r TextRef) IsKey() bool {
	return r.Kind == TextKey
}

// Translator resolves translation keys. Implementations return the key itself
// when no translation exists.
type Translator interface {
	T(key string) string
}

// TranslatorFunc adapts a plain function to Translator.
type TranslatorFunc func(key string) string

// T implements Translator.
func (f TranslatorFunc) T(key string) string { return f(key) }

// Resolve returns the display string. A nil translator leaves keys untouched.
func (r TextRef) Resolve(t Translator) string {
	if r.Kind == TextKey && t != nil {
		return t.T(r.Value)
	}
	return r.Value
}

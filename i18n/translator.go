// Package i18n translates validation message templates.
//
// Messages are keyed by their English template (for example
// "{label} may not be blank.") and translated before placeholders are
// substituted, so translations keep the same placeholders.
package i18n

import "sync"

// Translator retrieves the localized template for msgid. Unknown ids are
// returned unchanged.
type Translator interface {
	Message(msgid string) string
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(msgid string) string

func (f TranslatorFunc) Message(msgid string) string { return f(msgid) }

// Catalog is a dictionary-based Translator.
type Catalog map[string]string

func (c Catalog) Message(msgid string) string {
	if m, ok := c[msgid]; ok {
		return m
	}
	return msgid
}

var catalogs = map[string]Catalog{
	"en": {},
	"ja": {
		"{label} may not be blank.":                                            "{label}は必須です。",
		"{label} must be True.":                                                "{label}を選択してください。",
		"{label} must be False.":                                               "{label}は選択できません。",
		"{value} is not a valid value for {label}.":                            "{value}は{label}に指定できない値です。",
		"{label} is not correct.":                                              "{label}が正しくありません。",
		"{label} may not exceed {maxlength} characters.":                       "{label}は{maxlength}文字以内で入力してください。",
		"{label} must be at least {minlength} characters.":                     "{label}は{minlength}文字以上で入力してください。",
		"{label} must be between {minlength} and {maxlength} characters long.": "{label}は{minlength}文字以上{maxlength}文字以内で入力してください。",
		"{label} must be less than {boundary}.":                                "{label}は{boundary}未満でなければなりません。",
		"{label} must be less than or equal to {maximum}.":                     "{label}は{maximum}以下でなければなりません。",
		"{label} must be greater than {boundary}.":                             "{label}は{boundary}より大きくなければなりません。",
		"{label} must be greater than or equal to {minimum}.":                  "{label}は{minimum}以上でなければなりません。",
		"{label} must be greater than {minimum} and less than {maximum}.":      "{label}は{minimum}より大きく{maximum}未満でなければなりません。",
		"{label} must be in the range {minimum} to {maximum}.":                 "{label}は{minimum}から{maximum}の範囲でなければなりません。",
		"{labels} and {last_label} do not match.":                              "{labels}と{last_label}が一致しません。",
		"{label} may not be repeated within {container_label}.":                "{label}は{container_label}の中で重複できません。",
		"The {label} was not entered correctly.":                               "{label}が正しく入力されていません。",
		"{label} is invalid.":                                                  "{label}が不正です。",
	},
}

var (
	mu      sync.RWMutex
	current Translator = catalogs["en"]
)

// Lookup returns the built-in catalog for lang ("en" or "ja").
func Lookup(lang string) (Catalog, bool) {
	c, ok := catalogs[lang]
	return c, ok
}

// SetLanguage switches the default Translator to a built-in catalog.
// Unknown languages fall back to "en".
func SetLanguage(lang string) {
	c, ok := catalogs[lang]
	if !ok {
		c = catalogs["en"]
	}
	SetTranslator(c)
}

// SetTranslator replaces the default Translator. nil restores "en".
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = catalogs["en"]
	}
	mu.Lock()
	current = tr
	mu.Unlock()
}

// T translates msgid with the default Translator.
func T(msgid string) string {
	mu.RLock()
	tr := current
	mu.RUnlock()
	return tr.Message(msgid)
}

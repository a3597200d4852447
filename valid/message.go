// Package valid provides reusable validators for formtree elements.
//
// Every validator carries its default message, which can be replaced by
// setting the message field. Messages may use {label}, {value} and {text}
// plus the validator-specific placeholders documented on each type.
//
// Messages are translated before substitution: by the validation state when
// it implements i18n.Translator, otherwise by i18n.T.
package valid

import (
	"fmt"
	"strings"

	"github.com/reoring/formtree"
	"github.com/reoring/formtree/i18n"
)

// Format translates msg and substitutes placeholders for el and params.
func Format(el *formtree.Element, state any, msg string, params map[string]any) string {
	if tr, ok := state.(i18n.Translator); ok {
		msg = tr.Message(msg)
	} else {
		msg = i18n.T(msg)
	}
	args := []string{
		"{label}", el.Label(),
		"{value}", display(el.Value()),
		"{text}", el.Text(),
	}
	for k, v := range params {
		args = append(args, "{"+k+"}", display(v))
	}
	return strings.NewReplacer(args...).Replace(msg)
}

// NoteError formats msg onto el's errors and returns Fail.
func NoteError(el *formtree.Element, state any, msg string, params map[string]any) formtree.Result {
	el.AddError(Format(el, state, msg, params))
	return formtree.Fail
}

// NoteWarning formats msg onto el's warnings and returns Pass.
func NoteWarning(el *formtree.Element, state any, msg string, params map[string]any) formtree.Result {
	el.AddWarning(Format(el, state, msg, params))
	return formtree.Pass
}

func display(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func or(msg, def string) string {
	if msg != "" {
		return msg
	}
	return def
}

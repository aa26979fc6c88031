// Package greeting maps a participant name and language onto greeting
// text and a synthesis voice. Pure lookups, no state.
package greeting

import (
	"fmt"
	"strings"
)

// DefaultLanguage is used when a language code is not in the tables.
const DefaultLanguage = "pt-BR"

// phrases holds the canned greeting per supported language. The "%s"
// slot receives the participant's display name.
var phrases = map[string]string{
	"pt-BR": "Bom dia, %s",
	"en-US": "Good morning, %s",
	"es-ES": "Buenos días, %s",
	"fr-FR": "Bonjour, %s",
}

// voices maps each supported language to an OpenAI TTS voice.
var voices = map[string]string{
	"pt-BR": "alloy",
	"en-US": "echo",
	"es-ES": "fable",
	"fr-FR": "onyx",
}

// Text produces the greeting for a participant. A non-empty custom
// template wins; its "{name}" placeholders are replaced with the
// participant name. Otherwise the canned phrase for the language is
// used, falling back to the default language when unrecognized.
func Text(name, language, customTemplate string) string {
	if customTemplate != "" {
		return strings.ReplaceAll(customTemplate, "{name}", name)
	}
	phrase, ok := phrases[language]
	if !ok {
		phrase = phrases[DefaultLanguage]
	}
	return fmt.Sprintf(phrase, name)
}

// Voice returns the synthesis voice for a language, falling back to the
// default language's voice when unrecognized.
func Voice(language string) string {
	if v, ok := voices[language]; ok {
		return v
	}
	return voices[DefaultLanguage]
}

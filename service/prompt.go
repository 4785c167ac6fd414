package service

import "strings"

const promptInstructions = `Reescreva o texto jurídico abaixo em linguagem simples, para um cidadão sem formação em Direito.

Regras:
- Preserve todas as decisões, prazos, valores e consequências práticas.
- Explique termos técnicos e siglas de tribunais na primeira vez em que aparecerem.
- Use frases curtas e voz ativa.
- Não acrescente fatos nem opiniões.
- Responda apenas com o texto reescrito.`

// BuildPrompt assembles the model prompt; examples is the rendered block of
// similar past translations and may be empty.
func BuildPrompt(text, examples string) string {
	var b strings.Builder
	b.WriteString(promptInstructions)
	b.WriteString("\n\n")

	if examples != "" {
		b.WriteString(examples)
		b.WriteString("\n\n")
	}

	b.WriteString("TEXTO JURÍDICO:\n")
	b.WriteString(text)
	return b.String()
}

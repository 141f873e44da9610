package validator

import "fmt"

// maxDocumentChars bounds how much extracted text is embedded in the user
// prompt. Documents run long; the model only needs the opening span, and the
// cap keeps token cost and context size predictable.
const maxDocumentChars = 4000

const systemPrompt = `You are a document compliance reviewer. You check whether a document satisfies a given rule.

Respond with ONLY a JSON object, no other text, in exactly this shape:
{"status": "pass", "evidence": "a short quote from the document", "reasoning": "a brief explanation", "confidence": 87}

"status" must be "pass" or "fail". "confidence" is an integer from 0 to 100.`

const userPromptTemplate = `Rule: %s

Document text:
%s

Does the document satisfy the rule? Reply with the JSON object only.`

// BuildPrompts produces the system/user prompt pair for one rule. Pure
// function: the rule is embedded verbatim (any string is accepted, including
// empty) and the document text is truncated to maxDocumentChars.
func BuildPrompts(rule, text string) (system, user string) {
	return systemPrompt, fmt.Sprintf(userPromptTemplate, rule, truncate(text, maxDocumentChars))
}

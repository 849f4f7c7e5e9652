package extract

import "fmt"

// promptTextLimit truncates chunk text inside the prompt to keep token
// spend bounded.
const promptTextLimit = 1200

// buildExtractionPrompt asks for exactly one claim as a fenced JSON object.
// The fence pair is the delimiter the repair chain looks for first.
func buildExtractionPrompt(chunkText string) string {
	if len(chunkText) > promptTextLimit {
		chunkText = chunkText[:promptTextLimit]
	}

	return fmt.Sprintf(`Extract ONE key research claim from the following text.

Text (truncated):
%s

Respond with a single JSON object wrapped in a `+"```json"+` fence, shaped exactly like:
`+"```json"+`
{
  "text": "the claim as one clear sentence",
  "confidence": 0.0,
  "methods": ["method1", "method2"],
  "metrics": ["accuracy", "f1"]
}
`+"```"+`

No explanation outside the fence.`, chunkText)
}

package translator

import (
	"context"
)

// Translator translates an ordered batch of texts with the credential of the
// current job. Implementations return one string per input, in input order.
type Translator interface {
	Translate(
		ctx context.Context,
		texts []string,
		apiKey string,
		sourceLang string,
		targetLang string,
	) ([]string, error)
}

// AutoDetect asks the remote service to detect the source language.
const AutoDetect = "auto"

package llm

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/tyler-sommer/stick"
)

//go:embed prompts/*.twig
var promptFS embed.FS

const analyzeTemplate = "prompts/analyze.twig"

// SystemPrompt is sent ahead of the rendered user prompt by chat providers.
const SystemPrompt = "You extract structured data from utility bills. Respond with JSON only. No markdown."

var (
	promptOnce sync.Once
	promptSrc  string
	promptErr  error
	promptEnv  = stick.New(nil)
)

// RenderPrompt renders the analysis prompt for input.
func RenderPrompt(input Input) (string, error) {
	promptOnce.Do(func() {
		raw, err := promptFS.ReadFile(analyzeTemplate)
		if err != nil {
			promptErr = fmt.Errorf("read %s: %w", analyzeTemplate, err)
			return
		}
		promptSrc = string(raw)
	})
	if promptErr != nil {
		return "", promptErr
	}

	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		fileName = "document"
	}
	vars := map[string]stick.Value{
		"fileName": fileName,
		"image":    input.IsImage(),
		"text":     input.Text,
	}
	var out strings.Builder
	if err := promptEnv.Execute(promptSrc, &out, vars); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return strings.TrimSpace(out.String()), nil
}

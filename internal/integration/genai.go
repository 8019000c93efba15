// Package integration adapts refinement results to image generation request
// types. It builds fully-populated request configs but never opens a client
// or touches the network; callers own transport and credentials.
package integration

import (
	"fmt"

	"google.golang.org/genai"

	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/refiner"
)

// Options tune the generated image request. The zero value is usable.
type Options struct {
	// NumberOfImages defaults to 1.
	NumberOfImages int32
	// AspectRatio defaults to "1:1".
	AspectRatio string
	// Focus and ViewType select the refinement shaping for BatchTerms.
	// Empty values pick the defaults (education, standard).
	Focus    string
	ViewType string
}

func (o Options) withDefaults() Options {
	if o.NumberOfImages <= 0 {
		o.NumberOfImages = 1
	}
	if o.AspectRatio == "" {
		o.AspectRatio = "1:1"
	}
	return o
}

// ImageRequest converts a refinement result into a positive prompt string and
// a generation config carrying the negative prompt. Refused results produce
// an error instead of a request; a refusal must never reach a generation
// backend.
func ImageRequest(result refiner.PromptResult, opts Options) (string, *genai.GenerateImagesConfig, error) {
	if result.Refused() {
		return "", nil, fmt.Errorf("refusing to build image request for blocked term %q", result.MatchedTerm)
	}
	if result.Positive == "" {
		return "", nil, fmt.Errorf("empty positive prompt")
	}
	opts = opts.withDefaults()

	cfg := &genai.GenerateImagesConfig{
		NegativePrompt:   result.Negative,
		NumberOfImages:   opts.NumberOfImages,
		AspectRatio:      opts.AspectRatio,
		PersonGeneration: genai.PersonGenerationDontAllow,
	}
	return result.Positive, cfg, nil
}

// BatchRequest pairs one positive prompt with its generation config.
type BatchRequest struct {
	Prompt string
	Config *genai.GenerateImagesConfig
}

// Batch builds image requests for several results at once. Refused results
// are skipped and reported by matched term; the returned slice preserves the
// order of the accepted inputs.
func Batch(results []refiner.PromptResult, opts Options) ([]BatchRequest, []string, error) {
	var (
		requests []BatchRequest
		skipped  []string
	)
	for _, res := range results {
		prompt, cfg, err := ImageRequest(res, opts)
		if err != nil {
			if res.Refused() {
				skipped = append(skipped, res.MatchedTerm)
				continue
			}
			return nil, nil, err
		}
		requests = append(requests, BatchRequest{Prompt: prompt, Config: cfg})
	}
	return requests, skipped, nil
}

// BatchTerms refines each term through the engine and builds one image
// request per usable result. Refused terms are skipped and reported.
func BatchTerms(engine *refiner.Engine, terms []string, opts Options) ([]BatchRequest, []string, error) {
	focus, err := refiner.ParseFocus(opts.Focus)
	if err != nil {
		return nil, nil, err
	}
	view, err := refiner.ParseViewType(opts.ViewType)
	if err != nil {
		return nil, nil, err
	}

	results := make([]refiner.PromptResult, 0, len(terms))
	for _, term := range terms {
		result, err := engine.Refine(refiner.PromptRequest{RawInput: term, Focus: focus, ViewType: view})
		if err != nil {
			return nil, nil, err
		}
		results = append(results, result)
	}
	return Batch(results, opts)
}

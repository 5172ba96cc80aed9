package vision

import (
	"context"
	"io"
)

// ClassificationPrompt is the shared prompt used by all vision adapters.
const ClassificationPrompt = `This is a "before" photo taken at the start of a home renovation.
Which room or area of the home does it show? Answer with a short room name only,
for example: Kitchen, Primary Bedroom, Guest Bath, Basement, Front Porch.
Respond with a single line, format: Area: <room name>`

// AreaClassifier suggests which room or area a photo shows.
type AreaClassifier interface {
	Classify(ctx context.Context, r io.Reader, mimeType string) (*Classification, error)
}

type Classification struct {
	// Area is the suggested free-text label; empty when the model gave no
	// usable answer.
	Area        string
	RawResponse string
}

package signature

// Capture is a recorded drawing session replayed onto a fresh canvas.
type Capture struct {
	Width            int      `json:"width"`
	Height           int      `json:"height"`
	Strokes          []Stroke `json:"strokes"`
	Initials         string   `json:"initials"`
	InitialSignature string   `json:"initialSignature"`
	Cleared          bool     `json:"cleared"`
}

type Result struct {
	Signature string `json:"signature"`
	Initials  string `json:"initials"`
}

// Render replays a capture and returns the last value the field emitted.
// Without strokes or a clear, the initial signature is passed through.
func Render(capture Capture) Result {
	result := Result{Signature: capture.InitialSignature}
	field := NewField(NewCanvas(capture.Width, capture.Height), capture.InitialSignature, capture.Initials, func(sig, initials string) {
		result = Result{Signature: sig, Initials: initials}
	})
	result.Initials = field.Initials()
	if capture.Cleared {
		field.Clear()
	}
	for _, stroke := range capture.Strokes {
		field.EndStroke(stroke)
	}
	return result
}

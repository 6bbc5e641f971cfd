package watsonx

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
)

// visionMaxTokens caps the transcription length for one page or image.
const visionMaxTokens = 1000

// Describe returns a textual description of an image. The image travels
// inline as a base64 data URI, the format the multimodal chat endpoint
// expects.
func (c *Client) Describe(ctx context.Context, image []byte, prompt string) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("watsonx: empty image")
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s",
		http.DetectContentType(image), base64.StdEncoding.EncodeToString(image))

	message := chatMessage{
		Role: "user",
		Content: []contentPart{
			{Type: "text", Text: prompt},
			{Type: "image_url", ImageURL: &imageURLPart{URL: dataURI}},
		},
	}

	return c.textChat(ctx, chatRequest{
		ModelID:   c.model,
		ProjectID: c.projectID,
		Messages:  []chatMessage{message},
		MaxTokens: visionMaxTokens,
	})
}

package ollama

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// NoneSentinel is the "none of these" answer the model is instructed
// to give when no tag fits.
const NoneSentinel = "NONE"

const classifierInstruction = "You are a classifier. Given a user query in Karakalpak/Kazakh/Russian, " +
	"choose ONE best tag from the provided list. " +
	"Answer with ONLY the tag string. If nothing fits, answer NONE."

// Classifier implements single-label classification over a closed tag
// set via the Ollama generate API. It returns ("", nil) for the
// sentinel and for any token outside the tag set; it never guesses a
// closest tag.
type Classifier struct {
	client *Client
	log    *zap.Logger
}

func NewClassifier(client *Client, log *zap.Logger) *Classifier {
	return &Classifier{client: client, log: log}
}

func (c *Classifier) Classify(ctx context.Context, queryText string, tags []string) (string, error) {
	if len(tags) == 0 {
		return "", nil
	}

	out, err := c.client.Generate(ctx, classifyPrompt(queryText, tags))
	if err != nil {
		return "", err
	}

	token := firstLine(out)
	if token == "" || token == NoneSentinel {
		return "", nil
	}
	for _, t := range tags {
		if t == token {
			return token, nil
		}
	}

	c.log.Warn("Classifier produced a token outside the tag set",
		zap.String("token", token),
	)
	return "", nil
}

func classifyPrompt(query string, tags []string) string {
	var tagList strings.Builder
	for _, t := range tags {
		fmt.Fprintf(&tagList, "- %s\n", t)
	}
	return fmt.Sprintf("[SYSTEM]\n%s\nAvailable tags:\n%s\n[USER]\n%s\n[ASSISTANT]\n",
		classifierInstruction, tagList.String(), query)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}

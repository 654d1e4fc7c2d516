// Package backend talks to the remote inference server.
package backend

import (
	"fmt"
	"strings"
)

// Operation names one server-side tool.
type Operation string

const (
	OpInpaint  Operation = "inpaint"
	OpErase    Operation = "erase"
	OpGenerate Operation = "generate"
)

// Operations lists every supported tool in menu order.
var Operations = []Operation{OpInpaint, OpErase, OpGenerate}

// ParseOperation accepts an operation name, case-insensitively.
func ParseOperation(s string) (Operation, error) {
	op := Operation(strings.ToLower(strings.TrimSpace(s)))
	switch op {
	case OpInpaint, OpErase, OpGenerate:
		return op, nil
	case "remove", "object-removal":
		return OpErase, nil
	}
	return "", fmt.Errorf("unknown tool %q", s)
}

// Endpoint is the request path on the server.
func (o Operation) Endpoint() string { return "/" + string(o) }

// Resolution is the square surface size the server expects for this tool.
func (o Operation) Resolution() int {
	if o == OpErase {
		return 512
	}
	return 1024
}

// NeedsImage reports whether the request carries an image and a mask.
func (o Operation) NeedsImage() bool { return o != OpGenerate }

// PromptRequired reports whether an empty prompt is rejected. The erase tool
// treats its prompt as an optional background description.
func (o Operation) PromptRequired() bool { return o != OpErase }

// PromptField is the multipart field the prompt is sent as.
func (o Operation) PromptField() string {
	if o == OpErase {
		return "background_prompt"
	}
	return "prompt"
}

func (o Operation) String() string { return string(o) }

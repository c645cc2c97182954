package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
)

// Command is one inbound instruction: an action name plus its parameters.
type Command struct {
	Action string          `json:"action"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is the outbound reply to a command.
type Response struct {
	OK     bool   `json:"ok"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// IOHandler defines the strategy for exchanging commands with the host.
// This allows switching the transport without touching the loop.
type IOHandler interface {
	// ReadCommand blocks until the next command arrives. io.EOF ends the loop.
	ReadCommand(ctx context.Context) (Command, error)

	// WriteResponse sends the reply for the last command.
	WriteResponse(ctx context.Context, resp Response) error
}

// JSONHandler implements the IOHandler interface for JSON-Lines communication.
type JSONHandler struct {
	scanner *bufio.Scanner
	encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		scanner: bufio.NewScanner(r),
		encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) ReadCommand(ctx context.Context) (Command, error) {
	if !h.scanner.Scan() {
		if err := h.scanner.Err(); err != nil {
			return Command{}, err
		}
		return Command{}, io.EOF
	}

	var cmd Command
	if err := json.Unmarshal(h.scanner.Bytes(), &cmd); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

func (h *JSONHandler) WriteResponse(ctx context.Context, resp Response) error {
	return h.encoder.Encode(resp)
}

package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/avelar0/kinmap"
	"github.com/avelar0/kinmap/internal/logging"
	"github.com/avelar0/kinmap/pkg/domain"
	"github.com/avelar0/kinmap/pkg/ports"
)

// Runner drives an Editor from a command stream.
type Runner struct {
	editor  *kinmap.Editor
	handler IOHandler
	logger  *slog.Logger

	store ports.DocumentStore
	docID string
}

// Option configures the Runner.
type Option func(*Runner)

// WithHandler sets the command transport. Defaults to JSON lines on
// stdin/stdout.
func WithHandler(h IOHandler) Option {
	return func(r *Runner) {
		r.handler = h
	}
}

// WithLogger configures a logger for the Runner.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithStore enables the save command and a final save when the stream ends.
func WithStore(store ports.DocumentStore, docID string) Option {
	return func(r *Runner) {
		r.store = store
		r.docID = docID
	}
}

// New creates a Runner around the editor.
func New(editor *kinmap.Editor, opts ...Option) *Runner {
	r := &Runner{
		editor: editor,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.handler == nil {
		r.handler = NewJSONHandler(nil, nil)
	}
	return r
}

// Run processes commands until the stream ends, a quit command arrives, or
// ctx is cancelled. Unsaved edits are flushed to the store when one is
// configured.
func (r *Runner) Run(ctx context.Context) error {
	defer r.flush(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		cmd, err := r.handler.ReadCommand(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read command: %w", err)
		}

		if cmd.Action == "quit" {
			return r.handler.WriteResponse(ctx, Response{OK: true})
		}

		resp := r.dispatch(ctx, cmd)
		if err := r.handler.WriteResponse(ctx, resp); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}
}

func (r *Runner) flush(ctx context.Context) {
	if r.store == nil || !r.editor.Dirty() {
		return
	}
	if err := r.store.Save(ctx, r.docID, r.editor.Document()); err != nil {
		r.logger.Warn("final save failed", "doc", r.docID, "err", err)
		return
	}
	r.editor.MarkSaved()
}

func (r *Runner) dispatch(ctx context.Context, cmd Command) Response {
	r.logger.Debug("command", "action", cmd.Action)

	result, err := r.apply(ctx, cmd)
	if err != nil {
		return Response{Error: err.Error()}
	}
	return Response{OK: true, Result: result}
}

func (r *Runner) apply(ctx context.Context, cmd Command) (any, error) {
	switch cmd.Action {
	case "add_person":
		var p domain.Person
		if err := unmarshalParams(cmd, &p); err != nil {
			return nil, err
		}
		return r.editor.AddPerson(ctx, p)

	case "update_person":
		var params struct {
			ID    string             `json:"id"`
			Patch domain.PersonPatch `json:"patch"`
		}
		if err := unmarshalParams(cmd, &params); err != nil {
			return nil, err
		}
		return nil, r.editor.UpdatePerson(ctx, params.ID, params.Patch)

	case "delete_person":
		id, err := idParam(cmd)
		if err != nil {
			return nil, err
		}
		return nil, r.editor.DeletePerson(ctx, id)

	case "add_relationship":
		var rel domain.Relationship
		if err := unmarshalParams(cmd, &rel); err != nil {
			return nil, err
		}
		return r.editor.AddRelationship(ctx, rel)

	case "update_relationship":
		var params struct {
			ID    string                   `json:"id"`
			Patch domain.RelationshipPatch `json:"patch"`
		}
		if err := unmarshalParams(cmd, &params); err != nil {
			return nil, err
		}
		return nil, r.editor.UpdateRelationship(ctx, params.ID, params.Patch)

	case "delete_relationship":
		id, err := idParam(cmd)
		if err != nil {
			return nil, err
		}
		return nil, r.editor.DeleteRelationship(ctx, id)

	case "add_annotation":
		var a domain.Annotation
		if err := unmarshalParams(cmd, &a); err != nil {
			return nil, err
		}
		return r.editor.AddAnnotation(ctx, a)

	case "update_annotation":
		var params struct {
			ID    string                 `json:"id"`
			Patch domain.AnnotationPatch `json:"patch"`
		}
		if err := unmarshalParams(cmd, &params); err != nil {
			return nil, err
		}
		return nil, r.editor.UpdateAnnotation(ctx, params.ID, params.Patch)

	case "delete_annotation":
		id, err := idParam(cmd)
		if err != nil {
			return nil, err
		}
		return nil, r.editor.DeleteAnnotation(ctx, id)

	case "connect":
		var params struct {
			OriginID string `json:"originId"`
			Kind     string `json:"kind"`
			TargetID string `json:"targetId"`
		}
		if err := unmarshalParams(cmd, &params); err != nil {
			return nil, err
		}
		r.editor.StartConnection(params.OriginID, domain.ConnectionKind(params.Kind))
		decision, ok := r.editor.CommitConnection(ctx, params.TargetID)
		if !ok && decision == nil {
			r.editor.CancelConnection()
			return nil, errors.New("connection rejected")
		}
		return map[string]any{"applied": ok, "decision": decision}, nil

	case "attach_child":
		var params struct {
			RelationshipID string        `json:"relationshipId"`
			Option         string        `json:"option"`
			CoParentID     string        `json:"coParentId"`
			CoParent       domain.Person `json:"coParent"`
		}
		if err := unmarshalParams(cmd, &params); err != nil {
			return nil, err
		}
		switch domain.CoParentOption(params.Option) {
		case domain.OptionUnknownCoParent:
			return nil, r.editor.AttachChildWithUnknownCoParent(ctx)
		case domain.OptionNewPartner:
			return r.editor.AttachChildWithNewPartner(ctx, params.CoParent)
		case domain.OptionExistingPerson:
			return nil, r.editor.AttachChildWithExistingCoParent(ctx, params.CoParentID)
		case domain.OptionSingleParent:
			return r.editor.AttachChildSingleParent(ctx)
		}
		return r.editor.AttachChildToRelationship(ctx, params.RelationshipID)

	case "update_household":
		var params struct {
			ID    string                `json:"id"`
			Patch domain.HouseholdPatch `json:"patch"`
		}
		if err := unmarshalParams(cmd, &params); err != nil {
			return nil, err
		}
		return nil, r.editor.UpdateHousehold(ctx, params.ID, params.Patch)

	case "delete_household":
		id, err := idParam(cmd)
		if err != nil {
			return nil, err
		}
		return nil, r.editor.DeleteHousehold(ctx, id)

	case "start_household":
		r.editor.StartDrawingHousehold()
		return nil, nil

	case "add_boundary_point":
		var pt domain.Point
		if err := unmarshalParams(cmd, &pt); err != nil {
			return nil, err
		}
		return r.editor.AddBoundaryPoint(ctx, pt)

	case "close_household":
		return r.editor.CloseHousehold(ctx)

	case "cancel_household":
		r.editor.CancelDrawingHousehold()
		return nil, nil

	case "undo":
		return r.editor.Undo(ctx), nil

	case "redo":
		return r.editor.Redo(ctx), nil

	case "get_document":
		return r.editor.Document(), nil

	case "load_document":
		return nil, r.editor.LoadData(ctx, cmd.Params)

	case "save":
		if r.store == nil {
			return nil, errors.New("no store configured")
		}
		if err := r.store.Save(ctx, r.docID, r.editor.Document()); err != nil {
			return nil, err
		}
		r.editor.MarkSaved()
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown action: %s", cmd.Action)
	}
}

func unmarshalParams(cmd Command, out any) error {
	if len(cmd.Params) == 0 {
		return fmt.Errorf("%s: missing params", cmd.Action)
	}
	if err := json.Unmarshal(cmd.Params, out); err != nil {
		return fmt.Errorf("%s: bad params: %w", cmd.Action, err)
	}
	return nil
}

func idParam(cmd Command) (string, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := unmarshalParams(cmd, &params); err != nil {
		return "", err
	}
	return params.ID, nil
}

// Package main provides the headless authoring client for the assignflow API.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/edukit/assignflow/pkg/log"
	"github.com/edukit/assignflow/pkg/models"
	"github.com/edukit/assignflow/pkg/remote"
	"github.com/edukit/assignflow/pkg/workflow"
	cli "github.com/urfave/cli/v3"
)

var errNoPayload = errors.New("a payload JSON file is required")

// logObserver reports workflow outcomes on the structured logger.
type logObserver struct {
	logger *slog.Logger
}

func (o *logObserver) OnSaveDraftSuccess(result *remote.MutationResult) {
	o.logger.Info("Draft saved", "assignment_id", result.AssignmentID, "status", string(result.Status))
}

func (o *logObserver) OnPublishSuccess(result *remote.MutationResult) {
	o.logger.Info("Assignment published", "assignment_id", result.AssignmentID)
}

func (o *logObserver) OnError(err *remote.Error) {
	o.logger.Error(err.Message, "kind", string(err.Kind))

	for _, v := range err.Errors {
		if v.QuestionID != "" {
			o.logger.Error("Question error", "question_id", v.QuestionID, "message", v.Message)

			continue
		}

		o.logger.Error("Field error", "field", v.Field, "message", v.Message)
	}
}

func newOrchestrator(command *cli.Command, logger *slog.Logger) *workflow.Orchestrator {
	client := remote.NewHTTPClient(command.String("api-url"), defaultTimeout)

	opts := []workflow.Option{workflow.WithLogger(logger)}
	if id := command.String("id"); id != "" {
		opts = append(opts, workflow.WithAssignmentID(id))
	}

	orch := workflow.NewOrchestrator(client, opts...)
	orch.Subscribe(&logObserver{logger: logger})

	return orch
}

func loadPayload(command *cli.Command) (models.AssignmentPayload, error) {
	var payload models.AssignmentPayload

	path := command.Args().First()
	if path == "" {
		return payload, errNoPayload
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return payload, fmt.Errorf("failed to read payload file: %w", err)
	}

	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, fmt.Errorf("failed to parse payload file: %w", err)
	}

	return payload, nil
}

func runSave(ctx context.Context, command *cli.Command) error {
	logger := log.WithModule("author")

	payload, err := loadPayload(command)
	if err != nil {
		return err
	}

	orch := newOrchestrator(command, logger)

	if result := orch.SaveDraft(ctx, payload); result == nil {
		return errors.New("save draft failed")
	}

	return nil
}

func runPublish(ctx context.Context, command *cli.Command) error {
	logger := log.WithModule("author")

	payload, err := loadPayload(command)
	if err != nil {
		return err
	}

	orch := newOrchestrator(command, logger)

	// An unsaved assignment cannot be offered for publishing, so persist
	// the draft first.
	if !orch.State().Entity.IsSaved() {
		if result := orch.SaveDraft(ctx, payload); result == nil {
			return errors.New("could not save draft before publishing")
		}
	}

	gate := workflow.NewConfirmationGate(orch, 0)
	if !gate.Request(true) {
		return errors.New("assignment is not in a publishable state")
	}

	if !command.Bool("yes") && !confirmPrompt(payload.Title) {
		gate.Dismiss()
		logger.Info("Publish cancelled")

		return nil
	}

	if result := gate.Confirm(ctx, payload); result == nil {
		return errors.New("publish failed")
	}

	return nil
}

func confirmPrompt(title string) bool {
	fmt.Fprintf(os.Stderr, "Publish %q? This cannot be undone. [y/N]: ", title)

	reader := bufio.NewReader(os.Stdin)

	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "y" || answer == "yes"
}

// internal/workers/booking/respond-application/handler.go
package respondapplication

import (
	"context"
	"encoding/json"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/logger"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/settlement"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "respond-application"

type Engine interface {
	Respond(ctx context.Context, callerID, bookingID, applicationID string, accept bool, payment *settlement.PaymentUpdate) error
}

type Handler struct {
	config       *Config
	engine       Engine
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, engine Engine, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		engine:       engine,
		logger:       l,
		errorHandler: errors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job,
			errors.NewValidationError("invalid job variables: "+err.Error()))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return nil
	}

	h.completeJob(ctx, client, job, output)
	return nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.BookingID == "" || input.ApplicationID == "" || input.ClientID == "" {
		return nil, errors.NewValidationError("clientId, bookingId and applicationId are required")
	}

	var payment *settlement.PaymentUpdate
	if input.Payment != nil {
		payment = &settlement.PaymentUpdate{
			State:           models.PaymentState(input.Payment.State),
			AmountPaid:      models.Money(input.Payment.AmountPaid),
			AmountRemaining: models.Money(input.Payment.AmountRemaining),
		}
	}

	if err := h.engine.Respond(ctx, input.ClientID, input.BookingID, input.ApplicationID, input.Accept, payment); err != nil {
		return nil, err
	}

	status := string(models.ApplicationDeclined)
	if input.Accept {
		status = string(models.ApplicationAccepted)
	}
	return &Output{Accepted: input.Accept, Status: status}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

package analysis

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "workflow-analyzer/internal/common/errors"
	commonhttp "workflow-analyzer/internal/common/http"
	"workflow-analyzer/internal/common/logger"
	"workflow-analyzer/internal/common/metrics"
	"workflow-analyzer/internal/common/observability"
)

// Handler runs analysis actions against the workflow endpoint. It keeps no
// state between actions and is safe for concurrent use.
type Handler struct {
	config *Config
	client *commonhttp.Client
	logger logger.Logger
	obs    *observability.Observability
	newID  func() string
}

func NewHandler(config *Config, client *commonhttp.Client, log logger.Logger, obs *observability.Observability) *Handler {
	if client == nil {
		client = commonhttp.NewClient(config.Timeout)
	}
	if obs == nil {
		obs = observability.NewNoop()
	}
	return &Handler{
		config: config,
		client: client,
		logger: log.With(map[string]interface{}{
			"component": "analysis",
		}),
		obs:   obs,
		newID: uuid.NewString,
	}
}

// Execute runs one action: gate, one POST, normalize, render. It always
// returns an Outcome in a terminal state; failures are described in it.
func (h *Handler) Execute(ctx context.Context, content string) *Outcome {
	start := time.Now()
	o := newOutcome(h.newID())
	log := h.logger.WithFields(map[string]interface{}{"requestId": o.RequestID})

	o.advance(StateValidating)
	if stdErr := ValidateInput(content); stdErr != nil {
		o.advance(StateRejected)
		o.Message = MsgInputTooShort
		o.Error = stdErr
		log.Warn("input rejected", map[string]interface{}{
			"length":  stdErr.Metadata["length"],
			"minimum": MinContentLength,
		})
		return h.finish(ctx, o, start, log)
	}

	o.advance(StateSending)
	resp, err := h.send(ctx, content)
	if err != nil {
		o.advance(StateTransportError)
		o.Message = fmt.Sprintf(MsgConnectionError, err.Error())
		o.Hint = HintWorkflowReady
		o.Error = apperrors.NewWorkflowTransportError(h.config.WebhookURL, err)
		log.WithError(err).Error("workflow unreachable", map[string]interface{}{
			"endpoint": h.config.WebhookURL,
		})
		return h.finish(ctx, o, start, log)
	}

	o.StatusCode = resp.StatusCode
	metrics.WorkflowResponses.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		o.advance(StateServerError)
		o.Message = fmt.Sprintf(MsgServerError, resp.StatusCode)
		o.RawText = string(resp.Body)
		o.Error = apperrors.NewWorkflowServerError(resp.StatusCode, o.RawText)
		log.Error("workflow returned an error status", map[string]interface{}{
			"statusCode": resp.StatusCode,
			"bodyBytes":  len(resp.Body),
		})
		return h.finish(ctx, o, start, log)
	}

	if !IsJSON(resp.Body) {
		o.advance(StateFormatError)
		o.Message = MsgInvalidFormat
		o.RawText = string(resp.Body)
		o.Error = apperrors.NewWorkflowInvalidFormatError(o.RawText)
		log.Error("workflow response is not JSON", map[string]interface{}{
			"bodyBytes": len(resp.Body),
		})
		return h.finish(ctx, o, start, log)
	}

	o.advance(StateNormalizing)
	o.RawJSON = PrettyJSON(resp.Body)

	env := Normalize(resp.Body)
	o.Envelope = &env
	metrics.NormalizedEnvelopes.WithLabelValues(string(env.Kind), string(env.Source)).Inc()

	if missing := env.Result.Missing(); len(missing) > 0 {
		log.Debug("result fields defaulted", map[string]interface{}{
			"envelope": string(env.Kind),
			"source":   string(env.Source),
			"missing":  missing,
		})
	}

	view := Render(env.Result)
	o.View = &view
	o.Message = MsgCompleted
	o.advance(StateRendered)

	return h.finish(ctx, o, start, log)
}

func (h *Handler) send(ctx context.Context, content string) (*commonhttp.Response, error) {
	ctx, span := h.obs.StartSpan(ctx, "workflow.post",
		attribute.String("http.url", h.config.WebhookURL),
		attribute.Int("content.length", len(content)),
	)
	defer span.End()

	metrics.AnalysesInFlight.Inc()
	defer metrics.AnalysesInFlight.Dec()

	start := time.Now()
	resp, err := h.client.PostJSON(ctx, h.config.WebhookURL, AnalysisRequest{Content: content})
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.WorkflowDuration.WithLabelValues(string(StateTransportError)).Observe(elapsed.Seconds())
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	metrics.WorkflowDuration.WithLabelValues(strconv.Itoa(resp.StatusCode)).Observe(elapsed.Seconds())
	return resp, nil
}

func (h *Handler) finish(ctx context.Context, o *Outcome, start time.Time, log logger.Logger) *Outcome {
	elapsed := time.Since(start)
	o.DurationMs = elapsed.Milliseconds()

	metrics.AnalysesTotal.WithLabelValues(string(o.State)).Inc()
	h.obs.RecordAction(ctx, string(o.State))
	h.obs.RecordDuration(ctx, elapsed, string(o.State))

	log.Info("analysis finished", map[string]interface{}{
		"state":      string(o.State),
		"statusCode": o.StatusCode,
		"durationMs": o.DurationMs,
	})
	return o
}

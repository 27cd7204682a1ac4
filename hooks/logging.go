package hooks

import (
	"context"

	"github.com/kbukum/pipekit/logger"
)

// Logging is a Hooks implementation that writes every event to the
// structured logger.
type Logging struct {
	Base
	log *logger.Logger
}

// NewLogging builds a logging observer. A nil logger falls back to the
// global one.
func NewLogging(log *logger.Logger) *Logging {
	if log == nil {
		log = logger.Get("runner")
	}
	return &Logging{log: log}
}

func (l *Logging) BeforePipelineRun(_ context.Context, run RunInfo) {
	l.log.Info("pipeline run starting", logger.Fields(
		logger.FieldRunID, run.RunID,
		"nodes", run.NodeCount,
		logger.FieldWorkers, run.Workers,
	))
}

func (l *Logging) AfterPipelineRun(_ context.Context, run RunInfo, outputs map[string]any) {
	l.log.Info("pipeline run finished", logger.Fields(
		logger.FieldRunID, run.RunID,
		"outputs", len(outputs),
	))
}

func (l *Logging) BeforeNodeRun(_ context.Context, node NodeInfo) {
	l.log.Debug("running node", logger.Fields(
		logger.FieldRunID, node.RunID,
		logger.FieldNode, node.Node,
	))
}

func (l *Logging) AfterNodeRun(_ context.Context, node NodeInfo, _ map[string]any) {
	l.log.Debug("node completed", logger.Fields(
		logger.FieldRunID, node.RunID,
		logger.FieldNode, node.Node,
	))
}

func (l *Logging) OnNodeError(_ context.Context, node NodeInfo, err error) {
	l.log.Error("node failed", logger.Fields(
		logger.FieldRunID, node.RunID,
		logger.FieldNode, node.Node,
		logger.FieldError, err.Error(),
	))
}

func (l *Logging) AfterDatasetLoad(_ context.Context, name string, _ any) {
	l.log.Debug("dataset loaded", logger.Fields(logger.FieldDataset, name))
}

func (l *Logging) AfterDatasetSave(_ context.Context, name string, _ any) {
	l.log.Debug("dataset saved", logger.Fields(logger.FieldDataset, name))
}

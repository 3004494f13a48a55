package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/folio/pkg/observability"
)

// logHooks reports every observability event at debug level. It shares the
// CLI logger so a redirect to the log file covers hook output too.
type logHooks struct {
	logger *log.Logger
}

func registerHooks(logger *log.Logger) {
	h := &logHooks{logger: logger}
	observability.SetDiagramHooks(h)
	observability.SetRenderHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h *logHooks) OnRebuild(sceneID string, nodes, edges int, width, height float64) {
	h.logger.Debug("rebuild", "scene", sceneID, "nodes", nodes, "edges", edges, "width", width, "height", height)
}

func (h *logHooks) OnSettle(sceneID string, steps int) {
	h.logger.Debug("settled", "scene", sceneID, "steps", steps)
}

func (h *logHooks) OnDragStart(sceneID string, nodeID int) {
	h.logger.Debug("drag start", "scene", sceneID, "node", nodeID)
}

func (h *logHooks) OnDragEnd(sceneID string, nodeID int) {
	h.logger.Debug("drag end", "scene", sceneID, "node", nodeID)
}

func (h *logHooks) OnSettleStart(_ context.Context, nodeCount int) {
	h.logger.Debug("settle start", "nodes", nodeCount)
}

func (h *logHooks) OnSettleComplete(_ context.Context, steps int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("settle failed", "steps", steps, "duration", d, "error", err)
		return
	}
	h.logger.Debug("settle complete", "steps", steps, "duration", d)
}

func (h *logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "formats", formats, "duration", d, "error", err)
		return
	}
	h.logger.Debug("render complete", "formats", formats, "duration", d)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}

func (h *logHooks) OnThrottled(_ context.Context, method, path string) {
	h.logger.Warn("throttled", "method", method, "path", path)
}

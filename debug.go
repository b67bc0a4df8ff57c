package orrery

import (
	"time"

	"go.uber.org/zap"
)

// debugStats holds per-tick timing. Only populated when Engine.debug is true.
type debugStats struct {
	updateTime time.Duration
	cameraTime time.Duration
	nodeCount  int
}

// debugLog writes tick timing to the engine logger.
func (e *Engine) debugLog(stats debugStats) {
	if !e.debug {
		return
	}
	e.log.Debug("tick",
		zap.Duration("update", stats.updateTime),
		zap.Duration("camera", stats.cameraTime),
		zap.Duration("total", stats.updateTime+stats.cameraTime),
		zap.Int("nodes", stats.nodeCount))
}

// debugMaxTreeDepth is the depth past which attaching a child logs a warning.
const debugMaxTreeDepth = 32

func (e *Engine) debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		e.log.Warn("tree depth exceeds threshold",
			zapNode(n), zap.Int("depth", depth), zap.Int("threshold", debugMaxTreeDepth))
	}
}

// debugMaxChildCount is the child count past which a warning is logged.
const debugMaxChildCount = 1000

func (e *Engine) debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		e.log.Warn("node has many children",
			zapNode(n), zap.Int("children", len(n.children)), zap.Int("threshold", debugMaxChildCount))
	}
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/mbeier/famsync/internal/logger"
	"github.com/mbeier/famsync/internal/model"
)

// remoteGateway wraps the optional remote registry with the degrade policy
// shared by every service: probe availability before each call, bound each
// call with a timeout, and absorb every failure so callers only ever see a
// local-store fallback. A nil registry means the device runs offline.
type remoteGateway struct {
	registry model.RemoteRegistry
	timeout  time.Duration
	logger   *logger.Logger
}

func newRemoteGateway(registry model.RemoteRegistry, timeout time.Duration, logger *logger.Logger) remoteGateway {
	return remoteGateway{registry: registry, timeout: timeout, logger: logger}
}

func (g *remoteGateway) available(ctx context.Context) bool {
	if g.registry == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.registry.Available(ctx)
}

// readFamily returns the remote record for code, or false on miss or any
// transport failure. A timeout counts as the registry being unavailable.
func (g *remoteGateway) readFamily(ctx context.Context, code string) (model.FamilyProfile, bool) {
	if !g.available(ctx) {
		return model.FamilyProfile{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	family, err := g.registry.ReadFamily(ctx, code)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			g.logger.Debug("remote family read failed", "code", code, "error", err.Error())
		}
		return model.FamilyProfile{}, false
	}
	return family, true
}

func (g *remoteGateway) writeFamily(ctx context.Context, family model.FamilyProfile) {
	if !g.available(ctx) {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.registry.WriteFamily(ctx, family); err != nil {
		g.logger.Error("remote family write failed, record cached locally only",
			"code", family.Code,
			"error", err.Error())
	}
}

func (g *remoteGateway) writeMessage(ctx context.Context, code string, message model.ChatMessage) {
	if !g.available(ctx) {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.registry.WriteMessage(ctx, code, message); err != nil {
		g.logger.Error("remote message write failed, message cached locally only",
			"code", code,
			"message_id", message.ID,
			"error", err.Error())
	}
}

func (g *remoteGateway) readMessages(ctx context.Context, code string) ([]model.ChatMessage, bool) {
	if !g.available(ctx) {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	messages, err := g.registry.ReadMessages(ctx, code)
	if err != nil {
		g.logger.Debug("remote message read failed", "code", code, "error", err.Error())
		return nil, false
	}
	return messages, true
}

// Package docker starts a disposable headless-Chrome container and resolves
// its CDP WebSocket endpoint, shelling out to the docker CLI the way the
// project's example drivers do.
package docker

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperbrowserai/hyperagent-go/internal/browser/devtools"
	"github.com/hyperbrowserai/hyperagent-go/internal/config"
)

// commandRunner abstracts exec.CommandContext so tests can intercept the
// docker invocations.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s %s: %w (%s)", name, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return out, nil
}

// Bootstrap manages the lifecycle of one headless-Chrome container.
type Bootstrap struct {
	cfg         config.DockerConfig
	logger      *zap.Logger
	devtools    *devtools.Client
	run         commandRunner
	containerID string
}

// New creates a bootstrap for the given docker settings.
func New(cfg config.DockerConfig, logger *zap.Logger) *Bootstrap {
	log := logger.Named("docker")
	return &Bootstrap{
		cfg:      cfg,
		logger:   log,
		devtools: devtools.NewClient(log),
		run:      execRunner,
	}
}

// Start launches the container, waits for its DevTools interface to come up,
// and returns the externally reachable ws:// endpoint. On readiness failure
// the container is stopped before returning.
func (b *Bootstrap) Start(ctx context.Context) (string, error) {
	args := []string{"run", "-d", "--rm"}
	if b.cfg.ContainerName != "" {
		args = append(args, "--name", b.cfg.ContainerName)
	}
	args = append(args, "-p", fmt.Sprintf("%d:9222", b.cfg.Port), b.cfg.Image)

	out, err := b.run(ctx, "docker", args...)
	if err != nil {
		return "", fmt.Errorf("failed to start browser container: %w", err)
	}
	b.containerID = strings.TrimSpace(string(out))
	b.logger.Info("Browser container started",
		zap.String("image", b.cfg.Image),
		zap.String("container_id", shortID(b.containerID)))

	hostPort := fmt.Sprintf("127.0.0.1:%d", b.cfg.Port)
	version, err := b.devtools.WaitReady(ctx, "http://"+hostPort, b.cfg.StartupTimeout)
	if err != nil {
		b.stopAfterFailure(ctx)
		return "", err
	}

	if version.WebSocketDebuggerURL == "" {
		id := shortID(b.containerID)
		b.stopAfterFailure(ctx)
		return "", fmt.Errorf("container %s reported no webSocketDebuggerUrl", id)
	}

	// Chrome reports the in-container address; rewrite to the published port.
	endpoint := devtools.RewriteHost(version.WebSocketDebuggerURL, hostPort)
	b.logger.Debug("Browser container ready",
		zap.String("browser", version.Browser),
		zap.String("endpoint", endpoint))
	return endpoint, nil
}

// stopAfterFailure tears the container down when Start cannot hand it over to
// the caller; nobody else holds a reference to stop it later.
func (b *Bootstrap) stopAfterFailure(ctx context.Context) {
	if err := b.Stop(context.WithoutCancel(ctx)); err != nil {
		b.logger.Warn("Failed to stop container after startup failure", zap.Error(err))
	}
}

// Stop tears the container down. Safe to call when nothing was started.
func (b *Bootstrap) Stop(ctx context.Context) error {
	if b.containerID == "" {
		return nil
	}
	if _, err := b.run(ctx, "docker", "stop", b.containerID); err != nil {
		return fmt.Errorf("failed to stop browser container %s: %w", shortID(b.containerID), err)
	}
	b.logger.Info("Browser container stopped", zap.String("container_id", shortID(b.containerID)))
	b.containerID = ""
	return nil
}

// ContainerID returns the id of the running container, or "".
func (b *Bootstrap) ContainerID() string {
	return b.containerID
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

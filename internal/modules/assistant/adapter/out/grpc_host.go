package out

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	assistantrpc "blockgarden/internal/modules/assistant/adapter/out/rpc"
	"blockgarden/internal/modules/assistant/domain"
	assistantout "blockgarden/internal/modules/assistant/port/out"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 8 * time.Second
)

// GRPCHost launches the plugin binary for every call and kills it after.
type GRPCHost struct {
	logger hclog.Logger
}

func NewGRPCHost(logger hclog.Logger) assistantout.Host {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &GRPCHost{logger: logger}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return fmt.Errorf("get metadata: %w", err)
	}
	if meta.Name != manifest.Name {
		return fmt.Errorf("plugin reports name %q, manifest says %q", meta.Name, manifest.Name)
	}
	return nil
}

func (h *GRPCHost) Summarize(ctx context.Context, manifest domain.Manifest, req domain.SummaryRequest) (string, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return "", err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	resp, err := client.Summarize(callCtx, &assistantrpc.SummarizeRequest{Snippets: req.Snippets, Language: req.Language})
	if err != nil {
		return "", h.callError(callCtx, "summarize", err)
	}
	return resp.Text, nil
}

func (h *GRPCHost) Tip(ctx context.Context, manifest domain.Manifest, req domain.TipRequest) (string, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return "", err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	resp, err := client.Tip(callCtx, &assistantrpc.TipRequest{Stage: int32(req.Stage), StageName: req.StageName, Language: req.Language})
	if err != nil {
		return "", h.callError(callCtx, "tip", err)
	}
	return resp.Text, nil
}

func (h *GRPCHost) connect(manifest domain.Manifest) (assistantrpc.AssistantClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  assistantrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          assistantrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           h.logger.Named(manifest.Name),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start plugin client: %w", err)
	}
	raw, err := rpcClient.Dispense(assistantrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense plugin: %w", err)
	}
	typed, ok := raw.(assistantrpc.AssistantClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("plugin rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func (h *GRPCHost) callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, defaultCallTimeout)
}

func (h *GRPCHost) callError(ctx context.Context, call string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", domain.ErrPluginTimeout, call)
	}
	return fmt.Errorf("%s: %w", call, err)
}

// Command summarizer is the bundled assistant plugin. It answers without any
// network access: summaries rank activity titles by frequency and tips come
// from a fixed table per growth stage.
package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	assistantrpc "blockgarden/internal/modules/assistant/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

var tips = map[int32]string{
	0: "Every forest starts with one seed. Pick a single task and begin.",
	1: "Your sprout is up. Silence notifications and keep going.",
	2: "Halfway there. Take a breath, then return to the same task.",
	3: "Fully grown. Finish the thought before you stop.",
}

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *assistantrpc.Empty) (*assistantrpc.Metadata, error) {
	return &assistantrpc.Metadata{
		Name:         "summarizer",
		Version:      "1.0.0",
		Capabilities: []string{"summarize", "tip"},
	}, nil
}

func (s *server) Summarize(_ context.Context, in *assistantrpc.SummarizeRequest) (*assistantrpc.TextResponse, error) {
	counts := map[string]int{}
	order := []string{}
	for _, snippet := range in.Snippets {
		snippet = strings.TrimSpace(snippet)
		if snippet == "" {
			continue
		}
		if _, ok := counts[snippet]; !ok {
			order = append(order, snippet)
		}
		counts[snippet]++
	}
	if len(order) == 0 {
		return &assistantrpc.TextResponse{}, nil
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > 3 {
		order = order[:3]
	}
	return &assistantrpc.TextResponse{Text: fmt.Sprintf("Mostly focused on %s.", strings.Join(order, ", "))}, nil
}

func (s *server) Tip(_ context.Context, in *assistantrpc.TipRequest) (*assistantrpc.TextResponse, error) {
	tip, ok := tips[in.Stage]
	if !ok {
		return nil, fmt.Errorf("unknown stage: %d", in.Stage)
	}
	return &assistantrpc.TextResponse{Text: tip}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: assistantrpc.HandshakeConfig,
		Plugins:         assistantrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}

package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey      = "assistant"
	serviceName       = "blockgarden.assistant.v1.Assistant"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodSummarize   = "/" + serviceName + "/Summarize"
	methodTip         = "/" + serviceName + "/Tip"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "BLOCKGARDEN_ASSISTANT",
	MagicCookieValue: "blockgarden",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Capabilities []string `json:"capabilities"`
}

type SummarizeRequest struct {
	Snippets []string `json:"snippets"`
	Language string   `json:"language"`
}

type TipRequest struct {
	Stage     int32  `json:"stage"`
	StageName string `json:"stage_name"`
	Language  string `json:"language"`
}

type TextResponse struct {
	Text string `json:"text"`
}

type AssistantServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	Summarize(ctx context.Context, in *SummarizeRequest) (*TextResponse, error)
	Tip(ctx context.Context, in *TipRequest) (*TextResponse, error)
}

type AssistantClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	Summarize(ctx context.Context, in *SummarizeRequest) (*TextResponse, error)
	Tip(ctx context.Context, in *TipRequest) (*TextResponse, error)
}

type assistantClient struct {
	conn *grpc.ClientConn
}

func NewAssistantClient(conn *grpc.ClientConn) AssistantClient {
	return &assistantClient{conn: conn}
}

func (c *assistantClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *assistantClient) Summarize(ctx context.Context, in *SummarizeRequest) (*TextResponse, error) {
	out := &TextResponse{}
	if err := c.conn.Invoke(ctx, methodSummarize, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *assistantClient) Tip(ctx context.Context, in *TipRequest) (*TextResponse, error) {
	out := &TextResponse{}
	if err := c.conn.Invoke(ctx, methodTip, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

// unary adapts a typed handler to grpc.MethodDesc.
func unary[Req any, Resp any](fullMethod string, newReq func() *Req, call func(context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*Req)
			if !ok {
				return nil, fmt.Errorf("invalid request type")
			}
			return call(ctx, typed)
		}
		return interceptor(ctx, in, info, handler)
	}
}

func RegisterAssistantServer(server grpc.ServiceRegistrar, impl AssistantServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*AssistantServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler:    unary(methodGetMetadata, func() *Empty { return &Empty{} }, impl.GetMetadata),
			},
			{
				MethodName: "Summarize",
				Handler:    unary(methodSummarize, func() *SummarizeRequest { return &SummarizeRequest{} }, impl.Summarize),
			},
			{
				MethodName: "Tip",
				Handler:    unary(methodTip, func() *TipRequest { return &TipRequest{} }, impl.Tip),
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "assistant-rpc-v1",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl AssistantServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterAssistantServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewAssistantClient(conn), nil
}

func PluginMap(impl AssistantServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}

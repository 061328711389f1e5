// Dynamic gRPC service bridge, grounded on builtins_grpc.go's
// grpcServer/grpcRegister/grpcServe/grpcConnect/grpcInvoke, generalized
// away from Funxy's evaluator-bound RecordInstance/Map dispatch to a plain
// Go handler func so this package stays independent of internal/checker's
// and internal/codegen's own value representations. Streaming methods are
// skipped exactly as builtins_grpc.go's HandleUnary path does — unary RPCs
// are this worked example's whole point: demonstrating that a manifest-
// bound FFI function and a protoreflect-described gRPC method can both
// marshal through the same EncodeMessage/DecodeMessage pair in marshal.go.
package ffi

import (
	"context"
	"fmt"
	"net"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// UnaryHandler answers one RPC given its method name and decoded request
// fields, returning the response's fields.
type UnaryHandler func(ctx context.Context, method string, reqFields map[string]any) (map[string]any, error)

// NewServer returns a bare grpc.Server, ready for RegisterDynamicService.
func NewServer() *grpc.Server { return grpc.NewServer() }

// RegisterDynamicService installs every unary method of sd onto server,
// routing each call through handler. Client- and server-streaming methods
// are skipped (not marshalled by this worked example).
func RegisterDynamicService(server *grpc.Server, sd *desc.ServiceDescriptor, handler UnaryHandler) {
	svcDesc := &grpc.ServiceDesc{
		ServiceName: sd.GetFullyQualifiedName(),
		HandlerType: (*any)(nil),
		Metadata:    sd.GetFile().GetName(),
	}

	for _, method := range sd.GetMethods() {
		if method.IsClientStreaming() || method.IsServerStreaming() {
			continue
		}
		md := method
		svcDesc.Methods = append(svcDesc.Methods, grpc.MethodDesc{
			MethodName: md.GetName(),
			Handler: func(_ any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
				inMsg := dynamic.NewMessage(md.GetInputType())
				if err := dec(inMsg); err != nil {
					return nil, err
				}
				fields := messageToFields(inMsg)

				respFields, err := handler(ctx, md.GetName(), fields)
				if err != nil {
					return nil, err
				}
				outMsg := dynamic.NewMessage(md.GetOutputType())
				for name, val := range respFields {
					if err := outMsg.TrySetFieldByName(name, val); err != nil {
						return nil, fmt.Errorf("ffi: setting response field %q: %w", name, err)
					}
				}
				return outMsg, nil
			},
		})
	}

	server.RegisterService(svcDesc, nil)
}

// messageToFields reads every declared field off an already-unmarshalled
// dynamic message, the same shape DecodeMessage produces from raw bytes.
func messageToFields(msg *dynamic.Message) map[string]any {
	fields := msg.GetMessageDescriptor().GetFields()
	out := make(map[string]any, len(fields))
	for _, fd := range fields {
		out[fd.GetName()] = msg.GetFieldByName(fd.GetName())
	}
	return out
}

// Serve blocks accepting connections on addr, mirroring grpcServe.
func Serve(server *grpc.Server, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("ffi: listening on %s: %w", addr, err)
	}
	return server.Serve(lis)
}

// ServeAsync starts Serve in a background goroutine, mirroring
// grpcServeAsync. It returns the listener's bound address (so an addr of
// "127.0.0.1:0" can be dialed back by its OS-assigned port) and a channel
// that receives Serve's eventual error.
func ServeAsync(server *grpc.Server, addr string) (string, <-chan error, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("ffi: listening on %s: %w", addr, err)
	}
	done := make(chan error, 1)
	go func() { done <- server.Serve(lis) }()
	return lis.Addr().String(), done, nil
}

// Dial opens a plaintext client connection, mirroring grpcConnect (the
// evaluator's own worked example also skips TLS credentials).
func Dial(target string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("ffi: dialing %s: %w", target, err)
	}
	return conn, nil
}

// InvokeUnary calls one unary method over conn, marshalling reqFields into
// md's input type and the reply back out into a field map, mirroring
// grpcInvoke.
func InvokeUnary(ctx context.Context, conn *grpc.ClientConn, md *desc.MethodDescriptor, reqFields map[string]any) (map[string]any, error) {
	req := dynamic.NewMessage(md.GetInputType())
	for name, val := range reqFields {
		if err := req.TrySetFieldByName(name, val); err != nil {
			return nil, fmt.Errorf("ffi: setting request field %q: %w", name, err)
		}
	}
	reply := dynamic.NewMessage(md.GetOutputType())
	fullMethod := fmt.Sprintf("/%s/%s", md.GetService().GetFullyQualifiedName(), md.GetName())
	if err := conn.Invoke(ctx, fullMethod, req, reply); err != nil {
		return nil, fmt.Errorf("ffi: invoking %s: %w", fullMethod, err)
	}
	return messageToFields(reply), nil
}

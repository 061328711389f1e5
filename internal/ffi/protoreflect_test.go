package ffi

import (
	"context"
	"testing"
	"time"

	"github.com/seqlang/seq/internal/symbols"
	"github.com/seqlang/seq/internal/types"
)

const chatProto = `
syntax = "proto3";
package chatpb;

message Envelope {
  string body = 1;
  int32 seq = 2;
}

service Chat {
  rpc Send(Envelope) returns (Envelope);
}
`

func TestEncodeDecodeMessage_RoundTrip(t *testing.T) {
	fd, err := ParseProtoSource("chat.proto", chatProto)
	if err != nil {
		t.Fatalf("ParseProtoSource: %v", err)
	}
	md, err := LoadMessage(fd, "chatpb.Envelope")
	if err != nil {
		t.Fatalf("LoadMessage: %v", err)
	}

	wire, err := EncodeMessage(md, map[string]any{"body": "hello", "seq": int32(7)})
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}

	fields, err := DecodeMessage(md, wire)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if fields["body"] != "hello" {
		t.Errorf("body = %v, want hello", fields["body"])
	}
	if fields["seq"] != int32(7) {
		t.Errorf("seq = %v, want 7", fields["seq"])
	}
}

func TestGrpcBridge_UnaryRoundTrip(t *testing.T) {
	fd, err := ParseProtoSource("chat.proto", chatProto)
	if err != nil {
		t.Fatalf("ParseProtoSource: %v", err)
	}
	sd := fd.FindService("chatpb.Chat")
	if sd == nil {
		t.Fatal("service chatpb.Chat not found")
	}
	md := sd.FindMethodByName("Send")
	if md == nil {
		t.Fatal("method Send not found")
	}

	server := NewServer()
	RegisterDynamicService(server, sd, func(_ context.Context, method string, req map[string]any) (map[string]any, error) {
		if method != "Send" {
			t.Errorf("unexpected method %q", method)
		}
		return map[string]any{"body": "echo: " + req["body"].(string), "seq": req["seq"]}, nil
	})

	addr, done, err := ServeAsync(server, "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ServeAsync: %v", err)
	}
	defer server.GracefulStop()
	go func() {
		if err := <-done; err != nil {
			t.Logf("server exited: %v", err)
		}
	}()

	conn, err := Dial(addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := InvokeUnary(ctx, conn, md, map[string]any{"body": "hi", "seq": int32(3)})
	if err != nil {
		t.Fatalf("InvokeUnary: %v", err)
	}
	if resp["body"] != "echo: hi" {
		t.Errorf("body = %v, want %q", resp["body"], "echo: hi")
	}
	if resp["seq"] != int32(3) {
		t.Errorf("seq = %v, want 3", resp["seq"])
	}
}

func TestManifest_LoadsGrpcExample(t *testing.T) {
	m, err := Load("examples/grpc.toml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Link != "chatproto" {
		t.Errorf("Link = %q, want chatproto", m.Link)
	}
	if len(m.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(m.Functions))
	}

	table := symbols.NewTable()
	if err := m.Register(table); err != nil {
		t.Fatalf("Register: %v", err)
	}

	decode, ok := table.LookupWord("chat.decode-envelope")
	if !ok {
		t.Fatal("chat.decode-envelope not registered")
	}
	// The by_ref Int arg must not be consumed as an input (Open Question
	// decision #4): only the String payload is popped, and only the row
	// variable sits beneath it.
	in, ok := decode.Effect.Inputs.(types.SCons)
	if !ok {
		t.Fatalf("Inputs = %#v, want a single SCons", decode.Effect.Inputs)
	}
	if _, baseOK := in.Rest.(types.SRowVar); !baseOK {
		t.Errorf("Inputs has more than one popped argument: %#v", in.Rest)
	}
	if con, ok := in.Top.(types.Con); !ok || con.Name != "String" {
		t.Errorf("Inputs.Top = %#v, want String", in.Top)
	}

	// Outputs: the by_ref Int sits on top of the declared String return.
	outTop, ok := decode.Effect.Outputs.(types.SCons)
	if !ok {
		t.Fatalf("Outputs = %#v, want a two-deep SCons", decode.Effect.Outputs)
	}
	if con, ok := outTop.Top.(types.Con); !ok || con.Name != "Int" {
		t.Errorf("Outputs.Top = %#v, want Int", outTop.Top)
	}
	inner, ok := outTop.Rest.(types.SCons)
	if !ok {
		t.Fatalf("Outputs.Rest = %#v, want another SCons", outTop.Rest)
	}
	if con, ok := inner.Top.(types.Con); !ok || con.Name != "String" {
		t.Errorf("Outputs.Rest.Top = %#v, want String", inner.Top)
	}
}

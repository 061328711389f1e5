// Protobuf marshalling on top of the TOML manifest loader above
// (SPEC_FULL.md DOMAIN STACK: the FFI manifest consumer's worked example
// against "a small protoreflect-described service"). An FFI-declared C
// function can only exchange the five primitive Seq types manifest.go's
// typeFromName recognizes, so a byte-string argument marshalled with
// EncodeMessage/DecodeMessage is how a manifest-bound function crosses a
// protobuf wire format — the same dynamic-message technique
// builtins_grpc.go's protoEncode/protoDecode use, generalized away from a
// *desc.FileDescriptor the evaluator loaded from a real .proto file on disk
// to one parsed from any source (on disk or in memory).
package ffi

import (
	"fmt"
	"io"
	"strings"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
)

// ParseProtoSource compiles an in-memory .proto source (keyed by a virtual
// filename protoparse's error messages reference) into its file descriptor.
func ParseProtoSource(filename, source string) (*desc.FileDescriptor, error) {
	parser := protoparse.Parser{
		Accessor: func(name string) (io.ReadCloser, error) {
			if name != filename {
				return nil, fmt.Errorf("ffi: unknown proto import %q", name)
			}
			return io.NopCloser(strings.NewReader(source)), nil
		},
	}
	fds, err := parser.ParseFiles(filename)
	if err != nil {
		return nil, fmt.Errorf("ffi: parsing proto %s: %w", filename, err)
	}
	return fds[0], nil
}

// ParseProtoFile compiles a .proto file from disk, for manifests that name
// a real schema file rather than an embedded one.
func ParseProtoFile(path string) (*desc.FileDescriptor, error) {
	parser := protoparse.Parser{ImportPaths: []string{"."}}
	fds, err := parser.ParseFiles(path)
	if err != nil {
		return nil, fmt.Errorf("ffi: parsing proto %s: %w", path, err)
	}
	return fds[0], nil
}

// LoadMessage resolves one message type by its (possibly package-qualified)
// name within fd.
func LoadMessage(fd *desc.FileDescriptor, name string) (*desc.MessageDescriptor, error) {
	md := fd.FindMessage(name)
	if md == nil {
		return nil, fmt.Errorf("ffi: message %q not found in %s", name, fd.GetName())
	}
	return md, nil
}

// EncodeMessage builds a dynamic message from fields (keyed by proto field
// name) and marshals it to wire bytes, mirroring builtins_grpc.go's
// protoEncode/objectToDynamicMessage.
func EncodeMessage(md *desc.MessageDescriptor, fields map[string]any) ([]byte, error) {
	msg := dynamic.NewMessage(md)
	for name, val := range fields {
		if err := msg.TrySetFieldByName(name, val); err != nil {
			return nil, fmt.Errorf("ffi: setting field %q on %s: %w", name, md.GetName(), err)
		}
	}
	return msg.Marshal()
}

// DecodeMessage is EncodeMessage's inverse, mirroring protoDecode's
// dynamic-message unmarshal into a field-name-keyed map.
func DecodeMessage(md *desc.MessageDescriptor, data []byte) (map[string]any, error) {
	msg := dynamic.NewMessage(md)
	if err := msg.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("ffi: unmarshalling %s: %w", md.GetName(), err)
	}
	out := make(map[string]any, len(md.GetFields()))
	for _, fd := range md.GetFields() {
		out[fd.GetName()] = msg.GetFieldByName(fd.GetName())
	}
	return out, nil
}

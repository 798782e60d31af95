package protobridge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleProto = `syntax = "proto3";
package sample;

message User {
  string name = 1;
  int32 age = 2;
  repeated string tags = 3;
}

enum Status {
  ACTIVE = 0;
  INACTIVE = 1;
}
`

func writeProto(t *testing.T) (dir, file string) {
	t.Helper()
	dir = t.TempDir()
	file = "user.proto"
	if err := os.WriteFile(filepath.Join(dir, file), []byte(sampleProto), 0o644); err != nil {
		t.Fatalf("write proto: %v", err)
	}
	return dir, file
}

func TestLoadDescriptorsParsesMessagesAndEnums(t *testing.T) {
	dir, file := writeProto(t)
	fds, err := LoadDescriptors([]string{dir}, file)
	if err != nil {
		t.Fatalf("LoadDescriptors: %v", err)
	}
	if len(fds) != 1 {
		t.Fatalf("expected 1 file descriptor, got %d", len(fds))
	}
	fd := fds[0]
	if len(fd.GetMessageTypes()) != 1 || fd.GetMessageTypes()[0].GetName() != "User" {
		t.Fatalf("expected a single User message, got %+v", fd.GetMessageTypes())
	}
	if len(fd.GetEnumTypes()) != 1 || fd.GetEnumTypes()[0].GetName() != "Status" {
		t.Fatalf("expected a single Status enum, got %+v", fd.GetEnumTypes())
	}
}

func TestDeclareFileRendersInterfaceAndEnum(t *testing.T) {
	dir, file := writeProto(t)
	fds, err := LoadDescriptors([]string{dir}, file)
	if err != nil {
		t.Fatalf("LoadDescriptors: %v", err)
	}

	out := DeclareFile(fds[0])
	if !strings.Contains(out, "declare interface User {") {
		t.Fatalf("expected a User interface declaration, got:\n%s", out)
	}
	if !strings.Contains(out, "name: string;") {
		t.Fatalf("expected a string name field, got:\n%s", out)
	}
	if !strings.Contains(out, "age: number;") {
		t.Fatalf("expected a number age field, got:\n%s", out)
	}
	if !strings.Contains(out, "tags: string[];") {
		t.Fatalf("expected a repeated string[] tags field, got:\n%s", out)
	}
	if !strings.Contains(out, "declare const enum Status {") {
		t.Fatalf("expected a Status enum declaration, got:\n%s", out)
	}
	if !strings.Contains(out, "ACTIVE = 0,") {
		t.Fatalf("expected ACTIVE = 0, got:\n%s", out)
	}
}
